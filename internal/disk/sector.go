package disk

import (
	"errors"
	"fmt"
	"io"
)

const DefaultSectorSize = 512

// ReadBootSector reads the MBR sector from LBA 0 of r.
// A short read is not an error: the truncated buffer is returned as is, and
// DecodeMBR reports its actual length.
func ReadBootSector(r io.ReaderAt) ([]byte, error) {
	buf := make([]byte, MBRSize)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read boot sector: %w", err)
	}
	return buf[:n], nil
}

// ReadBootSectorFrom is like ReadBootSector for sources that can only be read
// sequentially, such as decompression streams.
func ReadBootSectorFrom(r io.Reader) ([]byte, error) {
	buf := make([]byte, MBRSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read boot sector: %w", err)
	}
	return buf[:n], nil
}

// ValidSectorSize reports whether size is a plausible logical sector size:
// a power of two between 512 and 4096 bytes.
func ValidSectorSize(size uint32) bool {
	return size >= DefaultSectorSize && size <= 4096 && size&(size-1) == 0
}
