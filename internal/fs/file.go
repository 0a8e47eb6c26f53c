package fs

import (
	"io"
	"os"
)

// File is a disk, a volume or an image file opened for reading.
type File interface {
	io.ReadCloser
	io.ReaderAt
	Stat() (os.FileInfo, error)
}

// Size returns the size in bytes of f, or 0 when it cannot be determined.
func Size(f File) int64 {
	finfo, err := f.Stat()
	if err != nil {
		return 0
	}
	return finfo.Size()
}
