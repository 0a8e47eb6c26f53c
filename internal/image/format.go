package image

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the container a disk image is stored in.
type Format int

const (
	Auto Format = iota
	Raw
	Gzip
	Zlib
	Bzip2
	Zstd
	Snappy
	S2
	Zip
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

var formatNames = map[Format]string{
	Auto:   "auto",
	Raw:    "raw",
	Gzip:   "gzip",
	Zlib:   "zlib",
	Bzip2:  "bzip2",
	Zstd:   "zstd",
	Snappy: "snappy",
	S2:     "s2",
	Zip:    "zip",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Compressed reports whether the image must be decompressed to be read.
func (f Format) Compressed() bool {
	return f != Raw && f != Auto
}

// ParseFormat parses a format name as accepted by the --format flag.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Auto, nil
	}
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return Auto, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Magic numbers of the containers, as written at offset 0.
var (
	gzipMagic   = []byte{0x1F, 0x8B}
	bzip2Magic  = []byte("BZh")
	zstdMagic   = []byte{0x28, 0xB5, 0x2F, 0xFD}
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
	s2Magic     = []byte("\xff\x06\x00\x00S2sTwO")
	zipMagic    = []byte("PK\x03\x04")
)

// HeaderSize is the number of leading bytes Detect needs.
const HeaderSize = 10

// Detect guesses the format of an image from its first bytes.
// zlib streams have no reliable magic number, so they are recognized by
// the file extension only.
func Detect(header []byte, name string) Format {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return Gzip
	case bytes.HasPrefix(header, zstdMagic):
		return Zstd
	case bytes.HasPrefix(header, snappyMagic):
		return Snappy
	case bytes.HasPrefix(header, s2Magic):
		return S2
	case bytes.HasPrefix(header, zipMagic):
		return Zip
	case bytes.HasPrefix(header, bzip2Magic) && len(header) > 3 && header[3] >= '1' && header[3] <= '9':
		return Bzip2
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".zlib", ".zz":
		return Zlib
	}
	return Raw
}
