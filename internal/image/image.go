// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package image

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/ostafen/mbrscope/internal/disk"
	"github.com/ostafen/mbrscope/internal/fs"
)

var ErrEmptyArchive = errors.New("archive contains no file")

// Source is a disk, a raw image or a compressed image to read the MBR from.
type Source struct {
	path   string
	file   fs.File
	format Format
}

// Open opens path and detects its format.
func Open(path string) (*Source, error) {
	return OpenFormat(path, Auto)
}

// OpenFormat opens path assuming the given format; Auto detects it.
func OpenFormat(path string, format Format) (*Source, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}

	if format == Auto {
		var header [HeaderSize]byte
		n, err := f.ReadAt(header[:], 0)
		if err != nil && !errors.Is(err, io.EOF) {
			f.Close()
			return nil, fmt.Errorf("failed to read header of %q: %w", path, err)
		}
		format = Detect(header[:n], path)
	}

	return &Source{
		path:   path,
		file:   f,
		format: format,
	}, nil
}

func (s *Source) Path() string   { return s.path }
func (s *Source) Format() Format { return s.format }

// Size returns the size of the underlying file, compressed or not.
func (s *Source) Size() int64 {
	return fs.Size(s.file)
}

// ReadBootSector returns the first sector of the disk stored in the source.
// For compressed images only the beginning of the stream is decompressed.
func (s *Source) ReadBootSector() ([]byte, error) {
	if s.format == Raw {
		return disk.ReadBootSector(s.file)
	}

	if s.format == Zip {
		return s.readZipBootSector()
	}

	stream := io.NewSectionReader(s.file, 0, math.MaxInt64)

	r, err := newDecompressor(s.format, stream)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s stream: %w", s.format, err)
	}
	defer r.Close()

	return disk.ReadBootSectorFrom(r)
}

func (s *Source) readZipBootSector() ([]byte, error) {
	zr, err := zip.NewReader(s.file, s.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		r, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open zip entry %q: %w", entry.Name, err)
		}
		defer r.Close()

		return disk.ReadBootSectorFrom(r)
	}
	return nil, ErrEmptyArchive
}

func (s *Source) Close() error {
	return s.file.Close()
}

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func newDecompressor(format Format, r io.Reader) (io.ReadCloser, error) {
	switch format {
	case Gzip:
		return gzip.NewReader(r)
	case Zlib:
		return zlib.NewReader(r)
	case Bzip2:
		return bzip2.NewReader(r, &bzip2.ReaderConfig{})
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return zstdCloser{dec}, nil
	case Snappy:
		return nopCloser{snappy.NewReader(r)}, nil
	case S2:
		return nopCloser{s2.NewReader(r)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
