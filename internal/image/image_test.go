package image_test

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/ostafen/mbrscope/internal/disk"
	"github.com/ostafen/mbrscope/internal/image"
	"github.com/stretchr/testify/require"
)

// diskImage returns a small disk with a Linux partition at LBA 2048.
func diskImage() []byte {
	data := make([]byte, 64*disk.MBRSize)
	data[0], data[1] = 0xEB, 0x63
	off := disk.PartitionTableOffset
	data[off+4] = 0x83
	binary.LittleEndian.PutUint32(data[off+8:], 2048)
	data[510], data[511] = 0x55, 0xAA
	return data
}

func compress(t *testing.T, format image.Format, data []byte) []byte {
	var buf bytes.Buffer

	var w io.WriteCloser
	var err error
	switch format {
	case image.Raw:
		return data
	case image.Gzip:
		w = gzip.NewWriter(&buf)
	case image.Zlib:
		w = zlib.NewWriter(&buf)
	case image.Bzip2:
		w, err = bzip2.NewWriter(&buf, &bzip2.WriterConfig{})
	case image.Zstd:
		w, err = zstd.NewWriter(&buf)
	case image.Snappy:
		w = snappy.NewBufferedWriter(&buf)
	case image.S2:
		w = s2.NewWriter(&buf)
	case image.Zip:
		zw := zip.NewWriter(&buf)
		entry, err := zw.Create("compressedData")
		require.NoError(t, err)
		_, err = entry.Write(data)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		return buf.Bytes()
	}
	require.NoError(t, err)

	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeImage(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestSource_ReadBootSector(t *testing.T) {
	tests := []struct {
		format image.Format
		name   string
	}{
		{image.Raw, "disk.img"},
		{image.Gzip, "disk.img.gz"},
		{image.Zlib, "disk.img.zlib"},
		{image.Bzip2, "disk.img.bz2"},
		{image.Zstd, "disk.img.zst"},
		{image.Snappy, "disk.img.snappy"},
		{image.S2, "disk.img.s2"},
		{image.Zip, "disk.img.zip"},
	}

	raw := diskImage()
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			path := writeImage(t, tt.name, compress(t, tt.format, raw))

			src, err := image.Open(path)
			require.NoError(t, err)
			defer src.Close()

			require.Equal(t, tt.format, src.Format())
			require.Equal(t, path, src.Path())

			sector, err := src.ReadBootSector()
			require.NoError(t, err)
			require.Equal(t, raw[:disk.MBRSize], sector)

			mbr, err := disk.DecodeMBR(sector)
			require.NoError(t, err)
			require.Equal(t, disk.PartitionEntry{TypeCode: disk.PartitionTypeLinux, LBABegin: 2048}, mbr.Partitions[0])
		})
	}
}

func TestSource_TruncatedImage(t *testing.T) {
	raw := diskImage()[:300]

	for _, format := range []image.Format{image.Raw, image.Gzip, image.Zstd} {
		path := writeImage(t, "short.img", compress(t, format, raw))

		src, err := image.Open(path)
		require.NoError(t, err)

		sector, err := src.ReadBootSector()
		require.NoError(t, err)
		require.Len(t, sector, 300)
		require.NoError(t, src.Close())

		_, err = disk.DecodeMBR(sector)
		require.ErrorIs(t, err, disk.ErrInvalidSize)
	}
}

func TestSource_ForcedFormat(t *testing.T) {
	raw := diskImage()
	path := writeImage(t, "disk.bin", compress(t, image.Zlib, raw))

	src, err := image.Open(path)
	require.NoError(t, err)
	require.Equal(t, image.Raw, src.Format())
	require.NoError(t, src.Close())

	src, err = image.OpenFormat(path, image.Zlib)
	require.NoError(t, err)
	defer src.Close()

	sector, err := src.ReadBootSector()
	require.NoError(t, err)
	require.Equal(t, raw[:disk.MBRSize], sector)
}

func TestSource_CorruptStream(t *testing.T) {
	path := writeImage(t, "disk.img.gz", []byte{0x1F, 0x8B, 0x00, 0x01, 0x02})

	src, err := image.Open(path)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.ReadBootSector()
	require.Error(t, err)
}

func TestSource_EmptyZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("dir/")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	src, err := image.Open(writeImage(t, "empty.zip", buf.Bytes()))
	require.NoError(t, err)
	defer src.Close()

	_, err = src.ReadBootSector()
	require.ErrorIs(t, err, image.ErrEmptyArchive)
}

func TestOpen_Missing(t *testing.T) {
	_, err := image.Open(filepath.Join(t.TempDir(), "missing.img"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
