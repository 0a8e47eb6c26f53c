package disk_test

import (
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/ostafen/mbrscope/internal/disk"
	"github.com/stretchr/testify/require"
)

func emptySector() []byte {
	data := make([]byte, disk.MBRSize)
	data[510] = 0x55
	data[511] = 0xAA
	return data
}

func setEntry(data []byte, slot int, typeCode byte, lba uint32) {
	off := disk.PartitionTableOffset + slot*disk.PartitionEntrySize
	data[off+4] = typeCode
	binary.LittleEndian.PutUint32(data[off+8:off+12], lba)
}

func TestDecodeMBR_EmptyTable(t *testing.T) {
	mbr, err := disk.DecodeMBR(emptySector())
	require.NoError(t, err)

	require.Equal(t, [disk.BootCodeSize]byte{}, mbr.BootCode)
	require.Len(t, mbr.Partitions, 4)
	for _, p := range mbr.Partitions {
		require.Equal(t, disk.PartitionEntry{TypeCode: 0, LBABegin: 0}, p)
		require.True(t, p.IsEmpty())
	}
	require.Empty(t, mbr.UsedPartitions(disk.DefaultSectorSize))
}

func TestDecodeMBR_InvalidSize(t *testing.T) {
	for _, size := range []int{0, 1, 446, 511, 513, 1024, 4096} {
		_, err := disk.DecodeMBR(make([]byte, size))
		require.Error(t, err)
		require.ErrorIs(t, err, disk.ErrInvalidSize)
		require.NotErrorIs(t, err, disk.ErrInvalidSignature)

		var sizeErr *disk.InvalidSizeError
		require.True(t, errors.As(err, &sizeErr))
		require.Equal(t, size, sizeErr.Size)
	}
}

func TestDecodeMBR_NilInput(t *testing.T) {
	_, err := disk.DecodeMBR(nil)

	var sizeErr *disk.InvalidSizeError
	require.ErrorAs(t, err, &sizeErr)
	require.Equal(t, 0, sizeErr.Size)
}

func TestDecodeMBR_SizeCheckedBeforeSignature(t *testing.T) {
	data := append(emptySector(), 0x00)
	data[511], data[512] = 0x55, 0xAA

	_, err := disk.DecodeMBR(data)
	require.ErrorIs(t, err, disk.ErrInvalidSize)
}

func TestDecodeMBR_InvalidSignature(t *testing.T) {
	tests := []struct {
		name string
		sig  [2]byte
	}{
		{"swapped", [2]byte{0xAA, 0x55}},
		{"zero", [2]byte{0x00, 0x00}},
		{"first byte only", [2]byte{0x55, 0x00}},
		{"second byte only", [2]byte{0x00, 0xAA}},
		{"all ones", [2]byte{0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := emptySector()
			setEntry(data, 0, 0x83, 2048)
			data[510], data[511] = tt.sig[0], tt.sig[1]

			mbr, err := disk.DecodeMBR(data)
			require.Nil(t, mbr)
			require.ErrorIs(t, err, disk.ErrInvalidSignature)
			require.NotErrorIs(t, err, disk.ErrInvalidSize)
		})
	}
}

func TestDecodeMBR_PartitionEntry(t *testing.T) {
	data := emptySector()
	off := disk.PartitionTableOffset
	data[off+4] = 0x83
	copy(data[off+8:off+12], []byte{0x00, 0x08, 0x00, 0x00})

	mbr, err := disk.DecodeMBR(data)
	require.NoError(t, err)

	require.Equal(t, disk.PartitionTypeLinux, mbr.Partitions[0].TypeCode)
	require.Equal(t, uint32(2048), mbr.Partitions[0].LBABegin)
	require.Equal(t, uint64(2048*512), mbr.Partitions[0].Offset(disk.DefaultSectorSize))
}

func TestDecodeMBR_SlotOrder(t *testing.T) {
	data := emptySector()
	setEntry(data, 0, 0x07, 2048)
	setEntry(data, 1, 0x00, 0)
	setEntry(data, 2, 0x82, 1<<20)
	setEntry(data, 3, 0xDA, 0xFFFFFFFF)

	mbr, err := disk.DecodeMBR(data)
	require.NoError(t, err)

	require.Equal(t, [4]disk.PartitionEntry{
		{TypeCode: 0x07, LBABegin: 2048},
		{TypeCode: 0x00, LBABegin: 0},
		{TypeCode: 0x82, LBABegin: 1 << 20},
		{TypeCode: 0xDA, LBABegin: 0xFFFFFFFF},
	}, mbr.Partitions)

	used := mbr.UsedPartitions(4096)
	require.Len(t, used, 3)
	require.Equal(t, []int{0, 2, 3}, []int{used[0].Slot, used[1].Slot, used[2].Slot})
	require.Equal(t, uint64(0xFFFFFFFF)*4096, used[2].Offset)
	require.Equal(t, "Unknown", used[2].Type.String())

	require.Contains(t, mbr.String(), "Partition 2: type=0x82 (Linux swap) lba=1048576")
}

func TestDecodeMBR_IgnoresOtherEntryFields(t *testing.T) {
	data := emptySector()
	off := disk.PartitionTableOffset + disk.PartitionEntrySize
	for i := 0; i < disk.PartitionEntrySize; i++ {
		data[off+i] = 0xFF
	}
	data[off+4] = 0x0C
	binary.LittleEndian.PutUint32(data[off+8:off+12], 63)

	mbr, err := disk.DecodeMBR(data)
	require.NoError(t, err)
	require.Equal(t, disk.PartitionEntry{TypeCode: disk.PartitionTypeFAT32LBA, LBABegin: 63}, mbr.Partitions[1])
}

func TestDecodeMBR_BootCodeVerbatim(t *testing.T) {
	data := emptySector()
	for i := 0; i < disk.BootCodeSize; i++ {
		data[i] = byte(i * 7)
	}

	mbr, err := disk.DecodeMBR(data)
	require.NoError(t, err)
	require.Equal(t, data[:disk.BootCodeSize], mbr.BootCode[:])

	// the result must not alias the input
	data[0] ^= 0xFF
	require.NotEqual(t, data[0], mbr.BootCode[0])
}

func TestDecodeMBR_Deterministic(t *testing.T) {
	data := emptySector()
	setEntry(data, 0, 0xEE, 1)
	copy(data, []byte{0xEB, 0x63, 0x90})

	first, err := disk.DecodeMBR(data)
	require.NoError(t, err)
	require.True(t, first.IsProtective())

	var wg sync.WaitGroup
	results := make([]*disk.MasterBootRecord, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mbr, err := disk.DecodeMBR(data)
			if err == nil {
				results[i] = mbr
			}
		}(i)
	}
	wg.Wait()

	for _, mbr := range results {
		require.Equal(t, first, mbr)
	}
}

func TestPartitionType(t *testing.T) {
	require.Equal(t, "Linux filesystem", disk.PartitionType(0x83).String())
	require.Equal(t, "NTFS/HPFS/exFAT", disk.PartitionType(0x07).String())
	require.Equal(t, "Unknown", disk.PartitionType(0xDA).String())
	require.False(t, disk.PartitionType(0xDA).Known())
	require.True(t, disk.PartitionTypeExtendedLBA.IsExtended())
	require.False(t, disk.PartitionTypeLinux.IsExtended())

	types := disk.KnownPartitionTypes()
	require.NotEmpty(t, types)
	require.Equal(t, disk.PartitionTypeEmpty, types[0])
	for i := 1; i < len(types); i++ {
		require.Less(t, types[i-1], types[i])
	}
}
