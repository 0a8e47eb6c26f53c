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
package disk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Layout of the Master Boot Record, in bytes from the start of LBA 0.
const (
	MBRSize = 512

	BootCodeOffset = 0x000
	BootCodeSize   = 446

	PartitionTableOffset = 0x1BE
	PartitionEntrySize   = 16
	PartitionEntries     = 4

	SignatureOffset = 0x1FE
)

// Offsets inside a single 16-byte partition entry.
const (
	entryTypeOffset     = 0x04
	entryStartLBAOffset = 0x08
)

// BootSignature is the two-byte marker closing every valid MBR.
var BootSignature = [2]byte{0x55, 0xAA}

var (
	ErrInvalidSize      = errors.New("invalid MBR size")
	ErrInvalidSignature = errors.New("invalid MBR signature")
)

// InvalidSizeError is returned when the buffer handed to DecodeMBR is not
// exactly one 512-byte sector.
type InvalidSizeError struct {
	Size int
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("%s: expected %d bytes, got %d bytes (was the sector read from LBA 0?)",
		ErrInvalidSize, MBRSize, e.Size)
}

func (e *InvalidSizeError) Is(target error) bool {
	return target == ErrInvalidSize
}

// PartitionEntry is one slot of the primary partition table.
// Only the partition type and the starting LBA are decoded: the boot flag,
// the CHS addresses and the sector count are ignored.
type PartitionEntry struct {
	TypeCode PartitionType // 0x04: partition type ID (0x00 for an unused slot)
	LBABegin uint32        // 0x08: starting Logical Block Address, little-endian on disk
}

// IsEmpty reports whether the slot is unused.
func (p PartitionEntry) IsEmpty() bool {
	return p.TypeCode == PartitionTypeEmpty
}

// Offset returns the byte offset of the partition from the start of the disk.
func (p PartitionEntry) Offset(sectorSize uint32) uint64 {
	return uint64(p.LBABegin) * uint64(sectorSize)
}

func (p PartitionEntry) String() string {
	return fmt.Sprintf("type=0x%02X (%s) lba=%d", uint8(p.TypeCode), p.TypeCode, p.LBABegin)
}

// MasterBootRecord is the decoded content of LBA 0.
type MasterBootRecord struct {
	BootCode   [BootCodeSize]byte               // 0x000-0x1BD: bootstrap code and disk signature, undecoded
	Partitions [PartitionEntries]PartitionEntry // 0x1BE-0x1FD: slots in physical order
}

// IsProtective reports whether one of the slots carries the GPT protective type.
func (m *MasterBootRecord) IsProtective() bool {
	for _, p := range m.Partitions {
		if p.TypeCode == PartitionTypeGPT {
			return true
		}
	}
	return false
}

// UsedPartitions returns the non-empty slots, keeping their slot numbers.
func (m *MasterBootRecord) UsedPartitions(sectorSize uint32) []Partition {
	partitions := make([]Partition, 0, PartitionEntries)
	for slot, p := range m.Partitions {
		if p.IsEmpty() {
			continue
		}
		partitions = append(partitions, Partition{
			Slot:     slot,
			Type:     p.TypeCode,
			StartLBA: p.LBABegin,
			Offset:   p.Offset(sectorSize),
		})
	}
	return partitions
}

func (m *MasterBootRecord) String() string {
	var sb strings.Builder
	sb.WriteString("--- Master Boot Record (MBR) ---\n")
	for i, p := range m.Partitions {
		fmt.Fprintf(&sb, "Partition %d: %s\n", i, p)
	}
	return sb.String()
}

// DecodeMBR decodes a 512-byte sector read from LBA 0.
// The size is checked before the signature, and no field is read until both
// checks pass.
func DecodeMBR(data []byte) (*MasterBootRecord, error) {
	if len(data) != MBRSize {
		return nil, &InvalidSizeError{Size: len(data)}
	}

	if data[SignatureOffset] != BootSignature[0] || data[SignatureOffset+1] != BootSignature[1] {
		return nil, fmt.Errorf("%w: expected 0x%02X 0x%02X, got 0x%02X 0x%02X",
			ErrInvalidSignature,
			BootSignature[0], BootSignature[1],
			data[SignatureOffset], data[SignatureOffset+1])
	}

	var mbr MasterBootRecord
	copy(mbr.BootCode[:], data[BootCodeOffset:BootCodeOffset+BootCodeSize])

	for i := range mbr.Partitions {
		off := PartitionTableOffset + i*PartitionEntrySize
		mbr.Partitions[i] = decodePartitionEntry(data[off : off+PartitionEntrySize])
	}
	return &mbr, nil
}

func decodePartitionEntry(entry []byte) PartitionEntry {
	return PartitionEntry{
		TypeCode: PartitionType(entry[entryTypeOffset]),
		LBABegin: binary.LittleEndian.Uint32(entry[entryStartLBAOffset : entryStartLBAOffset+4]),
	}
}
