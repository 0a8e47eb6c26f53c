package disk

import "sort"

// PartitionType is the one-byte type ID of an MBR partition entry.
// Any value is accepted: the names below are a best-effort description of
// well-known codes, not a closed set.
type PartitionType uint8

const (
	PartitionTypeEmpty            PartitionType = 0x00
	PartitionTypeFAT12            PartitionType = 0x01
	PartitionTypeXENIXRoot        PartitionType = 0x02
	PartitionTypeXENIXUsr         PartitionType = 0x03
	PartitionTypeFAT16Small       PartitionType = 0x04
	PartitionTypeExtendedCHS      PartitionType = 0x05
	PartitionTypeFAT16            PartitionType = 0x06
	PartitionTypeNTFSHPFSexFAT    PartitionType = 0x07
	PartitionTypeFAT32CHS         PartitionType = 0x0B
	PartitionTypeFAT32LBA         PartitionType = 0x0C
	PartitionTypeFAT16LBA         PartitionType = 0x0E
	PartitionTypeExtendedLBA      PartitionType = 0x0F
	PartitionTypeHiddenFAT12      PartitionType = 0x11
	PartitionTypeHiddenFAT16Small PartitionType = 0x14
	PartitionTypeHiddenFAT16      PartitionType = 0x16
	PartitionTypeHiddenNTFS       PartitionType = 0x17
	PartitionTypeHiddenFAT32CHS   PartitionType = 0x1B
	PartitionTypeHiddenFAT32LBA   PartitionType = 0x1C
	PartitionTypeHiddenFAT16LBA   PartitionType = 0x1E
	PartitionTypeWindowsRecovery  PartitionType = 0x27
	PartitionTypePlan9            PartitionType = 0x39
	PartitionTypeDynamicDisk      PartitionType = 0x42
	PartitionTypeMinix            PartitionType = 0x81
	PartitionTypeLinuxSwap        PartitionType = 0x82
	PartitionTypeLinux            PartitionType = 0x83
	PartitionTypeHibernation      PartitionType = 0x84
	PartitionTypeLinuxExtended    PartitionType = 0x85
	PartitionTypeLinuxLVM         PartitionType = 0x8E
	PartitionTypeFreeBSD          PartitionType = 0xA5
	PartitionTypeOpenBSD          PartitionType = 0xA6
	PartitionTypeNetBSD           PartitionType = 0xA9
	PartitionTypeMacOSXBoot       PartitionType = 0xAB
	PartitionTypeMacOSXHFS        PartitionType = 0xAF
	PartitionTypeSolaris          PartitionType = 0xBF
	PartitionTypeLUKS             PartitionType = 0xE8
	PartitionTypeGPT              PartitionType = 0xEE
	PartitionTypeEFISystem        PartitionType = 0xEF
	PartitionTypeVMwareFS         PartitionType = 0xFB
	PartitionTypeVMwareSwap       PartitionType = 0xFC
	PartitionTypeLinuxRAID        PartitionType = 0xFD
)

var partitionTypeNames = map[PartitionType]string{
	PartitionTypeEmpty:            "Empty",
	PartitionTypeFAT12:            "FAT12",
	PartitionTypeXENIXRoot:        "XENIX root",
	PartitionTypeXENIXUsr:         "XENIX usr",
	PartitionTypeFAT16Small:       "FAT16 (<32MB)",
	PartitionTypeExtendedCHS:      "Extended (CHS)",
	PartitionTypeFAT16:            "FAT16 (>32MB)",
	PartitionTypeNTFSHPFSexFAT:    "NTFS/HPFS/exFAT",
	PartitionTypeFAT32CHS:         "FAT32 (CHS)",
	PartitionTypeFAT32LBA:         "FAT32 (LBA)",
	PartitionTypeFAT16LBA:         "FAT16 (LBA)",
	PartitionTypeExtendedLBA:      "Extended (LBA)",
	PartitionTypeHiddenFAT12:      "Hidden FAT12",
	PartitionTypeHiddenFAT16Small: "Hidden FAT16 (<32MB)",
	PartitionTypeHiddenFAT16:      "Hidden FAT16",
	PartitionTypeHiddenNTFS:       "Hidden NTFS",
	PartitionTypeHiddenFAT32CHS:   "Hidden FAT32 (CHS)",
	PartitionTypeHiddenFAT32LBA:   "Hidden FAT32 (LBA)",
	PartitionTypeHiddenFAT16LBA:   "Hidden FAT16 (LBA)",
	PartitionTypeWindowsRecovery:  "Windows recovery environment",
	PartitionTypePlan9:            "Plan 9",
	PartitionTypeDynamicDisk:      "Windows dynamic disk",
	PartitionTypeMinix:            "Minix",
	PartitionTypeLinuxSwap:        "Linux swap",
	PartitionTypeLinux:            "Linux filesystem",
	PartitionTypeHibernation:      "Hibernation",
	PartitionTypeLinuxExtended:    "Linux extended",
	PartitionTypeLinuxLVM:         "Linux LVM",
	PartitionTypeFreeBSD:          "FreeBSD",
	PartitionTypeOpenBSD:          "OpenBSD",
	PartitionTypeNetBSD:           "NetBSD",
	PartitionTypeMacOSXBoot:       "Mac OS X boot",
	PartitionTypeMacOSXHFS:        "Mac OS X HFS",
	PartitionTypeSolaris:          "Solaris",
	PartitionTypeLUKS:             "LUKS",
	PartitionTypeGPT:              "GPT protective MBR",
	PartitionTypeEFISystem:        "EFI System Partition",
	PartitionTypeVMwareFS:         "VMware VMFS",
	PartitionTypeVMwareSwap:       "VMware swap",
	PartitionTypeLinuxRAID:        "Linux RAID autodetect",
}

// Known reports whether t has an entry in the name table.
func (t PartitionType) Known() bool {
	_, ok := partitionTypeNames[t]
	return ok
}

func (t PartitionType) String() string {
	if name, ok := partitionTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// IsExtended reports whether t marks a container of logical partitions.
func (t PartitionType) IsExtended() bool {
	switch t {
	case PartitionTypeExtendedCHS, PartitionTypeExtendedLBA, PartitionTypeLinuxExtended:
		return true
	}
	return false
}

// KnownPartitionTypes returns every type in the name table, sorted by code.
func KnownPartitionTypes() []PartitionType {
	types := make([]PartitionType, 0, len(partitionTypeNames))
	for t := range partitionTypeNames {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
