package disk

// Partition is a used slot of the partition table, located on the disk.
type Partition struct {
	Slot     int           // Slot index 0-3 in the partition table
	Type     PartitionType // Partition type ID, as stored in the table
	StartLBA uint32        // First sector of the partition
	Offset   uint64        // Offset in bytes from the start of the disk
}
