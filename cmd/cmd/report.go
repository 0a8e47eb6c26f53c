package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ostafen/mbrscope/internal/disk"
	"github.com/ostafen/mbrscope/pkg/dfxml"
	"github.com/spf13/cobra"
)

func DefineReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "report <report.xml>",
		Short:        "Print the partition table stored in a DFXML report",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunReport,
	}
}

func RunReport(cmd *cobra.Command, args []string) error {
	reportFile, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer reportFile.Close()

	source, volumes, err := dfxml.ReadReport(bufio.NewReader(reportFile))
	if err != nil {
		return fmt.Errorf("failed to read report %q: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "[INFO] Source: \t%s\n", source.ImageFilename)
	fmt.Fprintf(out, "[INFO] Format: \t%s\n", source.ImageFormat)
	fmt.Fprintf(out, "[INFO] Partitions: \t%d of %d slots used\n", len(volumes), disk.PartitionEntries)

	if len(volumes) == 0 {
		return nil
	}

	rows := make([]partitionRow, len(volumes))
	for i, v := range volumes {
		rows[i] = partitionRow{
			Slot:     v.PartitionIndex,
			Type:     disk.PartitionType(v.FType),
			StartLBA: v.StartLBA,
			Offset:   v.PartitionOffset,
		}
	}

	fmt.Fprintln(out)
	return printPartitionTable(out, rows)
}
