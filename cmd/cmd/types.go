package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/ostafen/mbrscope/internal/disk"
	"github.com/spf13/cobra"
)

func DefineTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the known MBR partition type codes",
		Long: `The 'types' command displays the partition type codes that have a description.
Codes missing from this table are still decoded and reported as "Unknown".`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunTypes,
	}
}

func RunTypes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tDESC\tEXTENDED")

	for _, t := range disk.KnownPartitionTypes() {
		extended := ""
		if t.IsExtended() {
			extended = "yes"
		}
		fmt.Fprintf(w, "0x%02X\t%s\t%s\n", uint8(t), t, extended)
	}
	return w.Flush()
}
