package cmd

import (
	"fmt"
	"io"

	"github.com/ostafen/mbrscope/internal/env"
	"github.com/spf13/cobra"
)

func DefineVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			PrintLogo(cmd.OutOrStdout())
		},
	}
}

func PrintLogo(w io.Writer) {
	fmt.Fprintln(w, "           _")
	fmt.Fprintln(w, " _ __ ___ | |__  _ __ ___  ___ ___  _ __   ___")
	fmt.Fprintln(w, "| '_ ` _ \\| '_ \\| '__/ __|/ __/ _ \\| '_ \\ / _ \\")
	fmt.Fprintln(w, "| | | | | | |_) | |  \\__ \\ (_| (_) | |_) |  __/")
	fmt.Fprintln(w, "|_| |_| |_|_.__/|_|  |___/\\___\\___/| .__/ \\___|")
	fmt.Fprintln(w, "                                   |_|")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Master boot record inspection tool")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Version:    %s\n", env.Version)
	fmt.Fprintf(w, "Commit:     %s\n", env.CommitHash)
	fmt.Fprintf(w, "Build Time: %s\n", env.BuildTime)
}
