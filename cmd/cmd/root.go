package cmd

import (
	"io"
	"log/slog"

	"github.com/ostafen/mbrscope/internal/env"
	"github.com/ostafen/mbrscope/internal/logger"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   env.AppName,
		Short: env.AppName + " - master boot record inspection tool",
	}

	rootCmd.PersistentFlags().String("log-level", "INFO", "minimum log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().String("log-file", "", "append logs to the specified file (disabled when empty)")

	rootCmd.AddCommand(DefineInspectCommand())
	rootCmd.AddCommand(DefineReportCommand())
	rootCmd.AddCommand(DefineTypesCommand())
	rootCmd.AddCommand(DefineVersionCommand())

	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}

func setupLogger(cmd *cobra.Command) (*slog.Logger, io.Closer, error) {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFile, _ := cmd.Flags().GetString("log-file")

	return logger.Open(logFile, logger.ParseLevel(logLevel))
}
