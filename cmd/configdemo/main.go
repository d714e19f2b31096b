// Command configdemo drives the configuration binding engine against a
// sample service configuration, to exercise every attribute shape the
// engine supports from a command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevelFlag  string
	logFormatFlag string
	logFileFlag   string

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "configdemo",
	Short: "Bind and validate configuration properties against a sample service config",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(logLevelFlag, logFormatFlag, logFileFlag)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "json", "log format: json, text")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "rotate logs to this file instead of stdout")

	rootCmd.AddCommand(bindCmd, validateCmd, providersCmd, diffCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
