package main

import (
	"fmt"

	"rwbench-report/internal/logging"

	"github.com/spf13/cobra"
)

const Version = "1.0.0"

type options struct {
	configFile string
	logLevel   string
	view       string
	formats    []string
	outDir     string
	source     string
	delimiter  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "rwbench-report",
		Short:         "Readers-writers benchmark reporting tool",
		Long:          "Loads readers-writers benchmark measurements from CSV files or InfluxDB and renders comparison charts",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logLevel != "" {
				if err := logging.SetLogLevel(opts.logLevel); err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to report configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newSummaryCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))

	return rootCmd
}

func main() {
	logger := logging.GetLogger()

	loadEnvironment()

	if err := newRootCmd().Execute(); err != nil {
		logger.WithError(err).Fatal("Command execution failed")
	}
}
