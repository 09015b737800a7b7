package main

import (
	"fmt"

	"rwbench-report/internal/config"
	"rwbench-report/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a report configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configFile == "" {
				return fmt.Errorf("required flag \"config\" not set")
			}
			return validateConfig(opts.configFile)
		},
	}
}

func validateConfig(configFile string) error {
	logger := logging.GetLogger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Configuration validation failed")
		return err
	}
	logger.WithFields(logrus.Fields{
		"config_file": configFile,
		"metrics":     len(cfg.Metrics),
		"source":      cfg.Report.Source,
	}).Info("Configuration is valid")
	return nil
}
