package main

import (
	"context"
	"fmt"

	"rwbench-report/internal/aggregate"
	"rwbench-report/internal/config"
	"rwbench-report/internal/database"
	"rwbench-report/internal/dataframe"
	"rwbench-report/internal/loader"
	"rwbench-report/internal/logging"
	"rwbench-report/internal/normalize"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// addSourceFlags registers the flags shared by commands that read data.
func addSourceFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.source, "source", "", "Data source (csv, influx)")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", "", "CSV field delimiter")
}

// loadReportConfig reads the config file, or the built-in defaults when none
// is given, and applies command line overrides.
func loadReportConfig(cmd *cobra.Command, opts *options, args []string) (*config.ReportConfig, error) {
	logger := logging.GetLogger()

	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		cfg, err = config.LoadConfig(opts.configFile)
		if err != nil {
			logger.WithField("config_file", opts.configFile).WithError(err).Error("Failed to load configuration")
			return nil, err
		}
	}

	if opts.logLevel == "" && cfg.Report.LogLevel != "" {
		if err := logging.SetLogLevel(cfg.Report.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log level in config: %w", err)
		}
	}

	r := &cfg.Report
	flags := cmd.Flags()
	if len(args) > 0 {
		r.Inputs = args
	}
	if flags.Changed("source") {
		r.Source = opts.source
	}
	if flags.Changed("delimiter") {
		r.Delimiter = opts.delimiter
	}
	if flags.Changed("view") {
		r.View = opts.view
	}
	if flags.Changed("format") {
		r.Output.Formats = config.ParseFormats(opts.formats)
	}
	if flags.Changed("out") {
		r.Output.Dir = opts.outDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

type report struct {
	table *dataframe.MeasurementTable
	agg   *dataframe.AggregatedTable
}

// buildReport runs the load, normalize and aggregate stages.
func buildReport(ctx context.Context, cfg *config.ReportConfig, logger *logrus.Logger) (*report, error) {
	source, closeSource, err := openSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	raw, err := source.Load(ctx)
	if err != nil {
		logger.WithField("source", cfg.Report.Source).WithError(err).Error("Failed to load measurements")
		return nil, fmt.Errorf("failed to load measurements: %w", err)
	}

	table := normalize.NewNormalizer(logger).Normalize(raw)
	agg := aggregate.NewAggregator(cfg.Report.Confidence, logger).Aggregate(table)

	logger.WithFields(logrus.Fields{
		"rows":   len(table.Rows),
		"groups": len(agg.Rows),
	}).Info("Measurements prepared")

	return &report{table: table, agg: agg}, nil
}

func openSource(cfg *config.ReportConfig, logger *logrus.Logger) (loader.Source, func(), error) {
	r := cfg.Report

	switch r.Source {
	case config.SourceInflux:
		src, err := database.NewInfluxSource(r.Data.DB, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to create InfluxDB source")
			return nil, nil, fmt.Errorf("failed to create InfluxDB source: %w", err)
		}
		return src, src.Close, nil
	default:
		delimiter := []rune(r.Delimiter)[0]
		return loader.NewCSVSource(r.Inputs, delimiter, logger), func() {}, nil
	}
}
