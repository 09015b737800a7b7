package config

import (
	"os"

	"rwbench-report/internal/dataframe"
)

const (
	DefaultView        = ViewAggregate
	DefaultOutputDir   = "charts"
	DefaultConfidence  = 0.95
	DefaultWidth       = 16.0
	DefaultHeight      = 9.0
	DefaultDPI         = 150
	DefaultMeasurement = "rw_benchmark"
)

var DefaultFormats = []string{FormatPNG, FormatHTML}

// DefaultInputs is read when neither the config nor the command line names
// an input.
var DefaultInputs = []string{"summary_metrics.csv"}

var DefaultMetrics = []MetricConfig{
	{
		Field:      string(dataframe.MetricProgramExecTime),
		Title:      "Program Execution Time",
		YLabel:     "Tiempo de ejecución (segundos)",
		ShortLabel: "Exec. time (s)",
	},
	{
		Field:      string(dataframe.MetricThroughput),
		Title:      "Total Throughput",
		YLabel:     "Throughput total (ops/seg)",
		ShortLabel: "Throughput (ops/s)",
	},
	{
		Field:      string(dataframe.MetricCPUCycles),
		Title:      "CPU Cycles usados",
		YLabel:     "Ciclos de CPU",
		ShortLabel: "CPU cycles",
	},
	{
		Field:      string(dataframe.MetricTaskClock),
		Title:      "Task Clock Time",
		YLabel:     "Task Clock (milisegundos)",
		ShortLabel: "Task clock (ms)",
	},
}

var DefaultScenarios = []ScenarioConfig{
	{Code: "R_eq_W", Description: "Numero de lectores igual al de escritores"},
	{Code: "W_gt_R", Description: "Mayor numero de escritores que de lectores"},
	{Code: "R_gt_W", Description: "mayor numero de lectores que de escritores"},
}

// Default returns the built-in report used when no config file is given.
func Default() *ReportConfig {
	cfg := &ReportConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *ReportConfig) {
	r := &cfg.Report
	if r.Source == "" {
		r.Source = SourceCSV
	}
	if r.Source == SourceCSV && len(r.Inputs) == 0 {
		r.Inputs = append([]string(nil), DefaultInputs...)
	}
	if r.Delimiter == "" {
		r.Delimiter = ","
	}
	if r.View == "" {
		r.View = DefaultView
	}
	if r.Confidence == 0 {
		r.Confidence = DefaultConfidence
	}
	if r.Output.Dir == "" {
		r.Output.Dir = DefaultOutputDir
	}
	if len(r.Output.Formats) == 0 {
		r.Output.Formats = append([]string(nil), DefaultFormats...)
	}
	if r.Output.Width == 0 {
		r.Output.Width = DefaultWidth
	}
	if r.Output.Height == 0 {
		r.Output.Height = DefaultHeight
	}
	if r.Output.DPI == 0 {
		r.Output.DPI = DefaultDPI
	}

	db := &r.Data.DB
	if db.Host == "" {
		db.Host = os.Getenv("INFLUXDB_HOST")
	}
	if db.Token == "" {
		db.Token = os.Getenv("INFLUXDB_TOKEN")
	}
	if db.Org == "" {
		db.Org = os.Getenv("INFLUXDB_ORG")
	}
	if db.Bucket == "" {
		db.Bucket = os.Getenv("INFLUXDB_BUCKET")
	}
	if db.Measurement == "" {
		db.Measurement = DefaultMeasurement
	}

	// Partial metric lists keep the built-in labels for any field left blank.
	if len(cfg.Metrics) == 0 {
		cfg.Metrics = append([]MetricConfig(nil), DefaultMetrics...)
	} else {
		for i := range cfg.Metrics {
			m := &cfg.Metrics[i]
			for _, d := range DefaultMetrics {
				if d.Field != m.Field {
					continue
				}
				if m.Title == "" {
					m.Title = d.Title
				}
				if m.YLabel == "" {
					m.YLabel = d.YLabel
				}
				if m.ShortLabel == "" {
					m.ShortLabel = d.ShortLabel
				}
			}
		}
	}
	if len(cfg.Scenarios) == 0 {
		cfg.Scenarios = append([]ScenarioConfig(nil), DefaultScenarios...)
	}
}
