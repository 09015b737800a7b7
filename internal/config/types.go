package config

import (
	"rwbench-report/internal/dataframe"
)

type ReportConfig struct {
	Report    ReportInfo       `yaml:"report"`
	Metrics   []MetricConfig   `yaml:"metrics"`
	Scenarios []ScenarioConfig `yaml:"scenarios"`
}

type ReportInfo struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	LogLevel    string       `yaml:"log_level"`
	Source      string       `yaml:"source"`
	Inputs      []string     `yaml:"inputs"`
	Delimiter   string       `yaml:"delimiter"`
	View        string       `yaml:"view"`
	Confidence  float64      `yaml:"confidence"`
	Output      OutputConfig `yaml:"output"`
	Data        DataConfig   `yaml:"data"`
}

type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
	// Width and Height are in centimetres per figure.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPI    int     `yaml:"dpi"`
}

type DataConfig struct {
	DB DatabaseConfig `yaml:"db"`
}

type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Token       string `yaml:"token"`
	Org         string `yaml:"org"`
	Bucket      string `yaml:"bucket"`
	Measurement string `yaml:"measurement"`
}

type MetricConfig struct {
	Field      string `yaml:"field"`
	Title      string `yaml:"title"`
	YLabel     string `yaml:"y_label"`
	ShortLabel string `yaml:"short_label"`
}

type ScenarioConfig struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

const (
	SourceCSV    = "csv"
	SourceInflux = "influx"

	ViewAggregate = "aggregate"
	ViewRows      = "rows"

	FormatTikz = "tikz"
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatHTML = "html"
)

func (c *ReportConfig) Metric(field dataframe.Metric) (MetricConfig, bool) {
	for _, m := range c.Metrics {
		if m.Field == string(field) {
			return m, true
		}
	}
	return MetricConfig{}, false
}

func (c *ReportConfig) ScenarioDescription(code string) (string, bool) {
	for _, s := range c.Scenarios {
		if s.Code == code {
			return s.Description, true
		}
	}
	return "", false
}

func (c *ReportConfig) HasFormat(format string) bool {
	for _, f := range c.Report.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}
