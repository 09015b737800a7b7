package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"rwbench-report/internal/dataframe"
	"rwbench-report/internal/logging"

	"gopkg.in/yaml.v3"
)

func LoadConfig(filepath string) (*ReportConfig, error) {
	config, _, err := LoadConfigWithContent(filepath)
	return config, err
}

func LoadConfigWithContent(filepath string) (*ReportConfig, string, error) {
	logger := logging.GetLogger()

	data, err := os.ReadFile(filepath)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to read config file")
		return nil, "", err
	}

	originalContent := string(data)

	config, err := ParseConfig(originalContent)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to parse config file")
		return nil, "", err
	}

	return config, originalContent, nil
}

// ParseConfig expands environment variables, applies defaults and validates.
func ParseConfig(content string) (*ReportConfig, error) {
	expanded := expandEnvVars(content)

	var config ReportConfig
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

// Validate checks a fully defaulted config. Inputs are not required here
// because the command line may still supply them.
func (c *ReportConfig) Validate() error {
	r := c.Report

	switch r.Source {
	case SourceCSV, SourceInflux:
	default:
		return fmt.Errorf("unknown source %q (expected csv or influx)", r.Source)
	}

	switch r.View {
	case ViewAggregate, ViewRows:
	default:
		return fmt.Errorf("unknown view %q (expected aggregate or rows)", r.View)
	}

	if len([]rune(r.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", r.Delimiter)
	}

	if r.Confidence <= 0 || r.Confidence >= 1 {
		return fmt.Errorf("confidence must be between 0 and 1, got %v", r.Confidence)
	}

	for _, f := range r.Output.Formats {
		switch f {
		case FormatTikz, FormatPNG, FormatSVG, FormatHTML:
		default:
			return fmt.Errorf("unknown output format %q", f)
		}
	}

	if r.Output.Width <= 0 || r.Output.Height <= 0 {
		return fmt.Errorf("output width and height must be greater than 0")
	}

	if r.Source == SourceInflux {
		db := r.Data.DB
		if db.Host == "" || db.Token == "" || db.Org == "" || db.Bucket == "" {
			return fmt.Errorf("incomplete database configuration")
		}
	}

	seen := make(map[string]bool)
	for _, m := range c.Metrics {
		if !dataframe.IsMetric(m.Field) {
			return fmt.Errorf("metric %q is not a known metric", m.Field)
		}
		if seen[m.Field] {
			return fmt.Errorf("metric %q is listed twice", m.Field)
		}
		seen[m.Field] = true
	}

	for _, s := range c.Scenarios {
		if s.Code == "" {
			return fmt.Errorf("scenario legend entries need a code")
		}
	}

	return nil
}

// ParseFormats splits comma separated format flags.
func ParseFormats(values []string) []string {
	var formats []string
	for _, v := range values {
		for _, f := range strings.Split(v, ",") {
			f = strings.ToLower(strings.TrimSpace(f))
			if f != "" {
				formats = append(formats, f)
			}
		}
	}
	return formats
}
