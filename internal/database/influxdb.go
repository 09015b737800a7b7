package database

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"rwbench-report/internal/config"
	"rwbench-report/internal/dataframe"
	"rwbench-report/internal/loader"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/sirupsen/logrus"
)

// InfluxSource reads measurements that a benchmark harness wrote to
// InfluxDB, one point per run with implementation and scenario tags and one
// field per metric.
type InfluxSource struct {
	client      influxdb2.Client
	queryAPI    api.QueryAPI
	bucket      string
	measurement string
	logger      *logrus.Logger
}

var _ loader.Source = (*InfluxSource)(nil)

func NewInfluxSource(cfg config.DatabaseConfig, logger *logrus.Logger) (*InfluxSource, error) {
	if cfg.Host == "" || cfg.Token == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("missing required settings for InfluxDB connection")
	}

	measurement := cfg.Measurement
	if measurement == "" {
		measurement = config.DefaultMeasurement
	}

	client := influxdb2.NewClient(cfg.Host, cfg.Token)

	return &InfluxSource{
		client:      client,
		queryAPI:    client.QueryAPI(cfg.Org),
		bucket:      cfg.Bucket,
		measurement: measurement,
		logger:      logger,
	}, nil
}

func (s *InfluxSource) Close() {
	s.client.Close()
}

func (s *InfluxSource) Load(ctx context.Context) (*dataframe.RawTable, error) {
	s.logger.WithFields(logrus.Fields{
		"bucket":      s.bucket,
		"measurement": s.measurement,
	}).Debug("Querying benchmark measurements")

	result, err := s.queryAPI.Query(ctx, buildQuery(s.bucket, s.measurement))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer result.Close()

	table, err := decodeResult(result, "influx:"+s.measurement)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("rows", len(table.Records)).Info("Loaded measurements")
	return table, nil
}

func buildQuery(bucket, measurement string) string {
	return fmt.Sprintf(`
		from(bucket: "%s")
		|> range(start: 0)
		|> filter(fn: (r) => r["_measurement"] == "%s")
		|> pivot(rowKey:["_time"], columnKey: ["_field"], valueColumn: "_value")
		|> group()
		|> sort(columns: ["_time"])
	`, bucket, measurement)
}

func decodeResult(result *api.QueryTableResult, source string) (*dataframe.RawTable, error) {
	table := &dataframe.RawTable{}
	columns := make(map[string]bool)

	for result.Next() {
		fields := recordFields(result.Record().Values())
		for name := range fields {
			columns[name] = true
		}
		table.Records = append(table.Records, dataframe.RawRecord{
			Source: source,
			Line:   len(table.Records) + 1,
			Fields: fields,
		})
	}

	if result.Err() != nil {
		return nil, fmt.Errorf("query parsing failed: %w", result.Err())
	}

	if len(table.Records) == 0 {
		return nil, fmt.Errorf("%w: %s returned no rows", loader.ErrSourceNotFound, source)
	}

	table.Header = orderColumns(columns)

	if missing := loader.ValidateHeader(table.Header); len(missing) > 0 {
		return nil, &loader.MalformedInputError{Path: source, Missing: missing}
	}

	return table, nil
}

// recordFields turns a pivoted Flux record into text cells so the same
// normalizer handles CSV and InfluxDB input. Flux system columns are dropped.
func recordFields(values map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(values))
	for key, value := range values {
		if strings.HasPrefix(key, "_") || key == "result" || key == "table" {
			continue
		}
		fields[loader.CanonicalColumn(key)] = formatValue(value)
	}
	return fields
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// Plain notation, since the cycle extractor reads digits only.
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

var knownColumns = []string{
	dataframe.ColumnImplementation,
	dataframe.ColumnScenario,
	dataframe.ColumnReaders,
	dataframe.ColumnWriters,
	string(dataframe.MetricProgramExecTime),
	string(dataframe.MetricThroughput),
	string(dataframe.MetricCPUCycles),
	string(dataframe.MetricTaskClock),
}

func orderColumns(columns map[string]bool) []string {
	var header []string
	known := make(map[string]bool, len(knownColumns))
	for _, c := range knownColumns {
		known[c] = true
		if columns[c] {
			header = append(header, c)
		}
	}

	var extra []string
	for c := range columns {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)

	return append(header, extra...)
}
