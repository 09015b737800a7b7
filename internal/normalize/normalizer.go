package normalize

import (
	"strings"

	"rwbench-report/internal/dataframe"

	"github.com/sirupsen/logrus"
)

// Scenario codes derived from reader and writer counts.
const (
	ScenarioReadersEqualWriters = "R_eq_W"
	ScenarioWritersGreater      = "W_gt_R"
	ScenarioReadersGreater      = "R_gt_W"
)

type Normalizer struct {
	logger *logrus.Logger
}

func NewNormalizer(logger *logrus.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize coerces the raw table and logs every skipped cell.
func (n *Normalizer) Normalize(raw *dataframe.RawTable) *dataframe.MeasurementTable {
	table := Normalize(raw)

	for _, c := range table.Coercions {
		n.logger.WithFields(logrus.Fields{
			"source": c.Source,
			"line":   c.Line,
			"column": c.Column,
			"value":  c.Value,
		}).Debug("Value could not be coerced, treating as missing")
	}
	if len(table.Coercions) > 0 {
		n.logger.WithField("cells", len(table.Coercions)).Warn("Some values could not be coerced and were treated as missing")
	}

	n.logger.WithField("rows", len(table.Rows)).Debug("Normalized measurements")
	return table
}

// Normalize never fails. Cells that cannot be coerced become missing values
// and are listed in the returned table's Coercions.
func Normalize(raw *dataframe.RawTable) *dataframe.MeasurementTable {
	table := &dataframe.MeasurementTable{}
	if raw == nil {
		return table
	}

	table.Rows = make([]dataframe.MeasurementRow, 0, len(raw.Records))
	for _, rec := range raw.Records {
		row, skipped := normalizeRecord(rec)
		table.Rows = append(table.Rows, row)
		table.Coercions = append(table.Coercions, skipped...)
	}

	return table
}

func normalizeRecord(rec dataframe.RawRecord) (dataframe.MeasurementRow, []dataframe.CoercionSkipped) {
	var skipped []dataframe.CoercionSkipped
	skip := func(column, value string) {
		skipped = append(skipped, dataframe.CoercionSkipped{
			Source: rec.Source,
			Line:   rec.Line,
			Column: column,
			Value:  value,
		})
	}

	row := dataframe.MeasurementRow{
		Source:         rec.Source,
		Line:           rec.Line,
		Implementation: label(rec.Fields[dataframe.ColumnImplementation]),
	}

	row.Readers = count(rec, dataframe.ColumnReaders, skip)
	row.Writers = count(rec, dataframe.ColumnWriters, skip)

	scenario := strings.TrimSpace(rec.Fields[dataframe.ColumnScenario])
	if scenario == "" {
		scenario = DeriveScenario(row.Readers, row.Writers)
	}
	row.Scenario = label(scenario)

	for _, m := range dataframe.Metrics {
		cell, ok := rec.Fields[string(m)]
		if !ok || strings.TrimSpace(cell) == "" {
			continue
		}

		switch m {
		case dataframe.MetricCPUCycles:
			if v, ok := ExtractInt(cell); ok {
				row.PerfCPUCycles = &v
			} else {
				skip(string(m), cell)
			}
		case dataframe.MetricTaskClock:
			if v, ok := ExtractFloat(cell); ok {
				row.PerfTaskClockMs = &v
			} else {
				skip(string(m), cell)
			}
		case dataframe.MetricProgramExecTime:
			if v, ok := ParseFloat(cell); ok {
				row.ProgramExecTimeSec = &v
			} else {
				skip(string(m), cell)
			}
		case dataframe.MetricThroughput:
			if v, ok := ParseFloat(cell); ok {
				row.TotalThroughputOpsSec = &v
			} else {
				skip(string(m), cell)
			}
		}
	}

	row.Config = dataframe.ConfigLabel(row.Readers, row.Writers)
	row.Combo = dataframe.ComboLabel(row.Implementation, row.Scenario)

	return row, skipped
}

func count(rec dataframe.RawRecord, column string, skip func(column, value string)) *int {
	cell := rec.Fields[column]
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	v, ok := ParseCount(cell)
	if !ok {
		skip(column, cell)
		return nil
	}
	return &v
}

// DeriveScenario classifies a run by its reader and writer counts. It
// returns "" when either count is missing.
func DeriveScenario(readers, writers *int) string {
	if readers == nil || writers == nil {
		return ""
	}
	switch {
	case *readers == *writers:
		return ScenarioReadersEqualWriters
	case *writers > *readers:
		return ScenarioWritersGreater
	default:
		return ScenarioReadersGreater
	}
}

func label(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return dataframe.MissingLabel
	}
	return s
}
