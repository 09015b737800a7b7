package dataframe

import "fmt"

type Metric string

const (
	MetricProgramExecTime Metric = "program_exec_time_sec"
	MetricThroughput      Metric = "total_throughput_ops_sec"
	MetricCPUCycles       Metric = "perf_cpu_cycles"
	MetricTaskClock       Metric = "perf_task_clock_ms"
)

// Metrics lists every tracked metric in report order.
var Metrics = []Metric{
	MetricProgramExecTime,
	MetricThroughput,
	MetricCPUCycles,
	MetricTaskClock,
}

// Canonical column names.
const (
	ColumnImplementation = "implementation"
	ColumnScenario       = "scenario"
	ColumnReaders        = "readers"
	ColumnWriters        = "writers"
)

// MissingLabel replaces empty implementation or scenario cells.
const MissingLabel = "n/a"

func IsMetric(name string) bool {
	for _, m := range Metrics {
		if string(m) == name {
			return true
		}
	}
	return false
}

type RawTable struct {
	Header  []string
	Records []RawRecord
}

type RawRecord struct {
	Source string
	Line   int
	Fields map[string]string
}

func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

type MeasurementRow struct {
	Source string
	Line   int

	Implementation string
	Scenario       string

	ProgramExecTimeSec    *float64
	TotalThroughputOpsSec *float64
	PerfCPUCycles         *int64
	PerfTaskClockMs       *float64
	// PerfCPUCyclesMean keeps a fractional cycle mean on rows built from
	// aggregates. Value prefers it over PerfCPUCycles.
	PerfCPUCyclesMean *float64

	Readers *int
	Writers *int

	// Config is "{readers}-{writers}", empty when either count is missing.
	Config string
	// Combo is a display label only, never a grouping key.
	Combo string
}

// Value returns the metric as a float, or nil when it is missing.
func (r *MeasurementRow) Value(m Metric) *float64 {
	switch m {
	case MetricProgramExecTime:
		return r.ProgramExecTimeSec
	case MetricThroughput:
		return r.TotalThroughputOpsSec
	case MetricCPUCycles:
		if r.PerfCPUCyclesMean != nil {
			return r.PerfCPUCyclesMean
		}
		if r.PerfCPUCycles == nil {
			return nil
		}
		v := float64(*r.PerfCPUCycles)
		return &v
	case MetricTaskClock:
		return r.PerfTaskClockMs
	}
	return nil
}

func ComboLabel(implementation, scenario string) string {
	return fmt.Sprintf("%s - %s", implementation, scenario)
}

func ConfigLabel(readers, writers *int) string {
	if readers == nil || writers == nil {
		return ""
	}
	return fmt.Sprintf("%d-%d", *readers, *writers)
}

// CoercionSkipped records a cell that could not be coerced and was treated
// as missing.
type CoercionSkipped struct {
	Source string
	Line   int
	Column string
	Value  string
}

func (c CoercionSkipped) String() string {
	return fmt.Sprintf("%s:%d: %s=%q", c.Source, c.Line, c.Column, c.Value)
}

type MeasurementTable struct {
	Rows      []MeasurementRow
	Coercions []CoercionSkipped
}

type MetricSummary struct {
	N    int
	Mean float64
	Min  float64
	Max  float64
	// Lo and Hi bound the confidence interval of the mean.
	Lo float64
	Hi float64
}

type AggregatedRow struct {
	Implementation string
	Scenario       string
	Summaries      map[Metric]*MetricSummary
}

// Summary returns nil when the metric had no observations in the group.
func (r *AggregatedRow) Summary(m Metric) *MetricSummary {
	if r.Summaries == nil {
		return nil
	}
	return r.Summaries[m]
}

func (r *AggregatedRow) Mean(m Metric) *float64 {
	s := r.Summary(m)
	if s == nil {
		return nil
	}
	v := s.Mean
	return &v
}

type AggregatedTable struct {
	Rows       []AggregatedRow
	Confidence float64
}

// AsMeasurementTable turns each group into a single row holding its means.
// PerfCPUCycles holds the truncated cycle mean for display and
// PerfCPUCyclesMean the exact one.
func (t *AggregatedTable) AsMeasurementTable() *MeasurementTable {
	out := &MeasurementTable{Rows: make([]MeasurementRow, 0, len(t.Rows))}
	for i := range t.Rows {
		agg := &t.Rows[i]
		row := MeasurementRow{
			Source:                "aggregate",
			Line:                  i + 1,
			Implementation:        agg.Implementation,
			Scenario:              agg.Scenario,
			ProgramExecTimeSec:    agg.Mean(MetricProgramExecTime),
			TotalThroughputOpsSec: agg.Mean(MetricThroughput),
			PerfTaskClockMs:       agg.Mean(MetricTaskClock),
			Combo:                 ComboLabel(agg.Implementation, agg.Scenario),
		}
		if m := agg.Mean(MetricCPUCycles); m != nil {
			c := int64(*m)
			row.PerfCPUCycles = &c
			row.PerfCPUCyclesMean = m
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
