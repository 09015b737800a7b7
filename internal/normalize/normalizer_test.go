package normalize

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"rwbench-report/internal/dataframe"
	"rwbench-report/internal/logging"
)

func record(line int, fields map[string]string) dataframe.RawRecord {
	return dataframe.RawRecord{Source: "summary.csv", Line: line, Fields: fields}
}

func TestNormalize_CoercesMetrics(t *testing.T) {
	raw := &dataframe.RawTable{
		Records: []dataframe.RawRecord{
			record(2, map[string]string{
				"implementation":           " mutex ",
				"scenario":                 "R_eq_W",
				"program_exec_time_sec":    "1.25",
				"total_throughput_ops_sec": "8000",
				"perf_cpu_cycles":          "1500000 cycles",
				"perf_task_clock_ms":       "12.5 msec",
			}),
		},
	}

	table := Normalize(raw)
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	row := table.Rows[0]

	if row.Implementation != "mutex" {
		t.Fatalf("expected trimmed implementation, got %q", row.Implementation)
	}
	if row.ProgramExecTimeSec == nil || *row.ProgramExecTimeSec != 1.25 {
		t.Fatalf("expected exec time 1.25")
	}
	if row.TotalThroughputOpsSec == nil || *row.TotalThroughputOpsSec != 8000 {
		t.Fatalf("expected throughput 8000")
	}
	if row.PerfCPUCycles == nil || *row.PerfCPUCycles != 1500000 {
		t.Fatalf("expected cycles 1500000")
	}
	if row.PerfTaskClockMs == nil || *row.PerfTaskClockMs != 12.5 {
		t.Fatalf("expected task clock 12.5")
	}
	if row.Combo != "mutex - R_eq_W" {
		t.Fatalf("unexpected combo %q", row.Combo)
	}
	if len(table.Coercions) != 0 {
		t.Fatalf("expected no coercions, got %v", table.Coercions)
	}
}

func TestNormalize_UnparsableBecomesMissing(t *testing.T) {
	raw := &dataframe.RawTable{
		Records: []dataframe.RawRecord{
			record(2, map[string]string{
				"implementation":        "rwlock",
				"scenario":              "W_gt_R",
				"program_exec_time_sec": "timeout",
				"perf_cpu_cycles":       "<not counted>",
				"perf_task_clock_ms":    "",
			}),
		},
	}

	table := Normalize(raw)
	row := table.Rows[0]

	if row.ProgramExecTimeSec != nil || row.PerfCPUCycles != nil || row.PerfTaskClockMs != nil {
		t.Fatalf("expected unparsable values to be missing")
	}
	if len(table.Coercions) != 2 {
		t.Fatalf("expected 2 coercions (empty cells are not reported), got %v", table.Coercions)
	}
	c := table.Coercions[0]
	if c.Source != "summary.csv" || c.Line != 2 || c.Column != "program_exec_time_sec" || c.Value != "timeout" {
		t.Fatalf("unexpected coercion %+v", c)
	}
}

func TestNormalize_DerivesScenarioAndConfig(t *testing.T) {
	raw := &dataframe.RawTable{
		Records: []dataframe.RawRecord{
			record(2, map[string]string{"implementation": "v1", "readers": "4", "writers": "4", "program_exec_time_sec": "0.5"}),
			record(3, map[string]string{"implementation": "v1", "readers": "2", "writers": "6", "program_exec_time_sec": "0.7"}),
			record(4, map[string]string{"implementation": "v1", "readers": "6", "writers": "2", "program_exec_time_sec": "0.4"}),
			record(5, map[string]string{"implementation": "", "readers": "x", "writers": "2", "program_exec_time_sec": "0.4"}),
		},
	}

	table := Normalize(raw)

	wantScenario := []string{"R_eq_W", "W_gt_R", "R_gt_W", dataframe.MissingLabel}
	wantConfig := []string{"4-4", "2-6", "6-2", ""}
	for i, row := range table.Rows {
		if row.Scenario != wantScenario[i] {
			t.Errorf("row %d: expected scenario %q, got %q", i, wantScenario[i], row.Scenario)
		}
		if row.Config != wantConfig[i] {
			t.Errorf("row %d: expected config %q, got %q", i, wantConfig[i], row.Config)
		}
	}
	if table.Rows[3].Implementation != dataframe.MissingLabel {
		t.Fatalf("expected empty implementation to become %q", dataframe.MissingLabel)
	}
	if len(table.Coercions) != 1 || table.Coercions[0].Column != "readers" {
		t.Fatalf("expected one readers coercion, got %v", table.Coercions)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := &dataframe.RawTable{
		Records: []dataframe.RawRecord{
			record(2, map[string]string{"implementation": "a", "scenario": "R_eq_W", "perf_cpu_cycles": "10 cycles"}),
			record(3, map[string]string{"implementation": "b", "scenario": "R_gt_W", "perf_cpu_cycles": "x"}),
		},
	}

	first := Normalize(raw)
	second := Normalize(raw)
	if len(first.Rows) != len(second.Rows) || len(first.Coercions) != len(second.Coercions) {
		t.Fatalf("expected identical output for identical input")
	}
	for i := range first.Rows {
		if first.Rows[i].Combo != second.Rows[i].Combo {
			t.Fatalf("row %d differs between runs", i)
		}
	}
}

func TestNormalize_Nil(t *testing.T) {
	if table := Normalize(nil); table == nil || len(table.Rows) != 0 {
		t.Fatalf("expected an empty table for nil input")
	}
}

func TestNormalizer_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(os.Stderr)

	raw := &dataframe.RawTable{
		Records: []dataframe.RawRecord{
			record(2, map[string]string{"implementation": "a", "scenario": "R_eq_W", "program_exec_time_sec": "fast"}),
		},
	}

	NewNormalizer(logging.GetLogger()).Normalize(raw)
	if !strings.Contains(buf.String(), "cells=1") {
		t.Fatalf("expected coercion summary in log, got %q", buf.String())
	}
}
