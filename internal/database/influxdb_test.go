package database

import (
	"errors"
	"io"
	"strings"
	"testing"

	"rwbench-report/internal/config"
	"rwbench-report/internal/loader"
	"rwbench-report/internal/logging"
	"rwbench-report/internal/normalize"

	"github.com/influxdata/influxdb-client-go/v2/api"
)

func queryResult(csv string) *api.QueryTableResult {
	return api.NewQueryTableResult(io.NopCloser(strings.NewReader(csv)))
}

const pivotedCSV = `#datatype,string,long,dateTime:RFC3339,string,string,string,double,string,long,long
#group,false,false,false,true,true,true,false,false,false,false
#default,_result,,,,,,,,,
,result,table,_time,_measurement,version,scenario,time,perf_cpu_cycles,readers,writers
,,0,2024-01-01T00:00:00Z,rw_benchmark,mutex,R_eq_W,1.5,1500000 cycles,4,4
,,0,2024-01-01T00:01:00Z,rw_benchmark,rwlock,W_gt_R,,,2,6

`

func TestDecodeResult(t *testing.T) {
	table, err := decodeResult(queryResult(pivotedCSV), "influx:rw_benchmark")
	if err != nil {
		t.Fatalf("decodeResult: %v", err)
	}

	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(table.Records))
	}

	first := table.Records[0]
	if first.Fields["implementation"] != "mutex" {
		t.Fatalf("expected version to be aliased to implementation, got %v", first.Fields)
	}
	if first.Fields["program_exec_time_sec"] != "1.5" {
		t.Fatalf("expected time to be aliased to program_exec_time_sec, got %v", first.Fields)
	}
	if first.Fields["perf_cpu_cycles"] != "1500000 cycles" {
		t.Fatalf("expected raw cycles text, got %q", first.Fields["perf_cpu_cycles"])
	}
	if first.Fields["readers"] != "4" {
		t.Fatalf("expected readers 4, got %q", first.Fields["readers"])
	}
	if _, ok := first.Fields["_measurement"]; ok {
		t.Fatalf("system columns must be dropped")
	}
	if first.Source != "influx:rw_benchmark" || first.Line != 1 {
		t.Fatalf("unexpected provenance %s:%d", first.Source, first.Line)
	}

	second := table.Records[1]
	if second.Fields["program_exec_time_sec"] != "" {
		t.Fatalf("expected missing exec time to be empty, got %q", second.Fields["program_exec_time_sec"])
	}

	want := []string{"implementation", "scenario", "readers", "writers", "program_exec_time_sec", "perf_cpu_cycles"}
	if len(table.Header) != len(want) {
		t.Fatalf("expected header %v, got %v", want, table.Header)
	}
	for i := range want {
		if table.Header[i] != want[i] {
			t.Fatalf("expected header %v, got %v", want, table.Header)
		}
	}
}

func TestDecodeResult_DoubleCyclesNormalize(t *testing.T) {
	csv := `#datatype,string,long,string,string,double,double
#group,false,false,true,true,false,false
#default,_result,,,,,
,result,table,implementation,scenario,program_exec_time_sec,perf_cpu_cycles
,,0,mutex,R_eq_W,1.5,1500000
,,0,mutex,R_eq_W,2.5,1700000.5

`
	raw, err := decodeResult(queryResult(csv), "influx:rw_benchmark")
	if err != nil {
		t.Fatalf("decodeResult: %v", err)
	}
	if got := raw.Records[0].Fields["perf_cpu_cycles"]; got != "1500000" {
		t.Fatalf("expected plain cycle text 1500000, got %q", got)
	}

	table := normalize.Normalize(raw)
	if len(table.Coercions) != 0 {
		t.Fatalf("expected no skipped cells, got %v", table.Coercions)
	}
	if c := table.Rows[0].PerfCPUCycles; c == nil || *c != 1500000 {
		t.Fatalf("expected 1500000 cycles, got %v", c)
	}
	if c := table.Rows[1].PerfCPUCycles; c == nil || *c != 1700000 {
		t.Fatalf("expected 1700000 cycles, got %v", c)
	}
}

func TestDecodeResult_Empty(t *testing.T) {
	csv := `#datatype,string,long,string
#group,false,false,true
#default,_result,,
,result,table,implementation

`
	_, err := decodeResult(queryResult(csv), "influx:rw_benchmark")
	if !errors.Is(err, loader.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestDecodeResult_MissingColumns(t *testing.T) {
	csv := `#datatype,string,long,string,double
#group,false,false,true,false
#default,_result,,,
,result,table,implementation,program_exec_time_sec
,,0,mutex,1.0

`
	_, err := decodeResult(queryResult(csv), "influx:rw_benchmark")
	if !errors.Is(err, loader.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestNewInfluxSource_RequiresSettings(t *testing.T) {
	_, err := NewInfluxSource(config.DatabaseConfig{Host: "http://localhost:8086"}, logging.GetLogger())
	if err == nil {
		t.Fatalf("expected error for incomplete settings")
	}
}

func TestBuildQuery(t *testing.T) {
	q := buildQuery("bench", "rw_benchmark")
	if !strings.Contains(q, `from(bucket: "bench")`) {
		t.Fatalf("expected bucket in query: %s", q)
	}
	if !strings.Contains(q, `r["_measurement"] == "rw_benchmark"`) {
		t.Fatalf("expected measurement filter in query: %s", q)
	}
	if !strings.Contains(q, "pivot(") {
		t.Fatalf("expected pivot in query: %s", q)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"R_gt_W", "R_gt_W"},
		{2.5, "2.5"},
		{1500000.0, "1500000"},
		{1e21, "1000000000000000000000"},
		{int64(42), "42"},
		{uint64(7), "7"},
		{true, "true"},
	}
	for _, c := range cases {
		if got := formatValue(c.in); got != c.want {
			t.Errorf("formatValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
