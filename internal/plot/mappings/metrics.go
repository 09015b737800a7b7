package mappings

import "golang.org/x/perf/benchunit"

type MetricMapping struct {
	Unit string
	// Min and Max are float64 bounds or "auto".
	Min           interface{}
	Max           interface{}
	LowerIsBetter bool
}

var MetricMappings = map[string]MetricMapping{
	"program_exec_time_sec": {
		Unit:          "sec",
		Min:           0.0,
		Max:           "auto",
		LowerIsBetter: true,
	},
	"total_throughput_ops_sec": {
		Unit: "ops/sec",
		Min:  0.0,
		Max:  "auto",
	},
	"perf_cpu_cycles": {
		Unit:          "cycles",
		Min:           0.0,
		Max:           "auto",
		LowerIsBetter: true,
	},
	"perf_task_clock_ms": {
		Unit:          "ms",
		Min:           0.0,
		Max:           "auto",
		LowerIsBetter: true,
	},
}

func GetMetricMapping(metric string) (MetricMapping, bool) {
	mapping, exists := MetricMappings[metric]
	return mapping, exists
}

// Class picks the prefix family used to scale value labels.
func (m MetricMapping) Class() benchunit.Class {
	return benchunit.ClassOf(m.Unit)
}

// Bound reads a Min or Max setting. It returns false for "auto" or unset.
func Bound(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
