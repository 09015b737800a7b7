package loader

import (
	"strings"

	"rwbench-report/internal/dataframe"
)

// Column names written by older versions of the benchmark scripts.
var columnAliases = map[string]string{
	"version": dataframe.ColumnImplementation,
	"time":    string(dataframe.MetricProgramExecTime),
}

// CanonicalColumn trims a header cell and resolves aliases.
func CanonicalColumn(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

// ValidateHeader reports the required columns a header lacks. A table
// needs an implementation, a scenario (or both reader and writer counts),
// and at least one metric.
func ValidateHeader(header []string) []string {
	has := make(map[string]bool, len(header))
	for _, h := range header {
		has[h] = true
	}

	var missing []string
	if !has[dataframe.ColumnImplementation] {
		missing = append(missing, dataframe.ColumnImplementation)
	}
	if !has[dataframe.ColumnScenario] && !(has[dataframe.ColumnReaders] && has[dataframe.ColumnWriters]) {
		missing = append(missing, dataframe.ColumnScenario)
	}

	anyMetric := false
	for _, m := range dataframe.Metrics {
		if has[string(m)] {
			anyMetric = true
			break
		}
	}
	if !anyMetric {
		names := make([]string, len(dataframe.Metrics))
		for i, m := range dataframe.Metrics {
			names[i] = string(m)
		}
		missing = append(missing, "one of "+strings.Join(names, "|"))
	}

	return missing
}
