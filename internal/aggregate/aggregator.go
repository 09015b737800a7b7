package aggregate

import (
	"rwbench-report/internal/dataframe"

	"github.com/aclements/go-moremath/stats"
	"github.com/sirupsen/logrus"
	"golang.org/x/perf/benchmath"
)

const DefaultConfidence = 0.95

type Aggregator struct {
	confidence float64
	logger     *logrus.Logger
}

func NewAggregator(confidence float64, logger *logrus.Logger) *Aggregator {
	if confidence <= 0 || confidence >= 1 {
		confidence = DefaultConfidence
	}
	return &Aggregator{confidence: confidence, logger: logger}
}

func (a *Aggregator) Aggregate(table *dataframe.MeasurementTable) *dataframe.AggregatedTable {
	agg := Aggregate(table, a.confidence)

	a.logger.WithFields(logrus.Fields{
		"rows":   len(table.Rows),
		"groups": len(agg.Rows),
	}).Debug("Aggregated measurements")

	return agg
}

type groupKey struct {
	implementation string
	scenario       string
}

type group struct {
	key    groupKey
	values map[dataframe.Metric][]float64
}

// Aggregate groups rows by (implementation, scenario) and summarizes each
// metric over its non-missing values. Implementations keep the order in
// which they first appear and scenarios keep their first appearance within
// each implementation.
func Aggregate(table *dataframe.MeasurementTable, confidence float64) *dataframe.AggregatedTable {
	out := &dataframe.AggregatedTable{Confidence: confidence}
	if table == nil {
		return out
	}

	var implementations []string
	byImplementation := make(map[string][]*group)
	index := make(map[groupKey]*group)

	for i := range table.Rows {
		row := &table.Rows[i]
		key := groupKey{implementation: row.Implementation, scenario: row.Scenario}

		g, ok := index[key]
		if !ok {
			g = &group{key: key, values: make(map[dataframe.Metric][]float64)}
			index[key] = g
			if _, seen := byImplementation[key.implementation]; !seen {
				implementations = append(implementations, key.implementation)
			}
			byImplementation[key.implementation] = append(byImplementation[key.implementation], g)
		}

		for _, m := range dataframe.Metrics {
			if v := row.Value(m); v != nil {
				g.values[m] = append(g.values[m], *v)
			}
		}
	}

	for _, impl := range implementations {
		for _, g := range byImplementation[impl] {
			aggRow := dataframe.AggregatedRow{
				Implementation: g.key.implementation,
				Scenario:       g.key.scenario,
				Summaries:      make(map[dataframe.Metric]*dataframe.MetricSummary),
			}
			for _, m := range dataframe.Metrics {
				if s := Summarize(g.values[m], confidence); s != nil {
					aggRow.Summaries[m] = s
				}
			}
			out.Rows = append(out.Rows, aggRow)
		}
	}

	return out
}

// Summarize returns nil for an empty sample. The confidence interval of a
// single observation collapses to that observation.
func Summarize(xs []float64, confidence float64) *dataframe.MetricSummary {
	if len(xs) == 0 {
		return nil
	}

	sample := stats.Sample{Xs: xs}
	lo, hi := sample.Bounds()
	mean := sample.Mean()

	// Summation error can push the mean of near-identical values just
	// outside the observed range.
	if mean < lo {
		mean = lo
	}
	if mean > hi {
		mean = hi
	}

	summary := &dataframe.MetricSummary{
		N:    len(xs),
		Mean: mean,
		Min:  lo,
		Max:  hi,
		Lo:   mean,
		Hi:   mean,
	}

	if len(xs) >= 2 {
		// NewSample sorts in place.
		values := append([]float64(nil), xs...)
		ci := benchmath.AssumeNormal.Summary(benchmath.NewSample(values, &benchmath.DefaultThresholds), confidence)
		summary.Lo, summary.Hi = ci.Lo, ci.Hi
	}

	return summary
}
