package figure

import (
	"rwbench-report/internal/aggregate"
	"rwbench-report/internal/dataframe"
	"rwbench-report/internal/plot/mappings"

	"golang.org/x/perf/benchunit"
)

const (
	ScenarioAxisLabel = "Escenario"
	ConfigAxisLabel   = "Lectores - Escritores"
	MissingValueLabel = "n/a"
)

// BuildAggregateFigures returns one bar figure per descriptor. Panels
// follow the order of implementations in the aggregated table and bars
// follow each implementation's scenario order.
func BuildAggregateFigures(agg *dataframe.AggregatedTable, descriptors []Descriptor, legend []LegendEntry) []*Figure {
	var figures []*Figure

	for _, d := range descriptors {
		fig := newFigure(d, KindBar, ScenarioAxisLabel)
		fig.Confidence = agg.Confidence

		panelIndex := make(map[string]int)

		for i := range agg.Rows {
			row := &agg.Rows[i]
			idx, ok := panelIndex[row.Implementation]
			if !ok {
				idx = len(fig.Panels)
				panelIndex[row.Implementation] = idx
				fig.Panels = append(fig.Panels, Panel{Implementation: row.Implementation})
			}
			panel := &fig.Panels[idx]

			bar := Bar{Category: row.Scenario, Label: MissingValueLabel}
			if s := row.Summary(d.Metric); s != nil {
				mean := s.Mean
				bar.Value = &mean
				bar.Lo, bar.Hi, bar.N = s.Lo, s.Hi, s.N
			}
			panel.Categories = append(panel.Categories, row.Scenario)
			panel.Bars = append(panel.Bars, bar)
		}

		for p := range fig.Panels {
			labelBars(d.Metric, fig.Panels[p].Bars)
		}

		fig.Legend = legendFor(fig.Panels, legend)
		figures = append(figures, fig)
	}

	return figures
}

// BuildRowFigures returns one line figure per descriptor with one point
// per implementation and configuration: the mean of its rows, with the
// confidence interval of that mean. Rows without reader and writer counts
// are placed by scenario instead.
func BuildRowFigures(table *dataframe.MeasurementTable, confidence float64, descriptors []Descriptor, legend []LegendEntry) []*Figure {
	var figures []*Figure

	for _, d := range descriptors {
		fig := newFigure(d, KindLine, ConfigAxisLabel)
		fig.Confidence = confidence

		panelIndex := make(map[string]int)
		categoryIndex := make([]map[string]int, 0)
		var samples [][][]float64
		var scenarios []string

		for i := range table.Rows {
			row := &table.Rows[i]

			idx, ok := panelIndex[row.Implementation]
			if !ok {
				idx = len(fig.Panels)
				panelIndex[row.Implementation] = idx
				fig.Panels = append(fig.Panels, Panel{Implementation: row.Implementation})
				categoryIndex = append(categoryIndex, make(map[string]int))
				samples = append(samples, nil)
			}

			v := row.Value(d.Metric)
			if v == nil {
				continue
			}

			category := row.Config
			if category == "" {
				category = row.Scenario
			}
			scenarios = append(scenarios, row.Scenario)

			panel := &fig.Panels[idx]
			c, ok := categoryIndex[idx][category]
			if !ok {
				c = len(panel.Categories)
				categoryIndex[idx][category] = c
				panel.Categories = append(panel.Categories, category)
				samples[idx] = append(samples[idx], nil)
			}
			samples[idx][c] = append(samples[idx][c], *v)
		}

		for p := range fig.Panels {
			panel := &fig.Panels[p]
			for c, xs := range samples[p] {
				s := aggregate.Summarize(xs, confidence)
				panel.Points = append(panel.Points, Point{Category: c, Value: s.Mean, Lo: s.Lo, Hi: s.Hi, N: s.N})
			}
			labelPoints(d.Metric, panel.Points)
		}

		fig.Legend = filterLegend(scenarios, legend)
		figures = append(figures, fig)
	}

	return figures
}

func newFigure(d Descriptor, kind Kind, xLabel string) *Figure {
	title := d.Title
	if title == "" {
		title = string(d.Metric)
	}
	yLabel := d.YLabel
	if yLabel == "" {
		yLabel = string(d.Metric)
	}

	fig := &Figure{
		Metric:     d.Metric,
		Title:      title,
		XLabel:     xLabel,
		YLabel:     yLabel,
		ShortLabel: d.ShortLabel,
		Kind:       kind,
	}

	if mapping, exists := mappings.GetMetricMapping(string(d.Metric)); exists {
		if min, ok := mappings.Bound(mapping.Min); ok {
			fig.YMin = &min
		}
		if max, ok := mappings.Bound(mapping.Max); ok {
			fig.YMax = &max
		}
		fig.LowerIsBetter = mapping.LowerIsBetter
	}

	return fig
}

// Labels share one scale per panel.
func labelBars(metric dataframe.Metric, bars []Bar) {
	var values []float64
	for _, b := range bars {
		if b.Value != nil {
			values = append(values, *b.Value)
		}
	}
	scaler := labelScaler(metric, values)
	for i := range bars {
		if bars[i].Value != nil {
			bars[i].Label = scaler.Format(*bars[i].Value)
		}
	}
}

func labelPoints(metric dataframe.Metric, points []Point) {
	values := make([]float64, len(points))
	for i, pt := range points {
		values[i] = pt.Value
	}
	scaler := labelScaler(metric, values)
	for i := range points {
		points[i].Label = scaler.Format(points[i].Value)
	}
}

func labelScaler(metric dataframe.Metric, values []float64) benchunit.Scaler {
	class := benchunit.Decimal
	if mapping, exists := mappings.GetMetricMapping(string(metric)); exists {
		class = mapping.Class()
	}
	return benchunit.CommonScale(values, class)
}

func legendFor(panels []Panel, legend []LegendEntry) []LegendEntry {
	var scenarios []string
	for _, p := range panels {
		scenarios = append(scenarios, p.Categories...)
	}
	return filterLegend(scenarios, legend)
}

// filterLegend keeps the entries whose code appears in the figure.
func filterLegend(scenarios []string, legend []LegendEntry) []LegendEntry {
	present := make(map[string]bool, len(scenarios))
	for _, s := range scenarios {
		present[s] = true
	}

	var out []LegendEntry
	for _, e := range legend {
		if present[e.Code] {
			out = append(out, e)
		}
	}
	return out
}
