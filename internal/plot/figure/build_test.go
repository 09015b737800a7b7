package figure

import (
	"math"
	"reflect"
	"testing"

	"rwbench-report/internal/dataframe"
)

var execTime = []Descriptor{{
	Metric: dataframe.MetricProgramExecTime,
	Title:  "Program Execution Time",
	YLabel: "Tiempo de ejecución (segundos)",
}}

var legend = []LegendEntry{
	{Code: "R_eq_W", Description: "Numero de lectores igual al de escritores"},
	{Code: "W_gt_R", Description: "Mayor numero de escritores que de lectores"},
	{Code: "R_gt_W", Description: "mayor numero de lectores que de escritores"},
}

func aggRow(impl, scenario string, mean float64) dataframe.AggregatedRow {
	return dataframe.AggregatedRow{
		Implementation: impl,
		Scenario:       scenario,
		Summaries: map[dataframe.Metric]*dataframe.MetricSummary{
			dataframe.MetricProgramExecTime: {N: 3, Mean: mean, Min: mean - 1, Max: mean + 1, Lo: mean - 0.5, Hi: mean + 0.5},
		},
	}
}

func TestBuildAggregateFigures_PanelsAndBars(t *testing.T) {
	agg := &dataframe.AggregatedTable{
		Confidence: 0.95,
		Rows: []dataframe.AggregatedRow{
			aggRow("rwlock", "W_gt_R", 2.0),
			aggRow("rwlock", "R_eq_W", 1.5),
			aggRow("mutex", "R_eq_W", 3.0),
		},
	}

	figures := BuildAggregateFigures(agg, execTime, legend)
	if len(figures) != 1 {
		t.Fatalf("expected 1 figure, got %d", len(figures))
	}
	fig := figures[0]

	if fig.Kind != KindBar || fig.XLabel != ScenarioAxisLabel {
		t.Fatalf("unexpected figure kind %s / x label %q", fig.Kind, fig.XLabel)
	}
	if fig.Title != "Program Execution Time" {
		t.Fatalf("unexpected title %q", fig.Title)
	}
	if len(fig.Panels) != 2 || fig.Panels[0].Implementation != "rwlock" || fig.Panels[1].Implementation != "mutex" {
		t.Fatalf("expected panels in first-encounter order, got %+v", fig.Panels)
	}
	if !reflect.DeepEqual(fig.Panels[0].Categories, []string{"W_gt_R", "R_eq_W"}) {
		t.Fatalf("unexpected categories %v", fig.Panels[0].Categories)
	}

	bar := fig.Panels[0].Bars[0]
	if bar.Value == nil || *bar.Value != 2.0 || bar.Lo != 1.5 || bar.Hi != 2.5 || bar.N != 3 {
		t.Fatalf("unexpected bar %+v", bar)
	}
	if bar.Label != "2.000" {
		t.Fatalf("expected label 2.000, got %q", bar.Label)
	}
	if fig.YMin == nil || *fig.YMin != 0 {
		t.Fatalf("expected y axis to start at 0")
	}
	if fig.YMax != nil || !fig.LowerIsBetter {
		t.Fatalf("expected automatic y max and lower-is-better execution time")
	}
	if fig.MaxValue() != 3.5 {
		t.Fatalf("expected max value to include error bars, got %v", fig.MaxValue())
	}

	codes := []string{}
	for _, e := range fig.Legend {
		codes = append(codes, e.Code)
	}
	if !reflect.DeepEqual(codes, []string{"R_eq_W", "W_gt_R"}) {
		t.Fatalf("expected legend limited to present scenarios, got %v", codes)
	}
}

func TestBuildAggregateFigures_NewScenarioOnlyAffectsItsPanel(t *testing.T) {
	base := []dataframe.AggregatedRow{
		aggRow("A", "R_eq_W", 1.0),
		aggRow("A", "W_gt_R", 2.0),
		aggRow("B", "R_eq_W", 3.0),
	}
	withNew := append(append([]dataframe.AggregatedRow(nil), base...), aggRow("B", "R_x4_W", 4.0))

	before := BuildAggregateFigures(&dataframe.AggregatedTable{Rows: base}, execTime, legend)[0]
	after := BuildAggregateFigures(&dataframe.AggregatedTable{Rows: withNew}, execTime, legend)[0]

	if !reflect.DeepEqual(before.Panels[0], after.Panels[0]) {
		t.Fatalf("panel A changed:\nbefore %+v\nafter  %+v", before.Panels[0], after.Panels[0])
	}
	if !reflect.DeepEqual(after.Panels[1].Categories, []string{"R_eq_W", "R_x4_W"}) {
		t.Fatalf("expected new category in panel B, got %v", after.Panels[1].Categories)
	}
	if len(after.Legend) != len(before.Legend) {
		t.Fatalf("unknown scenario must not add a legend entry")
	}
}

func TestBuildAggregateFigures_MissingMetric(t *testing.T) {
	row := dataframe.AggregatedRow{Implementation: "A", Scenario: "R_eq_W"}
	figures := BuildAggregateFigures(&dataframe.AggregatedTable{Rows: []dataframe.AggregatedRow{row}}, execTime, nil)

	fig := figures[0]
	if fig.HasData() {
		t.Fatalf("figure without values must report no data")
	}
	bar := fig.Panels[0].Bars[0]
	if bar.Value != nil || bar.Label != MissingValueLabel {
		t.Fatalf("expected missing bar labelled %q, got %+v", MissingValueLabel, bar)
	}
}

func TestBuildAggregateFigures_CycleLabelsScale(t *testing.T) {
	row := dataframe.AggregatedRow{
		Implementation: "A",
		Scenario:       "R_eq_W",
		Summaries: map[dataframe.Metric]*dataframe.MetricSummary{
			dataframe.MetricCPUCycles: {N: 1, Mean: 1500000, Min: 1500000, Max: 1500000, Lo: 1500000, Hi: 1500000},
		},
	}
	d := []Descriptor{{Metric: dataframe.MetricCPUCycles}}

	fig := BuildAggregateFigures(&dataframe.AggregatedTable{Rows: []dataframe.AggregatedRow{row}}, d, nil)[0]
	if got := fig.Panels[0].Bars[0].Label; got != "1.500M" {
		t.Fatalf("expected 1.500M, got %q", got)
	}
	if fig.Title != string(dataframe.MetricCPUCycles) {
		t.Fatalf("expected metric name as fallback title, got %q", fig.Title)
	}
}

func intPtr(v int) *int { return &v }

func measurement(impl string, readers, writers int, exec float64) dataframe.MeasurementRow {
	r, w := intPtr(readers), intPtr(writers)
	return dataframe.MeasurementRow{
		Implementation:     impl,
		Scenario:           "R_eq_W",
		Readers:            r,
		Writers:            w,
		Config:             dataframe.ConfigLabel(r, w),
		ProgramExecTimeSec: &exec,
	}
}

func TestBuildRowFigures(t *testing.T) {
	noCounts := dataframe.MeasurementRow{Implementation: "v2", Scenario: "W_gt_R"}
	exec := 0.9
	noCounts.ProgramExecTimeSec = &exec

	table := &dataframe.MeasurementTable{
		Rows: []dataframe.MeasurementRow{
			measurement("v1", 1, 1, 0.5),
			measurement("v1", 2, 1, 0.6),
			measurement("v1", 1, 1, 0.7),
			noCounts,
			{Implementation: "v3", Scenario: "R_eq_W"},
		},
	}

	fig := BuildRowFigures(table, 0.95, execTime, legend)[0]
	if fig.Kind != KindLine || fig.XLabel != ConfigAxisLabel {
		t.Fatalf("unexpected kind %s / x label %q", fig.Kind, fig.XLabel)
	}
	if len(fig.Panels) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(fig.Panels))
	}

	v1 := fig.Panels[0]
	if !reflect.DeepEqual(v1.Categories, []string{"1-1", "2-1"}) {
		t.Fatalf("unexpected categories %v", v1.Categories)
	}
	if len(v1.Points) != 2 || v1.Points[0].Category != 0 || v1.Points[1].Category != 1 {
		t.Fatalf("expected one point per configuration, got %+v", v1.Points)
	}
	if math.Abs(v1.Points[0].Value-0.6) > 1e-9 || v1.Points[0].N != 2 {
		t.Fatalf("expected the 1-1 point to be the mean of two rows, got %+v", v1.Points[0])
	}
	if v1.Points[1].Value != 0.6 || v1.Points[1].Lo != 0.6 || v1.Points[1].Hi != 0.6 {
		t.Fatalf("a single row must collapse its interval, got %+v", v1.Points[1])
	}

	if !reflect.DeepEqual(fig.Panels[1].Categories, []string{"W_gt_R"}) {
		t.Fatalf("expected scenario fallback category, got %v", fig.Panels[1].Categories)
	}
	if len(fig.Panels[2].Points) != 0 {
		t.Fatalf("rows without the metric must not produce points")
	}
	if len(fig.Legend) != 2 {
		t.Fatalf("expected legend for R_eq_W and W_gt_R, got %v", fig.Legend)
	}
}

func TestBuildRowFigures_MeanPerConfig(t *testing.T) {
	table := &dataframe.MeasurementTable{
		Rows: []dataframe.MeasurementRow{
			measurement("v1", 4, 4, 1.0),
			measurement("v1", 4, 4, 3.0),
		},
	}

	fig := BuildRowFigures(table, 0.95, execTime, legend)[0]
	if fig.Confidence != 0.95 {
		t.Fatalf("expected confidence 0.95, got %v", fig.Confidence)
	}

	panel := fig.Panels[0]
	if !reflect.DeepEqual(panel.Categories, []string{"4-4"}) {
		t.Fatalf("unexpected categories %v", panel.Categories)
	}
	if len(panel.Points) != 1 {
		t.Fatalf("expected a single point, got %+v", panel.Points)
	}

	pt := panel.Points[0]
	if pt.Value != 2.0 || pt.N != 2 {
		t.Fatalf("expected mean 2 over 2 rows, got %+v", pt)
	}
	if !(pt.Lo < pt.Value && pt.Value < pt.Hi) {
		t.Fatalf("expected the interval to bracket the mean, got [%v, %v]", pt.Lo, pt.Hi)
	}
	if pt.Label != "2.000" {
		t.Fatalf("expected label 2.000, got %q", pt.Label)
	}
	if fig.MaxValue() != pt.Hi {
		t.Fatalf("max value must include the interval, got %v", fig.MaxValue())
	}
}
