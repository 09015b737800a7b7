package image

import (
	"bytes"
	"strings"
	"testing"

	"rwbench-report/internal/dataframe"
	"rwbench-report/internal/logging"
	"rwbench-report/internal/plot/figure"
)

func fptr(v float64) *float64 { return &v }

func barFigure() *figure.Figure {
	return &figure.Figure{
		Metric: dataframe.MetricProgramExecTime,
		Title:  "Program Execution Time",
		XLabel: figure.ScenarioAxisLabel,
		YLabel: "segundos",
		Kind:   figure.KindBar,
		YMin:   fptr(0),
		Panels: []figure.Panel{
			{
				Implementation: "mutex",
				Categories:     []string{"R_eq_W", "W_gt_R"},
				Bars: []figure.Bar{
					{Category: "R_eq_W", Value: fptr(2), Lo: 1.5, Hi: 2.5, N: 2, Label: "2.000"},
					{Category: "W_gt_R", Label: figure.MissingValueLabel},
				},
			},
			{
				Implementation: "rwlock",
				Categories:     []string{"R_eq_W"},
				Bars:           []figure.Bar{{Category: "R_eq_W", Value: fptr(1), Lo: 1, Hi: 1, N: 1, Label: "1.000"}},
			},
		},
		Legend: []figure.LegendEntry{{Code: "R_eq_W", Description: "Numero de lectores igual al de escritores"}},
	}
}

func TestGenerate_PNG(t *testing.T) {
	var buf bytes.Buffer
	g := NewImageGenerator(logging.GetLogger())

	if err := g.Generate(barFigure(), FormatPNG, Options{Width: 8, Height: 6, DPI: 72}, &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("expected PNG signature")
	}
}

func TestGenerate_SVGLine(t *testing.T) {
	fig := &figure.Figure{
		Metric:     dataframe.MetricTaskClock,
		Title:      "Task Clock",
		XLabel:     figure.ConfigAxisLabel,
		YLabel:     "ms",
		Kind:       figure.KindLine,
		Confidence: 0.95,
		Panels: []figure.Panel{
			{
				Implementation: "v1",
				Categories:     []string{"1-1", "2-1"},
				Points: []figure.Point{
					{Category: 0, Value: 10.5, Lo: 9.5, Hi: 11.5, N: 2, Label: "10.50"},
					{Category: 1, Value: 12, Lo: 12, Hi: 12, N: 1, Label: "12.00"},
				},
			},
			{Implementation: "v2"},
		},
	}

	var buf bytes.Buffer
	if err := NewImageGenerator(logging.GetLogger()).Generate(fig, FormatSVG, DefaultOptions, &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatalf("expected an svg root element")
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewImageGenerator(logging.GetLogger()).Generate(barFigure(), "gif", DefaultOptions, &buf); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestPreparePanels_Grid(t *testing.T) {
	fig := barFigure()
	for i := 0; i < 2; i++ {
		fig.Panels = append(fig.Panels, fig.Panels[i])
	}

	grid, err := NewImageGenerator(logging.GetLogger()).preparePanels(fig)
	if err != nil {
		t.Fatalf("preparePanels: %v", err)
	}
	if len(grid) != 2 || len(grid[0]) != 3 {
		t.Fatalf("expected 2x3 grid, got %dx%d", len(grid), len(grid[0]))
	}
	if grid[1][2] != nil {
		t.Fatalf("expected unused cell to stay empty")
	}
	if grid[0][0].Y.Min != 0 {
		t.Fatalf("expected y axis to start at 0, got %v", grid[0][0].Y.Min)
	}
}
