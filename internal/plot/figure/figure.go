package figure

import (
	"sort"

	"rwbench-report/internal/dataframe"
)

type Kind string

const (
	// KindBar draws one bar per scenario with the group mean.
	KindBar Kind = "bar"
	// KindLine draws one point per run along reader-writer configurations.
	KindLine Kind = "line"
)

type Descriptor struct {
	Metric     dataframe.Metric
	Title      string
	YLabel     string
	ShortLabel string
}

type LegendEntry struct {
	Code        string
	Description string
}

// Figure is one metric's chart, independent of the output format.
type Figure struct {
	Metric        dataframe.Metric
	Title         string
	XLabel        string
	YLabel        string
	ShortLabel    string
	Kind          Kind
	Confidence    float64
	Panels        []Panel
	Legend        []LegendEntry
	LowerIsBetter bool
	// YMin and YMax are set when the metric has a fixed axis bound.
	YMin          *float64
	YMax          *float64
}

// Panel holds one implementation's data. Categories are in first-encounter
// order; Bars is parallel to Categories for bar figures.
type Panel struct {
	Implementation string
	Categories     []string
	Bars           []Bar
	Points         []Point
}

type Bar struct {
	Category string
	// Value is nil when the group has no observations for the metric.
	Value *float64
	Lo    float64
	Hi    float64
	N     int
	Label string
}

// Point is the mean of the rows sharing one category.
type Point struct {
	// Category indexes Panel.Categories.
	Category int
	Value    float64
	Lo       float64
	Hi       float64
	N        int
	Label    string
}

func (f *Figure) HasData() bool {
	for _, p := range f.Panels {
		for _, b := range p.Bars {
			if b.Value != nil {
				return true
			}
		}
		if len(p.Points) > 0 {
			return true
		}
	}
	return false
}

// MaxValue is the largest drawn value including error bars.
func (f *Figure) MaxValue() float64 {
	max := 0.0
	for _, p := range f.Panels {
		for _, b := range p.Bars {
			if b.Value == nil {
				continue
			}
			if *b.Value > max {
				max = *b.Value
			}
			if b.Hi > max {
				max = b.Hi
			}
		}
		for _, pt := range p.Points {
			if pt.Value > max {
				max = pt.Value
			}
			if pt.Hi > max {
				max = pt.Hi
			}
		}
	}
	return max
}

// FileStem names the files written for this figure.
func (f *Figure) FileStem() string {
	return string(f.Metric)
}

// OrderedPoints returns the panel's points sorted by category.
func (p *Panel) OrderedPoints() []Point {
	out := append([]Point(nil), p.Points...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

// Grid lays n panels out in at most three columns.
func Grid(n int) (cols, rows int) {
	if n <= 0 {
		return 1, 1
	}
	cols = n
	if cols > 3 {
		cols = 3
	}
	rows = (n + cols - 1) / cols
	return cols, rows
}

// CategoryIndex numbers the figure's categories in first-encounter order
// across panels, so a category keeps its colour in every panel.
func (f *Figure) CategoryIndex() map[string]int {
	index := make(map[string]int)
	for _, p := range f.Panels {
		for _, c := range p.Categories {
			if _, ok := index[c]; !ok {
				index[c] = len(index)
			}
		}
	}
	return index
}
