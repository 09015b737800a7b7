package html

import (
	"fmt"
	"io"
	"strings"

	"rwbench-report/internal/plot/figure"
	"rwbench-report/internal/plot/mappings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sirupsen/logrus"
)

const (
	FileName  = "report.html"
	PageTitle = "Benchmark lectores-escritores"

	// echarts draws "-" as a gap.
	missingValue = "-"
)

type HTMLGenerator struct {
	logger *logrus.Logger
}

func NewHTMLGenerator(logger *logrus.Logger) *HTMLGenerator {
	return &HTMLGenerator{
		logger: logger,
	}
}

// Generate writes one interactive page with a chart per panel of every figure.
func (g *HTMLGenerator) Generate(figs []*figure.Figure, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = PageTitle
	page.SetLayout(components.PageFlexLayout)

	count := 0
	for _, fig := range figs {
		for idx, panel := range fig.Panels {
			switch fig.Kind {
			case figure.KindBar:
				page.AddCharts(barChart(fig, panel))
			case figure.KindLine:
				page.AddCharts(lineChart(fig, panel, idx))
			}
			count++
		}
	}

	g.logger.WithFields(logrus.Fields{
		"figures": len(figs),
		"charts":  count,
	}).Debug("Generating HTML report")

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render html page: %w", err)
	}
	return nil
}

func globalOptions(fig *figure.Figure, panel figure.Panel) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "560px",
			Height: "380px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fig.Title,
			Subtitle: panel.Implementation + legendText(fig.Legend),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: fig.XLabel,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: fig.YLabel,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
	}
}

func barChart(fig *figure.Figure, panel figure.Panel) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(fig, panel)...)

	colors := fig.CategoryIndex()
	data := make([]opts.BarData, 0, len(panel.Bars))
	labels := make([]string, 0, len(panel.Bars))
	for _, b := range panel.Bars {
		item := opts.BarData{
			Name:  b.Category,
			Value: missingValue,
			ItemStyle: &opts.ItemStyle{
				Color: mappings.GetCategoryStyle(colors[b.Category]).Color,
			},
		}
		if b.Value != nil {
			item.Value = *b.Value
		}
		data = append(data, item)
		labels = append(labels, b.Label)
	}

	bar.SetXAxis(panel.Categories).
		AddSeries(panel.Implementation, data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Position:  "top",
			Formatter: opts.FuncOpts(labelFormatter(labels)),
		}))
	return bar
}

func lineChart(fig *figure.Figure, panel figure.Panel, idx int) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(fig, panel)...)

	// One slot per category; categories without a point stay empty.
	data := make([]opts.LineData, len(panel.Categories))
	labels := make([]string, len(panel.Categories))
	for i := range data {
		data[i] = opts.LineData{Value: missingValue}
	}
	for _, pt := range panel.Points {
		data[pt.Category] = opts.LineData{Value: pt.Value}
		labels[pt.Category] = pt.Label
	}

	line.SetXAxis(panel.Categories).
		AddSeries(panel.Implementation, data).
		SetSeriesOptions(
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: mappings.GetCategoryStyle(idx).Color,
			}),
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: opts.FuncOpts(labelFormatter(labels)),
			}),
		)
	return line
}

// labelFormatter shows the preformatted label of each data item instead of
// the raw value. Labels are single-quoted since the options are serialized
// as JSON before the function is inlined.
func labelFormatter(labels []string) string {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = "'" + labelEscaper.Replace(l) + "'"
	}
	return fmt.Sprintf("function (params) { return [%s][params.dataIndex]; }", strings.Join(quoted, ","))
}

var labelEscaper = strings.NewReplacer(`'`, "", `"`, "", `\`, "")

func legendText(legend []figure.LegendEntry) string {
	text := ""
	for _, e := range legend {
		text += fmt.Sprintf("\n%s = %s", e.Code, e.Description)
	}
	return text
}
