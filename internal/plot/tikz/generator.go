package tikz

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"
	"time"

	"rwbench-report/internal/plot/figure"
	"rwbench-report/internal/plot/mappings"
	groupTemplate "rwbench-report/internal/plot/tikz/templates/group"
	plotTemplate "rwbench-report/internal/plot/tikz/templates/plot"
	wrapperTemplate "rwbench-report/internal/plot/tikz/templates/wrapper"

	"github.com/sirupsen/logrus"
)

const (
	barOptions   = "ybar,bar width=0.6,bar shift=0pt"
	errorOptions = "error bars/.cd,y dir=both,y explicit"
	metaOptions  = "nodes near coords,nodes near coords style={font=\\tiny},point meta=explicit symbolic"
)

type TikzGenerator struct {
	logger *logrus.Logger
}

func NewTikzGenerator(logger *logrus.Logger) *TikzGenerator {
	return &TikzGenerator{
		logger: logger,
	}
}

// Generate renders the pgfplots picture for a figure and the LaTeX figure
// environment that inputs it.
func (g *TikzGenerator) Generate(fig *figure.Figure) (string, string, error) {
	g.logger.WithFields(logrus.Fields{
		"metric": fig.Metric,
		"panels": len(fig.Panels),
		"kind":   fig.Kind,
	}).Debug("Generating TikZ plot")

	plotOutput, err := g.renderPlot(g.preparePlotData(fig))
	if err != nil {
		return "", "", fmt.Errorf("failed to render plot: %w", err)
	}

	wrapperOutput, err := g.renderWrapper(g.prepareWrapperData(fig))
	if err != nil {
		return "", "", fmt.Errorf("failed to render wrapper: %w", err)
	}

	return plotOutput, wrapperOutput, nil
}

func (g *TikzGenerator) preparePlotData(fig *figure.Figure) *plotTemplate.PlotData {
	cols, rows := figure.Grid(len(fig.Panels))

	data := &plotTemplate.PlotData{
		GeneratedDate: time.Now().Format(time.RFC3339),
		Metric:        string(fig.Metric),
		Title:         texEscape(fig.Title),
		Columns:       cols,
		Rows:          rows,
		XLabel:        texEscape(fig.XLabel),
		YLabel:        texEscape(fig.YLabel),
		LowerIsBetter: fig.LowerIsBetter,
		Confidence:    fig.Confidence,
	}
	if fig.YMin != nil {
		data.YMin = formatNumber(*fig.YMin)
	}
	if fig.YMax != nil {
		data.YMax = formatNumber(*fig.YMax)
	}

	colors := fig.CategoryIndex()

	for idx, panel := range fig.Panels {
		panelData := plotTemplate.PanelData{
			Implementation: panel.Implementation,
			Title:          texEscape(panel.Implementation),
			XMin:           "0.5",
			XMax:           formatNumber(float64(len(panel.Categories)) + 0.5),
			XTicks:         tickPositions(len(panel.Categories)),
			XTickLabels:    tickLabels(panel.Categories),
		}

		switch fig.Kind {
		case figure.KindBar:
			for i, bar := range panel.Bars {
				x := i + 1
				if bar.Value == nil {
					panelData.Notes = append(panelData.Notes, plotTemplate.Note{X: x, Text: texEscape(bar.Label)})
					continue
				}
				style := mappings.GetCategoryStyle(colors[bar.Category])
				panelData.Series = append(panelData.Series, plotTemplate.PlotSeries{
					Style:       strings.Join([]string{barOptions, style.ToTikzBarOptions(), metaOptions, errorOptions}, ","),
					Coordinates: []string{barCoordinate(x, bar)},
				})
			}
		case figure.KindLine:
			style := mappings.GetCategoryStyle(idx)
			series := plotTemplate.PlotSeries{
				Style: style.ToTikzOptions() + "," + metaOptions,
			}
			if fig.Confidence > 0 {
				series.Style += "," + errorOptions
			}
			for _, pt := range panel.OrderedPoints() {
				series.Coordinates = append(series.Coordinates, pointCoordinate(pt, fig.Confidence > 0))
			}
			if len(series.Coordinates) > 0 {
				panelData.Series = append(panelData.Series, series)
			}
		}

		data.Panels = append(data.Panels, panelData)
	}

	for _, e := range fig.Legend {
		data.Legend = append(data.Legend, fmt.Sprintf("%s = %s", texEscape(e.Code), texEscape(e.Description)))
	}

	return data
}

func (g *TikzGenerator) prepareWrapperData(fig *figure.Figure) *wrapperTemplate.WrapperData {
	short := fig.ShortLabel
	if short == "" {
		short = fig.Title
	}

	return &wrapperTemplate.WrapperData{
		GeneratedDate: time.Now().Format(time.RFC3339),
		Metric:        string(fig.Metric),
		LabelID:       labelID(string(fig.Metric)),
		PlotFileName:  PlotFileName(fig),
		ShortCaption:  texEscape(short),
		Caption:       texEscape(fig.Title),
	}
}

func (g *TikzGenerator) renderPlot(data *plotTemplate.PlotData) (string, error) {
	tmpl, err := template.New("plot").Parse(plotTemplate.PlotTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse plot template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute plot template: %w", err)
	}

	return buf.String(), nil
}

func (g *TikzGenerator) renderWrapper(data *wrapperTemplate.WrapperData) (string, error) {
	tmpl, err := template.New("wrapper").Parse(wrapperTemplate.WrapperTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse wrapper template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute wrapper template: %w", err)
	}

	return buf.String(), nil
}

// GenerateGroupWrapper stacks several metric plots in one LaTeX figure.
func (g *TikzGenerator) GenerateGroupWrapper(figs []*figure.Figure, groupLabel string) (string, error) {
	var metrics []string
	var subfigures []groupTemplate.SubfigureData
	for _, fig := range figs {
		metrics = append(metrics, string(fig.Metric))

		caption := fig.ShortLabel
		if caption == "" {
			caption = fig.Title
		}
		subfigures = append(subfigures, groupTemplate.SubfigureData{
			PlotFileName: PlotFileName(fig),
			Caption:      texEscape(caption),
		})
	}

	g.logger.WithField("metrics", metrics).Debug("Generating TikZ group wrapper")

	groupData := &groupTemplate.GroupWrapperData{
		GeneratedDate: time.Now().Format(time.RFC3339),
		Metrics:       metrics,
		LabelID:       labelID(groupLabel),
		Subfigures:    subfigures,
		ShortCaption:  "Benchmark lectores-escritores",
		Caption:       "Resultados del benchmark lectores-escritores por implementaci\\'on",
	}

	tmpl, err := template.New("group").Parse(groupTemplate.GroupWrapperTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse group wrapper template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, groupData); err != nil {
		return "", fmt.Errorf("failed to execute group wrapper template: %w", err)
	}

	return buf.String(), nil
}

func PlotFileName(fig *figure.Figure) string {
	return fig.FileStem() + ".tikz"
}

func WrapperFileName(fig *figure.Figure) string {
	return fig.FileStem() + "-wrapper.tex"
}

func barCoordinate(x int, bar figure.Bar) string {
	v := *bar.Value
	return fmt.Sprintf("(%d,%s) += (0,%s) -= (0,%s) [%s]",
		x, formatNumber(v), formatNumber(math.Max(0, bar.Hi-v)), formatNumber(math.Max(0, v-bar.Lo)), texEscape(bar.Label))
}

func pointCoordinate(pt figure.Point, withErrors bool) string {
	x, v := pt.Category+1, pt.Value
	if !withErrors {
		return fmt.Sprintf("(%d,%s) [%s]", x, formatNumber(v), texEscape(pt.Label))
	}
	return fmt.Sprintf("(%d,%s) += (0,%s) -= (0,%s) [%s]",
		x, formatNumber(v), formatNumber(math.Max(0, pt.Hi-v)), formatNumber(math.Max(0, v-pt.Lo)), texEscape(pt.Label))
}

func tickPositions(n int) string {
	positions := make([]string, n)
	for i := range positions {
		positions[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(positions, ",")
}

func tickLabels(categories []string) string {
	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = "{" + texEscape(c) + "}"
	}
	return strings.Join(labels, ",")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func labelID(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "-")
}

var texReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`_`, `\_`,
	`%`, `\%`,
	`&`, `\&`,
	`#`, `\#`,
	`$`, `\$`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

func texEscape(s string) string {
	return texReplacer.Replace(s)
}
