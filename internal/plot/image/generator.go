package image

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"rwbench-report/internal/plot/figure"
	"rwbench-report/internal/plot/mappings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Options sizes the canvas. Width and Height are in centimetres per panel.
type Options struct {
	Width  float64
	Height float64
	DPI    int
}

var DefaultOptions = Options{Width: 16, Height: 9, DPI: 150}

type ImageGenerator struct {
	logger *logrus.Logger
}

func NewImageGenerator(logger *logrus.Logger) *ImageGenerator {
	return &ImageGenerator{
		logger: logger,
	}
}

// Generate draws every panel of the figure on one canvas and writes it to w
// as PNG or SVG.
func (g *ImageGenerator) Generate(fig *figure.Figure, format string, opts Options, w io.Writer) error {
	g.logger.WithFields(logrus.Fields{
		"metric": fig.Metric,
		"format": format,
		"panels": len(fig.Panels),
	}).Debug("Generating chart image")

	opts = withDefaults(opts)

	grid, err := g.preparePanels(fig)
	if err != nil {
		return fmt.Errorf("failed to prepare panels: %w", err)
	}

	rows, cols := len(grid), len(grid[0])
	width := vg.Length(opts.Width) * vg.Centimeter * vg.Length(cols)
	height := vg.Length(opts.Height)*vg.Centimeter*vg.Length(rows) + headerHeight + legendHeight(fig)

	var canvas vg.CanvasWriterTo
	switch format {
	case FormatPNG:
		canvas = vgimg.PngCanvas{Canvas: vgimg.NewWith(
			vgimg.UseWH(width, height),
			vgimg.UseDPI(opts.DPI),
			vgimg.UseBackgroundColor(color.White),
		)}
	case FormatSVG:
		canvas = vgsvg.New(width, height)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}

	dc := draw.New(canvas)
	g.drawFigure(dc, fig, grid)

	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	return nil
}

const (
	headerHeight vg.Length = 28
	legendLine   vg.Length = 12
	margin                 = 4 * vg.Millimeter
)

func legendHeight(fig *figure.Figure) vg.Length {
	if len(fig.Legend) == 0 {
		return 0
	}
	return legendLine*vg.Length(len(fig.Legend)+1) + margin
}

func (g *ImageGenerator) drawFigure(dc draw.Canvas, fig *figure.Figure, grid [][]*plot.Plot) {
	tiles := draw.Tiles{
		Rows:      len(grid),
		Cols:      len(grid[0]),
		PadX:      margin,
		PadY:      margin,
		PadTop:    headerHeight,
		PadBottom: legendHeight(fig) + margin,
		PadLeft:   margin,
		PadRight:  margin,
	}

	canvases := plot.Align(grid, tiles, dc)
	for j := range grid {
		for i, p := range grid[j] {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	center := (dc.Min.X + dc.Max.X) / 2
	dc.FillText(textStyle(14, draw.XCenter, draw.YTop), vg.Point{X: center, Y: dc.Max.Y - margin}, fig.Title)

	if len(fig.Legend) == 0 {
		return
	}
	style := textStyle(9, draw.XLeft, draw.YBottom)
	y := dc.Min.Y + margin + legendLine*vg.Length(len(fig.Legend))
	dc.FillText(style, vg.Point{X: dc.Min.X + margin, Y: y}, "Escenarios:")
	for _, e := range fig.Legend {
		y -= legendLine
		dc.FillText(style, vg.Point{X: dc.Min.X + margin, Y: y}, fmt.Sprintf("%s = %s", e.Code, e.Description))
	}
}

func textStyle(size vg.Length, x text.XAlignment, y text.YAlignment) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, size),
		XAlign:  x,
		YAlign:  y,
		Handler: plot.DefaultTextHandler,
	}
}

// preparePanels builds one gonum plot per panel laid out row-major.
// Unused grid cells stay nil.
func (g *ImageGenerator) preparePanels(fig *figure.Figure) ([][]*plot.Plot, error) {
	cols, rows := figure.Grid(len(fig.Panels))
	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
	}

	colors := fig.CategoryIndex()
	yMax := fig.MaxValue() * 1.15

	for idx, panel := range fig.Panels {
		p := plot.New()
		p.Title.Text = panel.Implementation
		p.X.Label.Text = fig.XLabel
		p.Y.Label.Text = fig.YLabel
		p.Add(plotter.NewGrid())

		var err error
		switch fig.Kind {
		case figure.KindBar:
			err = addBars(p, panel, colors)
		case figure.KindLine:
			err = addLine(p, panel, idx, fig.Confidence > 0)
		}
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", panel.Implementation, err)
		}

		p.NominalX(panel.Categories...)
		if fig.YMin != nil {
			p.Y.Min = *fig.YMin
		}
		switch {
		case fig.YMax != nil:
			p.Y.Max = *fig.YMax
		case yMax > p.Y.Min:
			p.Y.Max = yMax
		}

		grid[idx/cols][idx%cols] = p
	}

	return grid, nil
}

type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func addBars(p *plot.Plot, panel figure.Panel, colors map[string]int) error {
	var errs errorPoints
	var labels plotter.XYLabels

	for i, bar := range panel.Bars {
		x := float64(i)
		v := 0.0
		if bar.Value != nil {
			v = *bar.Value
		}

		bc, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(24))
		if err != nil {
			return fmt.Errorf("failed to create bar chart: %w", err)
		}
		bc.XMin = x
		bc.Color = mappings.GetCategoryStyle(colors[bar.Category]).RGBA()
		p.Add(bc)

		labels.XYs = append(labels.XYs, plotter.XY{X: x, Y: v})
		labels.Labels = append(labels.Labels, bar.Label)

		if bar.Value != nil {
			errs.XYs = append(errs.XYs, plotter.XY{X: x, Y: v})
			errs.YErrors = append(errs.YErrors, struct{ Low, High float64 }{math.Max(0, v-bar.Lo), math.Max(0, bar.Hi-v)})
		}
	}

	if len(errs.XYs) > 0 {
		eb, err := plotter.NewYErrorBars(errs)
		if err != nil {
			return fmt.Errorf("failed to create error bars: %w", err)
		}
		p.Add(eb)
	}

	return addLabels(p, labels)
}

func addLine(p *plot.Plot, panel figure.Panel, idx int, withErrors bool) error {
	points := panel.OrderedPoints()
	if len(points) == 0 {
		return nil
	}

	var xys plotter.XYs
	var errs errorPoints
	var labels plotter.XYLabels
	for _, pt := range points {
		xy := plotter.XY{X: float64(pt.Category), Y: pt.Value}
		xys = append(xys, xy)
		labels.XYs = append(labels.XYs, xy)
		labels.Labels = append(labels.Labels, pt.Label)
		errs.XYs = append(errs.XYs, xy)
		errs.YErrors = append(errs.YErrors, struct{ Low, High float64 }{math.Max(0, pt.Value-pt.Lo), math.Max(0, pt.Hi-pt.Value)})
	}

	line, scatter, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("failed to create line: %w", err)
	}
	c := mappings.GetCategoryStyle(idx).RGBA()
	line.Color = c
	line.Dashes = plotutil.Dashes(idx)
	scatter.Color = c
	scatter.Shape = plotutil.Shape(idx)
	p.Add(line, scatter)

	if withErrors {
		eb, err := plotter.NewYErrorBars(errs)
		if err != nil {
			return fmt.Errorf("failed to create error bars: %w", err)
		}
		eb.Color = c
		p.Add(eb)
	}

	return addLabels(p, labels)
}

func addLabels(p *plot.Plot, labels plotter.XYLabels) error {
	if len(labels.XYs) == 0 {
		return nil
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("failed to create labels: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].YAlign = draw.YBottom
		l.TextStyle[i].Font.Size = vg.Points(7)
	}
	l.Offset = vg.Point{Y: vg.Points(3)}
	p.Add(l)
	return nil
}

func withDefaults(opts Options) Options {
	if opts.Width <= 0 {
		opts.Width = DefaultOptions.Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultOptions.Height
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultOptions.DPI
	}
	return opts
}
