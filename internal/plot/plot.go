package plot

import (
	"fmt"
	"os"
	"path/filepath"

	"rwbench-report/internal/config"
	"rwbench-report/internal/dataframe"
	"rwbench-report/internal/plot/figure"
	"rwbench-report/internal/plot/html"
	"rwbench-report/internal/plot/image"
	"rwbench-report/internal/plot/tikz"

	"github.com/sirupsen/logrus"
)

// GroupWrapperFileName is written next to the TikZ plots when a report has
// more than one figure.
const GroupWrapperFileName = "metrics-wrapper.tex"

type OutputOptions struct {
	Dir     string
	Formats []string
	Image   image.Options
}

func OptionsFromConfig(cfg *config.ReportConfig) OutputOptions {
	out := cfg.Report.Output
	return OutputOptions{
		Dir:     out.Dir,
		Formats: out.Formats,
		Image: image.Options{
			Width:  out.Width,
			Height: out.Height,
			DPI:    out.DPI,
		},
	}
}

// Descriptors lists the configured metrics in report order.
func Descriptors(cfg *config.ReportConfig) []figure.Descriptor {
	descriptors := make([]figure.Descriptor, 0, len(cfg.Metrics))
	for _, m := range cfg.Metrics {
		descriptors = append(descriptors, figure.Descriptor{
			Metric:     dataframe.Metric(m.Field),
			Title:      m.Title,
			YLabel:     m.YLabel,
			ShortLabel: m.ShortLabel,
		})
	}
	return descriptors
}

func Legend(cfg *config.ReportConfig) []figure.LegendEntry {
	legend := make([]figure.LegendEntry, 0, len(cfg.Scenarios))
	for _, s := range cfg.Scenarios {
		legend = append(legend, figure.LegendEntry{Code: s.Code, Description: s.Description})
	}
	return legend
}

func BuildAggregateFigures(agg *dataframe.AggregatedTable, cfg *config.ReportConfig) []*figure.Figure {
	return figure.BuildAggregateFigures(agg, Descriptors(cfg), Legend(cfg))
}

func BuildRowFigures(table *dataframe.MeasurementTable, cfg *config.ReportConfig) []*figure.Figure {
	return figure.BuildRowFigures(table, cfg.Report.Confidence, Descriptors(cfg), Legend(cfg))
}

type PlotManager struct {
	tikzGenerator  *tikz.TikzGenerator
	imageGenerator *image.ImageGenerator
	htmlGenerator  *html.HTMLGenerator
	logger         *logrus.Logger
}

func NewPlotManager(logger *logrus.Logger) *PlotManager {
	return &PlotManager{
		tikzGenerator:  tikz.NewTikzGenerator(logger),
		imageGenerator: image.NewImageGenerator(logger),
		htmlGenerator:  html.NewHTMLGenerator(logger),
		logger:         logger,
	}
}

// Render writes every requested format for the figures into opts.Dir and
// returns the written paths. Figures without any value are skipped.
func (pm *PlotManager) Render(figs []*figure.Figure, opts OutputOptions) ([]string, error) {
	for _, format := range opts.Formats {
		switch format {
		case config.FormatTikz, config.FormatPNG, config.FormatSVG, config.FormatHTML:
		default:
			return nil, fmt.Errorf("unsupported output format %q", format)
		}
	}

	var drawable []*figure.Figure
	for _, fig := range figs {
		if !fig.HasData() {
			pm.logger.WithField("metric", fig.Metric).Warn("No data for metric, skipping figure")
			continue
		}
		drawable = append(drawable, fig)
	}

	if len(drawable) == 0 {
		pm.logger.Warn("Nothing to render")
		return nil, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = config.DefaultOutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		pm.logger.WithField("dir", dir).WithError(err).Error("Failed to create output directory")
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, format := range opts.Formats {
		var paths []string
		var err error

		switch format {
		case config.FormatTikz:
			paths, err = pm.renderTikz(drawable, dir)
		case config.FormatPNG, config.FormatSVG:
			paths, err = pm.renderImages(drawable, dir, format, opts.Image)
		case config.FormatHTML:
			paths, err = pm.renderHTML(drawable, dir)
		}
		if err != nil {
			pm.logger.WithField("format", format).WithError(err).Error("Failed to render figures")
			return written, err
		}
		written = append(written, paths...)
	}

	pm.logger.WithFields(logrus.Fields{
		"dir":     dir,
		"figures": len(drawable),
		"files":   len(written),
	}).Info("Charts rendered")

	return written, nil
}

func (pm *PlotManager) renderTikz(figs []*figure.Figure, dir string) ([]string, error) {
	var paths []string
	for _, fig := range figs {
		plotTikz, wrapperTex, err := pm.tikzGenerator.Generate(fig)
		if err != nil {
			return paths, fmt.Errorf("failed to generate tikz for %s: %w", fig.Metric, err)
		}

		plotPath := filepath.Join(dir, tikz.PlotFileName(fig))
		if err := writeFile(plotPath, plotTikz); err != nil {
			return paths, err
		}
		paths = append(paths, plotPath)

		wrapperPath := filepath.Join(dir, tikz.WrapperFileName(fig))
		if err := writeFile(wrapperPath, wrapperTex); err != nil {
			return paths, err
		}
		paths = append(paths, wrapperPath)
	}

	if len(figs) > 1 {
		groupTex, err := pm.tikzGenerator.GenerateGroupWrapper(figs, "metrics")
		if err != nil {
			return paths, fmt.Errorf("failed to generate group wrapper: %w", err)
		}
		groupPath := filepath.Join(dir, GroupWrapperFileName)
		if err := writeFile(groupPath, groupTex); err != nil {
			return paths, err
		}
		paths = append(paths, groupPath)
	}

	return paths, nil
}

func (pm *PlotManager) renderImages(figs []*figure.Figure, dir, format string, opts image.Options) ([]string, error) {
	var paths []string
	for _, fig := range figs {
		path := filepath.Join(dir, fig.FileStem()+"."+format)

		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("failed to create %s: %w", path, err)
		}

		err = pm.imageGenerator.Generate(fig, format, opts, f)
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
		if err != nil {
			return paths, fmt.Errorf("failed to generate %s for %s: %w", format, fig.Metric, err)
		}

		paths = append(paths, path)
	}
	return paths, nil
}

func (pm *PlotManager) renderHTML(figs []*figure.Figure, dir string) ([]string, error) {
	path := filepath.Join(dir, html.FileName)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	err = pm.htmlGenerator.Generate(figs, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	if err != nil {
		return nil, err
	}

	return []string{path}, nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
