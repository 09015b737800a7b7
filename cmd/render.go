package main

import (
	"fmt"

	"rwbench-report/internal/config"
	"rwbench-report/internal/logging"
	"rwbench-report/internal/plot"
	"rwbench-report/internal/plot/figure"

	"github.com/spf13/cobra"
)

func newRenderCmd(opts *options) *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render [inputs...]",
		Short: "Render benchmark charts",
		Long:  "Render one chart per metric comparing implementations across scenarios. Inputs are CSV paths or glob patterns.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadReportConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			return renderReport(cmd, cfg)
		},
	}

	addSourceFlags(renderCmd, opts)
	renderCmd.Flags().StringVar(&opts.view, "view", "", "Chart view (aggregate, rows)")
	renderCmd.Flags().StringSliceVar(&opts.formats, "format", nil, "Output formats (tikz, png, svg, html)")
	renderCmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Output directory")

	return renderCmd
}

func renderReport(cmd *cobra.Command, cfg *config.ReportConfig) error {
	logger := logging.GetLogger()

	rep, err := buildReport(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	var figures []*figure.Figure
	switch cfg.Report.View {
	case config.ViewRows:
		figures = plot.BuildRowFigures(rep.table, cfg)
	default:
		figures = plot.BuildAggregateFigures(rep.agg, cfg)
	}

	paths, err := plot.NewPlotManager(logger).Render(figures, plot.OptionsFromConfig(cfg))
	if err != nil {
		logger.WithError(err).Error("Failed to render charts")
		return fmt.Errorf("failed to render charts: %w", err)
	}

	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
