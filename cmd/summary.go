package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"rwbench-report/internal/config"
	"rwbench-report/internal/dataframe"
	"rwbench-report/internal/logging"

	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *options) *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary [inputs...]",
		Short: "Print the aggregated measurements",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadReportConfig(cmd, opts, args)
			if err != nil {
				return err
			}

			rep, err := buildReport(cmd.Context(), cfg, logging.GetLogger())
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), rep.agg, cfg)
		},
	}

	addSourceFlags(summaryCmd, opts)
	return summaryCmd
}

func writeSummary(w io.Writer, agg *dataframe.AggregatedTable, cfg *config.ReportConfig) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"IMPLEMENTATION", "SCENARIO", "N"}
	for _, m := range cfg.Metrics {
		header = append(header, strings.ToUpper(m.Field))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range agg.Rows {
		n := 0
		cells := []string{row.Implementation, row.Scenario}
		var means []string
		for _, m := range cfg.Metrics {
			s := row.Summary(dataframe.Metric(m.Field))
			if s == nil {
				means = append(means, dataframe.MissingLabel)
				continue
			}
			if s.N > n {
				n = s.N
			}
			means = append(means, strconv.FormatFloat(s.Mean, 'f', 3, 64))
		}
		cells = append(cells, strconv.Itoa(n))
		fmt.Fprintln(tw, strings.Join(append(cells, means...), "\t"))
	}

	return tw.Flush()
}
