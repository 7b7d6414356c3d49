package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"innings-explorer/internal/chart"
	"innings-explorer/internal/domain"
)

func newChartCmd(rt *runtime) *cobra.Command {
	var flags stateFlags
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Derive chart data for the result",
		Long: `Chart runs the query and derives one bundle per --chart spec: axis domains,
ticks, and per-row labels, colours and values. Without --chart it lists the
chartable metrics.`,
		Example: `  explorer chart -g batting_team --chart bar:runs
  explorer chart -g batter --chart scatter:average,strike_rate -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.values()
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), rt, q)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(s.Charts) == 0 {
				return renderMetrics(w, s.Metrics(), getOutputFormat(cmd))
			}
			bundles, err := s.Bundles(cmd.Context())
			if err != nil {
				return err
			}
			return renderBundles(w, bundles, getOutputFormat(cmd))
		},
	}
	flags.register(cmd)
	return cmd
}

func renderMetrics(w io.Writer, metrics []domain.MetricDescriptor, format string) error {
	if format == outputJSON {
		return printJSON(w, nonNil(metrics))
	}
	rows := make([][]string, len(metrics))
	for i, m := range metrics {
		rows[i] = []string{m.Key, m.Label, string(m.Origin)}
	}
	printTable(w, []string{"metric", "label", "origin"}, rows, terminalWidth(w))
	return nil
}

func renderBundles(w io.Writer, bundles []chart.Bundle, format string) error {
	if format == outputJSON {
		return printJSON(w, nonNil(bundles))
	}
	for i, b := range bundles {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		cols := []string{"label"}
		for _, a := range b.Axes {
			_, _ = fmt.Fprintf(w, "%s %s: %s scale, domain [%s, %s], ticks %s\n",
				b.Spec.Kind, a.Metric.Label, a.Scale,
				domain.FormatNumber(a.Domain.Min), domain.FormatNumber(a.Domain.Max), formatTicks(a.Ticks))
			cols = append(cols, a.Metric.Key)
		}
		cols = append(cols, "color")
		rows := make([][]string, len(b.Points))
		for j, p := range b.Points {
			row := []string{p.Label}
			for _, v := range p.Values {
				if v == nil {
					row = append(row, "N/A")
					continue
				}
				row = append(row, domain.FormatNumber(*v))
			}
			rows[j] = append(row, p.Color)
		}
		printTable(w, cols, rows, terminalWidth(w))
	}
	return nil
}

func formatTicks(ticks []float64) string {
	parts := make([]string, len(ticks))
	for i, t := range ticks {
		parts[i] = domain.FormatNumber(t)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
