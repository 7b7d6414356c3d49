package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/urlcodec"
)

func newURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Encode and decode share links",
	}
	cmd.AddCommand(newURLEncodeCmd())
	cmd.AddCommand(newURLDecodeCmd())
	return cmd
}

func newURLEncodeCmd() *cobra.Command {
	var (
		base    string
		filters []string
		groupBy []string
	)
	cmd := &cobra.Command{
		Use:     "encode",
		Short:   "Build the canonical share link for a set of filters",
		Example: `  explorer url encode --base https://stats.example.com/ -f batter='V Kohli' -f min_balls=30 -g year`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := domain.DefaultFilterState()
			grouped := make(map[string][]string)
			var order []string
			for _, kv := range filters {
				key, value, ok := strings.Cut(kv, "=")
				if !ok {
					return domain.ErrValidation("filter %q must be key=value", kv)
				}
				fk, known := domain.LookupFilterKey(strings.TrimSpace(key))
				if !known {
					return domain.ErrValidation("unknown filter %q", key)
				}
				if _, seen := grouped[fk.Name]; !seen {
					order = append(order, fk.Name)
				}
				grouped[fk.Name] = append(grouped[fk.Name], value)
			}
			for _, name := range order {
				key, c, err := domain.ParseCriterion(name, grouped[name]...)
				if err != nil {
					return err
				}
				if !c.IsEmpty() {
					state[key] = c
				}
			}
			g := domain.GroupBy(groupBy).Normalize()
			link := urlcodec.ShareLink(base, state, g)

			if getOutputFormat(cmd) == outputJSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"query":      urlcodec.Encode(state, g),
					"share_link": link,
				})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "Base URL of the link")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as key=value (repeatable)")
	cmd.Flags().StringSliceVarP(&groupBy, "group-by", "g", nil, "Group by columns")
	return cmd
}

func newURLDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <link>",
		Short: "Show the filters and grouping a share link carries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, groupBy, err := urlcodec.DecodeURL(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if getOutputFormat(cmd) == outputJSON {
				out := make(map[string][]string, len(filters))
				for k, c := range filters {
					out[k] = c.Params()
				}
				return printJSON(w, map[string]any{
					"filters":  out,
					"group_by": nonNil([]string(groupBy)),
					"query":    urlcodec.Encode(filters, groupBy),
				})
			}
			rows := filterRows(filters)
			if len(groupBy) > 0 {
				rows = append(rows, []string{domain.GroupByParam, strings.Join(groupBy, ", ")})
			}
			if len(rows) == 0 {
				_, _ = fmt.Fprintln(w, "No filters.")
				return nil
			}
			printTable(w, []string{"key", "value"}, rows, terminalWidth(w))
			return nil
		},
	}
}

// filterRows lists non-empty criteria in canonical key order.
func filterRows(filters domain.FilterState) [][]string {
	var rows [][]string
	for _, fk := range domain.FilterKeys {
		c, ok := filters[fk.Name]
		if !ok || c.IsEmpty() {
			continue
		}
		rows = append(rows, []string{fk.Name, strings.Join(c.Params(), ", ")})
	}
	return rows
}

// filterNames returns every known filter key, sorted, for completion.
func filterNames() []string {
	names := make([]string, 0, len(domain.FilterKeys))
	for _, fk := range domain.FilterKeys {
		names = append(names, fk.Name)
	}
	sort.Strings(names)
	return names
}
