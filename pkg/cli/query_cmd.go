package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/explorer"
	"innings-explorer/internal/export"
	"innings-explorer/internal/urlcodec"
)

// pageOutput is the JSON form of one result page. Page is one-based like
// the --page flag.
type pageOutput struct {
	Query      string       `json:"query"`
	GroupBy    []string     `json:"group_by"`
	Columns    []string     `json:"columns"`
	Rows       []domain.Row `json:"rows"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
}

func newQueryCmd(rt *runtime) *cobra.Command {
	var flags stateFlags
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a query and print one page of merged rows",
		Example: `  explorer query -f batter='V Kohli' -g year
  explorer query --link 'https://stats.example.com/?phases=death&group_by=batting_team' --sort runs --desc
  explorer query -g venue -w venue='Wankhede Stadium' -o json`,
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
			return renderPage(cmd.OutOrStdout(), s, getOutputFormat(cmd))
		},
	}
	flags.register(cmd)
	return cmd
}

func renderPage(w io.Writer, s *explorer.Session, format string) error {
	page := s.Page()
	cols := s.Columns()
	switch format {
	case outputJSON:
		return printJSON(w, pageOutput{
			Query:      urlcodec.Encode(s.Filters, s.GroupBy),
			GroupBy:    nonNil(s.ResultGroupBy()),
			Columns:    nonNil(cols),
			Rows:       nonNil(page.Rows),
			Page:       page.Page + 1,
			PageSize:   page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		})
	case outputCSV:
		return export.WriteCSV(w, s.Rows())
	}

	if s.Merged() == nil {
		_, _ = fmt.Fprintln(w, "No results.")
		return nil
	}
	if page.Total == 0 {
		_, _ = fmt.Fprintln(w, "No rows.")
		return nil
	}
	printTable(w, cols, rowCells(cols, page.Rows), terminalWidth(w))
	_, _ = fmt.Fprintf(w, "\nPage %d of %d (%d rows)\n", page.Page+1, page.TotalPages, page.Total)
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
