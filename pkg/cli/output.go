package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"innings-explorer/internal/domain"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

const (
	columnGap    = "  "
	minCellWidth = 6
)

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	switch output {
	case "", outputTable, outputJSON, outputCSV:
		return nil
	}
	return fmt.Errorf("unsupported output format %q: use 'table', 'json' or 'csv'", output)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// terminalWidth returns the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// printTable writes an aligned table with upper-cased headers. When maxWidth
// is positive, the widest columns are truncated until the table fits.
func printTable(w io.Writer, columns []string, rows [][]string, maxWidth int) {
	if len(columns) == 0 {
		return
	}
	widths := make([]int, len(columns))
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = strings.ToUpper(c)
		widths[i] = runewidth.StringWidth(header[i])
	}
	for _, row := range rows {
		for i := range columns {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}
	if maxWidth > 0 {
		fitWidths(widths, maxWidth-len(columnGap)*(len(columns)-1))
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		for i := range columns {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			cell = runewidth.Truncate(cell, widths[i], "…")
			if i == len(columns)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString(columnGap)
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
}

// fitWidths shrinks the widest column one cell at a time until the total
// fits budget or every column is at minCellWidth.
func fitWidths(widths []int, budget int) {
	total := 0
	for _, w := range widths {
		total += w
	}
	for total > budget {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minCellWidth {
			return
		}
		widths[widest]--
		total--
	}
}

// rowCells renders rows for printTable, showing nulls as N/A.
func rowCells(columns []string, rows []domain.Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, len(columns))
		for j, c := range columns {
			cells[j] = r.Get(c).Display()
		}
		out[i] = cells
	}
	return out
}
