// Package export writes result rows as delimited text.
package export

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/table"
)

// ContentType is the media type of exported files.
const ContentType = "text/csv; charset=utf-8"

const filenamePrefix = "query-results"

// Columns returns the export header: the first row's keys without merge
// bookkeeping.
func Columns(rows []domain.Row) []string {
	return table.VisibleColumns(rows)
}

// WriteCSV writes a header line and one line per row. Null or missing cells
// are empty, strings containing a comma are quoted with embedded quotes
// doubled, and every other value is written verbatim.
func WriteCSV(w io.Writer, rows []domain.Row) error {
	cols := Columns(rows)
	if len(cols) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)
	writeLine(bw, cols, func(i int) string { return Cell(domain.Str(cols[i])) })
	for _, r := range rows {
		writeLine(bw, cols, func(i int) string { return Cell(r.Get(cols[i])) })
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeLine(bw *bufio.Writer, cols []string, cell func(int) string) {
	for i := range cols {
		if i > 0 {
			bw.WriteByte(',') //nolint:errcheck
		}
		bw.WriteString(cell(i)) //nolint:errcheck
	}
	bw.WriteByte('\n') //nolint:errcheck
}

// CSV returns the encoded rows.
func CSV(rows []domain.Row) []byte {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, rows)
	return buf.Bytes()
}

// Cell encodes one value.
func Cell(v domain.Value) string {
	if v.IsNull() {
		return ""
	}
	s := v.String()
	if _, isText := v.Text(); isText && strings.Contains(s, ",") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// Filename names an export made on now; filtered adds a "-filtered" suffix.
func Filename(now time.Time, filtered bool) string {
	name := filenamePrefix + "-" + now.Format("2006-01-02")
	if filtered {
		name += "-filtered"
	}
	return name + ".csv"
}
