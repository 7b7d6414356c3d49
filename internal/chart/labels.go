package chart

import (
	"strings"

	"innings-explorer/internal/domain"
)

// LabelSeparator joins the GroupBy values of a row label.
const LabelSeparator = " · "

// Label length limits, in characters.
const (
	LongLabelMax  = 20
	ShortLabelMax = 10
)

const ellipsis = "..."

// IsTeamColumn reports whether column identifies a team.
func IsTeamColumn(column string) bool {
	return column == "team" || strings.HasSuffix(column, "_team") || strings.HasPrefix(column, "team_")
}

// RowLabel joins the display value of every GroupBy column. String values of
// non-team columns longer than maxLen characters are truncated.
func RowLabel(row domain.Row, groupBy domain.GroupBy, maxLen int) string {
	parts := make([]string, 0, len(groupBy))
	for _, col := range groupBy {
		v := row.Get(col)
		s := v.Display()
		if _, isText := v.Text(); isText && !IsTeamColumn(col) {
			s = Truncate(s, maxLen)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, LabelSeparator)
}

// Labels returns the long and short label of row.
func Labels(row domain.Row, groupBy domain.GroupBy) (long, short string) {
	return RowLabel(row, groupBy, LongLabelMax), RowLabel(row, groupBy, ShortLabelMax)
}

// Truncate shortens s to limit characters followed by an ellipsis.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit]) + ellipsis
}
