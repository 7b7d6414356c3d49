package domain

import (
	"slices"
	"strings"
)

// ColumnFilterState maps a column to its set of selected display values. It
// is applied client-side and is independent of FilterState.
type ColumnFilterState map[string]map[string]bool

// Select replaces the selection for column. An empty selection removes it.
func (c ColumnFilterState) Select(column string, values ...string) {
	if len(values) == 0 {
		delete(c, column)
		return
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	c[column] = set
}

// Active reports whether any column has a non-empty selection.
func (c ColumnFilterState) Active() bool {
	for _, set := range c {
		if len(set) > 0 {
			return true
		}
	}
	return false
}

// Selected returns the sorted selection for column.
func (c ColumnFilterState) Selected(column string) []string {
	out := make([]string, 0, len(c[column]))
	for v, on := range c[column] {
		if on {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// Clone returns a deep copy of c.
func (c ColumnFilterState) Clone() ColumnFilterState {
	out := make(ColumnFilterState, len(c))
	for col, set := range c {
		cp := make(map[string]bool, len(set))
		for v, on := range set {
			cp[v] = on
		}
		out[col] = cp
	}
	return out
}

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection maps user input to a Direction, defaulting to ascending.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending", "d":
		return Descending
	default:
		return Ascending
	}
}

// SortState is the active sort. An empty Key means unsorted.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// IsZero reports whether no sort is active.
func (s SortState) IsZero() bool { return s.Key == "" }
