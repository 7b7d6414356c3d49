// Package table implements the client-side view over merged result rows:
// per-column value filters, stable sorting and pagination. None of the
// operations mutate their input rows and none of them fail.
package table

import (
	"cmp"
	"slices"
	"strings"

	"innings-explorer/internal/domain"
)

// Options returns every distinct display value of column across rows,
// sorted ascending. Missing and null cells contribute "N/A".
func Options(rows []domain.Row, column string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		v := r.Get(column).Display()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Filter keeps the rows whose display value is selected in every column that
// has a non-empty selection.
func Filter(rows []domain.Row, filters domain.ColumnFilterState) []domain.Row {
	if !filters.Active() {
		return rows
	}
	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if matches(r, filters) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.Row, filters domain.ColumnFilterState) bool {
	for col, set := range filters {
		if len(set) == 0 {
			continue
		}
		if !set[r.Get(col).Display()] {
			return false
		}
	}
	return true
}

// Sort returns a stably sorted copy of rows. Rows whose key is null or
// missing go last in either direction.
func Sort(rows []domain.Row, s domain.SortState) []domain.Row {
	out := slices.Clone(rows)
	if s.IsZero() {
		return out
	}
	numeric := IsNumericColumn(rows, s.Key)
	desc := s.Direction == domain.Descending

	slices.SortStableFunc(out, func(a, b domain.Row) int {
		av, bv := a.Get(s.Key), b.Get(s.Key)
		switch {
		case av.IsNull() && bv.IsNull():
			return 0
		case av.IsNull():
			return 1
		case bv.IsNull():
			return -1
		}
		c := compareValues(av, bv, numeric)
		if desc {
			return -c
		}
		return c
	})
	return out
}

// IsNumericColumn reports whether every non-null value of column is a number
// and at least one value is present.
func IsNumericColumn(rows []domain.Row, column string) bool {
	found := false
	for _, r := range rows {
		v := r.Get(column)
		if v.IsNull() {
			continue
		}
		if v.Kind() != domain.KindNumber {
			return false
		}
		found = true
	}
	return found
}

func compareValues(a, b domain.Value, numeric bool) int {
	if numeric {
		return cmp.Compare(a.Float(), b.Float())
	}
	return strings.Compare(strings.ToLower(a.String()), strings.ToLower(b.String()))
}

// Paginate slices rows into the zero-based page. Pages past the end are empty.
func Paginate(rows []domain.Row, page, pageSize int) domain.Page {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	total := len(rows)
	start := min(page*pageSize, total)
	end := min(start+pageSize, total)
	return domain.Page{
		Rows:       rows[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: domain.TotalPages(total, pageSize),
	}
}

// VisibleColumns returns the first row's keys without merge bookkeeping.
func VisibleColumns(rows []domain.Row) []string {
	if len(rows) == 0 {
		return nil
	}
	keys := rows[0].Keys()
	out := keys[:0]
	for _, k := range keys {
		if !domain.IsInternalField(k) {
			out = append(out, k)
		}
	}
	return out
}
