package table

import "innings-explorer/internal/domain"

// State is the user's view configuration over a result. Changing the page
// size, the sort or any filter moves back to the first page.
type State struct {
	Filters  domain.ColumnFilterState `json:"filters"`
	Sort     domain.SortState         `json:"sort"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
}

// NewState returns an unfiltered, unsorted state on page 0.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return State{Filters: domain.ColumnFilterState{}, PageSize: pageSize}
}

// Select replaces the selected values of column. No values clears it.
func (s *State) Select(column string, values ...string) {
	if s.Filters == nil {
		s.Filters = domain.ColumnFilterState{}
	}
	s.Filters.Select(column, values...)
	s.Page = 0
}

// ClearFilters drops every column selection.
func (s *State) ClearFilters() {
	s.Filters = domain.ColumnFilterState{}
	s.Page = 0
}

// SetSort activates a sort. An empty key removes sorting.
func (s *State) SetSort(key string, dir domain.Direction) {
	s.Sort = domain.SortState{Key: key, Direction: dir}
	if key == "" {
		s.Sort = domain.SortState{}
	}
	s.Page = 0
}

// ToggleSort sorts ascending by a new key and flips direction on the active one.
func (s *State) ToggleSort(key string) {
	dir := domain.Ascending
	if s.Sort.Key == key && s.Sort.Direction == domain.Ascending {
		dir = domain.Descending
	}
	s.SetSort(key, dir)
}

// SetPage moves to page n; negative values clamp to 0.
func (s *State) SetPage(n int) {
	s.Page = max(n, 0)
}

// SetPageSize changes the page size and returns to page 0.
func (s *State) SetPageSize(n int) {
	s.PageSize = domain.ClampPageSize(n, domain.DefaultPageSize, domain.MaxPageSize)
	s.Page = 0
}

// Reset clears filters and sort and returns to page 0, keeping the page size.
func (s *State) Reset() {
	s.Filters = domain.ColumnFilterState{}
	s.Sort = domain.SortState{}
	s.Page = 0
}

// Apply returns rows filtered then sorted per the state.
func (s State) Apply(rows []domain.Row) []domain.Row {
	return Sort(Filter(rows, s.Filters), s.Sort)
}

// View returns the current page of the filtered and sorted rows.
func (s State) View(rows []domain.Row) domain.Page {
	return Paginate(s.Apply(rows), s.Page, s.PageSize)
}
