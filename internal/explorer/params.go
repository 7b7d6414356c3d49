package explorer

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"innings-explorer/internal/domain"
)

// Query parameters that carry table and chart state next to the filter
// parameters. They are unknown to the URL codec and so never reach upstream.
const (
	ColumnFilterPrefix = "cf."
	SortParam          = "sort"
	OrderParam         = "order"
	PageParam          = "page"
	PageSizeParam      = "page_size"
	ChartParam         = "chart"
)

// ViewParams is the table and chart state requested alongside a query.
type ViewParams struct {
	ColumnFilters map[string][]string
	Sort          domain.SortState
	Page          int
	PageSize      int
	Charts        []domain.ChartSpec
}

// ParseViewParams reads view parameters from q. Page is zero-based.
func ParseViewParams(q url.Values) (ViewParams, error) {
	var p ViewParams
	for key, values := range q {
		col, ok := strings.CutPrefix(key, ColumnFilterPrefix)
		if !ok || col == "" {
			continue
		}
		if p.ColumnFilters == nil {
			p.ColumnFilters = make(map[string][]string)
		}
		p.ColumnFilters[col] = append(p.ColumnFilters[col], values...)
	}

	if key := q.Get(SortParam); key != "" {
		p.Sort = domain.SortState{Key: key, Direction: domain.ParseDirection(q.Get(OrderParam))}
	}

	var err error
	if p.Page, err = intParam(q, PageParam); err != nil {
		return ViewParams{}, err
	}
	if p.PageSize, err = intParam(q, PageSizeParam); err != nil {
		return ViewParams{}, err
	}

	for _, raw := range q[ChartParam] {
		spec, err := domain.ParseChartSpec(raw)
		if err != nil {
			return ViewParams{}, err
		}
		p.Charts = append(p.Charts, spec)
	}
	return p, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.ErrValidation("%s must be a non-negative integer, got %q", name, raw)
	}
	return n, nil
}

// Encode renders p back to query parameters, merged into q.
func (p ViewParams) Encode(q url.Values) {
	cols := make([]string, 0, len(p.ColumnFilters))
	for col := range p.ColumnFilters {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	for _, col := range cols {
		q[ColumnFilterPrefix+col] = p.ColumnFilters[col]
	}
	if !p.Sort.IsZero() {
		q.Set(SortParam, p.Sort.Key)
		q.Set(OrderParam, string(p.Sort.Direction))
	}
	if p.Page > 0 {
		q.Set(PageParam, strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set(PageSizeParam, strconv.Itoa(p.PageSize))
	}
	for _, c := range p.Charts {
		q.Add(ChartParam, c.String())
	}
}

// ApplyView dispatches p onto the session. It must run after execution since
// a new execution resets table state.
func (s *Session) ApplyView(ctx context.Context, p ViewParams) error {
	events := make([]Event, 0, len(p.ColumnFilters)+len(p.Charts)+3)
	for col, values := range p.ColumnFilters {
		events = append(events, SelectValues{Column: col, Values: values})
	}
	if !p.Sort.IsZero() {
		events = append(events, SortBy{Key: p.Sort.Key, Direction: p.Sort.Direction})
	}
	if p.PageSize > 0 {
		events = append(events, SetPageSize{Size: p.PageSize})
	}
	events = append(events, GoToPage{Page: p.Page})
	for _, c := range p.Charts {
		events = append(events, AddChart{Spec: c})
	}
	for _, ev := range events {
		if err := s.Dispatch(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
