package explorer

import (
	"context"
	"fmt"

	"innings-explorer/internal/chart"
	"innings-explorer/internal/domain"
	"innings-explorer/internal/service/query"
)

// Event is a user action a Session reacts to.
type Event interface {
	event()
}

// SetFilter sets one criterion of the draft. Key may be a legacy alias.
type SetFilter struct {
	Key    string
	Values []string
}

// UnsetFilter removes one criterion from the draft.
type UnsetFilter struct{ Key string }

// ClearFilters resets the draft and the table view.
type ClearFilters struct{}

// SetGroupBy replaces the draft grouping.
type SetGroupBy struct{ Columns []string }

// Execute runs the draft.
type Execute struct{}

// SelectValues sets the column filter of one column. No values clears it.
type SelectValues struct {
	Column string
	Values []string
}

// ClearColumnFilters drops every column filter.
type ClearColumnFilters struct{}

// SortBy sets the sort; an empty Key removes it.
type SortBy struct {
	Key       string
	Direction domain.Direction
}

// ToggleSort sorts by Key, flipping direction if it is already active.
type ToggleSort struct{ Key string }

// GoToPage moves to a zero-based page.
type GoToPage struct{ Page int }

// SetPageSize changes the page size.
type SetPageSize struct{ Size int }

// AddChart configures a chart. An empty ID is assigned.
type AddChart struct{ Spec domain.ChartSpec }

// RemoveChart drops the chart with ID.
type RemoveChart struct{ ID string }

// DismissError hides the error banner.
type DismissError struct{}

// ShowView switches the active pane.
type ShowView struct{ View query.View }

func (SetFilter) event()          {}
func (UnsetFilter) event()        {}
func (ClearFilters) event()       {}
func (SetGroupBy) event()         {}
func (Execute) event()            {}
func (SelectValues) event()       {}
func (ClearColumnFilters) event() {}
func (SortBy) event()             {}
func (ToggleSort) event()         {}
func (GoToPage) event()           {}
func (SetPageSize) event()        {}
func (AddChart) event()           {}
func (RemoveChart) event()        {}
func (DismissError) event()       {}
func (ShowView) event()           {}

// Dispatch applies ev to the session. Only Execute blocks.
func (s *Session) Dispatch(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case SetFilter:
		key, c, err := domain.ParseCriterion(e.Key, e.Values...)
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			delete(s.Filters, key)
			return nil
		}
		s.Filters[key] = c
	case UnsetFilter:
		fk, ok := domain.LookupFilterKey(e.Key)
		if !ok {
			return domain.ErrValidation("unknown filter %q", e.Key)
		}
		delete(s.Filters, fk.Name)
	case ClearFilters:
		s.ClearFilters()
	case SetGroupBy:
		s.GroupBy = domain.GroupBy(e.Columns).Normalize()
	case Execute:
		return s.Execute(ctx)
	case SelectValues:
		s.Table.Select(e.Column, e.Values...)
		s.invalidateView()
	case ClearColumnFilters:
		s.Table.ClearFilters()
		s.invalidateView()
	case SortBy:
		s.Table.SetSort(e.Key, e.Direction)
		s.invalidateView()
	case ToggleSort:
		s.Table.ToggleSort(e.Key)
		s.invalidateView()
	case GoToPage:
		s.Table.SetPage(e.Page)
	case SetPageSize:
		s.Table.SetPageSize(e.Size)
	case AddChart:
		spec := e.Spec
		if spec.ID == "" {
			spec = chart.NewSpec(spec.Kind, spec.X, spec.Y)
		}
		s.Charts = append(s.Charts, spec)
		s.invalidateView()
	case RemoveChart:
		for i, c := range s.Charts {
			if c.ID == e.ID {
				s.Charts = append(s.Charts[:i:i], s.Charts[i+1:]...)
				s.invalidateView()
				return nil
			}
		}
		return domain.ErrValidation("no chart with id %q", e.ID)
	case DismissError:
		s.orch.DismissError()
	case ShowView:
		s.orch.SetView(e.View)
	default:
		return fmt.Errorf("unhandled event %T", ev)
	}
	return nil
}
