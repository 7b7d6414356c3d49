package api

import (
	"fmt"
	"net/http"
	"strconv"

	"innings-explorer/internal/chart"
	"innings-explorer/internal/domain"
	"innings-explorer/internal/export"
	"innings-explorer/internal/urlcodec"
)

// ResultsResponse is one page of merged rows plus what a client needs to
// render the table controls.
type ResultsResponse struct {
	Query      string                    `json:"query"`
	GroupBy    []string                  `json:"group_by"`
	Columns    []string                  `json:"columns"`
	Rows       []domain.Row              `json:"rows"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	Total      int                       `json:"total"`
	TotalPages int                       `json:"total_pages"`
	Sort       *domain.SortState         `json:"sort,omitempty"`
	Options    map[string][]string       `json:"options"`
	Metrics    []domain.MetricDescriptor `json:"metrics"`
}

// ChartsResponse carries one bundle per requested chart.
type ChartsResponse struct {
	Query  string         `json:"query"`
	Charts []chart.Bundle `json:"charts"`
}

// ListResults handles GET /v1/results.
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	s, err := h.open(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page := s.Page()
	cols := s.Columns()
	options := make(map[string][]string, len(cols))
	for _, col := range cols {
		options[col] = s.Options(col)
	}
	resp := ResultsResponse{
		Query:      urlcodec.Encode(s.Filters, s.GroupBy),
		GroupBy:    nonNil(s.ResultGroupBy()),
		Columns:    cols,
		Rows:       nonNilRows(page.Rows),
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Options:    options,
		Metrics:    s.Metrics(),
	}
	if !s.Table.Sort.IsZero() {
		sort := s.Table.Sort
		resp.Sort = &sort
	}
	logger(r).Debug("results served", "total", page.Total, "page", page.Page)
	writeJSON(w, http.StatusOK, resp)
}

// ExportResults handles GET /v1/results/export. It writes every filtered and
// sorted row, not just the requested page.
func (h *Handler) ExportResults(w http.ResponseWriter, r *http.Request) {
	s, err := h.open(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filename, body := s.Export()
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ChartResults handles GET /v1/results/charts.
func (h *Handler) ChartResults(w http.ResponseWriter, r *http.Request) {
	s, err := h.open(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(s.Charts) == 0 {
		writeError(w, r, domain.ErrValidation("at least one chart parameter is required, e.g. chart=bar:runs"))
		return
	}
	bundles, err := s.Bundles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ChartsResponse{
		Query:  urlcodec.Encode(s.Filters, s.GroupBy),
		Charts: bundles,
	})
}

func nonNil(g domain.GroupBy) []string {
	if g == nil {
		return []string{}
	}
	return g
}

func nonNilRows(rows []domain.Row) []domain.Row {
	if rows == nil {
		return []domain.Row{}
	}
	return rows
}
