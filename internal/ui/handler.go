// Package ui serves the server-rendered results explorer.
package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gomponents "maragu.dev/gomponents"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/explorer"
	"innings-explorer/internal/middleware"
	"innings-explorer/internal/urlcodec"
)

const resultsPath = "/ui/results"

// Handler renders the results page. Like the API it opens one explorer
// session per request from the request URL.
type Handler struct {
	Client      domain.QueryClient
	PageSize    int
	MaxPageSize int
	Now         func() time.Time
}

// NewHandler creates a Handler backed by client.
func NewHandler(client domain.QueryClient, pageSize, maxPageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	if maxPageSize <= 0 {
		maxPageSize = domain.MaxPageSize
	}
	return &Handler{Client: client, PageSize: pageSize, MaxPageSize: maxPageSize, Now: time.Now}
}

// Results renders GET /ui/results. Upstream failures still render the page
// with an error banner and the previous draft intact.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	s, view, err := h.open(r.Context(), r.URL)
	if err != nil && s == nil {
		renderHTML(w, http.StatusBadRequest, errorPage("Invalid request", err.Error()))
		return
	}
	status := http.StatusOK
	if err != nil {
		middleware.LoggerFromContext(r.Context()).Warn("results page query failed", "error", err)
		status = http.StatusBadRequest
		if domain.IsUpstreamError(err) {
			status = http.StatusBadGateway
		}
	}

	bundles, chartErr := s.Bundles(r.Context())
	if chartErr != nil {
		bundles = nil
	}
	renderHTML(w, status, resultsPage(resultsPageData{
		Session:  s,
		View:     view,
		Query:    r.URL.Query(),
		Bundles:  bundles,
		ChartErr: chartErr,
	}))
}

// ApplyFilters handles the filter form. It rewrites the form fields into the
// canonical query and redirects, which is the manual execution path.
func (h *Handler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderHTML(w, http.StatusBadRequest, errorPage("Invalid form", "Could not parse the submitted filters."))
		return
	}
	filters, groupBy, err := filtersFromForm(r.Form)
	if err != nil {
		renderHTML(w, http.StatusBadRequest, errorPage("Invalid filters", err.Error()))
		return
	}
	http.Redirect(w, r, urlcodec.ShareLink(resultsPath, filters, groupBy), http.StatusSeeOther)
}

// AddChart handles the add-chart form by appending a chart parameter to the
// current query.
func (h *Handler) AddChart(w http.ResponseWriter, r *http.Request) {
	q, err := addChartQuery(r.URL.Query())
	if err != nil {
		renderHTML(w, http.StatusBadRequest, errorPage("Invalid chart", err.Error()))
		return
	}
	http.Redirect(w, r, resultsPath+"?"+q.Encode(), http.StatusSeeOther)
}

// ExportCSV handles GET /ui/results/export.csv.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	s, _, err := h.open(r.Context(), r.URL)
	if err != nil {
		status, msg := http.StatusBadRequest, err.Error()
		if domain.IsUpstreamError(err) {
			status, msg = http.StatusBadGateway, domain.UserMessage(err)
		}
		renderHTML(w, status, errorPage("Export failed", msg))
		return
	}
	filename, body := s.Export()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) open(ctx context.Context, u *url.URL) (*explorer.Session, explorer.ViewParams, error) {
	view, err := explorer.ParseViewParams(u.Query())
	if err != nil {
		return nil, view, err
	}
	if view.PageSize > h.MaxPageSize {
		view.PageSize = h.MaxPageSize
	}
	now := h.Now
	if now == nil {
		now = time.Now
	}
	s, err := explorer.Open(ctx, h.Client, u.RequestURI(),
		explorer.WithLogger(middleware.LoggerFromContext(ctx)),
		explorer.WithPageSize(h.PageSize),
		explorer.WithClock(now),
	)
	if err != nil {
		return s, view, err
	}
	return s, view, s.ApplyView(ctx, view)
}

// filtersFromForm reads one field per filter key. List fields accept
// comma-separated values.
func filtersFromForm(form url.Values) (domain.FilterState, domain.GroupBy, error) {
	filters := domain.DefaultFilterState()
	for _, key := range domain.FilterKeys {
		raw := strings.TrimSpace(form.Get(key.Name))
		if raw == "" {
			continue
		}
		values := []string{raw}
		if key.Kind == domain.ParamList {
			values = splitList(raw)
		}
		name, c, err := domain.ParseCriterion(key.Name, values...)
		if err != nil {
			return nil, nil, err
		}
		if !c.IsEmpty() {
			filters[name] = c
		}
	}
	var groupBy domain.GroupBy
	for _, v := range form[domain.GroupByParam] {
		groupBy = append(groupBy, splitList(v)...)
	}
	return filters, groupBy.Normalize(), nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}
