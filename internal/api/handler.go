// Package api provides the JSON HTTP API over explorer sessions.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/explorer"
	"innings-explorer/internal/middleware"
)

// Handler serves the /v1 routes. Every request opens its own explorer
// session from the request URL, so no state is shared between requests.
type Handler struct {
	client      domain.QueryClient
	pageSize    int
	maxPageSize int
	now         func() time.Time
}

// Options configures a Handler.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	// Now overrides the clock used for export file names.
	Now func() time.Time
}

// NewHandler creates a Handler backed by client.
func NewHandler(client domain.QueryClient, opts Options) *Handler {
	h := &Handler{
		client:      client,
		pageSize:    opts.DefaultPageSize,
		maxPageSize: opts.MaxPageSize,
		now:         opts.Now,
	}
	if h.maxPageSize <= 0 {
		h.maxPageSize = domain.MaxPageSize
	}
	if h.pageSize <= 0 {
		h.pageSize = domain.DefaultPageSize
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Mount registers the API routes on r. execLimit wraps the routes that
// execute upstream queries; it may be nil.
func (h *Handler) Mount(r chi.Router, execLimit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if execLimit != nil {
			r.Use(execLimit)
		}
		r.Get("/results", h.ListResults)
		r.Get("/results/export", h.ExportResults)
		r.Get("/results/charts", h.ChartResults)
	})
	r.Get("/filters/decode", h.DecodeFilters)
	r.Post("/filters/encode", h.EncodeFilters)
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// open runs the query carried by r and applies its view parameters.
func (h *Handler) open(r *http.Request) (*explorer.Session, error) {
	view, err := explorer.ParseViewParams(r.URL.Query())
	if err != nil {
		return nil, err
	}
	if view.PageSize > h.maxPageSize {
		view.PageSize = h.maxPageSize
	}

	ctx := r.Context()
	s, err := explorer.Open(ctx, h.client, r.URL.RequestURI(),
		explorer.WithLogger(middleware.LoggerFromContext(ctx)),
		explorer.WithPageSize(h.pageSize),
		explorer.WithClock(h.now),
	)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if err := s.ApplyView(ctx, view); err != nil {
		return nil, err
	}
	return s, nil
}

func logger(r *http.Request) *slog.Logger {
	return middleware.LoggerFromContext(r.Context())
}
