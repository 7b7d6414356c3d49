package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"innings-explorer/internal/ui/assets"
)

// MountRoutes registers the UI under r, which is expected to be mounted at
// /ui. execLimit wraps the routes that execute upstream queries; it may be nil.
func MountRoutes(r chi.Router, h *Handler, execLimit func(http.Handler) http.Handler) {
	r.Handle("/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(assets.Static()))))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, resultsPath, http.StatusFound)
	})
	r.Get("/results/apply", h.ApplyFilters)
	r.Get("/results/chart", h.AddChart)

	r.Group(func(r chi.Router) {
		if execLimit != nil {
			r.Use(execLimit)
		}
		r.Get("/results", h.Results)
		r.Get("/results/export.csv", h.ExportCSV)
	})
}
