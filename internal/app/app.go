// Package app wires configuration, the upstream client and the HTTP layers
// into one router.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"innings-explorer/internal/api"
	"innings-explorer/internal/config"
	"innings-explorer/internal/domain"
	"innings-explorer/internal/metrics"
	"innings-explorer/internal/middleware"
	"innings-explorer/internal/ui"
	"innings-explorer/internal/upstream"
)

// Deps holds what main must provide.
type Deps struct {
	Cfg    *config.Config
	Logger *slog.Logger
	// Client overrides the upstream client built from Cfg. Tests use it.
	Client domain.QueryClient
	// Now overrides the clock used for export file names.
	Now func() time.Time
}

// App is the fully wired application.
type App struct {
	Router      http.Handler
	Client      domain.QueryClient
	RateLimiter *middleware.RateLimiter
}

// New builds the router from deps.
func New(deps Deps) *App {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := deps.Client
	if client == nil {
		c := upstream.NewClient(cfg.UpstreamURL)
		c.QueryPath = cfg.UpstreamQueryPath
		c.HTTPClient.Timeout = cfg.UpstreamTimeout
		c.Logger = logger.With("component", "upstream")
		client = c
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	})

	apiHandler := api.NewHandler(client, api.Options{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		Now:             deps.Now,
	})
	uiHandler := ui.NewHandler(client, cfg.DefaultPageSize, cfg.MaxPageSize)
	if deps.Now != nil {
		uiHandler.Now = deps.Now
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Content-Disposition", "Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/healthz", api.Health)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/results", http.StatusFound)
	})
	r.Route("/v1", func(r chi.Router) {
		apiHandler.Mount(r, limiter.Middleware)
	})
	r.Route("/ui", func(r chi.Router) {
		ui.MountRoutes(r, uiHandler, limiter.Middleware)
	})

	return &App{Router: r, Client: client, RateLimiter: limiter}
}
