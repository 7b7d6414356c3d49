// Command server runs the innings explorer: the JSON API under /v1 and the
// server-rendered explorer under /ui, both backed by the upstream query
// endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"innings-explorer/internal/app"
	"innings-explorer/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	listen := flags.String("listen", "", "listen address (overrides LISTEN_ADDR)")
	upstreamURL := flags.String("upstream", "", "query endpoint base URL (overrides UPSTREAM_URL)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *upstreamURL != "" {
		_ = os.Setenv("UPSTREAM_URL", *upstreamURL)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn("config warning", "warning", w)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	application := app.New(app.Deps{Cfg: cfg, Logger: logger})

	srv := newHTTPServer(cfg, application.Router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		application.RateLimiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("innings explorer listening",
			"addr", cfg.ListenAddr,
			"upstream", cfg.UpstreamURL,
			"env", cfg.Env,
		)
		logger.Info("try: " + curlHint(cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newHTTPServer leaves room for one full upstream round trip in the write
// timeout.
func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.UpstreamTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// curlHint is a sample request against the listen address. Wildcard and
// empty hosts become localhost.
func curlHint(listenAddr string) string {
	addr := strings.TrimSpace(listenAddr)
	if addr == "" {
		addr = config.DefaultListenAddr
	}
	if host, port, err := net.SplitHostPort(addr); err == nil {
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "localhost"
		}
		addr = net.JoinHostPort(host, port)
	}
	return "curl 'http://" + addr + "/v1/results?group_by=phase'"
}
