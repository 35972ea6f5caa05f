package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Gradebook/internal/api"
	"github.com/MikeSquared-Agency/Gradebook/internal/config"
	"github.com/MikeSquared-Agency/Gradebook/internal/hermes"
	"github.com/MikeSquared-Agency/Gradebook/internal/ingest"
	"github.com/MikeSquared-Agency/Gradebook/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("gradebook exited", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}
	defer db.Close()
	logger.Info("store ready", "driver", cfg.Database.Driver)

	// Events are optional; without NATS the API still serves.
	var bus hermes.Client
	if cfg.Hermes.URL != "" {
		nc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			bus = nc
			defer nc.Close()
		}
	}

	if err := ingest.New(db, bus, logger).SetupSubscriptions(ctx); err != nil {
		logger.Warn("failed to consume mark submissions", "subject", hermes.SubjectMarksSubmit, "error", err)
	}

	servers := []struct {
		name string
		srv  *http.Server
	}{
		{"api", newServer(cfg.Server.Port, api.NewRouter(db, bus, cfg, logger))},
		{"metrics", newServer(cfg.Server.MetricsPort, api.NewMetricsRouter())},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			logger.Info("server starting", "server", s.name, "addr", s.srv.Addr)
			if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", s.name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "scale", cfg.Scale(), "method", cfg.Method())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, s := range servers {
			if err := s.srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("server shutdown", "server", s.name, "error", err)
			}
		}
		return nil
	})
	return g.Wait()
}

func newServer(port int, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return store.NewPostgresStore(ctx, cfg.Database.URL)
	case config.DriverSQLite:
		return store.NewSQLiteStore(ctx, cfg.Database.URL)
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
