package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/siruta/internal/config"
	"github.com/JonMunkholm/siruta/internal/core"
	"github.com/JonMunkholm/siruta/internal/logging"
	"github.com/JonMunkholm/siruta/internal/metrics"
	"github.com/JonMunkholm/siruta/internal/web"
)

func main() {
	// Load .env file if it exists (overwrites existing env vars)
	if files, err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("failed to read .env file", "error", err)
	} else if len(files) > 0 {
		slog.Info("loaded .env file (overwriting existing env vars)", "files", files)
	} else {
		slog.Info("no .env file found, using environment variables")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	store := core.NewStore(m.InstrumentLoad(core.FileLoader(cfg.Registry.File, core.LoadOptions{
		Strict: cfg.Registry.Strict,
	})))
	store.OnReload(m.Observer())
	store.OnReload(func(_ context.Context, reg *core.Registry, diags []core.Diagnostic) {
		logging.LogDiagnostics(slog.Default(), reg.Source(), diags, logging.DefaultDiagnosticLimit)
	})

	// Optional PostgreSQL mirror
	if cfg.Database.Enabled() {
		pool, err := connectDatabase(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		exporter := core.NewExporter(pool, cfg.Database.Table)
		if err := exporter.EnsureTable(ctx); err != nil {
			slog.Error("failed to prepare export table", "table", exporter.Table(), "error", err)
			os.Exit(1)
		}
		store.OnReload(exporter.Observer(cfg.Database.ExportTimeout, m.ObserveExport))
		slog.Info("registry export enabled", "table", exporter.Table())
	}

	// Initial load; the server does not start without a registry
	if _, _, err := store.Reload(ctx); err != nil {
		diags, _ := store.LastResult()
		logging.LogDiagnostics(slog.Default(), cfg.Registry.File, diags, logging.DefaultDiagnosticLimit)
		slog.Error("initial registry load failed", "error", err, "hint", core.FormatUserError(err))
		os.Exit(1)
	}

	server := web.NewServer(store, cfg, m)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Registry.ReloadInterval > 0 {
		g.Go(func() error {
			store.StartReloadScheduler(gctx, core.ReloadConfig{
				Path:     cfg.Registry.File,
				Interval: cfg.Registry.ReloadInterval,
			})
			return nil
		})
	}

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// connectDatabase opens and verifies the export pool.
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
