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
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/s1natex/users-tasks-api/internal/config"
	"github.com/s1natex/users-tasks-api/internal/httpx"
	"github.com/s1natex/users-tasks-api/internal/middleware"
	"github.com/s1natex/users-tasks-api/internal/storage/sqlite"
	"github.com/s1natex/users-tasks-api/internal/tasks"
	"github.com/s1natex/users-tasks-api/internal/telemetry"
	"github.com/s1natex/users-tasks-api/internal/users"
)

const (
	serviceName       = "users-tasks-api"
	readHeaderTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger) // for third-party packages that use slog

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Stdout:      cfg.TraceStdout,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing_shutdown", slog.String("error", err.Error()))
		}
	}()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	logger.Info("store_open", slog.String("driver", cfg.Store))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, st.users, st.tasks, logger),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listen", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type store struct {
	users users.Repository
	tasks tasks.Repository
	close func()
}

// openStore builds both repositories on the configured backend and seeds them
// if they are empty.
func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	st := &store{close: func() {}}

	switch cfg.Store {
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		if err := sqlite.ApplyMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		st.users = users.NewSQLiteRepo(db)
		st.tasks = tasks.NewSQLiteRepo(db)
		st.close = func() { _ = db.Close() }
	default:
		st.users = users.NewInMemoryRepo()
		st.tasks = tasks.NewInMemoryRepo()
	}

	if err := users.SeedRepository(ctx, st.users); err != nil {
		st.close()
		return nil, err
	}
	if err := tasks.SeedRepository(ctx, st.tasks); err != nil {
		st.close()
		return nil, err
	}
	return st, nil
}

// newRouter wires the health and metrics endpoints, resource routes, and
// middleware stack
func newRouter(cfg config.Config, userRepo users.Repository, taskRepo tasks.Repository, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	metrics := middleware.NewMetrics(nil)

	// ---- Middleware stack (order matters a bit) ----
	// RequestID first so downstream can include it (logger, spans, etc.)
	r.Use(chimw.RequestID)

	// Panic recovery: never crash the server; returns 500 on panics
	r.Use(chimw.Recoverer)

	r.Use(chimw.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", "traceparent"},
		ExposedHeaders:   []string{"X-Request-Id", "Trace-Id", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.Use(middleware.TracingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RateLimitMiddleware(middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))

	// ---- Routes ----

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	users.RegisterRoutes(r, userRepo)
	tasks.RegisterRoutes(r, taskRepo)

	return r
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: l,
	})
	return slog.New(handler)
}
