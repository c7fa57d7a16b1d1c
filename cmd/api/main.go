// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api runs the studio HTTP API.
//
// Boot order: logger, configuration, PostgreSQL, Redis, migrations, JWT
// public key, attachment storage, services, HTTP server. SIGINT or SIGTERM
// drains in-flight requests for constants.ShutdownTimeout.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/claycompanion/studio/internal/api"
	"github.com/claycompanion/studio/internal/core/artist"
	"github.com/claycompanion/studio/internal/core/studio"
	"github.com/claycompanion/studio/internal/platform/config"
	"github.com/claycompanion/studio/internal/platform/constants"
	"github.com/claycompanion/studio/internal/platform/migration"
	pgstore "github.com/claycompanion/studio/internal/platform/postgres"
	redisstore "github.com/claycompanion/studio/internal/platform/redis"
	"github.com/claycompanion/studio/internal/platform/sec"
	"github.com/claycompanion/studio/internal/platform/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	// Bounded so an unreachable dependency fails the boot instead of hanging it.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()
	prometheus.MustRegister(pgstore.NewStatsCollector(pool))

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error("redis_close_failed", slog.String("error", err.Error()))
		}
	}()
	revocations := redisstore.NewRevocations(rdb)

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(startupCtx, cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token verification ─────────────────────────────────────────────
	verifier, err := sec.NewVerifier(cfg.JWTPubKeyPath, cfg.JWTIssuer)
	must(log, err, "load jwt public key")

	// ── 7. Attachment storage ─────────────────────────────────────────────
	attachments, err := openStorage(startupCtx, cfg, log)
	must(log, err, "open attachment storage")
	store := attachments.store

	// ── 8. Probes ─────────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    revocations.Ping,
		CheckStorage:  store.Health,
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	artistService := artist.NewService(artist.NewPostgresRepository(pool), log)
	studioService := studio.NewService(studio.NewPostgresRepository(pool), artistService, store, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	serverCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	server := api.NewServer(serverCtx, cfg, log, api.Auth{Verifier: verifier, Revocations: revocations}, api.Handlers{
		Liveness:      liveness,
		Readiness:     readiness,
		Studio:        studio.NewHandler(studioService),
		Uploads:       attachments.files,
		UploadsPrefix: attachments.prefix,
	})

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.ListenAndServe() }()

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	select {
	case <-serverCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_failed", slog.String("error", err.Error()))
		}
	}

	log.Info("http_server_draining", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("http_server_shutdown_failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("http_server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
}

// attachmentBackend is the configured storage plus, for the local driver, the
// file server and the route it is mounted on.
type attachmentBackend struct {
	store  storage.Storage
	files  http.Handler
	prefix string
}

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (attachmentBackend, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		backend, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			PublicBaseURL:   cfg.S3PublicBaseURL,
			PresignTTL:      cfg.S3PresignTTL,
		}, log)
		if err != nil {
			return attachmentBackend{}, err
		}
		return attachmentBackend{store: storage.Instrument(backend, cfg.StorageDriver)}, nil

	case config.StorageDriverLocal:
		backend, err := storage.NewLocalStorage(cfg.LocalStoragePath, cfg.LocalStorageBaseURL, log)
		if err != nil {
			return attachmentBackend{}, err
		}
		return attachmentBackend{
			store:  storage.Instrument(backend, cfg.StorageDriver),
			files:  backend.Handler(),
			prefix: backend.RoutePrefix(),
		}, nil
	}

	return attachmentBackend{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// must exits the process when a startup step fails. Only used before the server starts.
func must(log *slog.Logger, err error, step string) {
	if err == nil {
		return
	}
	log.Error("startup_failed", slog.String("step", step), slog.String("error", err.Error()))
	os.Exit(1)
}
