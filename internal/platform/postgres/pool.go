// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx pool shared by the artist and studio
// repositories and exposes its statistics to Prometheus.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claycompanion/studio/internal/platform/constants"
)

// Settings tunes the pool. Zero fields fall back to [DefaultSettings].
type Settings struct {
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
}

// DefaultSettings suits studio traffic: mostly reads, with short write
// transactions that lock one artist row at a time.
var DefaultSettings = Settings{
	MaxConns:         20,
	MinConns:         2,
	MaxConnLifetime:  time.Hour,
	MaxConnIdleTime:  10 * time.Minute,
	ConnectTimeout:   5 * time.Second,
	StatementTimeout: constants.GlobalRequestTimeout,
}

const (
	healthCheckPeriod = time.Minute
	pingTimeout       = 2 * time.Second
)

func (s Settings) withDefaults() Settings {
	d := DefaultSettings
	if s.MaxConns > 0 {
		d.MaxConns = s.MaxConns
	}
	if s.MinConns > 0 {
		d.MinConns = s.MinConns
	}
	if s.MaxConnLifetime > 0 {
		d.MaxConnLifetime = s.MaxConnLifetime
	}
	if s.MaxConnIdleTime > 0 {
		d.MaxConnIdleTime = s.MaxConnIdleTime
	}
	if s.ConnectTimeout > 0 {
		d.ConnectTimeout = s.ConnectTimeout
	}
	if s.StatementTimeout > 0 {
		d.StatementTimeout = s.StatementTimeout
	}
	return d
}

// ParseConfig turns a DSN into a pool config carrying settings. The statement
// timeout and application name travel as startup parameters, so every
// physical connection gets them without an extra round trip.
func ParseConfig(dsn string, settings Settings) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	settings = settings.withDefaults()
	poolConfig.MaxConns = settings.MaxConns
	poolConfig.MinConns = settings.MinConns
	poolConfig.MaxConnLifetime = settings.MaxConnLifetime
	poolConfig.MaxConnIdleTime = settings.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = settings.ConnectTimeout

	params := poolConfig.ConnConfig.RuntimeParams
	params["statement_timeout"] = strconv.FormatInt(settings.StatementTimeout.Milliseconds(), 10)
	if params["application_name"] == "" {
		params["application_name"] = constants.AppName
	}

	return poolConfig, nil
}

// NewPool connects with [DefaultSettings] and verifies the database answers.
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := ParseConfig(dsn, Settings{})
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, poolConfig.ConnConfig.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres pool connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)

	return pool, nil
}

// Pinger is satisfied by [*pgxpool.Pool].
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping reports whether the database answers within a short deadline.
func Ping(ctx context.Context, pool Pinger) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
