// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration brings the portfolio schema up to date at startup.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Registers the "file" source scheme.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirty means a previous run failed halfway and the schema needs a manual fix.
var ErrDirty = errors.New("migration: database is dirty")

// RunUp applies every pending up migration found under migrationsPath.
//
// Cancelling ctx stops golang-migrate after the step in flight.
func RunUp(ctx context.Context, dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: open: %w", err)
	}
	defer closeMigrator(migrator, logger)

	migrator.Log = slogAdapter{logger: logger, verbose: logger.Enabled(ctx, slog.LevelDebug)}

	stop := context.AfterFunc(ctx, func() { migrator.GracefulStop <- true })
	defer stop()

	from, err := schemaVersion(migrator)
	if err != nil {
		return err
	}
	logger.Info("migration_started", slog.Uint64("current_version", uint64(from)))

	switch err := migrator.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_already_up_to_date")
		return nil
	case err != nil:
		return fmt.Errorf("migration: up from version %d: %w", from, err)
	}

	to, err := schemaVersion(migrator)
	if err != nil {
		return err
	}
	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// schemaVersion reads the applied version. An empty schema is version 0.
func schemaVersion(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: read version: %w", err)
	case dirty:
		return version, fmt.Errorf("%w at version %d", ErrDirty, version)
	}
	return version, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		logger.Error("migration_close_failed", slog.String("error", err.Error()))
	}
}

// pgx5URL swaps the postgres URL scheme for the one the pgx/v5 driver registers.
// Keyword/value DSNs are returned unchanged.
func pgx5URL(dsn string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogAdapter satisfies migrate.Logger.
type slogAdapter struct {
	logger  *slog.Logger
	verbose bool
}

func (a slogAdapter) Printf(format string, args ...any) {
	a.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a slogAdapter) Verbose() bool { return a.verbose }
