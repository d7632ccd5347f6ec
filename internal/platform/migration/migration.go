// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package migration applies the SQL schema migrations at boot, before the
server takes traffic. The migration files under data/migrations build the
two Film8X schemas in order: users (accounts, roles) first, then core
(movies, comments, ratings, history), which reads account ids but carries
no cross-schema foreign keys.
*/
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme golang-migrate dials with.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads the .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

/*
RunUp applies every pending up migration and returns once the schema is
current. A dirty version (a previous run died mid-migration) aborts startup:
that state needs a human, not a retry loop.
*/
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, pgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer closeMigrator(migrator, logger)

	migrator.Log = &slogBridge{logger: logger}

	startVersion, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", startVersion)
	}

	logger.Info("migration_started", slog.Int("current_version", int(startVersion)))

	switch err := migrator.Up(); {
	case err == nil:
		endVersion, _, _ := migrator.Version()
		logger.Info("migration_applied",
			slog.Int("from_version", int(startVersion)),
			slog.Int("to_version", int(endVersion)),
		)
		return nil
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_already_up_to_date")
		return nil
	default:
		return fmt.Errorf("migration: up failed: %w", err)
	}
}

// pgx5DSN rewrites a postgres:// or postgresql:// DSN onto the pgx5://
// scheme golang-migrate's pgx/v5 driver registers. Other DSNs pass through
// untouched.
func pgx5DSN(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, scheme); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, dbErr := migrator.Close()
	if sourceErr != nil {
		logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
	}
	if dbErr != nil {
		logger.Error("migration_db_close_failed", slog.Any("error", dbErr))
	}
}

// slogBridge adapts golang-migrate's Logger interface to slog. Migrate's
// chatter goes out at debug level so normal boots stay quiet.
type slogBridge struct {
	logger *slog.Logger
}

func (bridge *slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (bridge *slogBridge) Verbose() bool { return false }
