package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sgchris/gresources/internal/database"
	"github.com/sgchris/gresources/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var sqliteSteps = []migrationStep{
	{
		Name: "create_table_resources",
		SQL: `CREATE TABLE IF NOT EXISTS resources (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id    INTEGER NOT NULL DEFAULT 1,
  path       TEXT    NOT NULL UNIQUE,
  content    TEXT,
  size       INTEGER NOT NULL DEFAULT 0 CHECK (size >= 0),
  created_at TEXT    NOT NULL,
  updated_at TEXT    NOT NULL
);`,
	},
	{
		Name: "create_index_resources_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_resources_user_id ON resources (user_id);`,
	},
}

var postgresSteps = []migrationStep{
	{
		Name: "create_table_resources",
		SQL: `CREATE TABLE IF NOT EXISTS resources (
  id         BIGSERIAL PRIMARY KEY,
  user_id    BIGINT    NOT NULL DEFAULT 1,
  path       TEXT      NOT NULL UNIQUE,
  content    TEXT,
  size       BIGINT    NOT NULL DEFAULT 0 CHECK (size >= 0),
  created_at TEXT      NOT NULL,
  updated_at TEXT      NOT NULL
);`,
	},
	{
		Name: "create_index_resources_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_resources_user_id ON resources (user_id);`,
	},
}

func stepsFor(d database.Dialect) []migrationStep {
	if d == database.Postgres {
		return postgresSteps
	}
	return sqliteSteps
}

func sentinelQuery(d database.Dialect) string {
	if d == database.Postgres {
		return "SELECT to_regclass('public.resources') IS NOT NULL"
	}
	return "SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = 'resources'"
}

// EnsureMigrated checks if the 'resources' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dialect database.Dialect, log *logging.Logger) error {
	start := time.Now()
	log = log.Named("migration").With(zap.String("dialect", string(dialect)))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery(dialect)).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("msg", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range stepsFor(dialect) {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
