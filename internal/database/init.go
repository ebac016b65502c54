package database

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// schema holds the idempotent table definitions for the projection engine.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS game_stats (
		player_id        TEXT        NOT NULL,
		name             TEXT        NOT NULL,
		season           INT         NOT NULL,
		week             INT         NOT NULL,
		position         TEXT        NOT NULL DEFAULT '',
		position_category TEXT       NOT NULL DEFAULT '',
		team             TEXT        NOT NULL DEFAULT '',
		opponent         TEXT        NOT NULL DEFAULT '',
		home_or_away     TEXT        NOT NULL DEFAULT '',
		game_date        TIMESTAMPTZ NOT NULL,
		activated        BOOLEAN     NOT NULL DEFAULT FALSE,
		played           BOOLEAN     NOT NULL DEFAULT FALSE,
		stats            JSONB       NOT NULL DEFAULT '{}'::jsonb,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (player_id, season, week)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_game_stats_season_week ON game_stats (season, week)`,
	`CREATE TABLE IF NOT EXISTS rolling_stats (
		player_id    TEXT        PRIMARY KEY,
		player_name  TEXT        NOT NULL,
		team         TEXT        NOT NULL DEFAULT '',
		position     TEXT        NOT NULL DEFAULT '',
		total_games  INT         NOT NULL,
		last_game_at TIMESTAMPTZ,
		stats        JSONB       NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rolling_stats_player_name ON rolling_stats (player_name)`,
	`CREATE TABLE IF NOT EXISTS prop_sheets (
		id          BIGSERIAL   PRIMARY KEY,
		event_id    TEXT        NOT NULL,
		player_name TEXT        NOT NULL,
		markets     JSONB       NOT NULL,
		captured_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_prop_sheets_captured_at ON prop_sheets (captured_at)`,
}

// Initialize creates a database connection pool and applies the schema.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate applies the idempotent schema statements.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
