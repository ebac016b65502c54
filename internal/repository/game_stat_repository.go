package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const errScanGameStat = "failed to scan game stat: %w"

const upsertGameStatQuery = `
	INSERT INTO game_stats (player_id, name, season, week, position, position_category,
	                        team, opponent, home_or_away, game_date, activated, played, stats)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (player_id, season, week) DO UPDATE SET
		name = EXCLUDED.name,
		position = EXCLUDED.position,
		position_category = EXCLUDED.position_category,
		team = EXCLUDED.team,
		opponent = EXCLUDED.opponent,
		home_or_away = EXCLUDED.home_or_away,
		game_date = EXCLUDED.game_date,
		activated = EXCLUDED.activated,
		played = EXCLUDED.played,
		stats = EXCLUDED.stats,
		updated_at = now()
`

// PostgresGameStatRepository implements GameStatRepository for PostgreSQL
type PostgresGameStatRepository struct {
	db *database.DB
}

// NewPostgresGameStatRepository creates a new game stat repository
func NewPostgresGameStatRepository(db *database.DB) GameStatRepository {
	return &PostgresGameStatRepository{db: db}
}

// Upsert inserts a box score row, replacing any existing row for the same
// player and week. Provider corrections overwrite in place.
func (r *PostgresGameStatRepository) Upsert(ctx context.Context, stat *models.GameStat) error {
	payload, err := json.Marshal(stat)
	if err != nil {
		return fmt.Errorf("failed to marshal game stat: %w", err)
	}

	_, err = r.db.GetPool().Exec(ctx, upsertGameStatQuery,
		stat.PlayerID, stat.Name, stat.Season, stat.Week, stat.Position, stat.PositionCategory,
		stat.Team, stat.Opponent, stat.HomeOrAway, stat.GameDate, stat.Activated, stat.Played, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game stat: %w", err)
	}

	return nil
}

// UpsertBatch inserts a batch of box score rows in one transaction and
// returns how many were written.
func (r *PostgresGameStatRepository) UpsertBatch(ctx context.Context, stats []*models.GameStat) (int, error) {
	if len(stats) == 0 {
		return 0, nil
	}

	written := 0
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stat := range stats {
			payload, err := json.Marshal(stat)
			if err != nil {
				return fmt.Errorf("failed to marshal game stat: %w", err)
			}

			_, err = tx.Exec(ctx, upsertGameStatQuery,
				stat.PlayerID, stat.Name, stat.Season, stat.Week, stat.Position, stat.PositionCategory,
				stat.Team, stat.Opponent, stat.HomeOrAway, stat.GameDate, stat.Activated, stat.Played, payload,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert game stat for player %s week %d: %w", stat.PlayerID, stat.Week, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

// ListPlayerHistory retrieves all of a player's box scores ordered oldest
// first, the order the rolling aggregator expects.
func (r *PostgresGameStatRepository) ListPlayerHistory(ctx context.Context, playerID string) ([]*models.GameStat, error) {
	query := `
		SELECT stats
		FROM game_stats
		WHERE player_id = $1
		ORDER BY season ASC, week ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player history: %w", err)
	}
	defer rows.Close()

	var history []*models.GameStat
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf(errScanGameStat, err)
		}

		stat := &models.GameStat{}
		if err := json.Unmarshal(payload, stat); err != nil {
			return nil, fmt.Errorf(errScanGameStat, err)
		}
		history = append(history, stat)
	}

	return history, rows.Err()
}

// ListPlayers retrieves the distinct player identifiers with stored games
func (r *PostgresGameStatRepository) ListPlayers(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT player_id FROM game_stats`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []string
	for rows.Next() {
		var playerID string
		if err := rows.Scan(&playerID); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		players = append(players, playerID)
	}

	return players, rows.Err()
}

// CountBySeasonWeek reports how many rows are stored for one week, used to
// decide whether a week has already been ingested.
func (r *PostgresGameStatRepository) CountBySeasonWeek(ctx context.Context, season, week int) (int, error) {
	query := `SELECT COUNT(*) FROM game_stats WHERE season = $1 AND week = $2`

	var count int
	if err := r.db.GetPool().QueryRow(ctx, query, season, week).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count game stats: %w", err)
	}

	return count, nil
}
