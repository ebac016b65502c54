package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const errScanRollingStat = "failed to scan rolling stat: %w"

// PostgresRollingStatRepository implements RollingStatRepository for PostgreSQL
type PostgresRollingStatRepository struct {
	db *database.DB
}

// NewPostgresRollingStatRepository creates a new rolling stat repository
func NewPostgresRollingStatRepository(db *database.DB) RollingStatRepository {
	return &PostgresRollingStatRepository{db: db}
}

// Upsert replaces a player's aggregate wholesale. Aggregates are recomputed
// from full history on every run, never incrementally patched.
func (r *PostgresRollingStatRepository) Upsert(ctx context.Context, record *models.RollingStat) error {
	payload, err := json.Marshal(record.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal rolling stats: %w", err)
	}

	query := `
		INSERT INTO rolling_stats (player_id, player_name, team, position, total_games, last_game_at, stats, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			team = EXCLUDED.team,
			position = EXCLUDED.position,
			total_games = EXCLUDED.total_games,
			last_game_at = EXCLUDED.last_game_at,
			stats = EXCLUDED.stats,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		record.PlayerID, record.PlayerName, record.Team, record.Position,
		record.TotalGames, record.LastGameAt, payload, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rolling stat: %w", err)
	}

	return nil
}

// GetByPlayerID retrieves one player's aggregate
func (r *PostgresRollingStatRepository) GetByPlayerID(ctx context.Context, playerID string) (*models.RollingStat, error) {
	query := `
		SELECT player_id, player_name, team, position, total_games, last_game_at, stats, updated_at
		FROM rolling_stats
		WHERE player_id = $1
	`

	record, err := scanRollingStat(r.db.GetPool().QueryRow(ctx, query, playerID))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rolling stat: %w", err)
	}

	return record, nil
}

// ListAll retrieves every player aggregate, the snapshot a projection run
// starts from.
func (r *PostgresRollingStatRepository) ListAll(ctx context.Context) ([]*models.RollingStat, error) {
	query := `
		SELECT player_id, player_name, team, position, total_games, last_game_at, stats, updated_at
		FROM rolling_stats
		ORDER BY player_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rolling stats: %w", err)
	}
	defer rows.Close()

	var records []*models.RollingStat
	for rows.Next() {
		record, err := scanRollingStat(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanRollingStat, err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanRollingStat(row pgx.Row) (*models.RollingStat, error) {
	record := &models.RollingStat{}
	var payload []byte

	err := row.Scan(
		&record.PlayerID, &record.PlayerName, &record.Team, &record.Position,
		&record.TotalGames, &record.LastGameAt, &payload, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &record.Stats); err != nil {
		return nil, err
	}

	return record, nil
}
