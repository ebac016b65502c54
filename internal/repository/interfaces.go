package repository

import (
	"context"
	"time"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// GameStatRepository defines operations for per-game box score rows
type GameStatRepository interface {
	Upsert(ctx context.Context, stat *models.GameStat) error
	UpsertBatch(ctx context.Context, stats []*models.GameStat) (int, error)
	ListPlayerHistory(ctx context.Context, playerID string) ([]*models.GameStat, error)
	ListPlayers(ctx context.Context) ([]string, error)
	CountBySeasonWeek(ctx context.Context, season, week int) (int, error)
}

// RollingStatRepository defines operations for aggregated player records
type RollingStatRepository interface {
	Upsert(ctx context.Context, record *models.RollingStat) error
	GetByPlayerID(ctx context.Context, playerID string) (*models.RollingStat, error)
	ListAll(ctx context.Context) ([]*models.RollingStat, error)
}

// PropSheetRepository defines operations for captured bookmaker prop sheets
type PropSheetRepository interface {
	InsertBatch(ctx context.Context, sheets []*models.PropSheet) error
	ListByDate(ctx context.Context, day time.Time) ([]*models.PropSheet, error)
	ListMostRecent(ctx context.Context) ([]*models.PropSheet, error)
}
