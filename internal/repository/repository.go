package repository

import (
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	GameStat    GameStatRepository
	RollingStat RollingStatRepository
	PropSheet   PropSheetRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		GameStat:    NewPostgresGameStatRepository(db),
		RollingStat: NewPostgresRollingStatRepository(db),
		PropSheet:   NewPostgresPropSheetRepository(db),
	}, nil
}
