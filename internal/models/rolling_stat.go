package models

import "time"

// StatSummary holds the aggregated parameters for one tracked statistic.
// Lambda is numerically equal to WeightedMean and is kept as its own field
// because it is the Poisson rate consumed downstream.
type StatSummary struct {
	WeightedMean float64 `json:"weighted_mean"`
	WeightedStd  float64 `json:"weighted_std"`
	Lambda       float64 `json:"lambda"`
	SimpleMean   float64 `json:"simple_mean"`
	SimpleStd    float64 `json:"simple_std"`
	SampleSize   int     `json:"sample_size"`
}

// RollingStat is one player's current aggregate across all tracked
// statistics. It is recomputed wholesale on every aggregation run and is
// read-only everywhere outside the aggregator.
type RollingStat struct {
	PlayerID    string                 `db:"player_id" json:"player_id" validate:"required"`
	PlayerName  string                 `db:"player_name" json:"player_name" validate:"required"`
	Team        string                 `db:"team" json:"team"`
	Position    string                 `db:"position" json:"position"`
	TotalGames  int                    `db:"total_games" json:"total_games"`
	LastGameAt  time.Time              `db:"last_game_at" json:"last_game_at"`
	UpdatedAt   time.Time              `db:"updated_at" json:"updated_at"`
	Stats       map[string]StatSummary `db:"stats" json:"stats"`
}

// Summary returns the aggregate for a tracked statistic, reporting whether
// the statistic exists for this player.
func (r *RollingStat) Summary(column string) (StatSummary, bool) {
	s, ok := r.Stats[column]
	return s, ok
}
