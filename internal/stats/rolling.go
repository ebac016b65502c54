package stats

import (
	"time"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Aggregator converts a player's ordered game history into a RollingStat
// record. Every run recomputes the full history from scratch; the weight
// vector is regenerated per statistic, so there is no incremental state to
// keep consistent between runs.
type Aggregator struct {
	decay float64
}

// NewAggregator creates an aggregator with the given decay factor.
// Values outside (0,1) fall back to the default.
func NewAggregator(decay float64) *Aggregator {
	if decay <= 0 || decay >= 1 {
		decay = DefaultDecayFactor
	}
	return &Aggregator{decay: decay}
}

// Aggregate computes the rolling record for one player from their game
// history, ordered oldest to newest. An empty history is a skip, not a
// failure, and returns models.ErrNoHistory.
func (a *Aggregator) Aggregate(history []*models.GameStat) (*models.RollingStat, error) {
	if len(history) == 0 {
		return nil, models.ErrNoHistory
	}

	latest := history[len(history)-1]
	record := &models.RollingStat{
		PlayerID:   latest.PlayerID,
		PlayerName: latest.Name,
		Team:       latest.Team,
		Position:   latest.Position,
		TotalGames: len(history),
		LastGameAt: latest.GameDate,
		UpdatedAt:  time.Now().UTC(),
		Stats:      make(map[string]models.StatSummary, len(models.StatColumns)),
	}

	values := make([]float64, len(history))
	for _, column := range models.StatColumns {
		for i, game := range history {
			values[i] = game.Stat(column)
		}

		weights := ExponentialWeights(len(values), a.decay)
		weightedMean := WeightedMean(values, weights)

		record.Stats[column] = models.StatSummary{
			WeightedMean: weightedMean,
			WeightedStd:  WeightedStd(values, weights, weightedMean),
			Lambda:       weightedMean,
			SimpleMean:   SimpleMean(values),
			SimpleStd:    SimpleStd(values),
			SampleSize:   len(values),
		}
	}

	return record, nil
}
