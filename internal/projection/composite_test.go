package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/gridiron-edge/internal/models"
)

func recordWithStats(stats map[string]models.StatSummary) *models.RollingStat {
	return &models.RollingStat{
		PlayerID:   "19790",
		PlayerName: "Test Player",
		Team:       "SF",
		Position:   "RB",
		TotalGames: 10,
		Stats:      stats,
	}
}

func TestCombinedTouchdownsMeanIsExactSum(t *testing.T) {
	record := recordWithStats(map[string]models.StatSummary{
		"rushing_touchdowns":   {WeightedMean: 0.37, SampleSize: 9},
		"receiving_touchdowns": {WeightedMean: 0.21, SampleSize: 7},
	})

	result := CombinedTouchdowns(record, 0.5)

	assert.Equal(t, 0.58, result.WeightedMean)
	assert.Equal(t, 9, result.SampleSize, "sample size is the max of the components")
	assert.Equal(t, "poisson_combined", result.Distribution)
}

func TestCombinedTouchdownsExcludesPassing(t *testing.T) {
	// A quarterback's passing touchdowns must not leak into the composite.
	record := recordWithStats(map[string]models.StatSummary{
		"passing_touchdowns":   {WeightedMean: 2.1, SampleSize: 10},
		"rushing_touchdowns":   {WeightedMean: 0.4, SampleSize: 10},
		"receiving_touchdowns": {WeightedMean: 0.0, SampleSize: 10},
	})

	result := CombinedTouchdowns(record, 0.5)
	assert.Equal(t, 0.4, result.WeightedMean)
}

func TestCombinedRushReceivingYards(t *testing.T) {
	record := recordWithStats(map[string]models.StatSummary{
		"rushing_yards":   {WeightedMean: 60, WeightedStd: 3, SampleSize: 10},
		"receiving_yards": {WeightedMean: 40, WeightedStd: 4, SampleSize: 8},
	})

	result := CombinedRushReceivingYards(record, 90)

	assert.Equal(t, 100.0, result.WeightedMean)
	assert.Equal(t, 10, result.SampleSize)
	assert.Equal(t, "normal_combined", result.Distribution)

	// Combined std = sqrt(3^2 + 4^2) = 5, so P(X > 90) = 1 - Phi(-2).
	assert.InDelta(t, 0.9772, result.OverProbability, 1e-3)
	assert.InDelta(t, 1.0, result.OverProbability+result.UnderProbability, 1e-3)
}

func TestAnytimeTouchdown(t *testing.T) {
	record := recordWithStats(map[string]models.StatSummary{
		"rushing_touchdowns":   {WeightedMean: 0.3, SampleSize: 10},
		"receiving_touchdowns": {WeightedMean: 0.1, SampleSize: 10},
	})

	result := AnytimeTouchdown(record)

	wantYes := 1 - math.Exp(-0.4)
	assert.InDelta(t, wantYes, result.OverProbability, 1e-4)
	assert.InDelta(t, 1-wantYes, result.UnderProbability, 1e-4)
	assert.Equal(t, 10, result.SampleSize)
	assert.Equal(t, "poisson_binary", result.Distribution)
}

func TestAnytimeTouchdownNoHistory(t *testing.T) {
	// Missing touchdown summaries read as zero rates: no chance of a score.
	record := recordWithStats(map[string]models.StatSummary{})

	result := AnytimeTouchdown(record)
	assert.Equal(t, 1.0, result.OverProbability+result.UnderProbability)
	assert.Equal(t, 0.0, result.OverProbability)
}
