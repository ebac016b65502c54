// Package projection implements the market-pricing engine: it joins a
// player's rolling aggregates with bookmaker lines and produces per-market
// probabilities through the distribution selection heuristic.
package projection

import (
	"math"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/stats"
)

// Composite markets are sums of two base statistics. A player is only
// credited with touchdowns they score themselves, so passing touchdowns
// are excluded from every touchdown composite.

// CombinedTouchdowns prices a total-touchdowns line as the sum of the
// rushing and receiving touchdown rates. The sum of independent Poisson
// variables is Poisson, so only the Poisson evaluator applies.
func CombinedTouchdowns(record *models.RollingStat, line float64) models.ProbabilityResult {
	rushing, _ := record.Summary("rushing_touchdowns")
	receiving, _ := record.Summary("receiving_touchdowns")

	totalMean := rushing.WeightedMean + receiving.WeightedMean
	sampleSize := maxInt(rushing.SampleSize, receiving.SampleSize)

	return models.ProbabilityResult{
		OverProbability:  stats.Round4(stats.PoissonProbability(totalMean, line, true)),
		UnderProbability: stats.Round4(stats.PoissonProbability(totalMean, line, false)),
		SampleSize:       sampleSize,
		WeightedMean:     stats.Round4(totalMean),
		Distribution:     "poisson_combined",
	}
}

// CombinedRushReceivingYards prices a combined rushing+receiving yardage
// line. Means add; the combined std is the root of the summed variances
// under an independence assumption. Only the Normal evaluator applies.
func CombinedRushReceivingYards(record *models.RollingStat, line float64) models.ProbabilityResult {
	rushing, _ := record.Summary("rushing_yards")
	receiving, _ := record.Summary("receiving_yards")

	totalMean := rushing.WeightedMean + receiving.WeightedMean
	totalStd := rootSumSquares(rushing.WeightedStd, receiving.WeightedStd)
	sampleSize := maxInt(rushing.SampleSize, receiving.SampleSize)

	return models.ProbabilityResult{
		OverProbability:  stats.Round4(stats.NormalProbability(totalMean, totalStd, line, true)),
		UnderProbability: stats.Round4(stats.NormalProbability(totalMean, totalStd, line, false)),
		SampleSize:       sampleSize,
		WeightedMean:     stats.Round4(totalMean),
		Distribution:     "normal_combined",
	}
}

// AnytimeTouchdown prices the binary market of scoring at least one
// self-scored touchdown: yes = 1 - P(X < 1) under Poisson with the
// combined touchdown rate. Over carries "yes", Under carries "no".
func AnytimeTouchdown(record *models.RollingStat) models.ProbabilityResult {
	rushing, _ := record.Summary("rushing_touchdowns")
	receiving, _ := record.Summary("receiving_touchdowns")

	totalMean := rushing.WeightedMean + receiving.WeightedMean
	sampleSize := maxInt(rushing.SampleSize, receiving.SampleSize)

	// P(X < 1) = P(X = 0) = e^(-lambda). A zero rate means a certain no.
	noProb := 1.0
	if totalMean > 0 {
		noProb = stats.PoissonProbability(totalMean, 1, false)
	}
	yesProb := 1 - noProb

	return models.ProbabilityResult{
		OverProbability:  stats.Round4(yesProb),
		UnderProbability: stats.Round4(noProb),
		SampleSize:       sampleSize,
		WeightedMean:     stats.Round4(totalMean),
		Distribution:     "poisson_binary",
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func rootSumSquares(a, b float64) float64 {
	return math.Sqrt(a*a + b*b)
}
