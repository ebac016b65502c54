package projection

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/stats"
)

// marketStatMapping maps bookmaker market keys to the base statistic they
// price. Composite and binary keys are handled by dispatch, not this table.
var marketStatMapping = map[string]string{
	"player_rush_yds":          "rushing_yards",
	"player_rush_tds":          "rushing_touchdowns",
	"player_rush_attempts":     "rushing_attempts",
	"player_rush_longest":      "rushing_long",
	"player_pass_yds":          "passing_yards",
	"player_pass_tds":          "passing_touchdowns",
	"player_pass_attempts":     "passing_attempts",
	"player_pass_completions":  "passing_completions",
	"player_reception_yds":     "receiving_yards",
	"player_reception_tds":     "receiving_touchdowns",
	"player_receptions":        "receptions",
	"player_reception_longest": "receiving_long",
}

const (
	marketAnytimeTD        = "player_anytime_td"
	marketFirstTD          = "player_1st_td"
	marketLastTD           = "player_last_td"
	marketCombinedTDs      = "player_tds"
	marketRushReceptionTDs = "player_rush_reception_tds"
	marketRushReceptionYds = "player_rush_reception_yds"
)

// Engine evaluates markets against an immutable snapshot of rolling stats.
// Every evaluation reads one record and one market line, so callers are
// free to run players and markets on independent goroutines.
type Engine struct {
	records map[string]*models.RollingStat
	logger  *logrus.Logger
}

// NewEngine creates an engine over a read-only rolling-stats snapshot.
func NewEngine(records map[string]*models.RollingStat, logger *logrus.Logger) *Engine {
	return &Engine{records: records, logger: logger}
}

// EvaluatePlayer prices every market for one player. Failures never abort
// the rest of the markets: unsupported and unmapped markets are skipped
// with a diagnostic, and per-market errors are collected in the result.
func (e *Engine) EvaluatePlayer(playerID string, markets []models.PropMarket) models.PlayerProjection {
	proj := models.PlayerProjection{
		PlayerID: playerID,
		Props:    make(map[string]float64),
		Errors:   make(map[string]string),
	}

	record := e.records[playerID]

	for _, market := range markets {
		if market.MarketKey == "" {
			continue
		}

		switch market.MarketKey {
		case marketFirstTD, marketLastTD:
			e.skip(market.MarketKey, "unsupported_market")
			continue

		case marketAnytimeTD:
			if record == nil {
				proj.Errors[market.MarketKey] = models.ErrPlayerRecordNotFound.Error()
				continue
			}
			result := AnytimeTouchdown(record)
			proj.Props[market.MarketKey+"_yes"] = result.OverProbability
			proj.Props[market.MarketKey+"_no"] = result.UnderProbability
			metrics.RecordMarketPriced()
			continue
		}

		// Everything past this point is an over/under market and needs a line.
		if !market.HasPoint() {
			e.skip(market.MarketKey, "missing_point")
			continue
		}
		line := market.PointValue()

		if record == nil {
			proj.Errors[market.MarketKey] = models.ErrPlayerRecordNotFound.Error()
			continue
		}

		var (
			result models.ProbabilityResult
			err    error
		)
		switch market.MarketKey {
		case marketCombinedTDs, marketRushReceptionTDs:
			result = CombinedTouchdowns(record, line)
		case marketRushReceptionYds:
			result = CombinedRushReceivingYards(record, line)
		default:
			statType, ok := marketStatMapping[market.MarketKey]
			if !ok {
				e.skip(market.MarketKey, "unknown_market")
				continue
			}
			result, err = e.evaluateBase(record, statType, line)
			if err != nil {
				proj.Errors[market.MarketKey] = err.Error()
				continue
			}
		}

		proj.Props[overLabel(market.MarketKey, line)] = result.OverProbability
		proj.Props[underLabel(market.MarketKey, line)] = result.UnderProbability
		metrics.RecordMarketPriced()
	}

	if len(proj.Errors) == 0 {
		proj.Errors = nil
	}
	return proj
}

// evaluateBase runs all three evaluators for a base statistic and lets the
// selection heuristic pick the reported pair. The over and under picks go
// through the same selection, keeping the reported distribution name in
// lock-step with the probabilities actually chosen.
func (e *Engine) evaluateBase(record *models.RollingStat, statType string, line float64) (models.ProbabilityResult, error) {
	summary, ok := record.Summary(statType)
	if !ok {
		return models.ProbabilityResult{}, fmt.Errorf("%w: %s", models.ErrStatNotTracked, statType)
	}

	mean := summary.WeightedMean
	std := summary.WeightedStd
	variance := std * std

	normalOver := stats.NormalProbability(mean, std, line, true)
	poissonOver := stats.PoissonProbability(summary.Lambda, line, true)
	negBinOver := stats.NegativeBinomialProbability(mean, variance, line, true)

	normalUnder := stats.NormalProbability(mean, std, line, false)
	poissonUnder := stats.PoissonProbability(summary.Lambda, line, false)
	negBinUnder := stats.NegativeBinomialProbability(mean, variance, line, false)

	selected := stats.Select(statType, mean, std, summary.SampleSize)

	return models.ProbabilityResult{
		OverProbability:  stats.Pick(selected, normalOver, poissonOver, negBinOver),
		UnderProbability: stats.Pick(selected, normalUnder, poissonUnder, negBinUnder),
		SampleSize:       summary.SampleSize,
		WeightedMean:     stats.Round4(mean),
		Distribution:     string(selected),
	}, nil
}

func (e *Engine) skip(marketKey, reason string) {
	metrics.RecordMarketSkipped(reason)
	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"market_key": marketKey,
			"reason":     reason,
		}).Debug("Skipping market")
	}
}

func overLabel(marketKey string, line float64) string {
	return marketKey + "_over_" + formatLine(line)
}

func underLabel(marketKey string, line float64) string {
	return marketKey + "_under_" + formatLine(line)
}

func formatLine(line float64) string {
	return strconv.FormatFloat(line, 'f', -1, 64)
}
