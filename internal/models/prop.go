package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropMarket is one bookmaker market line for one player: a market key,
// an optional point (absent for binary markets) and the quoted price.
type PropMarket struct {
	MarketKey   string           `json:"market_key" validate:"required"`
	OutcomeName string           `json:"prop_name"`
	Price       decimal.Decimal  `json:"price"`
	Point       *decimal.Decimal `json:"point,omitempty"`
	LastUpdate  time.Time        `json:"last_update"`
}

// HasPoint reports whether the market carries a line value.
func (m *PropMarket) HasPoint() bool {
	return m.Point != nil
}

// PointValue returns the line as a float64; callers must check HasPoint first.
func (m *PropMarket) PointValue() float64 {
	if m.Point == nil {
		return 0
	}
	return m.Point.InexactFloat64()
}

// PropSheet groups the markets captured for one player on one date.
type PropSheet struct {
	PlayerName string       `db:"player_name" json:"player_name" validate:"required"`
	EventID    string       `db:"event_id" json:"event_id"`
	Markets    []PropMarket `db:"markets" json:"markets"`
	CapturedAt time.Time    `db:"captured_at" json:"captured_at"`
}

// ProbabilityResult is the priced outcome of one market for one player.
// For binary markets Over carries the "yes" probability and Under the "no".
type ProbabilityResult struct {
	OverProbability  float64 `json:"over_probability"`
	UnderProbability float64 `json:"under_probability"`
	SampleSize       int     `json:"sample_size"`
	WeightedMean     float64 `json:"weighted_mean"`
	Distribution     string  `json:"distribution_used"`
}

// PlayerProjection is the per-player output of a projection run: a mapping
// from synthesized prop label to probability, plus per-market errors for
// markets that could not be priced. Neither side ever aborts the other.
type PlayerProjection struct {
	PlayerID string             `json:"player_id"`
	Props    map[string]float64 `json:"props"`
	Errors   map[string]string  `json:"errors,omitempty"`
}
