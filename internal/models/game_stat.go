package models

import "time"

// StatColumns is the closed set of per-game statistics tracked by the
// rolling aggregator. Order matches the box-score layout.
var StatColumns = []string{
	"passing_yards", "passing_touchdowns", "passing_interceptions",
	"passing_attempts", "passing_completions", "rushing_yards",
	"rushing_touchdowns", "rushing_attempts", "rushing_long",
	"receiving_yards", "receiving_touchdowns", "receptions",
	"targets", "receiving_long",
}

// GameStat represents one player's box score for a single week.
// Rows are immutable once ingested.
type GameStat struct {
	PlayerID         string    `db:"player_id" json:"player_id" validate:"required"`
	Name             string    `db:"name" json:"name" validate:"required"`
	Season           int       `db:"season" json:"season" validate:"required,gt=0"`
	Week             int       `db:"week" json:"week" validate:"required,min=1,max=18"`
	Position         string    `db:"position" json:"position"`
	PositionCategory string    `db:"position_category" json:"position_category"`
	Team             string    `db:"team" json:"team"`
	Opponent         string    `db:"opponent" json:"opponent"`
	HomeOrAway       string    `db:"home_or_away" json:"home_or_away"`
	GameDate         time.Time `db:"game_date" json:"game_date"`
	Activated        bool      `db:"activated" json:"activated"`
	Played           bool      `db:"played" json:"played"`

	PassingYards         float64 `db:"passing_yards" json:"passing_yards"`
	PassingTouchdowns    float64 `db:"passing_touchdowns" json:"passing_touchdowns"`
	PassingInterceptions float64 `db:"passing_interceptions" json:"passing_interceptions"`
	PassingAttempts      float64 `db:"passing_attempts" json:"passing_attempts"`
	PassingCompletions   float64 `db:"passing_completions" json:"passing_completions"`
	RushingYards         float64 `db:"rushing_yards" json:"rushing_yards"`
	RushingTouchdowns    float64 `db:"rushing_touchdowns" json:"rushing_touchdowns"`
	RushingAttempts      float64 `db:"rushing_attempts" json:"rushing_attempts"`
	RushingLong          float64 `db:"rushing_long" json:"rushing_long"`
	ReceivingYards       float64 `db:"receiving_yards" json:"receiving_yards"`
	ReceivingTouchdowns  float64 `db:"receiving_touchdowns" json:"receiving_touchdowns"`
	Receptions           float64 `db:"receptions" json:"receptions"`
	Targets              float64 `db:"targets" json:"targets"`
	ReceivingLong        float64 `db:"receiving_long" json:"receiving_long"`
	Fumbles              float64 `db:"fumbles" json:"fumbles"`
	FumblesLost          float64 `db:"fumbles_lost" json:"fumbles_lost"`
	TwoPointConversions  float64 `db:"two_point_conversions" json:"two_point_conversions"`
}

// Stat returns the value of a tracked statistic column. Unknown columns
// return 0, matching the raw-source rule that an absent statistic counts
// as zero rather than missing.
func (g *GameStat) Stat(column string) float64 {
	switch column {
	case "passing_yards":
		return g.PassingYards
	case "passing_touchdowns":
		return g.PassingTouchdowns
	case "passing_interceptions":
		return g.PassingInterceptions
	case "passing_attempts":
		return g.PassingAttempts
	case "passing_completions":
		return g.PassingCompletions
	case "rushing_yards":
		return g.RushingYards
	case "rushing_touchdowns":
		return g.RushingTouchdowns
	case "rushing_attempts":
		return g.RushingAttempts
	case "rushing_long":
		return g.RushingLong
	case "receiving_yards":
		return g.ReceivingYards
	case "receiving_touchdowns":
		return g.ReceivingTouchdowns
	case "receptions":
		return g.Receptions
	case "targets":
		return g.Targets
	case "receiving_long":
		return g.ReceivingLong
	default:
		return 0
	}
}

// IsOffensiveActive reports whether the record belongs to an activated
// offensive player, the only population the ingestion pipeline stores.
func (g *GameStat) IsOffensiveActive() bool {
	return g.PositionCategory == "OFF" && g.Activated
}
