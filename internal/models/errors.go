package models

import "errors"

// Custom errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateKey         = errors.New("duplicate key violation")
	ErrNoHistory            = errors.New("player has no game history")
	ErrPlayerRecordNotFound = errors.New("player rolling stats not found")
	ErrStatNotTracked       = errors.New("statistic not tracked for player")
	ErrUnknownMarket        = errors.New("no statistic mapping for market key")
	ErrUnsupportedMarket    = errors.New("market requires specialized modeling")
	ErrMissingLinePoint     = errors.New("over/under market has no point value")
	ErrPlayerNotResolved    = errors.New("player name could not be resolved")
)
