package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// StatsProvider defines the interface for fetching player box scores from an
// external stats feed.
type StatsProvider interface {
	// FetchWeekStats retrieves every player's box score for one week.
	FetchWeekStats(ctx context.Context, season, week int) ([]*models.GameStat, error)

	// Name returns the name of the provider
	Name() string
}

// OddsProvider defines the interface for fetching bookmaker player prop
// lines.
type OddsProvider interface {
	// FetchEvents retrieves the upcoming games with player props available.
	FetchEvents(ctx context.Context) ([]Event, error)

	// FetchEventProps retrieves per-player prop sheets for one event.
	FetchEventProps(ctx context.Context, eventID string) ([]*models.PropSheet, error)

	// Name returns the name of the provider
	Name() string
}

// Event is one upcoming game as listed by the odds provider.
type Event struct {
	ID           string    `json:"id"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
}

// DataSourceError represents errors from provider operations
type DataSourceError struct {
	Source  string // Provider name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors for callers that branch on failure class
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
)

// NewDataSourceError creates a new provider error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
