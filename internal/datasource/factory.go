package datasource

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// Providers bundles the external data providers the pipeline depends on
type Providers struct {
	Stats StatsProvider
	Odds  OddsProvider
}

// NewProviders builds the stats and odds clients from configuration, each
// with its own rate-limited HTTP client.
func NewProviders(cfg *config.Config, logger *log.Logger) (*Providers, error) {
	if cfg.SportsData.APIKey == "" {
		return nil, fmt.Errorf("sportsdata API key is required")
	}
	if cfg.OddsAPI.APIKey == "" {
		return nil, fmt.Errorf("odds API key is required")
	}

	statsHTTP := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           time.Duration(cfg.SportsData.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.SportsData.RetryAttempts,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         float64(cfg.SportsData.RateLimitRPS),
		CircuitBreakerMax: 5,
	}, logger)

	oddsHTTP := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           time.Duration(cfg.OddsAPI.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.OddsAPI.RetryAttempts,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         float64(cfg.OddsAPI.RateLimitRPS),
		CircuitBreakerMax: 5,
	}, logger)

	return &Providers{
		Stats: NewSportsDataClient(statsHTTP, cfg.SportsData.BaseURL, cfg.SportsData.APIKey, logger),
		Odds:  NewOddsAPIClient(oddsHTTP, cfg.OddsAPI.BaseURL, cfg.OddsAPI.APIKey, cfg.OddsAPI.Bookmaker, logger),
	}, nil
}
