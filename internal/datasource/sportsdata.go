package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/gridiron-edge/internal/models"
)

const sportsDataSourceName = "sportsdata"

// sportsDataGameDateLayout is the timestamp format of the stats feed,
// local stadium time with no zone.
const sportsDataGameDateLayout = "2006-01-02T15:04:05"

// SportsDataClient implements StatsProvider for the SportsDataIO NFL feed
type SportsDataClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *log.Logger
}

// sportsDataPlayerGame is one row of the PlayerGameStatsByWeek payload,
// limited to the fields the pipeline consumes.
type sportsDataPlayerGame struct {
	PlayerID         int    `json:"PlayerID"`
	Name             string `json:"Name"`
	Season           int    `json:"Season"`
	Week             int    `json:"Week"`
	Team             string `json:"Team"`
	Opponent         string `json:"Opponent"`
	HomeOrAway       string `json:"HomeOrAway"`
	Position         string `json:"Position"`
	PositionCategory string `json:"PositionCategory"`
	Activated        int    `json:"Activated"`
	Played           int    `json:"Played"`
	GameDate         string `json:"GameDate"`

	PassingYards             float64 `json:"PassingYards"`
	PassingTouchdowns        float64 `json:"PassingTouchdowns"`
	PassingInterceptions     float64 `json:"PassingInterceptions"`
	PassingAttempts          float64 `json:"PassingAttempts"`
	PassingCompletions       float64 `json:"PassingCompletions"`
	RushingYards             float64 `json:"RushingYards"`
	RushingTouchdowns        float64 `json:"RushingTouchdowns"`
	RushingAttempts          float64 `json:"RushingAttempts"`
	RushingLong              float64 `json:"RushingLong"`
	ReceivingYards           float64 `json:"ReceivingYards"`
	ReceivingTouchdowns      float64 `json:"ReceivingTouchdowns"`
	Receptions               float64 `json:"Receptions"`
	Targets                  float64 `json:"ReceivingTargets"`
	ReceivingLong            float64 `json:"ReceivingLong"`
	Fumbles                  float64 `json:"Fumbles"`
	FumblesLost              float64 `json:"FumblesLost"`
	TwoPointConversionPasses float64 `json:"TwoPointConversionPasses"`
	TwoPointConversionRuns   float64 `json:"TwoPointConversionRuns"`
	TwoPointConversionRecs   float64 `json:"TwoPointConversionReceptions"`
}

// NewSportsDataClient creates a new stats feed client
func NewSportsDataClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *log.Logger) *SportsDataClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SportsDataClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the provider name
func (c *SportsDataClient) Name() string {
	return sportsDataSourceName
}

// FetchWeekStats retrieves every player's box score for one week
func (c *SportsDataClient) FetchWeekStats(ctx context.Context, season, week int) ([]*models.GameStat, error) {
	url := fmt.Sprintf("%s/PlayerGameStatsByWeek/%d/%d?key=%s", c.baseURL, season, week, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(sportsDataSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(sportsDataSourceName, ErrCodeNetworkError, "failed to fetch week stats", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, NewDataSourceError(sportsDataSourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(sportsDataSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(sportsDataSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var rows []sportsDataPlayerGame
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, NewDataSourceError(sportsDataSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	stats := make([]*models.GameStat, 0, len(rows))
	for i := range rows {
		stat, err := c.convertGameStat(&rows[i])
		if err != nil {
			c.logger.Printf("Skipping malformed row for player %d week %d: %v", rows[i].PlayerID, week, err)
			continue
		}
		stats = append(stats, stat)
	}

	return stats, nil
}

func (c *SportsDataClient) convertGameStat(row *sportsDataPlayerGame) (*models.GameStat, error) {
	if row.PlayerID == 0 || row.Name == "" {
		return nil, fmt.Errorf("missing player identity")
	}

	gameDate, err := time.Parse(sportsDataGameDateLayout, row.GameDate)
	if err != nil {
		return nil, fmt.Errorf("bad game date %q: %w", row.GameDate, err)
	}

	return &models.GameStat{
		PlayerID:         strconv.Itoa(row.PlayerID),
		Name:             row.Name,
		Season:           row.Season,
		Week:             row.Week,
		Position:         row.Position,
		PositionCategory: row.PositionCategory,
		Team:             row.Team,
		Opponent:         row.Opponent,
		HomeOrAway:       row.HomeOrAway,
		GameDate:         gameDate,
		Activated:        row.Activated == 1,
		Played:           row.Played == 1,

		PassingYards:         row.PassingYards,
		PassingTouchdowns:    row.PassingTouchdowns,
		PassingInterceptions: row.PassingInterceptions,
		PassingAttempts:      row.PassingAttempts,
		PassingCompletions:   row.PassingCompletions,
		RushingYards:         row.RushingYards,
		RushingTouchdowns:    row.RushingTouchdowns,
		RushingAttempts:      row.RushingAttempts,
		RushingLong:          row.RushingLong,
		ReceivingYards:       row.ReceivingYards,
		ReceivingTouchdowns:  row.ReceivingTouchdowns,
		Receptions:           row.Receptions,
		Targets:              row.Targets,
		ReceivingLong:        row.ReceivingLong,
		Fumbles:              row.Fumbles,
		FumblesLost:          row.FumblesLost,
		TwoPointConversions:  row.TwoPointConversionPasses + row.TwoPointConversionRuns + row.TwoPointConversionRecs,
	}, nil
}
