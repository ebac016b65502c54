package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/models"
)

const (
	oddsAPISourceName = "odds_api"
	oddsAPISportKey   = "americanfootball_nfl"
)

// propMarketKeys is the fixed set of player prop markets requested on every
// odds call. Unknown keys in the response are carried through and left to
// the projection engine to skip.
var propMarketKeys = []string{
	"player_pass_yds",
	"player_pass_tds",
	"player_pass_attempts",
	"player_pass_completions",
	"player_rush_yds",
	"player_rush_attempts",
	"player_rush_longest",
	"player_reception_yds",
	"player_receptions",
	"player_reception_longest",
	"player_rush_reception_yds",
	"player_anytime_td",
	"player_1st_td",
	"player_last_td",
}

// OddsAPIClient implements OddsProvider for the-odds-api v4
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	bookmaker  string
	logger     *log.Logger
}

type oddsAPIEvent struct {
	ID           string    `json:"id"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

type oddsAPIOutcome struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Point       *float64 `json:"point,omitempty"`
}

type oddsAPIMarket struct {
	Key        string           `json:"key"`
	LastUpdate time.Time        `json:"last_update"`
	Outcomes   []oddsAPIOutcome `json:"outcomes"`
}

type oddsAPIBookmaker struct {
	Key     string          `json:"key"`
	Markets []oddsAPIMarket `json:"markets"`
}

type oddsAPIEventOdds struct {
	ID         string             `json:"id"`
	Bookmakers []oddsAPIBookmaker `json:"bookmakers"`
}

// NewOddsAPIClient creates a new odds provider client
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, bookmaker string, logger *log.Logger) *OddsAPIClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		bookmaker:  bookmaker,
		logger:     logger,
	}
}

// Name returns the provider name
func (c *OddsAPIClient) Name() string {
	return oddsAPISourceName
}

// FetchEvents retrieves the upcoming games with player props available
func (c *OddsAPIClient) FetchEvents(ctx context.Context) ([]Event, error) {
	url := fmt.Sprintf("%s/sports/%s/events?apiKey=%s", c.baseURL, oddsAPISportKey, c.apiKey)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var raw []oddsAPIEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse events", err)
	}

	events := make([]Event, 0, len(raw))
	for _, e := range raw {
		events = append(events, Event{
			ID:           e.ID,
			HomeTeam:     e.HomeTeam,
			AwayTeam:     e.AwayTeam,
			CommenceTime: e.CommenceTime,
		})
	}

	return events, nil
}

// FetchEventProps retrieves per-player prop sheets for one event. Outcomes
// are grouped by the player named in the outcome description; only the
// Over/Yes side is kept since each line prices both sides.
func (c *OddsAPIClient) FetchEventProps(ctx context.Context, eventID string) ([]*models.PropSheet, error) {
	url := fmt.Sprintf("%s/sports/%s/events/%s/odds?apiKey=%s&regions=us&oddsFormat=decimal&bookmakers=%s&markets=%s",
		c.baseURL, oddsAPISportKey, eventID, c.apiKey, c.bookmaker, strings.Join(propMarketKeys, ","))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var odds oddsAPIEventOdds
	if err := json.Unmarshal(body, &odds); err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse event odds", err)
	}

	capturedAt := time.Now().UTC()
	byPlayer := make(map[string][]models.PropMarket)

	for _, bookmaker := range odds.Bookmakers {
		if bookmaker.Key != c.bookmaker {
			continue
		}
		for _, market := range bookmaker.Markets {
			for _, outcome := range market.Outcomes {
				if outcome.Description == "" {
					continue
				}
				if outcome.Name != "Over" && outcome.Name != "Yes" {
					continue
				}

				prop := models.PropMarket{
					MarketKey:   market.Key,
					OutcomeName: outcome.Name,
					Price:       decimal.NewFromFloat(outcome.Price),
					LastUpdate:  market.LastUpdate,
				}
				if outcome.Point != nil {
					point := decimal.NewFromFloat(*outcome.Point)
					prop.Point = &point
				}
				byPlayer[outcome.Description] = append(byPlayer[outcome.Description], prop)
			}
		}
	}

	sheets := make([]*models.PropSheet, 0, len(byPlayer))
	for player, markets := range byPlayer {
		sheets = append(sheets, &models.PropSheet{
			PlayerName: player,
			EventID:    eventID,
			Markets:    markets,
			CapturedAt: capturedAt,
		})
	}
	sort.Slice(sheets, func(i, j int) bool { return sheets[i].PlayerName < sheets[j].PlayerName })

	return sheets, nil
}

func (c *OddsAPIClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNotFound, "event not found", ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	return io.ReadAll(resp.Body)
}
