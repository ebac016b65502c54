package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeGameStatRepo is an in-memory GameStatRepository.
type fakeGameStatRepo struct {
	mu         sync.Mutex
	upserted   []*models.GameStat
	batchCalls int
	history    map[string][]*models.GameStat
	counts     map[string]int
	failFor    map[string]error
}

func newFakeGameStatRepo() *fakeGameStatRepo {
	return &fakeGameStatRepo{
		history: make(map[string][]*models.GameStat),
		counts:  make(map[string]int),
		failFor: make(map[string]error),
	}
}

func (f *fakeGameStatRepo) Upsert(ctx context.Context, stat *models.GameStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, stat)
	return nil
}

func (f *fakeGameStatRepo) UpsertBatch(ctx context.Context, stats []*models.GameStat) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	f.upserted = append(f.upserted, stats...)
	return len(stats), nil
}

func (f *fakeGameStatRepo) ListPlayerHistory(ctx context.Context, playerID string) ([]*models.GameStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[playerID]; ok {
		return nil, err
	}
	return f.history[playerID], nil
}

func (f *fakeGameStatRepo) ListPlayers(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	players := make([]string, 0, len(f.history))
	for id := range f.history {
		players = append(players, id)
	}
	for id := range f.failFor {
		players = append(players, id)
	}
	return players, nil
}

func (f *fakeGameStatRepo) CountBySeasonWeek(ctx context.Context, season, week int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[fmt.Sprintf("%d-%d", season, week)], nil
}

// fakeRollingStatRepo is an in-memory RollingStatRepository.
type fakeRollingStatRepo struct {
	mu       sync.Mutex
	records  map[string]*models.RollingStat
	listErr  error
	listHits int
}

func newFakeRollingStatRepo() *fakeRollingStatRepo {
	return &fakeRollingStatRepo{records: make(map[string]*models.RollingStat)}
}

func (f *fakeRollingStatRepo) Upsert(ctx context.Context, record *models.RollingStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.PlayerID] = record
	return nil
}

func (f *fakeRollingStatRepo) GetByPlayerID(ctx context.Context, playerID string) (*models.RollingStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[playerID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return record, nil
}

func (f *fakeRollingStatRepo) ListAll(ctx context.Context) ([]*models.RollingStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHits++
	if f.listErr != nil {
		return nil, f.listErr
	}
	records := make([]*models.RollingStat, 0, len(f.records))
	for _, record := range f.records {
		records = append(records, record)
	}
	return records, nil
}

// fakePropSheetRepo is an in-memory PropSheetRepository.
type fakePropSheetRepo struct {
	mu       sync.Mutex
	inserted []*models.PropSheet
	recent   []*models.PropSheet
}

func (f *fakePropSheetRepo) InsertBatch(ctx context.Context, sheets []*models.PropSheet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, sheets...)
	return nil
}

func (f *fakePropSheetRepo) ListByDate(ctx context.Context, day time.Time) ([]*models.PropSheet, error) {
	return f.recent, nil
}

func (f *fakePropSheetRepo) ListMostRecent(ctx context.Context) ([]*models.PropSheet, error) {
	return f.recent, nil
}

// fakeStatsProvider serves canned box scores keyed by week.
type fakeStatsProvider struct {
	mu       sync.Mutex
	byWeek   map[int][]*models.GameStat
	failWeek map[int]error
	fetched  []int
}

func (f *fakeStatsProvider) FetchWeekStats(ctx context.Context, season, week int) ([]*models.GameStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, week)
	if err, ok := f.failWeek[week]; ok {
		return nil, err
	}
	return f.byWeek[week], nil
}

func (f *fakeStatsProvider) Name() string { return "fake-stats" }

// fakeOddsProvider serves canned events and prop sheets.
type fakeOddsProvider struct {
	events    []datasource.Event
	byEvent   map[string][]*models.PropSheet
	failEvent map[string]error
}

func (f *fakeOddsProvider) FetchEvents(ctx context.Context) ([]datasource.Event, error) {
	return f.events, nil
}

func (f *fakeOddsProvider) FetchEventProps(ctx context.Context, eventID string) ([]*models.PropSheet, error) {
	if err, ok := f.failEvent[eventID]; ok {
		return nil, err
	}
	return f.byEvent[eventID], nil
}

func (f *fakeOddsProvider) Name() string { return "fake-odds" }

func activeGameStat(playerID, name string, week int) *models.GameStat {
	return &models.GameStat{
		PlayerID:         playerID,
		Name:             name,
		Season:           2025,
		Week:             week,
		Position:         "RB",
		PositionCategory: "OFF",
		Activated:        true,
		Played:           true,
		RushingYards:     80,
		RushingAttempts:  18,
	}
}

func TestCollectWeekFiltersInactivePlayers(t *testing.T) {
	defensive := activeGameStat("2", "Fred Warner", 1)
	defensive.PositionCategory = "DEF"
	benched := activeGameStat("3", "Backup Guy", 1)
	benched.Activated = false

	provider := &fakeStatsProvider{byWeek: map[int][]*models.GameStat{
		1: {activeGameStat("1", "Christian McCaffrey", 1), defensive, benched},
	}}
	gameStats := newFakeGameStatRepo()

	svc := NewCollectorService(provider, &fakeOddsProvider{}, gameStats, &fakePropSheetRepo{}, 0, testLogger())

	written, err := svc.CollectWeek(context.Background(), 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	require.Len(t, gameStats.upserted, 1)
	assert.Equal(t, "Christian McCaffrey", gameStats.upserted[0].Name)
}

func TestCollectWeekChunksBatchWrites(t *testing.T) {
	stats := make([]*models.GameStat, 0, 5)
	for i := 1; i <= 5; i++ {
		stats = append(stats, activeGameStat(fmt.Sprintf("%d", i), fmt.Sprintf("Player %d", i), 1))
	}
	provider := &fakeStatsProvider{byWeek: map[int][]*models.GameStat{1: stats}}
	gameStats := newFakeGameStatRepo()

	svc := NewCollectorService(provider, &fakeOddsProvider{}, gameStats, &fakePropSheetRepo{}, 2, testLogger())

	written, err := svc.CollectWeek(context.Background(), 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, written)
	assert.Equal(t, 3, gameStats.batchCalls)
}

func TestCollectWeekFetchFailure(t *testing.T) {
	provider := &fakeStatsProvider{failWeek: map[int]error{3: errors.New("upstream down")}}
	svc := NewCollectorService(provider, &fakeOddsProvider{}, newFakeGameStatRepo(), &fakePropSheetRepo{}, 0, testLogger())

	written, err := svc.CollectWeek(context.Background(), 2025, 3)
	assert.Error(t, err)
	assert.Zero(t, written)
}

func TestCollectSeasonSkipsStoredWeeks(t *testing.T) {
	provider := &fakeStatsProvider{byWeek: map[int][]*models.GameStat{
		1: {activeGameStat("1", "Christian McCaffrey", 1)},
		2: {activeGameStat("1", "Christian McCaffrey", 2)},
	}}
	gameStats := newFakeGameStatRepo()
	gameStats.counts["2025-1"] = 42

	svc := NewCollectorService(provider, &fakeOddsProvider{}, gameStats, &fakePropSheetRepo{}, 0, testLogger())

	written, err := svc.CollectSeason(context.Background(), 2025, 1, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Equal(t, []int{2}, provider.fetched)
}

func TestCollectSeasonForceRefetchesStoredWeeks(t *testing.T) {
	provider := &fakeStatsProvider{byWeek: map[int][]*models.GameStat{
		1: {activeGameStat("1", "Christian McCaffrey", 1)},
		2: {activeGameStat("1", "Christian McCaffrey", 2)},
	}}
	gameStats := newFakeGameStatRepo()
	gameStats.counts["2025-1"] = 42

	svc := NewCollectorService(provider, &fakeOddsProvider{}, gameStats, &fakePropSheetRepo{}, 0, testLogger())

	written, err := svc.CollectSeason(context.Background(), 2025, 1, 2, true)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Equal(t, []int{1, 2}, provider.fetched)
}

func TestCollectSeasonContinuesPastFailedWeek(t *testing.T) {
	provider := &fakeStatsProvider{
		byWeek:   map[int][]*models.GameStat{2: {activeGameStat("1", "Christian McCaffrey", 2)}},
		failWeek: map[int]error{1: errors.New("upstream down")},
	}
	svc := NewCollectorService(provider, &fakeOddsProvider{}, newFakeGameStatRepo(), &fakePropSheetRepo{}, 0, testLogger())

	written, err := svc.CollectSeason(context.Background(), 2025, 1, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
}

func TestCollectSeasonAllWeeksFail(t *testing.T) {
	provider := &fakeStatsProvider{failWeek: map[int]error{
		1: errors.New("upstream down"),
		2: errors.New("upstream down"),
	}}
	svc := NewCollectorService(provider, &fakeOddsProvider{}, newFakeGameStatRepo(), &fakePropSheetRepo{}, 0, testLogger())

	written, err := svc.CollectSeason(context.Background(), 2025, 1, 2, false)
	assert.Error(t, err)
	assert.Zero(t, written)
}

func TestCapturePropsContinuesPastFailedEvent(t *testing.T) {
	odds := &fakeOddsProvider{
		events: []datasource.Event{{ID: "evt-1"}, {ID: "evt-2"}},
		byEvent: map[string][]*models.PropSheet{
			"evt-2": {
				{PlayerName: "Christian McCaffrey", EventID: "evt-2"},
				{PlayerName: "Brock Purdy", EventID: "evt-2"},
			},
		},
		failEvent: map[string]error{"evt-1": errors.New("event not found")},
	}
	propSheets := &fakePropSheetRepo{}
	svc := NewCollectorService(&fakeStatsProvider{}, odds, newFakeGameStatRepo(), propSheets, 0, testLogger())

	captured, err := svc.CaptureProps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, captured)
	assert.Len(t, propSheets.inserted, 2)
}

func TestRecomputeAllAggregatesEveryPlayer(t *testing.T) {
	gameStats := newFakeGameStatRepo()
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("%d", i)
		gameStats.history[id] = []*models.GameStat{
			activeGameStat(id, "Player "+id, 1),
			activeGameStat(id, "Player "+id, 2),
			activeGameStat(id, "Player "+id, 3),
		}
	}
	rolling := newFakeRollingStatRepo()

	svc := NewRollingStatsService(gameStats, rolling, 0.9, 3, testLogger())

	succeeded, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, succeeded)
	assert.Len(t, rolling.records, 5)

	record, err := rolling.GetByPlayerID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 3, record.TotalGames)
	summary, ok := record.Summary("rushing_yards")
	require.True(t, ok)
	assert.InDelta(t, 80.0, summary.WeightedMean, 1e-9)
}

func TestRecomputeAllSkipsFailingPlayer(t *testing.T) {
	gameStats := newFakeGameStatRepo()
	gameStats.history["1"] = []*models.GameStat{activeGameStat("1", "Player 1", 1)}
	gameStats.failFor["2"] = errors.New("connection reset")
	rolling := newFakeRollingStatRepo()

	svc := NewRollingStatsService(gameStats, rolling, 0.9, 2, testLogger())

	succeeded, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, succeeded)
	assert.Len(t, rolling.records, 1)
}

func TestRecomputePlayerNoHistory(t *testing.T) {
	svc := NewRollingStatsService(newFakeGameStatRepo(), newFakeRollingStatRepo(), 0.9, 1, testLogger())

	_, err := svc.RecomputePlayer(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrNoHistory)
}

func rushingRecord(playerID, playerName string) *models.RollingStat {
	return &models.RollingStat{
		PlayerID:   playerID,
		PlayerName: playerName,
		TotalGames: 12,
		Stats: map[string]models.StatSummary{
			"rushing_yards": {
				WeightedMean: 85,
				WeightedStd:  20,
				Lambda:       85,
				SampleSize:   12,
			},
		},
	}
}

func rushYardsSheet(playerName string, line float64) *models.PropSheet {
	point := decimal.NewFromFloat(line)
	return &models.PropSheet{
		PlayerName: playerName,
		EventID:    "evt-1",
		Markets:    []models.PropMarket{{MarketKey: "player_rush_yds", Point: &point}},
		CapturedAt: time.Now(),
	}
}

func newTestProjectionService(rolling *fakeRollingStatRepo, sheets *fakePropSheetRepo) *ProjectionService {
	cache := NewProjectionCache(time.Minute)
	return NewProjectionService(rolling, sheets, cache, 0.85, testLogger())
}

func TestProjectAllResolvesFuzzyNames(t *testing.T) {
	rolling := newFakeRollingStatRepo()
	rolling.records["cmc"] = rushingRecord("cmc", "Christian McCaffrey")

	sheets := &fakePropSheetRepo{recent: []*models.PropSheet{
		rushYardsSheet("Christian McCafferey", 65.5),
		rushYardsSheet("Totally Unknown Player", 40.5),
	}}

	svc := newTestProjectionService(rolling, sheets)

	predictions, err := svc.ProjectAll(context.Background())
	require.NoError(t, err)
	require.Len(t, predictions, 1)

	pred := predictions[0]
	assert.Equal(t, "cmc", pred.PlayerID)
	assert.Equal(t, "Christian McCafferey", pred.PlayerName)

	over, ok := pred.Props["player_rush_yds_over_65.5"]
	require.True(t, ok)
	under := pred.Props["player_rush_yds_under_65.5"]
	assert.Greater(t, over, 0.5)
	assert.InDelta(t, 1.0, over+under, 1e-9)
}

func TestProjectAllServesFromCache(t *testing.T) {
	rolling := newFakeRollingStatRepo()
	rolling.records["cmc"] = rushingRecord("cmc", "Christian McCaffrey")
	sheets := &fakePropSheetRepo{recent: []*models.PropSheet{rushYardsSheet("Christian McCaffrey", 65.5)}}

	svc := newTestProjectionService(rolling, sheets)

	first, err := svc.ProjectAll(context.Background())
	require.NoError(t, err)
	second, err := svc.ProjectAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, rolling.listHits)
}

func TestProjectAllCancelledContextReturnsPartial(t *testing.T) {
	rolling := newFakeRollingStatRepo()
	rolling.records["cmc"] = rushingRecord("cmc", "Christian McCaffrey")
	sheets := &fakePropSheetRepo{recent: []*models.PropSheet{rushYardsSheet("Christian McCaffrey", 65.5)}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestProjectionService(rolling, sheets)

	predictions, err := svc.ProjectAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, predictions)
}

func TestProjectMatchesByNameCaseInsensitive(t *testing.T) {
	rolling := newFakeRollingStatRepo()
	rolling.records["cmc"] = rushingRecord("cmc", "Christian McCaffrey")
	sheets := &fakePropSheetRepo{recent: []*models.PropSheet{rushYardsSheet("Christian McCaffrey", 65.5)}}

	svc := newTestProjectionService(rolling, sheets)

	pred, err := svc.Project(context.Background(), "christian mccaffrey")
	require.NoError(t, err)
	assert.Equal(t, "cmc", pred.PlayerID)
}

func TestProjectUnknownPlayer(t *testing.T) {
	rolling := newFakeRollingStatRepo()
	rolling.records["cmc"] = rushingRecord("cmc", "Christian McCaffrey")
	sheets := &fakePropSheetRepo{recent: []*models.PropSheet{rushYardsSheet("Christian McCaffrey", 65.5)}}

	svc := newTestProjectionService(rolling, sheets)

	_, err := svc.Project(context.Background(), "Nobody Nowhere")
	assert.ErrorIs(t, err, models.ErrPlayerNotResolved)
}

func TestProjectMarketsWithSuppliedLines(t *testing.T) {
	rolling := newFakeRollingStatRepo()
	rolling.records["cmc"] = rushingRecord("cmc", "Christian McCaffrey")

	svc := newTestProjectionService(rolling, &fakePropSheetRepo{})

	point := decimal.NewFromFloat(65.5)
	markets := []models.PropMarket{{MarketKey: "player_rush_yds", Point: &point}}

	proj, err := svc.ProjectMarkets(context.Background(), "Christian McCaffrey", markets)
	require.NoError(t, err)
	assert.Equal(t, "cmc", proj.PlayerID)
	assert.Contains(t, proj.Props, "player_rush_yds_over_65.5")

	byID, err := svc.ProjectMarkets(context.Background(), "cmc", markets)
	require.NoError(t, err)
	assert.Equal(t, proj.Props, byID.Props)

	_, err = svc.ProjectMarkets(context.Background(), "Nobody Nowhere", markets)
	assert.ErrorIs(t, err, models.ErrPlayerNotResolved)
}

func TestPlayerRollingStats(t *testing.T) {
	rolling := newFakeRollingStatRepo()
	rolling.records["cmc"] = rushingRecord("cmc", "Christian McCaffrey")

	svc := newTestProjectionService(rolling, &fakePropSheetRepo{})

	record, err := svc.PlayerRollingStats(context.Background(), "cmc")
	require.NoError(t, err)
	assert.Equal(t, "Christian McCaffrey", record.PlayerName)

	_, err = svc.PlayerRollingStats(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProjectionCacheRoundTrip(t *testing.T) {
	cache := NewProjectionCache(time.Minute)

	_, found := cache.GetPrediction("Christian McCaffrey")
	assert.False(t, found)

	pred := &PlayerPrediction{PlayerID: "cmc", PlayerName: "Christian McCaffrey"}
	cache.SetPrediction(pred)

	got, found := cache.GetPrediction("  christian mccaffrey ")
	require.True(t, found)
	assert.Equal(t, pred, got)

	cache.Flush()
	_, found = cache.GetPrediction("Christian McCaffrey")
	assert.False(t, found)
}

func TestProjectionCacheAllSet(t *testing.T) {
	cache := NewProjectionCache(time.Minute)

	_, found := cache.GetAll()
	assert.False(t, found)

	preds := []PlayerPrediction{{PlayerID: "cmc", PlayerName: "Christian McCaffrey"}}
	cache.SetAll(preds)

	got, found := cache.GetAll()
	require.True(t, found)
	assert.Equal(t, preds, got)
}
