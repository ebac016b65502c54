package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// These are integration tests: SetupTestDB skips them when no test database
// is configured.

func testGameStat(playerID string, season, week int, rushingYards float64) *models.GameStat {
	return &models.GameStat{
		PlayerID:         playerID,
		Name:             "Test Runner",
		Season:           season,
		Week:             week,
		Position:         "RB",
		PositionCategory: "OFF",
		Team:             "SF",
		Opponent:         "SEA",
		HomeOrAway:       "HOME",
		GameDate:         time.Date(season, 9, 3, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*(week-1)),
		Activated:        true,
		Played:           true,
		RushingYards:     rushingYards,
	}
}

func TestGameStatRepositoryUpsertAndHistory(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats := []*models.GameStat{
		testGameStat("repo_test_1", 2025, 2, 95),
		testGameStat("repo_test_1", 2025, 1, 80),
	}
	written, err := repos.GameStat.UpsertBatch(ctx, stats)
	if err != nil {
		t.Fatalf("failed to upsert batch: %v", err)
	}
	if written != 2 {
		t.Errorf("expected 2 rows written, got %d", written)
	}

	// Re-upserting the same week replaces, not duplicates.
	corrected := testGameStat("repo_test_1", 2025, 2, 97)
	if err := repos.GameStat.Upsert(ctx, corrected); err != nil {
		t.Fatalf("failed to upsert correction: %v", err)
	}

	history, err := repos.GameStat.ListPlayerHistory(ctx, "repo_test_1")
	if err != nil {
		t.Fatalf("failed to list history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 games, got %d", len(history))
	}
	if history[0].Week != 1 || history[1].Week != 2 {
		t.Errorf("history not ordered oldest first: weeks %d, %d", history[0].Week, history[1].Week)
	}
	if history[1].RushingYards != 97 {
		t.Errorf("correction not applied: got %v", history[1].RushingYards)
	}
}

func TestRollingStatRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := &models.RollingStat{
		PlayerID:   "repo_test_2",
		PlayerName: "Test Receiver",
		Team:       "SF",
		Position:   "WR",
		TotalGames: 8,
		LastGameAt: time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Now().UTC(),
		Stats: map[string]models.StatSummary{
			"receiving_yards": {WeightedMean: 72.4, WeightedStd: 21.1, Lambda: 72.4, SampleSize: 8},
		},
	}

	if err := repos.RollingStat.Upsert(ctx, record); err != nil {
		t.Fatalf("failed to upsert rolling stat: %v", err)
	}

	got, err := repos.RollingStat.GetByPlayerID(ctx, "repo_test_2")
	if err != nil {
		t.Fatalf("failed to get rolling stat: %v", err)
	}
	summary, ok := got.Summary("receiving_yards")
	if !ok {
		t.Fatal("expected receiving_yards summary after round trip")
	}
	if summary.WeightedMean != 72.4 {
		t.Errorf("weighted mean = %v, want 72.4", summary.WeightedMean)
	}
}

func TestRollingStatRepositoryNotFound(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repos.RollingStat.GetByPlayerID(ctx, "no_such_player"); err != models.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPropSheetRepositoryInsertAndList(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	point := decimal.NewFromFloat(65.5)
	capturedAt := time.Now().UTC()
	sheets := []*models.PropSheet{
		{
			PlayerName: "Test Runner",
			EventID:    "evt_repo_test",
			CapturedAt: capturedAt,
			Markets: []models.PropMarket{
				{MarketKey: "player_rush_yds", Price: decimal.NewFromFloat(1.91), Point: &point},
			},
		},
	}

	if err := repos.PropSheet.InsertBatch(ctx, sheets); err != nil {
		t.Fatalf("failed to insert prop sheets: %v", err)
	}

	got, err := repos.PropSheet.ListMostRecent(ctx)
	if err != nil {
		t.Fatalf("failed to list most recent sheets: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one captured sheet")
	}

	found := false
	for _, sheet := range got {
		if sheet.EventID == "evt_repo_test" && len(sheet.Markets) == 1 && sheet.Markets[0].HasPoint() {
			found = true
		}
	}
	if !found {
		t.Error("inserted sheet not returned by ListMostRecent")
	}

	byDay, err := repos.PropSheet.ListByDate(ctx, capturedAt)
	if err != nil {
		t.Fatalf("failed to list sheets by date: %v", err)
	}
	found = false
	for _, sheet := range byDay {
		if sheet.EventID == "evt_repo_test" {
			found = true
		}
	}
	if !found {
		t.Error("inserted sheet not returned by ListByDate")
	}
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	if _, err := NewRepositories(nil); err == nil {
		t.Fatal("expected error for nil database")
	}
}
