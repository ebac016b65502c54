package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/stats"
)

const defaultRecomputeWorkers = 4

// RollingStatsService recomputes every player's rolling aggregate from full
// stored history.
type RollingStatsService struct {
	gameStats    repository.GameStatRepository
	rollingStats repository.RollingStatRepository
	aggregator   *stats.Aggregator
	workers      int
	pipeline     *logger.PipelineLogger
	log          *logrus.Logger
}

// NewRollingStatsService creates a new rolling stats service
func NewRollingStatsService(
	gameStats repository.GameStatRepository,
	rollingStats repository.RollingStatRepository,
	decayFactor float64,
	workers int,
	log *logrus.Logger,
) *RollingStatsService {
	if workers <= 0 {
		workers = defaultRecomputeWorkers
	}

	return &RollingStatsService{
		gameStats:    gameStats,
		rollingStats: rollingStats,
		aggregator:   stats.NewAggregator(decayFactor),
		workers:      workers,
		pipeline:     logger.NewPipelineLogger(log),
		log:          log,
	}
}

// RecomputeAll rebuilds the aggregate for every player with stored games.
// Players are processed on a fixed-size worker pool; a player whose
// recompute fails is logged and skipped without aborting the run.
func (s *RollingStatsService) RecomputeAll(ctx context.Context) (int, error) {
	runID := uuid.New().String()
	start := time.Now()

	players, err := s.gameStats.ListPlayers(ctx)
	if err != nil {
		return 0, err
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, failed := 0, 0

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for playerID := range jobs {
				if _, err := s.RecomputePlayer(ctx, playerID); err != nil {
					s.log.WithError(err).WithField("player_id", playerID).
						Warn("Failed to recompute rolling stats")
					mu.Lock()
					failed++
					mu.Unlock()
					continue
				}
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}

	for _, playerID := range players {
		if ctx.Err() != nil {
			break
		}
		jobs <- playerID
	}
	close(jobs)
	wg.Wait()

	duration := time.Since(start)
	metrics.RecordRollingRecompute(succeeded, duration.Seconds(), float64(time.Now().Unix()))
	s.pipeline.LogRollingRecompute(runID, succeeded, failed, duration)

	return succeeded, ctx.Err()
}

// RecomputePlayer rebuilds one player's aggregate from full history and
// stores it wholesale.
func (s *RollingStatsService) RecomputePlayer(ctx context.Context, playerID string) (*models.RollingStat, error) {
	history, err := s.gameStats.ListPlayerHistory(ctx, playerID)
	if err != nil {
		return nil, err
	}

	record, err := s.aggregator.Aggregate(history)
	if err != nil {
		return nil, err
	}

	if err := s.rollingStats.Upsert(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}
