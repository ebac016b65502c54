// Package service wires the data providers, repositories, and the
// statistical engine into the pipeline operations the scheduler and API
// trigger.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

const defaultIngestBatchSize = 500

// CollectorService ingests box scores from the stats feed and captures
// bookmaker prop sheets.
type CollectorService struct {
	stats      datasource.StatsProvider
	odds       datasource.OddsProvider
	gameStats  repository.GameStatRepository
	propSheets repository.PropSheetRepository
	batchSize  int
	pipeline   *logger.PipelineLogger
	log        *logrus.Logger
}

// NewCollectorService creates a new collector service. Writes are chunked
// into transactions of batchSize rows.
func NewCollectorService(
	stats datasource.StatsProvider,
	odds datasource.OddsProvider,
	gameStats repository.GameStatRepository,
	propSheets repository.PropSheetRepository,
	batchSize int,
	log *logrus.Logger,
) *CollectorService {
	if batchSize <= 0 {
		batchSize = defaultIngestBatchSize
	}
	return &CollectorService{
		stats:      stats,
		odds:       odds,
		gameStats:  gameStats,
		propSheets: propSheets,
		batchSize:  batchSize,
		pipeline:   logger.NewPipelineLogger(log),
		log:        log,
	}
}

// CollectWeek fetches one week's box scores and stores the offensive
// activated players. Returns how many rows were written.
func (s *CollectorService) CollectWeek(ctx context.Context, season, week int) (int, error) {
	runID := uuid.New().String()
	start := time.Now()

	fetched, err := s.stats.FetchWeekStats(ctx, season, week)
	if err != nil {
		metrics.RecordIngestionError()
		s.pipeline.LogIngestionFailure(runID, season, week, err)
		return 0, fmt.Errorf("failed to fetch week %d stats: %w", week, err)
	}

	kept := make([]*models.GameStat, 0, len(fetched))
	for _, stat := range fetched {
		if stat.IsOffensiveActive() {
			kept = append(kept, stat)
		}
	}

	written := 0
	for start := 0; start < len(kept); start += s.batchSize {
		end := start + s.batchSize
		if end > len(kept) {
			end = len(kept)
		}
		n, err := s.gameStats.UpsertBatch(ctx, kept[start:end])
		if err != nil {
			metrics.RecordIngestionError()
			s.pipeline.LogIngestionFailure(runID, season, week, err)
			return written, fmt.Errorf("failed to store week %d stats: %w", week, err)
		}
		written += n
	}

	metrics.GameStatsIngestedTotal.Add(float64(written))
	s.pipeline.LogIngestionRun(runID, season, week, len(fetched), written, time.Since(start))

	return written, nil
}

// CollectSeason ingests a span of weeks, skipping weeks already stored
// unless force is set. A failing week is logged and does not abort the
// remaining weeks.
func (s *CollectorService) CollectSeason(ctx context.Context, season, startWeek, endWeek int, force bool) (int, error) {
	total := 0
	var lastErr error

	for week := startWeek; week <= endWeek; week++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		if !force {
			count, err := s.gameStats.CountBySeasonWeek(ctx, season, week)
			if err != nil {
				return total, fmt.Errorf("failed to check week %d: %w", week, err)
			}
			if count > 0 {
				s.log.WithFields(logrus.Fields{"season": season, "week": week}).
					Debug("Week already ingested, skipping")
				continue
			}
		}

		written, err := s.CollectWeek(ctx, season, week)
		if err != nil {
			lastErr = err
			continue
		}
		total += written
	}

	if total == 0 && lastErr != nil {
		return 0, lastErr
	}
	return total, nil
}

// CaptureProps fetches the current prop sheets for every upcoming event and
// stores them as a new capture snapshot. Returns how many sheets were
// captured.
func (s *CollectorService) CaptureProps(ctx context.Context) (int, error) {
	runID := uuid.New().String()
	start := time.Now()

	events, err := s.odds.FetchEvents(ctx)
	if err != nil {
		metrics.RecordIngestionError()
		return 0, fmt.Errorf("failed to fetch events: %w", err)
	}

	var sheets []*models.PropSheet
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		eventSheets, err := s.odds.FetchEventProps(ctx, event.ID)
		if err != nil {
			metrics.RecordIngestionError()
			s.log.WithError(err).WithField("event_id", event.ID).Warn("Failed to fetch event props")
			continue
		}
		sheets = append(sheets, eventSheets...)
	}

	if err := s.propSheets.InsertBatch(ctx, sheets); err != nil {
		metrics.RecordIngestionError()
		return 0, fmt.Errorf("failed to store prop sheets: %w", err)
	}

	metrics.PropSheetsFetchedTotal.Add(float64(len(sheets)))
	s.pipeline.LogPropCapture(runID, len(events), len(sheets), time.Since(start))

	return len(sheets), nil
}
