// Package scheduler runs the recurring data pipeline: ingest the latest box
// scores, recompute rolling aggregates, capture fresh prop sheets, and warm
// the projection cache.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/service"
)

const pipelineTimeout = 30 * time.Minute

// Scheduler manages the recurring pipeline job.
type Scheduler struct {
	cron       *cron.Cron
	collector  *service.CollectorService
	rolling    *service.RollingStatsService
	projection *service.ProjectionService
	ingestion  config.IngestionConfig
	logger     *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler in the configured timezone.
func NewScheduler(
	cfg config.ScheduleConfig,
	ingestion config.IngestionConfig,
	collector *service.CollectorService,
	rolling *service.RollingStatsService,
	projection *service.ProjectionService,
	logger *logrus.Logger,
) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(location)),
		collector:  collector,
		rolling:    rolling,
		projection: projection,
		ingestion:  ingestion,
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
	}, nil
}

// SchedulePipeline registers the full pipeline on a cron expression.
func (s *Scheduler) SchedulePipeline(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		defer cancel()
		s.RunPipeline(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add pipeline job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled projection pipeline")

	return nil
}

// RunPipeline executes one full pass: ingest missing weeks, recompute
// rolling aggregates, capture current prop lines, and re-price everything.
// Each stage failure is logged; later stages still run against whatever
// data is already stored.
func (s *Scheduler) RunPipeline(ctx context.Context) {
	start := time.Now()
	s.logger.Info("Pipeline run starting")

	if _, err := s.collector.CollectSeason(ctx,
		s.ingestion.Season, s.ingestion.StartWeek, s.ingestion.EndWeek, false); err != nil {
		s.logger.WithError(err).Error("Pipeline ingestion stage failed")
	}

	// Recompute runs every pass, not just when ingestion wrote rows: it is
	// idempotent, and it is the only stage that repairs a rolling_stats
	// table left stale by an earlier failure or a config change.
	if _, err := s.rolling.RecomputeAll(ctx); err != nil {
		s.logger.WithError(err).Error("Pipeline recompute stage failed")
	}

	if _, err := s.collector.CaptureProps(ctx); err != nil {
		s.logger.WithError(err).Error("Pipeline prop capture stage failed")
	}

	s.projection.Invalidate()
	if _, err := s.projection.ProjectAll(ctx); err != nil {
		s.logger.WithError(err).Error("Pipeline projection stage failed")
	}

	s.logger.WithField("duration", time.Since(start).String()).Info("Pipeline run finished")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
