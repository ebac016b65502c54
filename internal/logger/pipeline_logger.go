// Package logger provides pipeline run logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for data pipeline runs.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogIngestionRun logs the outcome of one week's game stat collection.
func (pl *PipelineLogger) LogIngestionRun(runID string, season, week, fetched, upserted int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"run_id":      runID,
		"season":      season,
		"week":        week,
		"fetched":     fetched,
		"upserted":    upserted,
		"duration_ms": duration.Milliseconds(),
	}).Info("Game stat ingestion completed")
}

// LogIngestionFailure logs a failed collection attempt.
func (pl *PipelineLogger) LogIngestionFailure(runID string, season, week int, err error) {
	pl.WithFields(logrus.Fields{
		"run_id": runID,
		"season": season,
		"week":   week,
		"error":  err.Error(),
	}).Error("Game stat ingestion failed")
}

// LogRollingRecompute logs a completed rolling stats recompute.
func (pl *PipelineLogger) LogRollingRecompute(runID string, players, failures int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"run_id":      runID,
		"players":     players,
		"failures":    failures,
		"duration_ms": duration.Milliseconds(),
	}).Info("Rolling stats recompute completed")
}

// LogPropCapture logs a bookmaker prop sheet capture.
func (pl *PipelineLogger) LogPropCapture(runID string, events, sheets int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"run_id":      runID,
		"events":      events,
		"sheets":      sheets,
		"duration_ms": duration.Milliseconds(),
	}).Info("Prop sheet capture completed")
}

// LogProjectionRun logs a full projection pass over captured props.
func (pl *PipelineLogger) LogProjectionRun(runID string, players, priced, unresolved int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"run_id":      runID,
		"players":     players,
		"priced":      priced,
		"unresolved":  unresolved,
		"duration_ms": duration.Milliseconds(),
	}).Info("Projection run completed")
}
