package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/projection"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// PlayerPrediction is the externally served output of a projection run for
// one player.
type PlayerPrediction struct {
	PlayerID    string             `json:"player_id"`
	PlayerName  string             `json:"player_name"`
	Props       map[string]float64 `json:"props"`
	Errors      map[string]string  `json:"errors,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// ProjectionService prices the latest captured prop sheets against the
// current rolling stats snapshot.
type ProjectionService struct {
	rollingStats   repository.RollingStatRepository
	propSheets     repository.PropSheetRepository
	cache          *ProjectionCache
	matchThreshold float64
	pipeline       *logger.PipelineLogger
	log            *logrus.Logger
}

// NewProjectionService creates a new projection service
func NewProjectionService(
	rollingStats repository.RollingStatRepository,
	propSheets repository.PropSheetRepository,
	cache *ProjectionCache,
	matchThreshold float64,
	log *logrus.Logger,
) *ProjectionService {
	return &ProjectionService{
		rollingStats:   rollingStats,
		propSheets:     propSheets,
		cache:          cache,
		matchThreshold: matchThreshold,
		pipeline:       logger.NewPipelineLogger(log),
		log:            log,
	}
}

// ProjectAll prices every captured sheet against the rolling snapshot. The
// snapshot and name resolver are built fresh per run. If the context
// expires mid-run the predictions completed so far are returned alongside
// the context error.
func (s *ProjectionService) ProjectAll(ctx context.Context) ([]PlayerPrediction, error) {
	if preds, ok := s.cache.GetAll(); ok {
		return preds, nil
	}

	runID := uuid.New().String()
	start := time.Now()

	records, err := s.rollingStats.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]*models.RollingStat, len(records))
	resolver := projection.NewNameResolver(s.matchThreshold)
	for _, record := range records {
		snapshot[record.PlayerID] = record
		resolver.Add(record.PlayerName, record.PlayerID)
	}

	sheets, err := s.propSheets.ListMostRecent(ctx)
	if err != nil {
		return nil, err
	}

	engine := projection.NewEngine(snapshot, s.log)
	generatedAt := time.Now().UTC()

	var predictions []PlayerPrediction
	priced, unresolved := 0, 0

	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return predictions, err
		}

		playerID, ok := resolver.Resolve(sheet.PlayerName)
		if !ok {
			unresolved++
			metrics.UnresolvedPlayersTotal.Inc()
			s.log.WithField("player_name", sheet.PlayerName).Debug("Player name did not resolve")
			continue
		}

		proj := engine.EvaluatePlayer(playerID, sheet.Markets)
		pred := PlayerPrediction{
			PlayerID:    playerID,
			PlayerName:  sheet.PlayerName,
			Props:       proj.Props,
			Errors:      proj.Errors,
			GeneratedAt: generatedAt,
		}
		priced += len(proj.Props)

		predictions = append(predictions, pred)
		s.cache.SetPrediction(&pred)
	}

	s.cache.SetAll(predictions)

	duration := time.Since(start)
	metrics.RecordProjectionRun(duration.Seconds())
	s.pipeline.LogProjectionRun(runID, len(predictions), priced, unresolved, duration)

	return predictions, nil
}

// Project returns the prediction for one player, matched by name or player
// identifier. A run is triggered if nothing is cached.
func (s *ProjectionService) Project(ctx context.Context, player string) (*PlayerPrediction, error) {
	if pred, ok := s.cache.GetPrediction(player); ok {
		return pred, nil
	}

	predictions, err := s.ProjectAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(player))
	for i := range predictions {
		if strings.ToLower(predictions[i].PlayerName) == needle || predictions[i].PlayerID == player {
			return &predictions[i], nil
		}
	}

	return nil, models.ErrPlayerNotResolved
}

// ProjectMarkets prices caller-supplied market lines for one player,
// matched by name or identifier, against a fresh rolling snapshot.
func (s *ProjectionService) ProjectMarkets(ctx context.Context, player string, markets []models.PropMarket) (*models.PlayerProjection, error) {
	records, err := s.rollingStats.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]*models.RollingStat, len(records))
	resolver := projection.NewNameResolver(s.matchThreshold)
	for _, record := range records {
		snapshot[record.PlayerID] = record
		resolver.Add(record.PlayerName, record.PlayerID)
	}

	playerID := player
	if _, ok := snapshot[playerID]; !ok {
		resolved, ok := resolver.Resolve(player)
		if !ok {
			metrics.UnresolvedPlayersTotal.Inc()
			return nil, models.ErrPlayerNotResolved
		}
		playerID = resolved
	}

	engine := projection.NewEngine(snapshot, s.log)
	proj := engine.EvaluatePlayer(playerID, markets)
	return &proj, nil
}

// PlayerRollingStats returns one player's current aggregate.
func (s *ProjectionService) PlayerRollingStats(ctx context.Context, playerID string) (*models.RollingStat, error) {
	return s.rollingStats.GetByPlayerID(ctx, playerID)
}

// Invalidate drops cached predictions, used after a pipeline run refreshes
// the underlying data.
func (s *ProjectionService) Invalidate() {
	s.cache.Flush()
}
