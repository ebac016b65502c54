package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/service"
)

// PipelineRunner triggers one full data pipeline pass.
type PipelineRunner interface {
	RunPipeline(ctx context.Context)
}

// Projector serves projection output and rolling aggregates.
type Projector interface {
	ProjectAll(ctx context.Context) ([]service.PlayerPrediction, error)
	Project(ctx context.Context, player string) (*service.PlayerPrediction, error)
	PlayerRollingStats(ctx context.Context, playerID string) (*models.RollingStat, error)
}

// Handlers holds the API endpoint implementations.
type Handlers struct {
	projector Projector
	pipeline  PipelineRunner
	logger    *logrus.Logger
}

// NewHandlers creates the endpoint set.
func NewHandlers(projector Projector, pipeline PipelineRunner, logger *logrus.Logger) *Handlers {
	return &Handlers{projector: projector, pipeline: pipeline, logger: logger}
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListPredictions returns the full prediction set from the latest run.
func (h *Handlers) ListPredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := h.projector.ProjectAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to produce predictions")
		writeError(w, http.StatusInternalServerError, "failed to produce predictions")
		return
	}

	if predictions == nil {
		predictions = []service.PlayerPrediction{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(predictions),
		"predictions": predictions,
	})
}

// GetPrediction returns one player's predictions, matched by name or ID.
func (h *Handlers) GetPrediction(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")

	pred, err := h.projector.Project(r.Context(), player)
	if err != nil {
		if errors.Is(err, models.ErrPlayerNotResolved) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		h.logger.WithError(err).WithField("player", player).Error("Failed to produce prediction")
		writeError(w, http.StatusInternalServerError, "failed to produce prediction")
		return
	}

	writeJSON(w, http.StatusOK, pred)
}

// GetRollingStats returns one player's current rolling aggregate.
func (h *Handlers) GetRollingStats(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	record, err := h.projector.PlayerRollingStats(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		h.logger.WithError(err).WithField("player_id", playerID).Error("Failed to load rolling stats")
		writeError(w, http.StatusInternalServerError, "failed to load rolling stats")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// RunPipeline triggers a full pipeline pass in the background.
func (h *Handlers) RunPipeline(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		h.pipeline.RunPipeline(ctx)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "pipeline started"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
