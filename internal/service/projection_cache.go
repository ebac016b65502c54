package service

import (
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/gridiron-edge/internal/metrics"
)

const allPredictionsKey = "__all__"

// ProjectionCache provides in-memory caching for projection run output so
// repeated API reads between pipeline runs do not re-price every market.
type ProjectionCache struct {
	cache *cache.Cache
	ttl   time.Duration

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewProjectionCache creates a new projection cache
func NewProjectionCache(ttl time.Duration) *ProjectionCache {
	return &ProjectionCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// GetPrediction retrieves one player's cached prediction by name
func (pc *ProjectionCache) GetPrediction(playerName string) (*PlayerPrediction, bool) {
	value, found := pc.cache.Get(predictionKey(playerName))
	pc.recordLookup(found)
	if !found {
		return nil, false
	}

	pred, ok := value.(*PlayerPrediction)
	return pred, ok
}

// SetPrediction stores one player's prediction
func (pc *ProjectionCache) SetPrediction(pred *PlayerPrediction) {
	pc.cache.Set(predictionKey(pred.PlayerName), pred, pc.ttl)
}

// GetAll retrieves the full cached prediction set
func (pc *ProjectionCache) GetAll() ([]PlayerPrediction, bool) {
	value, found := pc.cache.Get(allPredictionsKey)
	pc.recordLookup(found)
	if !found {
		return nil, false
	}

	preds, ok := value.([]PlayerPrediction)
	return preds, ok
}

// SetAll stores the full prediction set from one projection run
func (pc *ProjectionCache) SetAll(preds []PlayerPrediction) {
	pc.cache.Set(allPredictionsKey, preds, pc.ttl)
}

// Flush drops everything, forcing the next read to recompute
func (pc *ProjectionCache) Flush() {
	pc.cache.Flush()
}

func (pc *ProjectionCache) recordLookup(hit bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if hit {
		pc.hitCount++
	} else {
		pc.missCount++
	}

	total := pc.hitCount + pc.missCount
	if total > 0 {
		metrics.ProjectionCacheHitRatio.Set(float64(pc.hitCount) / float64(total))
	}
}

func predictionKey(playerName string) string {
	return "prediction:" + strings.ToLower(strings.TrimSpace(playerName))
}
