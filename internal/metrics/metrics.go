// Package metrics provides the centralized Prometheus metrics registry for
// the projection service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GameStatsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "game_stats_ingested_total",
		Help:      "Total number of game stat rows ingested",
	})
	PropSheetsFetchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "prop_sheets_fetched_total",
		Help:      "Total number of player prop sheets fetched from the odds provider",
	})
	MarketsPricedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "markets_priced_total",
		Help:      "Total number of markets priced by the projection engine",
	})
	MarketsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "markets_skipped_total",
		Help:      "Total number of markets skipped, by reason",
	}, []string{"reason"})
	IngestionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "ingestion_errors_total",
		Help:      "Total number of errors during data ingestion",
	})
	UnresolvedPlayersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "unresolved_players_total",
		Help:      "Total number of prop sheets whose player name could not be resolved",
	})
)

// Gauge metrics
var (
	PlayersAggregated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "players_aggregated",
		Help:      "Number of players with rolling stats in the latest recompute",
	})
	RollingStatsLastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "rolling_stats_last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last rolling stats recompute",
	})
	ProjectionCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "projection_cache_hit_ratio",
		Help:      "Hit ratio of the projection result cache",
	})
)

// Histogram metrics
var (
	RollingRecomputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "rolling_recompute_duration_seconds",
		Help:      "Duration of full rolling stats recompute runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
	ProjectionRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "projection_run_duration_seconds",
		Help:      "Duration of full projection runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(GameStatsIngestedTotal)
		registry.MustRegister(PropSheetsFetchedTotal)
		registry.MustRegister(MarketsPricedTotal)
		registry.MustRegister(MarketsSkippedTotal)
		registry.MustRegister(IngestionErrorsTotal)
		registry.MustRegister(UnresolvedPlayersTotal)

		registry.MustRegister(PlayersAggregated)
		registry.MustRegister(RollingStatsLastRun)
		registry.MustRegister(ProjectionCacheHitRatio)

		registry.MustRegister(RollingRecomputeDuration)
		registry.MustRegister(ProjectionRunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMarketPriced records a priced market.
func RecordMarketPriced() {
	MarketsPricedTotal.Inc()
}

// RecordMarketSkipped records a skipped market with its reason.
func RecordMarketSkipped(reason string) {
	MarketsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordIngestionError records an ingestion failure.
func RecordIngestionError() {
	IngestionErrorsTotal.Inc()
}

// RecordRollingRecompute records the footprint of a recompute run.
func RecordRollingRecompute(playersAggregated int, durationSeconds float64, completedAtUnix float64) {
	PlayersAggregated.Set(float64(playersAggregated))
	RollingStatsLastRun.Set(completedAtUnix)
	RollingRecomputeDuration.Observe(durationSeconds)
}

// RecordProjectionRun records the duration of a full projection run.
func RecordProjectionRun(durationSeconds float64) {
	ProjectionRunDuration.Observe(durationSeconds)
}
