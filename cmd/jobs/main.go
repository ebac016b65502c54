// Package main provides one-shot pipeline jobs for operators and cron.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/service"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

var rootCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run one-shot Gridiron Edge pipeline jobs",
	Long:  `Runs individual stages of the projection pipeline: box score ingestion, rolling stat recomputes, prop sheet capture, and full projection runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return fmt.Errorf("failed to set up dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var (
	ingestSeason int
	ingestWeek   int
	ingestForce  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest box scores for a season or a single week",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		collector := newCollector()
		season := ingestSeason
		if season == 0 {
			season = cfg.Ingestion.Season
		}

		if ingestWeek > 0 {
			written, err := collector.CollectWeek(ctx, season, ingestWeek)
			if err != nil {
				return err
			}
			appLog.WithFields(logrus.Fields{"season": season, "week": ingestWeek, "written": written}).
				Info("Week ingested")
			return nil
		}

		written, err := collector.CollectSeason(ctx, season,
			cfg.Ingestion.StartWeek, cfg.Ingestion.EndWeek, ingestForce)
		if err != nil {
			return err
		}
		appLog.WithFields(logrus.Fields{"season": season, "written": written}).
			Info("Season ingested")
		return nil
	},
}

var rollingCmd = &cobra.Command{
	Use:   "rolling",
	Short: "Recompute rolling aggregates for every stored player",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		rolling := service.NewRollingStatsService(
			repos.GameStat, repos.RollingStat, cfg.Projection.DecayFactor, cfg.Projection.Workers, appLog)

		succeeded, err := rolling.RecomputeAll(ctx)
		if err != nil {
			return err
		}
		appLog.WithField("players", succeeded).Info("Rolling stats recomputed")
		return nil
	},
}

var propsCmd = &cobra.Command{
	Use:   "props",
	Short: "Capture the current bookmaker prop sheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		captured, err := newCollector().CaptureProps(ctx)
		if err != nil {
			return err
		}
		appLog.WithField("sheets", captured).Info("Prop sheets captured")
		return nil
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Price the latest prop sheets and print the predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		cache := service.NewProjectionCache(time.Duration(cfg.Projection.CacheTTLSeconds) * time.Second)
		projector := service.NewProjectionService(
			repos.RollingStat, repos.PropSheet, cache, cfg.Projection.MatchThreshold, appLog)

		predictions, err := projector.ProjectAll(ctx)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(predictions)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	ingestCmd.Flags().IntVar(&ingestSeason, "season", 0, "Season to ingest (defaults to the configured season)")
	ingestCmd.Flags().IntVar(&ingestWeek, "week", 0, "Single week to ingest (defaults to the configured week range)")
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "Re-ingest weeks that are already stored")

	rootCmd.AddCommand(ingestCmd, rollingCmd, propsCmd, projectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		stdlog.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)

	db, err = database.Initialize(context.Background(), cfg)
	if err != nil {
		return err
	}

	repos, err = repository.NewRepositories(db)
	return err
}

func newCollector() *service.CollectorService {
	httpLog := stdlog.New(os.Stdout, "datasource: ", stdlog.LstdFlags)
	providers, err := datasource.NewProviders(cfg, httpLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize data providers")
	}
	return service.NewCollectorService(
		providers.Stats, providers.Odds, repos.GameStat, repos.PropSheet, cfg.Ingestion.BatchSize, appLog)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
