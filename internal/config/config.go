// Package config provides configuration management for the Gridiron Edge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	SportsData SportsDataConfig `mapstructure:"sportsdata" validate:"required"`
	OddsAPI    OddsAPIConfig    `mapstructure:"odds_api" validate:"required"`
	Projection ProjectionConfig `mapstructure:"projection" validate:"required"`
	Ingestion  IngestionConfig  `mapstructure:"ingestion" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// SportsDataConfig represents the player game stats provider configuration
type SportsDataConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	APIKey         string `mapstructure:"api_key" validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts  int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitRPS   int    `mapstructure:"rate_limit_rps" validate:"required,gt=0"`
}

// OddsAPIConfig represents the bookmaker odds provider configuration
type OddsAPIConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	APIKey         string `mapstructure:"api_key" validate:"required"`
	Bookmaker      string `mapstructure:"bookmaker" validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts  int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitRPS   int    `mapstructure:"rate_limit_rps" validate:"required,gt=0"`
}

// ProjectionConfig tunes the statistical model
type ProjectionConfig struct {
	DecayFactor     float64 `mapstructure:"decay_factor" validate:"required,gt=0,lt=1"`
	MatchThreshold  float64 `mapstructure:"match_threshold" validate:"required,gt=0,lte=1"`
	Workers         int     `mapstructure:"workers" validate:"required,gt=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// IngestionConfig controls which slice of the season gets collected
type IngestionConfig struct {
	Season    int `mapstructure:"season" validate:"required,gte=2000"`
	StartWeek int `mapstructure:"start_week" validate:"required,min=1,max=18"`
	EndWeek   int `mapstructure:"end_week" validate:"required,min=1,max=18"`
	BatchSize int `mapstructure:"batch_size" validate:"omitempty,gt=0"`
}

// ScheduleConfig represents the daily pipeline schedule
type ScheduleConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CronSpec string `mapstructure:"cron_spec" validate:"required"`
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port                 int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	APIKey               string   `mapstructure:"api_key"`
	AllowedOrigins       []string `mapstructure:"allowed_origins"`
	ReadTimeoutSeconds   int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds  int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownGraceSeconds int      `mapstructure:"shutdown_grace_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
