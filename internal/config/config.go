// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Events   EventsConfig   `koanf:"events"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = NumCPU
}

// SecurityConfig holds authentication and request limiting settings.
type SecurityConfig struct {
	// AuthMode is "jwt" or "none". "none" is refused in production.
	AuthMode  string        `koanf:"auth_mode"`
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	// Police officer credentials. PolicePasswordHash (bcrypt) wins over
	// PolicePassword when both are set.
	PoliceUsername     string `koanf:"police_username"`
	PolicePassword     string `koanf:"police_password"`
	PolicePasswordHash string `koanf:"police_password_hash"`

	// RevocationStorePath is the badger directory for revoked tokens.
	// Empty keeps revocations in memory.
	RevocationStorePath string `koanf:"revocation_store_path"`

	// AuthzPolicyPath replaces the built-in route policy and is reloaded
	// every AuthzReloadInterval.
	AuthzPolicyPath     string        `koanf:"authz_policy_path"`
	AuthzReloadInterval time.Duration `koanf:"authz_reload_interval"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Caller bool   `koanf:"caller"`
}

// AnalysisConfig holds risk engine settings.
type AnalysisConfig struct {
	Interval     time.Duration `koanf:"interval"`
	RunAtStartup bool          `koanf:"run_at_startup"`
	Concurrency  int           `koanf:"concurrency"`
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	FetchRate    float64       `koanf:"fetch_rate"` // subject fetches per second, 0 = unlimited
	FetchBurst   int           `koanf:"fetch_burst"`

	HistoryWindow time.Duration `koanf:"history_window"`
	MaxPoints     int           `koanf:"max_points"`
	AlertWindow   time.Duration `koanf:"alert_window"`

	Weights    WeightsConfig    `koanf:"weights"`
	Bands      BandsConfig      `koanf:"bands"`
	Thresholds ThresholdsConfig `koanf:"thresholds"`
	Breaker    BreakerConfig    `koanf:"breaker"`
}

// WeightsConfig holds the score contribution of each anomaly.
type WeightsConfig struct {
	FrequentAlerts    int `koanf:"frequent_alerts"`
	StationaryTooLong int `koanf:"stationary_too_long"`
	SuddenStop        int `koanf:"sudden_stop"`
	UnusualSpeed      int `koanf:"unusual_speed"`
	RouteDeviation    int `koanf:"route_deviation"`
}

// BandsConfig holds the minimum score of each level above low.
type BandsConfig struct {
	Medium   int `koanf:"medium"`
	High     int `koanf:"high"`
	Critical int `koanf:"critical"`
}

// ThresholdsConfig holds detector thresholds and the series length each
// detector needs.
type ThresholdsConfig struct {
	SuddenStopMinPoints        int           `koanf:"sudden_stop_min_points"`
	SuddenStopMinSpeedKmh      float64       `koanf:"sudden_stop_min_speed_kmh"`
	SuddenStopResidualRatio    float64       `koanf:"sudden_stop_residual_ratio"`
	UnusualSpeedKmh            float64       `koanf:"unusual_speed_kmh"`
	StationaryPoints           int           `koanf:"stationary_points"`
	StationaryRadiusMeters     float64       `koanf:"stationary_radius_meters"`
	StationaryMinDuration      time.Duration `koanf:"stationary_min_duration"`
	FrequentAlertCount         int           `koanf:"frequent_alert_count"`
	RouteDeviationMinPoints    int           `koanf:"route_deviation_min_points"`
	RouteDeviationRecentPoints int           `koanf:"route_deviation_recent_points"`
	RouteDeviationMeters       float64       `koanf:"route_deviation_meters"`
}

// BreakerConfig holds the circuit breaker around store fetches.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// EventsConfig holds the watermill event bus settings.
type EventsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Backend string `koanf:"backend"` // memory, nats

	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	EmbeddedHost   string `koanf:"embedded_host"`
	EmbeddedPort   int    `koanf:"embedded_port"`
	QueueGroup     string `koanf:"queue_group"`

	RetryCount    int           `koanf:"retry_count"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	CloseTimeout  time.Duration `koanf:"close_timeout"`
}

// Load reads configuration from defaults, an optional config file and
// environment variables, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
