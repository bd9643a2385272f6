// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/safewatch/config.yaml",
	"/etc/safewatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. The risk policy values match
// detection.DefaultPolicy.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/safewatch.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Security: SecurityConfig{
			AuthMode:            "jwt",
			TokenTTL:            24 * time.Hour,
			PoliceUsername:      "police",
			AuthzReloadInterval: 30 * time.Second,
			CORSOrigins:         []string{"*"},
			RateLimitReqs:       100,
			RateLimitWindow:     time.Minute,
			RateLimitDisabled:   false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Analysis: AnalysisConfig{
			Interval:      5 * time.Minute,
			RunAtStartup:  false,
			Concurrency:   8,
			FetchTimeout:  5 * time.Second,
			FetchRate:     50,
			FetchBurst:    10,
			HistoryWindow: 24 * time.Hour,
			MaxPoints:     50,
			AlertWindow:   6 * time.Hour,
			Weights: WeightsConfig{
				FrequentAlerts:    40,
				StationaryTooLong: 30,
				SuddenStop:        25,
				UnusualSpeed:      20,
				RouteDeviation:    15,
			},
			Bands: BandsConfig{
				Medium:   20,
				High:     40,
				Critical: 60,
			},
			Thresholds: ThresholdsConfig{
				SuddenStopMinPoints:        3,
				SuddenStopMinSpeedKmh:      10,
				SuddenStopResidualRatio:    0.1,
				UnusualSpeedKmh:            150,
				StationaryPoints:           5,
				StationaryRadiusMeters:     100,
				StationaryMinDuration:      2 * time.Hour,
				FrequentAlertCount:         2,
				RouteDeviationMinPoints:    10,
				RouteDeviationRecentPoints: 3,
				RouteDeviationMeters:       5000,
			},
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Events: EventsConfig{
			Enabled:        true,
			Backend:        "memory",
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			EmbeddedHost:   "127.0.0.1",
			EmbeddedPort:   4222,
			QueueGroup:     "safewatch-risk",
			RetryCount:     3,
			RetryInterval:  500 * time.Millisecond,
			CloseTimeout:   30 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration in layers: defaults, optional YAML
// file, environment variables. Environment wins over file, file wins over
// defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Security
	"auth_mode":             "security.auth_mode",
	"jwt_secret":            "security.jwt_secret",
	"jwt_ttl":               "security.token_ttl",
	"police_username":       "security.police_username",
	"police_password":       "security.police_password",
	"police_password_hash":  "security.police_password_hash",
	"revocation_store_path": "security.revocation_store_path",
	"authz_policy_path":     "security.authz_policy_path",
	"authz_reload_interval": "security.authz_reload_interval",
	"cors_origins":          "security.cors_origins",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Analysis
	"analysis_interval":               "analysis.interval",
	"analysis_run_at_startup":         "analysis.run_at_startup",
	"analysis_concurrency":            "analysis.concurrency",
	"analysis_fetch_timeout":          "analysis.fetch_timeout",
	"analysis_fetch_rate":             "analysis.fetch_rate",
	"analysis_fetch_burst":            "analysis.fetch_burst",
	"analysis_history_window":         "analysis.history_window",
	"analysis_max_points":             "analysis.max_points",
	"analysis_alert_window":           "analysis.alert_window",
	"risk_weight_frequent_alerts":     "analysis.weights.frequent_alerts",
	"risk_weight_stationary_too_long": "analysis.weights.stationary_too_long",
	"risk_weight_sudden_stop":         "analysis.weights.sudden_stop",
	"risk_weight_unusual_speed":       "analysis.weights.unusual_speed",
	"risk_weight_route_deviation":     "analysis.weights.route_deviation",
	"risk_band_medium":                "analysis.bands.medium",
	"risk_band_high":                  "analysis.bands.high",
	"risk_band_critical":              "analysis.bands.critical",
	"risk_sudden_stop_residual_ratio": "analysis.thresholds.sudden_stop_residual_ratio",
	"risk_unusual_speed_kmh":          "analysis.thresholds.unusual_speed_kmh",
	"risk_stationary_min_duration":    "analysis.thresholds.stationary_min_duration",
	"risk_route_deviation_meters":     "analysis.thresholds.route_deviation_meters",
	"risk_breaker_timeout":            "analysis.breaker.timeout",
	"risk_breaker_failure_ratio":      "analysis.breaker.failure_ratio",

	// Events
	"events_enabled":     "events.enabled",
	"events_backend":     "events.backend",
	"nats_url":           "events.url",
	"nats_embedded":      "events.embedded_server",
	"nats_embedded_host": "events.embedded_host",
	"nats_embedded_port": "events.embedded_port",
	"nats_queue_group":   "events.queue_group",
	"events_retry_count": "events.retry_count",
	"events_retry_delay": "events.retry_interval",
}

// envTransformFunc maps an environment variable to a koanf path. Unmapped
// variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
