// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

/*
Package config provides centralized configuration management for Safewatch.

Configuration is loaded with Koanf v2 from three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, or config.yaml / config.yml in the
    working directory, or /etc/safewatch/config.yaml
 3. Environment variables, through an explicit name map

Unknown environment variables are ignored so that unrelated process
environment never leaks into the configuration.

# Sections

  - server: HTTP listener, timeouts and environment mode
  - database: DuckDB path, memory limit and threads
  - security: auth mode, JWT secret and lifetime, police officer
    credentials, token revocation store, CORS, rate limiting
  - logging: zerolog level, format and caller
  - analysis: risk policy (weights, bands, thresholds), batch schedule,
    fan-out, store fetch pacing and circuit breaker
  - events: watermill backend (memory or nats), broker URL and the
    embedded NATS server

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT,
    HTTP_SHUTDOWN_TIMEOUT, ENVIRONMENT

Database:
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS

Security:
  - AUTH_MODE (jwt, none), JWT_SECRET, JWT_TTL
  - POLICE_USERNAME, POLICE_PASSWORD, POLICE_PASSWORD_HASH
  - REVOCATION_STORE_PATH (empty keeps revocations in memory)
  - AUTHZ_POLICY_PATH, AUTHZ_RELOAD_INTERVAL (default: built-in policy, 30s)
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Analysis:
  - ANALYSIS_INTERVAL, ANALYSIS_RUN_AT_STARTUP, ANALYSIS_CONCURRENCY
  - ANALYSIS_FETCH_TIMEOUT, ANALYSIS_FETCH_RATE, ANALYSIS_FETCH_BURST
  - ANALYSIS_HISTORY_WINDOW, ANALYSIS_MAX_POINTS, ANALYSIS_ALERT_WINDOW
  - RISK_WEIGHT_FREQUENT_ALERTS, RISK_WEIGHT_STATIONARY_TOO_LONG,
    RISK_WEIGHT_SUDDEN_STOP, RISK_WEIGHT_UNUSUAL_SPEED,
    RISK_WEIGHT_ROUTE_DEVIATION
  - RISK_BAND_MEDIUM, RISK_BAND_HIGH, RISK_BAND_CRITICAL
  - RISK_SUDDEN_STOP_RESIDUAL_RATIO, RISK_UNUSUAL_SPEED_KMH,
    RISK_STATIONARY_MIN_DURATION, RISK_ROUTE_DEVIATION_METERS

Detector point minimums (analysis.thresholds.*_points) are file-only.

Events:
  - EVENTS_ENABLED, EVENTS_BACKEND (memory, nats), NATS_URL,
    NATS_EMBEDDED, NATS_EMBEDDED_PORT, NATS_QUEUE_GROUP

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	db, err := database.New(&cfg.Database)

Config is immutable after Load and safe for concurrent reads.
*/
package config
