// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateAnalysis(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

// validateSecurity validates security configuration.
func (c *Config) validateSecurity() error {
	if err := c.validateAuthMode(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	if c.Security.AuthMode == "jwt" {
		return c.validateJWTAuth()
	}
	return nil
}

var validAuthModes = map[string]bool{
	"jwt":  true,
	"none": true,
}

func (c *Config) validateAuthMode() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("AUTH_MODE must be one of: jwt, none")
	}

	// Refuse to run the police dashboard unauthenticated in production.
	if c.Security.AuthMode == "none" && c.IsProduction() {
		return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
	}
	return nil
}

// validateCORS rejects wildcard CORS in production with authentication enabled.
func (c *Config) validateCORS() error {
	if c.Security.AuthMode != "none" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with authentication enabled; " +
			"set specific origins, e.g. CORS_ORIGINS=https://dashboard.example.org")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard CORS setting with authentication enabled.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && c.hasWildcardCORS()
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateJWTAuth() error {
	s := c.Security
	switch {
	case s.JWTSecret == "":
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
	case len(s.JWTSecret) < 32:
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	case containsPlaceholder(s.JWTSecret):
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate one with: openssl rand -base64 32")
	case s.TokenTTL <= 0:
		return fmt.Errorf("JWT_TTL must be positive")
	case s.PoliceUsername == "":
		return fmt.Errorf("POLICE_USERNAME is required when AUTH_MODE is jwt")
	}

	if s.PolicePasswordHash != "" {
		if !strings.HasPrefix(s.PolicePasswordHash, "$2") {
			return fmt.Errorf("POLICE_PASSWORD_HASH must be a bcrypt hash")
		}
		return nil
	}
	if s.PolicePassword == "" {
		return fmt.Errorf("POLICE_PASSWORD or POLICE_PASSWORD_HASH is required when AUTH_MODE is jwt")
	}
	if containsPlaceholder(s.PolicePassword) {
		return fmt.Errorf("POLICE_PASSWORD contains a placeholder value - set a real password")
	}
	if err := OfficerPasswordPolicy().Check(s.PolicePassword, s.PoliceUsername); err != nil {
		return fmt.Errorf("POLICE_PASSWORD: %w", err)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	switch {
	case a.Interval < time.Second:
		return fmt.Errorf("ANALYSIS_INTERVAL must be at least 1s")
	case a.Concurrency < 1:
		return fmt.Errorf("ANALYSIS_CONCURRENCY must be at least 1")
	case a.FetchTimeout <= 0:
		return fmt.Errorf("ANALYSIS_FETCH_TIMEOUT must be positive")
	case a.FetchRate < 0:
		return fmt.Errorf("ANALYSIS_FETCH_RATE must not be negative")
	case a.FetchRate > 0 && a.FetchBurst < 1:
		return fmt.Errorf("ANALYSIS_FETCH_BURST must be at least 1 when a fetch rate is set")
	case a.Breaker.FailureRatio <= 0 || a.Breaker.FailureRatio > 1:
		return fmt.Errorf("analysis.breaker.failure_ratio must be in (0, 1]")
	case a.Breaker.Timeout <= 0:
		return fmt.Errorf("analysis.breaker.timeout must be positive")
	}
	// Policy semantics (bands, weights, thresholds) are checked by
	// detection.Policy.Validate when the engine is built.
	return nil
}

var validEventBackends = map[string]bool{
	"memory": true,
	"nats":   true,
}

func (c *Config) validateEvents() error {
	e := c.Events
	if !e.Enabled {
		return nil
	}
	if !validEventBackends[e.Backend] {
		return fmt.Errorf("EVENTS_BACKEND must be one of: memory, nats")
	}
	if e.Backend == "nats" && !e.EmbeddedServer && e.URL == "" {
		return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND is nats without an embedded server")
	}
	if e.EmbeddedServer && (e.EmbeddedPort < 1 || e.EmbeddedPort > 65535) {
		return fmt.Errorf("NATS_EMBEDDED_PORT must be between 1 and 65535")
	}
	if e.RetryCount < 0 {
		return fmt.Errorf("EVENTS_RETRY_COUNT must not be negative")
	}
	return nil
}

var (
	validLogLevels = map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	validLogFormats = map[string]bool{
		"json":    true,
		"console": true,
	}
)

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment reports whether ENVIRONMENT is development or unset.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// placeholderPatterns indicate a value copied from an example and never set.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, p := range placeholderPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}
