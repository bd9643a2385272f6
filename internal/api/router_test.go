// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"net/http"
	"strings"
	"testing"

	_ "github.com/tomtom215/safewatch/docs"
)

func TestSwaggerDocument(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Safewatch API", "/location/update", "/police/alerts/{id}", "BearerAuth"} {
		if !strings.Contains(body, want) {
			t.Errorf("swagger document missing %q", want)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.Security.CORSOrigins = []string{"https://dashboard.example.com"}
	env := newTestEnvWith(t, cfg)

	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/police/alerts", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	rec := serve(env, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req, _ = http.NewRequest(http.MethodOptions, "/api/v1/police/alerts", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	if got := serve(env, req).Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	sec := testConfig().Security
	sec.RateLimitReqs = 5
	if got := ChiMiddlewareConfigFromSecurity(&sec).AuthRateLimitRequests; got != 1 {
		t.Errorf("auth limit = %d, want floor of 1", got)
	}
	sec.RateLimitReqs = 300
	if got := ChiMiddlewareConfigFromSecurity(&sec).AuthRateLimitRequests; got != 30 {
		t.Errorf("auth limit = %d, want 30", got)
	}
}
