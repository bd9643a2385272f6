// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], s.err
}

// echoClaims responds with the authenticated role and subject.
var echoClaims = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "no claims", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(claims.Role + ":" + claims.Subject)) //nolint:errcheck // test handler
})

func TestMiddleware_Authenticate(t *testing.T) {
	m := newTestManager(t)
	tourist, err := m.IssueTouristToken(7, "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	police, err := m.IssuePoliceToken("police")
	if err != nil {
		t.Fatal(err)
	}
	revokedTok, err := m.IssueTouristToken(8, "ben@example.com")
	if err != nil {
		t.Fatal(err)
	}
	revokedClaims, err := m.ValidateToken(revokedTok.Value)
	if err != nil {
		t.Fatal(err)
	}

	mw := NewMiddleware(m, stubRevocations{revoked: map[string]bool{revokedClaims.ID: true}}, "jwt")
	handler := mw.Authenticate(echoClaims)

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
		wantBody string
	}{
		{"tourist bearer", "Bearer " + tourist.Value, "", http.StatusOK, "tourist:7"},
		{"police bearer", "Bearer " + police.Value, "", http.StatusOK, "police:police"},
		{"lowercase scheme", "bearer " + police.Value, "", http.StatusOK, "police:police"},
		{"query token", "", "?token=" + tourist.Value, http.StatusOK, "tourist:7"},
		{"missing", "", "", http.StatusUnauthorized, "authentication required"},
		{"basic scheme", "Basic abc", "", http.StatusUnauthorized, "authentication required"},
		{"garbage", "Bearer garbage", "", http.StatusUnauthorized, "invalid token"},
		{"revoked", "Bearer " + revokedTok.Value, "", http.StatusUnauthorized, "revoked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/police/alerts"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want containing %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantCode == http.StatusUnauthorized {
				if !strings.Contains(rec.Body.String(), `"code":"UNAUTHORIZED"`) {
					t.Errorf("error envelope missing: %s", rec.Body.String())
				}
				if rec.Header().Get("WWW-Authenticate") == "" {
					t.Error("WWW-Authenticate header missing")
				}
			}
		})
	}
}

func TestMiddleware_RevocationStoreError(t *testing.T) {
	m := newTestManager(t)
	tok, err := m.IssuePoliceToken("police")
	if err != nil {
		t.Fatal(err)
	}
	mw := NewMiddleware(m, stubRevocations{err: errors.New("disk gone")}, "jwt")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	rec := httptest.NewRecorder()
	mw.Authenticate(echoClaims).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 when revocations cannot be checked", rec.Code)
	}
}

func TestMiddleware_AuthModeNone(t *testing.T) {
	mw := NewMiddleware(nil, nil, "none")

	rec := httptest.NewRecorder()
	mw.Authenticate(echoClaims).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != RolePolice+":"+DevelopmentUsername {
		t.Errorf("body = %q", got)
	}
}

func TestMiddleware_WithRealRevocationStore(t *testing.T) {
	m := newTestManager(t)
	store := newTestRevocationStore(t)
	mw := NewMiddleware(m, store, "jwt")
	handler := mw.Authenticate(echoClaims)

	tok, err := m.IssueTouristToken(3, "c@example.com")
	if err != nil {
		t.Fatal(err)
	}
	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok.Value)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call(); code != http.StatusOK {
		t.Fatalf("before logout status = %d", code)
	}
	claims, err := m.ValidateToken(tok.Value)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Revoke(context.Background(), claims); err != nil {
		t.Fatal(err)
	}
	if code := call(); code != http.StatusUnauthorized {
		t.Errorf("after logout status = %d, want 401", code)
	}
}

func TestClaimsFromContext_Missing(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Error("claims found in empty context")
	}
	if _, ok := ClaimsFromContext(ContextWithClaims(context.Background(), nil)); ok {
		t.Error("nil claims reported present")
	}
}

func TestMiddleware_CountsRejections(t *testing.T) {
	mw := NewMiddleware(newTestManager(t), nil, "jwt")
	counter := TokensRejected.WithLabelValues("missing")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	mw.Authenticate(echoClaims).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("missing-token counter delta = %v, want 1", got)
	}
}

func TestRecordLogin(t *testing.T) {
	failures := LoginAttempts.WithLabelValues(RolePolice, "failure")
	before := testutil.ToFloat64(failures)
	RecordLogin(RolePolice, false)
	if got := testutil.ToFloat64(failures) - before; got != 1 {
		t.Errorf("failure counter delta = %v, want 1", got)
	}
}
