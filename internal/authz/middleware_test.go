// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package authz

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/safewatch/internal/auth"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func requestAs(role, method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if role == "" {
		return req
	}
	claims := &auth.Claims{Role: role}
	claims.Subject = "subject-" + role
	return req.WithContext(auth.ContextWithClaims(req.Context(), claims))
}

func TestMiddleware_Authorize(t *testing.T) {
	mw := NewMiddleware(newTestEnforcer(t, nil))
	handler := mw.Authorize(okHandler)

	tests := []struct {
		name     string
		role     string
		method   string
		path     string
		wantCode int
	}{
		{"police dashboard", auth.RolePolice, http.MethodGet, "/api/v1/police/tourists", http.StatusNoContent},
		{"tourist location", auth.RoleTourist, http.MethodPost, "/api/v1/location/update", http.StatusNoContent},
		{"tourist dashboard denied", auth.RoleTourist, http.MethodGet, "/api/v1/police/tourists", http.StatusForbidden},
		{"tourist resolve denied", auth.RoleTourist, http.MethodPatch, "/api/v1/police/alerts/3", http.StatusForbidden},
		{"no claims", "", http.MethodGet, "/api/v1/police/tourists", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestAs(tt.role, tt.method, tt.path))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusForbidden && !strings.Contains(rec.Body.String(), `"code":"FORBIDDEN"`) {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestMiddleware_CountsDecisions(t *testing.T) {
	mw := NewMiddleware(newTestEnforcer(t, nil))
	denied := Decisions.WithLabelValues(auth.RoleTourist, "denied")
	before := testutil.ToFloat64(denied)

	mw.Authorize(okHandler).ServeHTTP(httptest.NewRecorder(), requestAs(auth.RoleTourist, http.MethodPost, "/api/v1/ai/analyze-all"))

	if got := testutil.ToFloat64(denied) - before; got != 1 {
		t.Errorf("denied delta = %v, want 1", got)
	}
}
