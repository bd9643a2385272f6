// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/safewatch/internal/auth"
	"github.com/tomtom215/safewatch/internal/logging"
)

// Middleware enforces the route policy for authenticated requests.
type Middleware struct {
	enforcer *Enforcer
	audit    *logging.AuthLogger
}

// NewMiddleware creates the authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		audit:    logging.NewAuthLogger(),
	}
}

// Authorize must run after auth.Middleware.Authenticate.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			Decisions.WithLabelValues("", "denied").Inc()
			writeError(w, http.StatusForbidden, "FORBIDDEN", "no authentication context")
			return
		}

		allowed, err := m.enforcer.Enforce(claims.Role, r.URL.Path, r.Method)
		if err != nil {
			Decisions.WithLabelValues(claims.Role, "error").Inc()
			logging.Ctx(r.Context()).Error().Err(err).Msg("authorization error")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization failed")
			return
		}

		if !allowed {
			Decisions.WithLabelValues(claims.Role, "denied").Inc()
			m.audit.Log(logging.AuthEvent{
				Event:   logging.AuthEventAccessDenied,
				Role:    claims.Role,
				Subject: claims.Subject,
				IP:      r.RemoteAddr,
				Reason:  r.Method + " " + r.URL.Path,
			})
			writeError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}

		Decisions.WithLabelValues(claims.Role, "allowed").Inc()
		next.ServeHTTP(w, r)
	})
}

type errorBody struct {
	Status string    `json:"status"`
	Error  errorInfo `json:"error"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{ //nolint:errcheck // response already committed
		Status: "error",
		Error:  errorInfo{Code: code, Message: message},
	})
}
