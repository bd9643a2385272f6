// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/safewatch/internal/logging"
)

type contextKey string

// ClaimsContextKey stores *Claims in a request context.
const ClaimsContextKey contextKey = "claims"

// DevelopmentUsername is the identity used when AUTH_MODE=none.
const DevelopmentUsername = "dev-officer"

// RevocationChecker reports revoked token IDs.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Middleware authenticates requests.
type Middleware struct {
	jwtManager  *JWTManager
	revocations RevocationChecker
	authMode    string
	audit       *logging.AuthLogger
}

// NewMiddleware creates the authentication middleware. revocations may be
// nil, in which case logout has no server-side effect.
func NewMiddleware(jwtManager *JWTManager, revocations RevocationChecker, authMode string) *Middleware {
	return &Middleware{
		jwtManager:  jwtManager,
		revocations: revocations,
		authMode:    authMode,
		audit:       logging.NewAuthLogger(),
	}
}

// Authenticate rejects requests without a valid, unrevoked token and
// stores the claims in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == "none" {
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), developmentClaims())))
			return
		}

		token := BearerToken(r)
		if token == "" {
			RecordRejection("missing")
			writeUnauthorized(w, "authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			RecordRejection("invalid")
			m.audit.Log(logging.AuthEvent{
				Event:  logging.AuthEventTokenRejected,
				IP:     r.RemoteAddr,
				Reason: err.Error(),
			})
			writeUnauthorized(w, "invalid token")
			return
		}

		if m.revocations != nil {
			revoked, err := m.revocations.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				RecordRejection("store_error")
				logging.Ctx(r.Context()).Error().Err(err).Msg("revocation lookup failed")
				writeUnauthorized(w, "token could not be verified")
				return
			}
			if revoked {
				RecordRejection("revoked")
				m.audit.Log(logging.AuthEvent{
					Event:   logging.AuthEventTokenRejected,
					Role:    claims.Role,
					Subject: claims.Subject,
					IP:      r.RemoteAddr,
					Reason:  "token revoked",
				})
				writeUnauthorized(w, "token has been revoked")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

func developmentClaims() *Claims {
	c := &Claims{Username: DevelopmentUsername, Role: RolePolice}
	c.Subject = DevelopmentUsername
	return c
}

// BearerToken extracts the token from "Authorization: Bearer", falling back
// to the token query parameter used by WebSocket clients.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// ContextWithClaims stores claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

type errorBody struct {
	Status string    `json:"status"`
	Error  errorInfo `json:"error"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="safewatch"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errorBody{ //nolint:errcheck // response already committed
		Status: "error",
		Error:  errorInfo{Code: "UNAUTHORIZED", Message: message},
	})
}
