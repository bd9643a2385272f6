// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login attempts.
	// Labels:
	//   - role: "tourist", "police"
	//   - outcome: "success", "failure"
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"role", "outcome"},
	)

	// TokensRejected counts requests refused by the authentication middleware.
	TokensRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_rejected_total",
			Help: "Total number of rejected bearer tokens",
		},
		[]string{"reason"}, // missing, invalid, revoked, store_error
	)

	// TokensRevoked counts logouts.
	TokensRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_revoked_total",
			Help: "Total number of tokens revoked by logout",
		},
	)
)

// RecordLogin counts one login attempt.
func RecordLogin(role string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	LoginAttempts.WithLabelValues(role, outcome).Inc()
}

// RecordRejection counts one rejected request.
func RecordRejection(reason string) {
	TokensRejected.WithLabelValues(reason).Inc()
}
