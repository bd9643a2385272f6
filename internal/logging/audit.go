// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// Authentication audit event names.
const (
	AuthEventLogin         = "login"
	AuthEventLogout        = "logout"
	AuthEventRegister      = "register"
	AuthEventTokenRejected = "token_rejected"
	AuthEventAccessDenied  = "access_denied"
)

// AuthEvent is one authentication or authorization outcome.
type AuthEvent struct {
	Event    string
	Role     string
	Subject  string
	Identity string
	IP       string
	Success  bool
	Reason   string
}

// AuthLogger writes AuthEvents with identities masked.
type AuthLogger struct {
	logger zerolog.Logger
}

// NewAuthLogger returns an audit logger tagged component=auth.
func NewAuthLogger() *AuthLogger {
	return &AuthLogger{logger: WithComponent("auth")}
}

// NewAuthLoggerWith wraps a specific logger.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewAuthLoggerWith(l zerolog.Logger) *AuthLogger {
	return &AuthLogger{logger: l.With().Str("component", "auth").Logger()}
}

// Log writes ev. Failures are logged at warn level.
func (a *AuthLogger) Log(ev AuthEvent) {
	var e *zerolog.Event
	status := "success"
	if ev.Success {
		e = a.logger.Info()
	} else {
		e = a.logger.Warn()
		status = "failed"
	}

	e = e.Str("event", ev.Event).Str("status", status)
	if ev.Role != "" {
		e = e.Str("role", ev.Role)
	}
	if ev.Subject != "" {
		e = e.Str("subject", ev.Subject)
	}
	if ev.Identity != "" {
		e = e.Str("identity", MaskIdentity(ev.Identity))
	}
	if ev.IP != "" {
		e = e.Str("ip", ev.IP)
	}
	if ev.Reason != "" && !ev.Success {
		e = e.Str("reason", ev.Reason)
	}
	e.Msg("auth event")
}

// MaskIdentity hides most of an email address or username.
//
//	alice@example.com -> a***@example.com
//	officer1          -> o***1
func MaskIdentity(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if at := strings.LastIndex(s, "@"); at > 0 {
		return s[:1] + "***" + s[at:]
	}
	if len(s) <= 2 {
		return "***"
	}
	return s[:1] + "***" + s[len(s)-1:]
}
