// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/safewatch/internal/logging"
)

// AccessLog logs each request after it completes. Requests slower than
// slow log at warn, server errors at error, the rest at debug.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			log := logging.Ctx(r.Context())

			var e *zerolog.Event
			switch {
			case sw.status >= http.StatusInternalServerError:
				e = log.Error()
			case slow > 0 && elapsed > slow:
				e = log.Warn().Bool("slow", true)
			default:
				e = log.Debug()
			}

			e.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("duration", elapsed).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}
