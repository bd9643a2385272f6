// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCheckTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   time.Time
		want error
	}{
		{"now", now, nil},
		{"edge of age window", now.Add(-maxLocationAge), nil},
		{"just too old", now.Add(-maxLocationAge - time.Second), errTimestampStale},
		{"within skew", now.Add(maxClockSkew), nil},
		{"beyond skew", now.Add(maxClockSkew + time.Second), errTimestampFuture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkTimestamp(tt.ts, now); !errors.Is(err, tt.want) {
				t.Errorf("checkTimestamp() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 24, false},
		{"hours=6", 6, false},
		{"hours=168", 168, false},
		{"hours=169", 0, true},
		{"hours=0", 0, true},
		{"hours=-2", 0, true},
		{"hours=six", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
			got, err := queryInt(r, "hours", defaultHistoryHours, maxHistoryHours)
			if (err != nil) != tt.wantErr {
				t.Fatalf("queryInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("queryInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		anyErr  bool
	}{
		{name: "valid", body: `{"status":"resolved"}`},
		{name: "empty", body: "", wantErr: errEmptyBody},
		{name: "trailing object", body: `{"status":"resolved"}{"status":"x"}`, wantErr: errTrailingData},
		{name: "unknown field", body: `{"status":"resolved","extra":1}`, anyErr: true},
		{name: "malformed", body: `{"status":`, anyErr: true},
		{name: "too large", body: `{"status":"` + strings.Repeat("a", maxBodyBytes) + `"}`, anyErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPatch, "/x", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst ResolveAlertRequest
			err := decodeJSON(w, r, &dst)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("decodeJSON() = %v, want %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil {
					t.Error("decodeJSON() = nil, want error")
				}
			default:
				if err != nil {
					t.Fatalf("decodeJSON() = %v", err)
				}
				if dst.Status != "resolved" {
					t.Errorf("status = %q", dst.Status)
				}
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("ok\nforged line\x7f"); got != `ok\x0aforged line\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
