// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func testBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.5,
	}
}

func TestBreakerStore_PassesThrough(t *testing.T) {
	t.Parallel()

	inner := newFakeStore()
	inner.series[1] = LocationSeries{pointAt(0, 0, 0), pointAt(0, 0, 10)}
	inner.alerts[1] = 4

	b := NewBreakerStore(inner, testBreakerConfig("test-pass"))
	ctx := context.Background()

	series, err := b.FetchRecentLocations(ctx, 1, time.Hour, 50)
	if err != nil || len(series) != 2 {
		t.Fatalf("FetchRecentLocations() = %d points, %v", len(series), err)
	}
	count, err := b.FetchAlertCount(ctx, 1, time.Hour)
	if err != nil || count != 4 {
		t.Fatalf("FetchAlertCount() = %d, %v", count, err)
	}
	ids, err := b.ActiveSubjects(ctx, time.Hour)
	if err != nil || len(ids) != 1 {
		t.Fatalf("ActiveSubjects() = %v, %v", ids, err)
	}
	if err := b.AppendRiskAssessment(ctx, 1, RiskAssessment{Level: RiskLow}, fixedNow); err != nil {
		t.Fatalf("AppendRiskAssessment() error = %v", err)
	}
	if len(inner.appended) != 1 {
		t.Error("append was not forwarded")
	}
}

func TestBreakerStore_EmptySeries(t *testing.T) {
	t.Parallel()

	b := NewBreakerStore(newFakeStore(), testBreakerConfig("test-empty"))
	series, err := b.FetchRecentLocations(context.Background(), 99, time.Hour, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("series = %v, want empty", series)
	}
}

func TestBreakerStore_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	inner := newFakeStore()
	inner.failFetch[1] = errors.New("database locked")
	b := NewBreakerStore(inner, testBreakerConfig("test-open"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := b.FetchRecentLocations(ctx, 1, time.Hour, 50); err == nil {
			t.Fatal("expected store error")
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	calls := len(inner.fetchWindows)
	_, err := b.FetchRecentLocations(ctx, 1, time.Hour, 50)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if len(inner.fetchWindows) != calls {
		t.Error("open breaker must not call the store")
	}

	// Appends bypass the breaker.
	if err := b.AppendRiskAssessment(ctx, 1, RiskAssessment{}, fixedNow); err != nil {
		t.Errorf("append while open: %v", err)
	}
}

func TestBreakerStore_CancellationDoesNotTrip(t *testing.T) {
	t.Parallel()

	inner := newFakeStore()
	inner.failFetch[1] = context.Canceled
	b := NewBreakerStore(inner, testBreakerConfig("test-cancel"))

	for i := 0; i < 5; i++ {
		_, _ = b.FetchRecentLocations(context.Background(), 1, time.Hour, 50)
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}
