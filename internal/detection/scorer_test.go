// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"strings"
	"testing"
)

// allAnalyses enumerates every combination of the five flags.
func allAnalyses() []MovementAnalysis {
	out := make([]MovementAnalysis, 0, 1<<len(EvaluationOrder))
	for mask := 0; mask < 1<<len(EvaluationOrder); mask++ {
		m := MovementAnalysis{Sufficient: true}
		for i, a := range EvaluationOrder {
			if mask&(1<<i) != 0 {
				m = m.WithFlag(a, true)
			}
		}
		out = append(out, m)
	}
	return out
}

func TestScore_NoAnomalies(t *testing.T) {
	t.Parallel()

	for _, m := range []MovementAnalysis{{}, {Sufficient: true}} {
		got := Score(m)
		if got.Score != 0 || got.Level != RiskLow {
			t.Errorf("Score(%+v) = %d/%s, want 0/low", m, got.Score, got.Level)
		}
		if got.Details != NoAnomaliesDetails {
			t.Errorf("Details = %q, want %q", got.Details, NoAnomaliesDetails)
		}
		if got.AnomalyType != "" {
			t.Errorf("AnomalyType = %q, want empty", got.AnomalyType)
		}
		if len(got.Anomalies) != 0 {
			t.Errorf("Anomalies = %v, want none", got.Anomalies)
		}
	}
}

func TestScore_EqualsSumOfFlaggedWeights(t *testing.T) {
	t.Parallel()

	weights := DefaultPolicy().Weights
	for _, m := range allAnalyses() {
		want := 0
		for _, a := range EvaluationOrder {
			if m.Flag(a) {
				want += weights[a]
			}
		}
		got := Score(m)
		if got.Score != want {
			t.Errorf("Score(%+v) = %d, want %d", m, got.Score, want)
		}

		sum := 0
		for _, a := range got.Anomalies {
			sum += weights[a]
		}
		if sum != got.Score {
			t.Errorf("listed anomalies %v sum to %d, score is %d", got.Anomalies, sum, got.Score)
		}
	}
}

func TestScore_SettingOneFlagAddsItsWeight(t *testing.T) {
	t.Parallel()

	weights := DefaultPolicy().Weights
	for _, m := range allAnalyses() {
		before := Score(m)
		for _, a := range EvaluationOrder {
			if m.Flag(a) {
				continue
			}
			after := Score(m.WithFlag(a, true))
			if after.Score-before.Score != weights[a] {
				t.Errorf("setting %s on %+v changed score by %d, want %d", a, m, after.Score-before.Score, weights[a])
			}
			if after.Level.Rank() < before.Level.Rank() {
				t.Errorf("setting %s on %+v lowered level from %s to %s", a, m, before.Level, after.Level)
			}
		}
	}
}

func TestScore_AnomaliesFollowEvaluationOrder(t *testing.T) {
	t.Parallel()

	for _, m := range allAnalyses() {
		got := Score(m)
		last := -1
		for _, a := range got.Anomalies {
			idx := indexOf(a)
			if idx <= last {
				t.Fatalf("anomalies %v are out of order", got.Anomalies)
			}
			last = idx
		}
		if len(got.Anomalies) > 0 {
			if got.AnomalyType != got.Anomalies[0].Label() {
				t.Errorf("AnomalyType = %q, want %q", got.AnomalyType, got.Anomalies[0].Label())
			}
			if n := len(strings.Split(got.Details, ", ")); n != len(got.Anomalies) {
				t.Errorf("Details %q has %d labels, want %d", got.Details, n, len(got.Anomalies))
			}
		}
	}
}

func indexOf(a Anomaly) int {
	for i, o := range EvaluationOrder {
		if o == a {
			return i
		}
	}
	return -1
}

func TestScorer_Level(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultPolicy())
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLow},
		{19, RiskLow},
		{20, RiskMedium},
		{39, RiskMedium},
		{40, RiskHigh},
		{59, RiskHigh},
		{60, RiskCritical},
		{130, RiskCritical},
	}
	for _, tt := range tests {
		if got := s.Level(tt.score); got != tt.want {
			t.Errorf("Level(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestScorer_LevelIsMonotone(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	s := NewScorer(p)
	maxScore := 0
	for _, w := range p.Weights {
		maxScore += w
	}

	prev := s.Level(0).Rank()
	for score := 1; score <= maxScore+10; score++ {
		rank := s.Level(score).Rank()
		if rank < prev {
			t.Fatalf("level rank dropped from %d to %d at score %d", prev, rank, score)
		}
		prev = rank
	}
	if got := s.Score(MovementAnalysis{
		Sufficient: true, SuddenStop: true, UnusualSpeed: true, RouteDeviation: true,
		FrequentAlerts: true, StationaryTooLong: true,
	}).Score; got != maxScore || got != 130 {
		t.Errorf("all anomalies score = %d, want %d", got, maxScore)
	}
}

func TestScorer_CustomPolicy(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	policy.Weights[AnomalyRouteDeviation] = 70
	s := NewScorer(policy)

	got := s.Score(MovementAnalysis{RouteDeviation: true, Sufficient: true})
	if got.Score != 70 || got.Level != RiskCritical {
		t.Errorf("Score = %d/%s, want 70/critical", got.Score, got.Level)
	}

	// Mutating the policy after construction must not leak into the scorer.
	policy.Weights[AnomalyRouteDeviation] = 1
	if again := s.Score(MovementAnalysis{RouteDeviation: true}); again.Score != 70 {
		t.Errorf("scorer picked up policy mutation: score %d", again.Score)
	}
}

func TestAnomaly_Label(t *testing.T) {
	t.Parallel()

	want := map[Anomaly]string{
		AnomalyFrequentAlerts:    "Frequent SOS alerts",
		AnomalySuddenStop:        "Sudden stop detected",
		AnomalyUnusualSpeed:      "Unusual speed pattern",
		AnomalyStationaryTooLong: "Stationary too long",
		AnomalyRouteDeviation:    "Route deviation",
	}
	for a, label := range want {
		if a.Label() != label {
			t.Errorf("%s.Label() = %q, want %q", a, a.Label(), label)
		}
	}
	if Anomaly("other").Label() != "other" {
		t.Error("unknown anomaly should label as itself")
	}
}

func TestParseRiskLevel(t *testing.T) {
	t.Parallel()

	if l, ok := ParseRiskLevel(" HIGH "); !ok || l != RiskHigh {
		t.Errorf("ParseRiskLevel(HIGH) = %s, %v", l, ok)
	}
	if _, ok := ParseRiskLevel("severe"); ok {
		t.Error("ParseRiskLevel(severe) should fail")
	}
}
