// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

// Scorer turns a MovementAnalysis into a RiskAssessment.
type Scorer struct {
	weights map[Anomaly]int
	bands   Bands
}

// NewScorer creates a scorer from the policy weights and bands.
func NewScorer(policy Policy) *Scorer {
	p := policy.Clone()
	return &Scorer{weights: p.Weights, bands: p.Bands}
}

// Score sums the weights of every flagged anomaly and maps the total to a
// level. Anomalies are listed in EvaluationOrder.
func (s *Scorer) Score(analysis MovementAnalysis) RiskAssessment {
	anomalies := make([]Anomaly, 0, len(EvaluationOrder))
	score := 0
	for _, a := range EvaluationOrder {
		if analysis.Flag(a) {
			anomalies = append(anomalies, a)
			score += s.weights[a]
		}
	}

	anomalyType, details := explain(anomalies)
	return RiskAssessment{
		Level:       s.Level(score),
		Score:       score,
		Anomalies:   anomalies,
		AnomalyType: anomalyType,
		Details:     details,
	}
}

// Level maps a score to its risk level. Band bounds are inclusive.
func (s *Scorer) Level(score int) RiskLevel {
	switch {
	case score >= s.bands.Critical:
		return RiskCritical
	case score >= s.bands.High:
		return RiskHigh
	case score >= s.bands.Medium:
		return RiskMedium
	default:
		return RiskLow
	}
}
