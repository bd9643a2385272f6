// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

// minAnalyzablePoints is the smallest series the analyzer will evaluate.
// Below it every flag is false, including frequent alerts.
const minAnalyzablePoints = 2

// Analyzer runs a fixed set of detectors over a location series.
type Analyzer struct {
	detectors []Detector
}

// NewAnalyzer creates an analyzer with the default detectors configured
// from the policy thresholds.
func NewAnalyzer(policy Policy) *Analyzer {
	return NewAnalyzerWithDetectors(DefaultDetectors(policy.Thresholds)...)
}

// NewAnalyzerWithDetectors creates an analyzer from explicit detectors.
// Detectors reporting the same anomaly are OR-ed together.
func NewAnalyzerWithDetectors(detectors ...Detector) *Analyzer {
	return &Analyzer{detectors: detectors}
}

// Analyze evaluates every detector against series and alertCount.
// Series must be ordered newest first.
func (a *Analyzer) Analyze(series LocationSeries, alertCount int) MovementAnalysis {
	var result MovementAnalysis
	if len(series) < minAnalyzablePoints {
		return result
	}
	result.Sufficient = true

	in := Input{Series: series, AlertCount: alertCount}
	for _, d := range a.detectors {
		if d.Detect(in) {
			result = result.WithFlag(d.Anomaly(), true)
		}
	}
	return result
}

var (
	defaultAnalyzer = NewAnalyzer(DefaultPolicy())
	defaultScorer   = NewScorer(DefaultPolicy())
)

// Analyze evaluates series with the default policy.
func Analyze(series LocationSeries, alertCount int) MovementAnalysis {
	return defaultAnalyzer.Analyze(series, alertCount)
}

// Score scores an analysis with the default policy.
func Score(analysis MovementAnalysis) RiskAssessment {
	return defaultScorer.Score(analysis)
}
