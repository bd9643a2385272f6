// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomtom215/safewatch/internal/logging"
	"github.com/tomtom215/safewatch/internal/metrics"
)

// MessageTypeRiskUpdate is the live message type carrying a new assessment.
const MessageTypeRiskUpdate = "risk_update"

// ErrInvalidSubject is returned for non-positive subject IDs.
var ErrInvalidSubject = errors.New("invalid subject id")

// EngineConfig configures the evaluation driver.
type EngineConfig struct {
	Policy Policy

	// Concurrency bounds the number of subjects evaluated at once by EvaluateAll.
	Concurrency int

	// FetchTimeout bounds each individual store read.
	FetchTimeout time.Duration

	// FetchRate and FetchBurst pace subject evaluations in EvaluateAll.
	// A zero FetchRate disables pacing.
	FetchRate  float64
	FetchBurst int

	// Now returns the evaluation timestamp. Defaults to time.Now.
	Now func() time.Time
}

// DefaultEngineConfig returns the production engine settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Policy:       DefaultPolicy(),
		Concurrency:  8,
		FetchTimeout: 5 * time.Second,
		FetchRate:    50,
		FetchBurst:   10,
		Now:          time.Now,
	}
}

// Evaluation is the full outcome of evaluating one subject.
type Evaluation struct {
	SubjectID   int64            `json:"tourist_id"`
	Analysis    MovementAnalysis `json:"analysis"`
	Assessment  RiskAssessment   `json:"assessment"`
	PointCount  int              `json:"location_count"`
	AlertCount  int              `json:"alert_count"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
}

// SubjectFailure records a subject whose evaluation failed during a batch.
type SubjectFailure struct {
	SubjectID int64  `json:"tourist_id"`
	Error     string `json:"error"`
}

// BatchResult summarizes an EvaluateAll run.
type BatchResult struct {
	Subjects  int                      `json:"subjects"`
	Evaluated int                      `json:"evaluated"`
	Levels    map[RiskLevel]int        `json:"levels"`
	Failures  []SubjectFailure         `json:"failures"`
	Duration  time.Duration            `json:"duration_ns"`
	Results   map[int64]RiskAssessment `json:"-"`
}

// RiskUpdate is the payload of a risk_update live message.
type RiskUpdate struct {
	TouristID   int64     `json:"tourist_id"`
	RiskLevel   RiskLevel `json:"risk_level"`
	RiskScore   int       `json:"risk_score"`
	Anomalies   []Anomaly `json:"anomalies"`
	AnomalyType string    `json:"anomaly_type,omitempty"`
	Details     string    `json:"details"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Engine drives evaluations against a store. It keeps no state between
// calls; the history it reads is the only memory.
type Engine struct {
	cfg         EngineConfig
	store       Store
	analyzer    *Analyzer
	scorer      *Scorer
	broadcaster Broadcaster
	limiter     *rate.Limiter

	mu sync.RWMutex
}

// NewEngine creates an engine. The policy is validated here so a bad
// configuration fails at startup rather than on the first evaluation.
func NewEngine(store Store, cfg EngineConfig) (*Engine, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Policy.Weights == nil {
		cfg.Policy = DefaultPolicy()
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var limiter *rate.Limiter
	if cfg.FetchRate > 0 {
		burst := cfg.FetchBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.FetchRate), burst)
	}

	return &Engine{
		cfg:      cfg,
		store:    store,
		analyzer: NewAnalyzer(cfg.Policy),
		scorer:   NewScorer(cfg.Policy),
		limiter:  limiter,
	}, nil
}

// SetBroadcaster sets the live update sink. A nil broadcaster disables
// risk_update messages.
func (e *Engine) SetBroadcaster(b Broadcaster) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.broadcaster = b
}

// Policy returns a copy of the engine's policy.
func (e *Engine) Policy() Policy {
	return e.cfg.Policy.Clone()
}

// EvaluateSubject fetches a subject's recent history and alert count,
// scores it, appends the assessment to risk history and broadcasts it.
func (e *Engine) EvaluateSubject(ctx context.Context, subjectID int64) (*Evaluation, error) {
	if subjectID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSubject, subjectID)
	}

	start := time.Now()
	policy := e.cfg.Policy

	series, err := e.fetchLocations(ctx, subjectID, policy)
	if err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}
	alertCount, err := e.fetchAlertCount(ctx, subjectID, policy)
	if err != nil {
		return nil, fmt.Errorf("fetch alert count: %w", err)
	}

	analysis := e.analyzer.Analyze(series, alertCount)
	assessment := e.scorer.Score(analysis)
	evaluatedAt := e.cfg.Now().UTC()

	if err := e.store.AppendRiskAssessment(ctx, subjectID, assessment, evaluatedAt); err != nil {
		return nil, fmt.Errorf("append risk assessment: %w", err)
	}

	metrics.RecordRiskEvaluation(string(assessment.Level), time.Since(start))
	for _, a := range assessment.Anomalies {
		metrics.RecordAnomaly(string(a))
	}

	e.broadcast(subjectID, assessment, evaluatedAt)

	logging.Ctx(ctx).Debug().
		Int64("tourist_id", subjectID).
		Str("risk_level", string(assessment.Level)).
		Int("risk_score", assessment.Score).
		Int("points", len(series)).
		Int("alerts", alertCount).
		Bool("sufficient_data", analysis.Sufficient).
		Msg("risk evaluated")

	return &Evaluation{
		SubjectID:   subjectID,
		Analysis:    analysis,
		Assessment:  assessment,
		PointCount:  len(series),
		AlertCount:  alertCount,
		EvaluatedAt: evaluatedAt,
	}, nil
}

// EvaluateAll evaluates every subject with a fix inside the history window.
// A failing subject is recorded in the result and does not stop the others.
// Only a failure to list subjects or a cancelled context returns an error.
func (e *Engine) EvaluateAll(ctx context.Context) (*BatchResult, error) {
	start := time.Now()

	listCtx, cancel := e.fetchContext(ctx)
	subjects, err := e.store.ActiveSubjects(listCtx, e.cfg.Policy.HistoryWindow)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("list active subjects: %w", err)
	}

	result := &BatchResult{
		Subjects: len(subjects),
		Levels:   make(map[RiskLevel]int),
		Failures: []SubjectFailure{},
		Results:  make(map[int64]RiskAssessment, len(subjects)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for _, id := range subjects {
		subjectID := id
		g.Go(func() error {
			if e.limiter != nil {
				if err := e.limiter.Wait(gctx); err != nil {
					return err
				}
			}

			eval, err := e.EvaluateSubject(gctx, subjectID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				result.Failures = append(result.Failures, SubjectFailure{SubjectID: subjectID, Error: err.Error()})
				logging.Ctx(ctx).Warn().Err(err).Int64("tourist_id", subjectID).Msg("risk evaluation failed")
				return nil
			}
			result.Evaluated++
			result.Levels[eval.Assessment.Level]++
			result.Results[subjectID] = eval.Assessment
			return nil
		})
	}

	waitErr := g.Wait()

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].SubjectID < result.Failures[j].SubjectID
	})
	result.Duration = time.Since(start)
	metrics.RecordRiskBatch(result.Evaluated, len(result.Failures), result.Duration)

	if waitErr != nil {
		return result, fmt.Errorf("batch evaluation interrupted: %w", waitErr)
	}

	logging.Ctx(ctx).Info().
		Int("subjects", result.Subjects).
		Int("evaluated", result.Evaluated).
		Int("failures", len(result.Failures)).
		Dur("duration", result.Duration).
		Msg("batch risk evaluation completed")

	return result, nil
}

func (e *Engine) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.FetchTimeout)
}

func (e *Engine) fetchLocations(ctx context.Context, subjectID int64, policy Policy) (LocationSeries, error) {
	fctx, cancel := e.fetchContext(ctx)
	defer cancel()
	return e.store.FetchRecentLocations(fctx, subjectID, policy.HistoryWindow, policy.MaxPoints)
}

func (e *Engine) fetchAlertCount(ctx context.Context, subjectID int64, policy Policy) (int, error) {
	fctx, cancel := e.fetchContext(ctx)
	defer cancel()
	return e.store.FetchAlertCount(fctx, subjectID, policy.AlertWindow)
}

func (e *Engine) broadcast(subjectID int64, a RiskAssessment, evaluatedAt time.Time) {
	e.mu.RLock()
	b := e.broadcaster
	e.mu.RUnlock()
	if b == nil {
		return
	}

	b.BroadcastJSON(MessageTypeRiskUpdate, RiskUpdate{
		TouristID:   subjectID,
		RiskLevel:   a.Level,
		RiskScore:   a.Score,
		Anomalies:   a.Anomalies,
		AnomalyType: a.AnomalyType,
		Details:     a.Details,
		EvaluatedAt: evaluatedAt,
	})
}
