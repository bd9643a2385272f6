// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/safewatch/internal/detection"
)

// BatchResponse is the body of POST /ai/analyze-all.
type BatchResponse struct {
	Subjects   int                         `json:"subjects"`
	Evaluated  int                         `json:"evaluated"`
	Levels     map[detection.RiskLevel]int `json:"levels"`
	Failures   []detection.SubjectFailure  `json:"failures"`
	DurationMS int64                       `json:"duration_ms"`
}

// Analyze evaluates one tourist immediately and returns the assessment and
// the movement flags behind it.
//
// @Summary Analyze one tourist
// @Tags Analysis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnalyzeRequest true "Tourist"
// @Success 200 {object} APIResponse{data=detection.Evaluation}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /ai/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req AnalyzeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := h.loadTourist(w, r, req.TouristID); !ok {
		return
	}

	eval, err := h.evaluator.EvaluateSubject(r.Context(), req.TouristID)
	switch {
	case errors.Is(err, detection.ErrInvalidSubject):
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeAnalysisFailed, "failed to analyze tourist safety", err)
		return
	}

	respondSuccess(w, http.StatusOK, eval, start)
}

// AnalyzeAll runs the batch evaluation over every active tourist. Individual
// failures are reported in the body; only a failure to list tourists fails
// the request.
//
// @Summary Analyze all active tourists
// @Tags Analysis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=BatchResponse}
// @Failure 500 {object} APIResponse
// @Router /ai/analyze-all [post]
func (h *Handler) AnalyzeAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	result, err := h.evaluator.EvaluateAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeAnalysisFailed, "failed to run batch analysis", err)
		return
	}

	respondSuccess(w, http.StatusOK, BatchResponse{
		Subjects:   result.Subjects,
		Evaluated:  result.Evaluated,
		Levels:     result.Levels,
		Failures:   result.Failures,
		DurationMS: result.Duration.Milliseconds(),
	}, start)
}
