// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/safewatch/internal/database"
)

// TouristListResponse is the body of GET /police/tourists.
type TouristListResponse struct {
	Count    int                        `json:"count"`
	Tourists []database.TouristOverview `json:"tourists"`
}

// RiskHistoryResponse is the body of GET /police/tourists/{id}/risk-history.
type RiskHistoryResponse struct {
	TouristID int64                 `json:"tourist_id"`
	Count     int                   `json:"count"`
	History   []database.RiskRecord `json:"history"`
}

// PoliceTourists lists every tourist with their latest fix, active SOS
// count and latest risk assessment. Tourists with active alerts come first,
// then higher risk scores.
//
// @Summary Tourist overview
// @Tags Police
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=TouristListResponse}
// @Router /police/tourists [get]
func (h *Handler) PoliceTourists(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tourists, err := h.db.ListTouristOverview(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to list tourists", err)
		return
	}
	if tourists == nil {
		tourists = []database.TouristOverview{}
	}

	respondSuccess(w, http.StatusOK, TouristListResponse{Count: len(tourists), Tourists: tourists}, start)
}

// RiskHistory lists a tourist's stored risk assessments, newest first.
//
// @Summary Risk history
// @Tags Police
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tourist ID"
// @Param limit query int false "Maximum records" default(50)
// @Success 200 {object} APIResponse{data=RiskHistoryResponse}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /police/tourists/{id}/risk-history [get]
func (h *Handler) RiskHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	limit, err := queryInt(r, "limit", defaultRiskLimit, maxRiskLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	if _, ok := h.loadTourist(w, r, id); !ok {
		return
	}

	history, err := h.db.RiskHistory(r.Context(), id, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to load risk history", err)
		return
	}
	if history == nil {
		history = []database.RiskRecord{}
	}

	respondSuccess(w, http.StatusOK, RiskHistoryResponse{
		TouristID: id,
		Count:     len(history),
		History:   history,
	}, start)
}
