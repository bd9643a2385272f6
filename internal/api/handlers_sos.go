// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/safewatch/internal/auth"
	"github.com/tomtom215/safewatch/internal/database"
	"github.com/tomtom215/safewatch/internal/eventbus"
	"github.com/tomtom215/safewatch/internal/logging"
	"github.com/tomtom215/safewatch/internal/metrics"
	ws "github.com/tomtom215/safewatch/internal/websocket"
)

// AlertListResponse is the body of GET /police/alerts.
type AlertListResponse struct {
	Count  int                         `json:"count"`
	Alerts []database.AlertWithTourist `json:"alerts"`
}

// SOSAlert raises an active alert, broadcasts it and triggers a risk
// re-evaluation.
//
// @Summary Raise an SOS alert
// @Tags SOS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SOSAlertRequest true "Alert"
// @Success 201 {object} APIResponse{data=database.SOSAlert}
// @Failure 400 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse "Unknown tourist"
// @Router /sos/alert [post]
func (h *Handler) SOSAlert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SOSAlertRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !h.authorizeTourist(w, r, req.TouristID) {
		return
	}

	tourist, ok := h.loadTourist(w, r, req.TouristID)
	if !ok {
		return
	}

	alert, err := h.db.CreateSOSAlert(r.Context(), database.NewSOSAlert{
		TouristID: tourist.ID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Message:   req.Message,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to create SOS alert", err)
		return
	}
	metrics.RecordSOSAlert()

	if h.wsHub != nil {
		h.wsHub.BroadcastSOSAlert(&ws.SOSAlertUpdate{
			AlertID:   alert.ID,
			TouristID: tourist.ID,
			DeviceID:  tourist.DeviceID,
			Name:      tourist.Name,
			Phone:     tourist.Phone,
			Latitude:  alert.Latitude,
			Longitude: alert.Longitude,
			Message:   alert.Message,
			Timestamp: alert.RaisedAt,
		})
	}

	h.publish(r.Context(), eventbus.NewSOSRaised(alert.ID, tourist.ID, alert.Latitude, alert.Longitude, alert.RaisedAt))

	logging.Ctx(r.Context()).Warn().
		Int64("tourist_id", tourist.ID).
		Int64("alert_id", alert.ID).
		Msg("SOS alert raised")

	respondSuccess(w, http.StatusCreated, alert, start)
}

// PoliceAlerts lists active alerts, newest first.
//
// @Summary Active SOS alerts
// @Tags Police
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=AlertListResponse}
// @Router /police/alerts [get]
func (h *Handler) PoliceAlerts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	alerts, err := h.db.ListActiveAlerts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to list alerts", err)
		return
	}
	if alerts == nil {
		alerts = []database.AlertWithTourist{}
	}

	respondSuccess(w, http.StatusOK, AlertListResponse{Count: len(alerts), Alerts: alerts}, start)
}

// ResolveAlert marks an alert resolved. Resolving an already resolved
// alert returns it unchanged.
//
// @Summary Resolve an SOS alert
// @Tags Police
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Alert ID"
// @Param request body ResolveAlertRequest true "New status"
// @Success 200 {object} APIResponse{data=database.SOSAlert}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /police/alerts/{id} [patch]
func (h *Handler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	var req ResolveAlertRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	alert, err := h.db.ResolveAlert(r.Context(), id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "alert not found", nil)
		return
	case errors.Is(err, database.ErrAlreadyResolved):
		respondSuccess(w, http.StatusOK, alert, start)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to resolve alert", err)
		return
	}

	officer := ""
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		officer = claims.Username
	}
	logging.Ctx(r.Context()).Info().
		Int64("alert_id", alert.ID).
		Int64("tourist_id", alert.TouristID).
		Str("officer", officer).
		Msg("SOS alert resolved")

	respondSuccess(w, http.StatusOK, alert, start)
}
