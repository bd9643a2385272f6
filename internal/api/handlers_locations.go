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

// LocationHistoryResponse is the body of GET /location/history.
type LocationHistoryResponse struct {
	TouristID int64               `json:"tourist_id"`
	Hours     int                 `json:"hours"`
	Count     int                 `json:"count"`
	Locations []database.Location `json:"locations"`
}

// LocationUpdate stores a GPS fix, broadcasts it and triggers a risk
// re-evaluation.
//
// @Summary Report a location
// @Description Timestamps older than 5 minutes or more than 1 minute ahead are rejected
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LocationUpdateRequest true "GPS fix"
// @Success 201 {object} APIResponse{data=database.Location}
// @Failure 400 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse "Unknown tourist"
// @Router /location/update [post]
func (h *Handler) LocationUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req LocationUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !h.authorizeTourist(w, r, req.TouristID) {
		return
	}

	now := h.now()
	recordedAt := now
	if req.Timestamp != nil {
		if err := checkTimestamp(*req.Timestamp, now); err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeStaleTimestamp, err.Error(), nil)
			return
		}
		recordedAt = *req.Timestamp
	}

	tourist, ok := h.loadTourist(w, r, req.TouristID)
	if !ok {
		return
	}

	loc, err := h.db.InsertLocation(r.Context(), database.NewLocation{
		TouristID:  tourist.ID,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Accuracy:   req.Accuracy,
		RecordedAt: recordedAt,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to store location", err)
		return
	}
	metrics.RecordLocation()

	if h.wsHub != nil {
		h.wsHub.BroadcastLocationUpdate(&ws.LocationUpdate{
			TouristID: tourist.ID,
			DeviceID:  tourist.DeviceID,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Accuracy:  loc.Accuracy,
			Timestamp: loc.RecordedAt,
		})
	}

	h.publish(r.Context(), eventbus.NewLocationRecorded(tourist.ID, loc.Latitude, loc.Longitude, loc.RecordedAt))

	logging.Ctx(r.Context()).Debug().
		Int64("tourist_id", tourist.ID).
		Int64("location_id", loc.ID).
		Msg("location recorded")

	respondSuccess(w, http.StatusCreated, loc, start)
}

// LocationHistory lists a tourist's recent fixes, newest first. Tourists
// may omit tourist_id to read their own history.
//
// @Summary Location history
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param tourist_id query int false "Tourist ID (required for officers)"
// @Param hours query int false "Trailing window in hours" default(24)
// @Param limit query int false "Maximum fixes" default(50)
// @Success 200 {object} APIResponse{data=LocationHistoryResponse}
// @Failure 400 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /location/history [get]
func (h *Handler) LocationHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	touristID, err := queryID(r, "tourist_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if touristID == 0 {
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			touristID = claims.TouristID()
		}
		if touristID == 0 {
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "tourist_id is required", nil)
			return
		}
	}

	hours, err := queryInt(r, "hours", defaultHistoryHours, maxHistoryHours)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	limit, err := queryInt(r, "limit", defaultHistoryLimit, maxHistoryLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	if !h.authorizeTourist(w, r, touristID) {
		return
	}
	if _, ok := h.loadTourist(w, r, touristID); !ok {
		return
	}

	locations, err := h.db.LocationHistory(r.Context(), touristID, time.Duration(hours)*time.Hour, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to load location history", err)
		return
	}
	if locations == nil {
		locations = []database.Location{}
	}

	respondSuccess(w, http.StatusOK, LocationHistoryResponse{
		TouristID: touristID,
		Hours:     hours,
		Count:     len(locations),
		Locations: locations,
	}, start)
}

// loadTourist fetches a tourist, writing 404 or 500 itself.
func (h *Handler) loadTourist(w http.ResponseWriter, r *http.Request, id int64) (*database.Tourist, bool) {
	tourist, err := h.db.GetTourist(r.Context(), id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "tourist not found", nil)
		return nil, false
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to load tourist", err)
		return nil, false
	}
	return tourist, true
}
