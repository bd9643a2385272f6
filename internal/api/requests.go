// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/safewatch/internal/validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// Location timestamps must fall inside this window around the server clock.
const (
	maxLocationAge = 5 * time.Minute
	maxClockSkew   = 1 * time.Minute
)

// Query defaults and bounds.
const (
	defaultHistoryHours = 24
	maxHistoryHours     = 168
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
	defaultRiskLimit    = 50
	maxRiskLimit        = 1000
)

var (
	errEmptyBody       = errors.New("request body is empty")
	errTrailingData    = errors.New("request body must contain a single JSON object")
	errTimestampStale  = errors.New("location data is too old")
	errTimestampFuture = errors.New("location timestamp is in the future")
)

// RegisterRequest registers a tourist device.
type RegisterRequest struct {
	DeviceID string `json:"device_id" validate:"omitempty,device_id"`
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required_with=Password,omitempty,email,max=254"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

// TouristLoginRequest authenticates a tourist by email.
type TouristLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// PoliceLoginRequest authenticates the officer account.
type PoliceLoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// LocationUpdateRequest reports one GPS fix. Timestamp defaults to the
// server time when omitted.
type LocationUpdateRequest struct {
	TouristID int64      `json:"tourist_id" validate:"required,gt=0"`
	Latitude  *float64   `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64   `json:"longitude" validate:"required,min=-180,max=180"`
	Accuracy  *float64   `json:"accuracy" validate:"omitempty,min=0,max=100000"`
	Timestamp *time.Time `json:"timestamp"`
}

// SOSAlertRequest raises an alert at the tourist's position.
type SOSAlertRequest struct {
	TouristID int64    `json:"tourist_id" validate:"required,gt=0"`
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Message   string   `json:"message" validate:"omitempty,max=500"`
}

// ResolveAlertRequest changes an alert's status. Only "resolved" is accepted.
type ResolveAlertRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved"`
}

// AnalyzeRequest asks for an immediate risk evaluation.
type AnalyzeRequest struct {
	TouristID int64 `json:"tourist_id" validate:"required,gt=0"`
}

// decodeJSON reads a single JSON object from the body into dst. Unknown
// fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

// decodeAndValidate decodes and validates the body, writing the 400 itself.
// It reports whether the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidJSON, "invalid request body: "+err.Error(), nil)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		respondValidationError(w, verr)
		return false
	}
	return true
}

// checkTimestamp applies the freshness window to a client timestamp.
func checkTimestamp(ts, now time.Time) error {
	switch {
	case now.Sub(ts) > maxLocationAge:
		return errTimestampStale
	case ts.Sub(now) > maxClockSkew:
		return errTimestampFuture
	}
	return nil
}

// queryInt reads a bounded positive integer query parameter. A missing
// parameter yields def.
func queryInt(r *http.Request, key string, def, maxValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > maxValue {
		return 0, fmt.Errorf("%s must be an integer between 1 and %d", key, maxValue)
	}
	return v, nil
}

// queryID reads an optional positive int64 query parameter; 0 means absent.
func queryID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return id, nil
}

// pathID reads the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}
