// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

// Package validation validates API request structs with
// go-playground/validator v10.
//
// A single validator instance is shared (it caches struct metadata). Field
// names in errors are the JSON names, so messages read the same as the
// request body:
//
//	type LocationUpdateRequest struct {
//	    TouristID int64   `json:"tourist_id" validate:"required,gt=0"`
//	    Latitude  float64 `json:"latitude" validate:"latitude"`
//	    Longitude float64 `json:"longitude" validate:"longitude"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError() // code VALIDATION_ERROR
//	}
//
// Custom tags:
//   - device_id: 3-64 characters of letters, digits, '-', '_', ':' or '.'
//   - phone: optional '+', then 6-20 digits with spaces, dashes or parentheses
//   - notblank: string is not empty after trimming whitespace
package validation
