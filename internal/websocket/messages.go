// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package websocket

import (
	"time"

	"github.com/goccy/go-json"
)

// Message types for WebSocket communication.
const (
	MessageTypeLocationUpdate = "location_update"
	MessageTypeSOSAlert       = "sos_alert"
	MessageTypeRiskUpdate     = "risk_update"
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
)

// Message is a WebSocket frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// LocationUpdate is the payload of a location_update message.
type LocationUpdate struct {
	TouristID int64     `json:"tourist_id"`
	DeviceID  string    `json:"device_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SOSAlertUpdate is the payload of a sos_alert message.
type SOSAlertUpdate struct {
	AlertID   int64     `json:"alert_id"`
	TouristID int64     `json:"tourist_id"`
	DeviceID  string    `json:"device_id"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MarshalMessage encodes a message as JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
