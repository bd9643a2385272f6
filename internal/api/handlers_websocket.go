// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/safewatch/internal/auth"
	"github.com/tomtom215/safewatch/internal/logging"
	ws "github.com/tomtom215/safewatch/internal/websocket"
)

// registerTimeout bounds the wait for the hub to accept a new client.
const registerTimeout = 5 * time.Second

// WebSocket upgrades the connection and streams location_update, sos_alert
// and risk_update messages. Browsers pass the token as ?token= because the
// WebSocket API cannot set headers.
//
// @Summary Live updates
// @Tags Live
// @Security BearerAuth
// @Param token query string false "Bearer token"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	identity := "anonymous"
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		identity = claims.Username
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn, identity)

	timer := time.NewTimer(registerTimeout)
	defer timer.Stop()

	select {
	case h.wsHub.Register <- client:
		client.Start()
	case <-timer.C:
		logging.Warn().Str("identity", identity).Msg("WebSocket hub not accepting clients, closing connection")
		_ = conn.Close()
	}
}
