// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/safewatch/internal/auth"
	"github.com/tomtom215/safewatch/internal/config"
	"github.com/tomtom215/safewatch/internal/database"
	"github.com/tomtom215/safewatch/internal/detection"
	"github.com/tomtom215/safewatch/internal/eventbus"
	"github.com/tomtom215/safewatch/internal/logging"
	ws "github.com/tomtom215/safewatch/internal/websocket"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Evaluator runs risk evaluations on demand.
type Evaluator interface {
	EvaluateSubject(ctx context.Context, subjectID int64) (*detection.Evaluation, error)
	EvaluateAll(ctx context.Context) (*detection.BatchResult, error)
}

// EventPublisher announces stored locations and alerts.
type EventPublisher interface {
	Publish(ctx context.Context, event *eventbus.Event) error
}

// TokenRevoker invalidates a token before it expires.
type TokenRevoker interface {
	Revoke(ctx context.Context, claims *auth.Claims) error
}

// publishTimeout bounds a single event publish on the request path.
const publishTimeout = 2 * time.Second

// Handler serves every API endpoint.
type Handler struct {
	db         *database.DB
	config     *config.Config
	evaluator  Evaluator
	wsHub      *ws.Hub
	jwtManager *auth.JWTManager
	officer    *auth.OfficerAccount
	revoker    TokenRevoker
	events     EventPublisher
	audit      *logging.AuthLogger

	bcryptCost int
	startTime  time.Time
	now        func() time.Time
}

// NewHandler creates a handler. jwtManager may be nil when AUTH_MODE is
// none; the login endpoints then answer 403.
func NewHandler(db *database.DB, cfg *config.Config, evaluator Evaluator, wsHub *ws.Hub, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		db:         db,
		config:     cfg,
		evaluator:  evaluator,
		wsHub:      wsHub,
		jwtManager: jwtManager,
		audit:      logging.NewAuthLogger(),
		bcryptCost: auth.DefaultBcryptCost,
		startTime:  time.Now(),
		now:        time.Now,
	}
}

// SetOfficerAccount enables police login.
func (h *Handler) SetOfficerAccount(officer *auth.OfficerAccount) {
	h.officer = officer
}

// SetTokenRevoker enables logout revocation.
func (h *Handler) SetTokenRevoker(revoker TokenRevoker) {
	h.revoker = revoker
}

// SetEventPublisher enables location and SOS events. Without a publisher
// only the scheduled batch re-evaluates subjects.
func (h *Handler) SetEventPublisher(publisher EventPublisher) {
	h.events = publisher
}

// publish sends event with its own timeout. The request's correlation ID is
// kept but its cancellation is not, so a client disconnect does not drop
// the event.
func (h *Handler) publish(ctx context.Context, event *eventbus.Event) {
	if h.events == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := h.events.Publish(pubCtx, event); err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("topic", event.Topic).
			Int64("tourist_id", event.TouristID).
			Msg("failed to publish event, scheduled evaluation will cover it")
	}
}

// authorizeTourist allows officers, and tourists acting on their own ID.
// It writes the 403 itself and reports whether to continue.
func (h *Handler) authorizeTourist(w http.ResponseWriter, r *http.Request, touristID int64) bool {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required", nil)
		return false
	}
	if claims.IsPolice() || claims.TouristID() == touristID {
		return true
	}

	h.audit.Log(logging.AuthEvent{
		Event:   logging.AuthEventAccessDenied,
		Role:    claims.Role,
		Subject: claims.Subject,
		IP:      r.RemoteAddr,
		Reason:  "tourist_id mismatch",
	})
	respondError(w, http.StatusForbidden, ErrCodeForbidden, "tourists may only access their own records", nil)
	return false
}

// getUpgrader creates a WebSocket upgrader with origin checking.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts configured CORS origins. Browsers always
// send Origin on a WebSocket handshake, so a missing header is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
