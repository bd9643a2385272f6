// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/safewatch/internal/auth"
	"github.com/tomtom215/safewatch/internal/authz"
	"github.com/tomtom215/safewatch/internal/middleware"
)

// slowRequestThreshold marks requests logged at warn level.
const slowRequestThreshold = time.Second

// Router wires handlers and middleware into a chi route tree.
type Router struct {
	handler         *Handler
	middleware      *auth.Middleware
	authzMiddleware *authz.Middleware
	chiMiddleware   *ChiMiddleware
}

// NewRouter creates a router. A nil chiMW uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, authzMiddleware *authz.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:         handler,
		middleware:      authMiddleware,
		authzMiddleware: authzMiddleware,
		chiMiddleware:   chiMW,
	}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Route("/health", func(r chi.Router) {
			r.Get("/", router.handler.Health)
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		// Credential endpoints.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAuth())

			r.Post("/tourists/register", router.handler.Register)
			r.Post("/auth/tourist/login", router.handler.TouristLogin)
			r.Post("/auth/police/login", router.handler.PoliceLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.middleware.Authenticate)
			r.Use(router.authzMiddleware.Authorize)

			r.Post("/auth/logout", router.handler.Logout)

			r.Post("/location/update", router.handler.LocationUpdate)
			r.Get("/location/history", router.handler.LocationHistory)
			r.Post("/sos/alert", router.handler.SOSAlert)

			r.Route("/police", func(r chi.Router) {
				r.Get("/tourists", router.handler.PoliceTourists)
				r.Get("/tourists/{id}/risk-history", router.handler.RiskHistory)
				r.Get("/alerts", router.handler.PoliceAlerts)
				r.Patch("/alerts/{id}", router.handler.ResolveAlert)
			})

			r.Post("/ai/analyze", router.handler.Analyze)
			r.Post("/ai/analyze-all", router.handler.AnalyzeAll)

			r.Get("/ws", router.handler.WebSocket)
		})
	})

	return r
}
