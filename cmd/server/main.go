// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/safewatch/docs" // swagger document
	"github.com/tomtom215/safewatch/internal/api"
	"github.com/tomtom215/safewatch/internal/auth"
	"github.com/tomtom215/safewatch/internal/authz"
	"github.com/tomtom215/safewatch/internal/config"
	"github.com/tomtom215/safewatch/internal/database"
	"github.com/tomtom215/safewatch/internal/detection"
	"github.com/tomtom215/safewatch/internal/eventbus"
	"github.com/tomtom215/safewatch/internal/logging"
	"github.com/tomtom215/safewatch/internal/supervisor"
	"github.com/tomtom215/safewatch/internal/supervisor/services"
	ws "github.com/tomtom215/safewatch/internal/websocket"
)

//nolint:gocyclo // sequential component setup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting Safewatch")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS for production")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === RISK ENGINE ===

	wsHub := ws.NewHub()

	engine, err := initDetection(db, &cfg.Analysis)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize risk engine")
	}
	engine.SetBroadcaster(wsHub)

	scheduler := detection.NewScheduler(engine, cfg.Analysis.Interval, cfg.Analysis.RunAtStartup)

	// === EVENT BUS ===

	var bus *eventbus.Bus
	if cfg.Events.Enabled {
		bus, err = eventbus.New(&cfg.Events, engine)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize event bus")
		}
		logging.Info().Str("backend", bus.Backend()).Msg("Event bus initialized")
	} else {
		logging.Info().Msg("Event bus disabled; risk is re-evaluated on the scheduler only")
	}

	// === AUTHENTICATION ===

	var (
		jwtManager  *auth.JWTManager
		officer     *auth.OfficerAccount
		revocations *auth.RevocationStore
		checker     auth.RevocationChecker
	)
	if cfg.Security.AuthMode == "jwt" {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		officer, err = auth.NewOfficerAccount(&cfg.Security, auth.DefaultBcryptCost)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize police account")
		}
		revocations, err = auth.OpenRevocationStore(cfg.Security.RevocationStorePath)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open token revocation store")
		}
		defer func() {
			if err := revocations.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing revocation store")
			}
		}()
		checker = revocations
		logging.Info().Str("police_username", officer.Username()).Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("Authentication disabled (AUTH_MODE=none); every request acts as a police officer")
	}

	enforcerCfg := authz.DefaultEnforcerConfig()
	enforcerCfg.PolicyPath = cfg.Security.AuthzPolicyPath
	enforcerCfg.ReloadInterval = cfg.Security.AuthzReloadInterval
	enforcer, err := authz.NewEnforcer(enforcerCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization policy")
	}
	defer enforcer.Close()
	logging.Info().Str("source", enforcer.Source()).Msg("Authorization policy loaded")

	// === HTTP ===

	handler := api.NewHandler(db, cfg, engine, wsHub, jwtManager)
	if officer != nil {
		handler.SetOfficerAccount(officer)
	}
	if revocations != nil {
		handler.SetTokenRevoker(revocations)
	}
	if bus != nil {
		handler.SetEventPublisher(bus)
	}

	router := api.NewRouter(
		handler,
		auth.NewMiddleware(jwtManager, checker, cfg.Security.AuthMode),
		authz.NewMiddleware(enforcer),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddProcessingService(services.NewSchedulerService(scheduler))
	if bus != nil {
		tree.AddProcessingService(services.NewEventBusService(bus))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().
		Dur("analysis_interval", scheduler.Interval()).
		Msg("Starting supervisor tree")
	// The root supervisor only returns once ctx is canceled.
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if bus != nil {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.Events.CloseTimeout)
		if err := bus.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
		closeCancel()
	}

	logging.Info().Msg("Safewatch stopped gracefully")
}
