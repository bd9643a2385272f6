// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/safewatch/internal/config"
	"github.com/tomtom215/safewatch/internal/logging"
)

// Bus owns the pub/sub backend, the optional embedded broker and the
// evaluation handlers.
type Bus struct {
	pubsub    *PubSub
	publisher *Publisher
	handler   *EvaluationHandler
	embedded  *EmbeddedServer
	routerCfg RouterConfig
	logger    watermill.LoggerAdapter

	mu      sync.Mutex
	running chan struct{}
}

// New builds a bus for cfg. Events are consumed only while Run is active.
func New(cfg *config.EventsConfig, evaluator Evaluator) (*Bus, error) {
	if evaluator == nil {
		return nil, errors.New("evaluator is required")
	}

	logger := logging.NewWatermillLogger()

	b := &Bus{
		handler:   NewEvaluationHandler(evaluator),
		routerCfg: routerConfigFrom(cfg),
		logger:    logger,
		running:   make(chan struct{}),
	}

	switch cfg.Backend {
	case "nats":
		url := cfg.URL
		if cfg.EmbeddedServer {
			embedded, err := NewEmbeddedServer(cfg.EmbeddedHost, cfg.EmbeddedPort)
			if err != nil {
				return nil, err
			}
			b.embedded = embedded
			url = embedded.ClientURL()
			logging.Info().Str("url", url).Msg("embedded NATS server started")
		}
		ps, err := NewNATSPubSub(NATSConfig{
			URL:          url,
			QueueGroup:   cfg.QueueGroup,
			CloseTimeout: cfg.CloseTimeout,
		}, logger)
		if err != nil {
			b.shutdownEmbedded(context.Background())
			return nil, err
		}
		b.pubsub = ps
	default:
		b.pubsub = NewMemoryPubSub(logger)
	}

	b.publisher = NewPublisher(b.pubsub.Publisher)
	return b, nil
}

func routerConfigFrom(cfg *config.EventsConfig) RouterConfig {
	rc := DefaultRouterConfig()
	rc.RetryMaxRetries = cfg.RetryCount
	if cfg.RetryInterval > 0 {
		rc.RetryInitialInterval = cfg.RetryInterval
	}
	if cfg.CloseTimeout > 0 {
		rc.CloseTimeout = cfg.CloseTimeout
	}
	return rc
}

// Backend returns the active backend name.
func (b *Bus) Backend() string {
	return b.pubsub.Backend()
}

// Publish sends event on its topic.
func (b *Bus) Publish(ctx context.Context, event *Event) error {
	return b.publisher.Publish(ctx, event)
}

// Run consumes events until ctx is cancelled. Each call builds a fresh
// router, so a supervisor can restart it after a failure.
func (b *Bus) Run(ctx context.Context) error {
	router, err := NewRouter(b.routerCfg, b.logger)
	if err != nil {
		return err
	}
	for _, topic := range Topics {
		router.AddConsumerHandler("evaluate_"+topic, topic, b.pubsub.Subscriber, b.handler.Handle)
	}

	go b.signalRunning(ctx, router)

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

func (b *Bus) signalRunning(ctx context.Context, router *Router) {
	select {
	case <-router.Running():
	case <-ctx.Done():
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-b.running:
	default:
		close(b.running)
	}
}

// Running is closed the first time every handler has subscribed.
func (b *Bus) Running() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Close releases the backend and stops the embedded broker. Run must have
// returned first.
func (b *Bus) Close(ctx context.Context) error {
	err := b.pubsub.Close()
	b.shutdownEmbedded(ctx)
	return err
}

func (b *Bus) shutdownEmbedded(ctx context.Context) {
	if b.embedded == nil {
		return
	}
	if err := b.embedded.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("embedded NATS shutdown incomplete")
	}
}

// EmbeddedServer returns the in-process broker, or nil.
func (b *Bus) EmbeddedServer() *EmbeddedServer {
	return b.embedded
}
