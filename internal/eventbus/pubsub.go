// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package eventbus

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/safewatch/internal/logging"
)

const (
	memoryBufferSize   = 256
	natsMaxReconnects  = -1
	natsReconnectWait  = 2 * time.Second
	natsAckWaitTimeout = 30 * time.Second
	natsSubscribers    = 2
)

// PubSub is a publisher and subscriber pair on one backend.
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	backend    string
}

// Backend returns "memory" or "nats".
func (p *PubSub) Backend() string {
	return p.backend
}

// Close closes the publisher and then the subscriber. The memory backend
// shares one object for both, and closing gochannel twice is a no-op.
func (p *PubSub) Close() error {
	pubErr := p.Publisher.Close()
	subErr := p.Subscriber.Close()
	if pubErr != nil {
		return fmt.Errorf("close publisher: %w", pubErr)
	}
	if subErr != nil {
		return fmt.Errorf("close subscriber: %w", subErr)
	}
	return nil
}

// NewMemoryPubSub returns an in-process gochannel pub/sub.
func NewMemoryPubSub(logger watermill.LoggerAdapter) *PubSub {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: memoryBufferSize,
		Persistent:          false,
	}, logger)
	return &PubSub{Publisher: ch, Subscriber: ch, backend: "memory"}
}

// NATSConfig configures the core NATS backend.
type NATSConfig struct {
	URL          string
	QueueGroup   string
	CloseTimeout time.Duration
}

// NewNATSPubSub connects a watermill-nats publisher and subscriber to url.
// JetStream is disabled: events are transient triggers and the scheduled
// batch covers anything lost while no consumer is connected.
func NewNATSPubSub(cfg NATSConfig, logger watermill.LoggerAdapter) (*PubSub, error) {
	log := logging.WithComponent("eventbus")

	natsOpts := []natsgo.Option{
		natsgo.Name("safewatch"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(natsMaxReconnects),
		natsgo.ReconnectWait(natsReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	closeTimeout := cfg.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = 30 * time.Second
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: natsSubscribers,
		AckWaitTimeout:   natsAckWaitTimeout,
		CloseTimeout:     closeTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	return &PubSub{Publisher: pub, Subscriber: sub, backend: "nats"}, nil
}
