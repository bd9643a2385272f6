// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

/*
Package eventbus carries tourist activity events from the HTTP handlers to
the risk engine.

Recording a location fix or raising an SOS alert publishes an Event. A
watermill router consumes both topics and re-evaluates the tourist, so a
new fix is scored within seconds instead of waiting for the next scheduled
batch.

# Topics

  - location.recorded: a location fix was stored
  - sos.raised: an SOS alert was created

# Backends

The memory backend uses watermill's gochannel pub/sub and needs no broker.
The nats backend uses watermill-nats on core NATS (no JetStream) with a
queue group, so several instances share the evaluation work. With
events.embedded_server set, an in-process nats-server is started and the
bus connects to it.

# Delivery

Handlers are wrapped in watermill's Recoverer and Retry middleware. Events
that can never succeed (malformed payloads, invalid tourist IDs) are
acknowledged and logged rather than retried. Losing an event is tolerable:
the scheduled batch evaluates every active tourist anyway.
*/
package eventbus
