// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

/*
Package websocket pushes live updates to connected police dashboards.

It uses gorilla/websocket with a hub-client architecture: the Hub owns the
set of connected clients and fans every broadcast out to them, and each
Client runs a read pump and a write pump on its own goroutines.

	┌──────────┐
	│   Hub    │ ← BroadcastJSON / BroadcastLocationUpdate / BroadcastSOSAlert
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│ Client1  │ Client2 │ Client3 │
	└──────────┴─────────┴─────────┘

# Message Types

Every frame is a JSON object {"type": ..., "data": ...}:

  - location_update: a tourist reported a position (LocationUpdate)
  - sos_alert: a tourist raised an SOS alert (SOSAlertUpdate)
  - risk_update: the risk engine stored a new assessment
    (detection.RiskUpdate)
  - ping / pong: client keepalive; the server answers ping with pong

The hub satisfies detection.Broadcaster, so the risk engine publishes
risk_update without importing this package.

# Delivery

Broadcasts are queued on a buffered channel and never block the caller.
When the queue is full the message is dropped and counted in
websocket_messages_dropped_total. A client whose send buffer is full is
disconnected rather than slowing down the others. Clients receive
messages in ID order so delivery is deterministic in tests.

# Lifecycle

RunWithContext is meant for supervision. On cancellation every client is
closed and ctx.Err() is returned.
*/
package websocket
