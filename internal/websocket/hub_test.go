// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/safewatch/internal/logging"
	"github.com/tomtom215/safewatch/internal/metrics"
)

//nolint:gochecknoinits // keep test output quiet
func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// testClient builds a client without a connection; only its send channel is used.
func testClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("client channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestNewHubWithBuffer_MinimumSize(t *testing.T) {
	hub := NewHubWithBuffer(0)
	if cap(hub.broadcast) != 1 {
		t.Errorf("broadcast capacity = %d, want 1", cap(hub.broadcast))
	}
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := startHub(t)
	a, b := testClient(hub, 8), testClient(hub, 8)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.BroadcastJSON(MessageTypeRiskUpdate, map[string]interface{}{"tourist_id": 7, "risk_level": "high"})

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		if msg.Type != MessageTypeRiskUpdate {
			t.Errorf("client %d got type %q, want risk_update", c.id, msg.Type)
		}
	}
}

func TestHub_TypedBroadcasts(t *testing.T) {
	hub := startHub(t)
	c := testClient(hub, 8)
	hub.Register <- c
	waitForClients(t, hub, 1)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	hub.BroadcastLocationUpdate(&LocationUpdate{TouristID: 1, DeviceID: "dev-1", Latitude: 48.85, Longitude: 2.35, Timestamp: now})
	hub.BroadcastSOSAlert(&SOSAlertUpdate{AlertID: 3, TouristID: 1, DeviceID: "dev-1", Timestamp: now})

	loc := receive(t, c)
	if loc.Type != MessageTypeLocationUpdate {
		t.Fatalf("first message type = %q", loc.Type)
	}
	if upd, ok := loc.Data.(*LocationUpdate); !ok || upd.DeviceID != "dev-1" {
		t.Errorf("location payload = %#v", loc.Data)
	}

	sos := receive(t, c)
	if sos.Type != MessageTypeSOSAlert {
		t.Fatalf("second message type = %q", sos.Type)
	}
	if upd, ok := sos.Data.(*SOSAlertUpdate); !ok || upd.AlertID != 3 {
		t.Errorf("sos payload = %#v", sos.Data)
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := startHub(t)
	c := testClient(hub, 1)
	hub.Register <- c
	waitForClients(t, hub, 1)

	hub.Unregister <- c
	waitForClients(t, hub, 0)

	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unregister")
	}

	// A second unregister must not panic on a closed channel.
	hub.Unregister <- c
}

func TestHub_SlowClientIsDisconnected(t *testing.T) {
	hub := startHub(t)
	slow := testClient(hub, 1)
	fast := testClient(hub, 8)
	hub.Register <- slow
	hub.Register <- fast
	waitForClients(t, hub, 2)

	hub.BroadcastJSON("first", nil)
	receive(t, fast)
	hub.BroadcastJSON("second", nil)
	receive(t, fast)

	waitForClients(t, hub, 1)
	if msg := receive(t, slow); msg.Type != "first" {
		t.Errorf("slow client buffered %q, want first", msg.Type)
	}
	if _, ok := <-slow.send; ok {
		t.Error("slow client channel should be closed")
	}
}

func TestHub_FullQueueDropsMessage(t *testing.T) {
	hub := NewHubWithBuffer(1) // not running, so nothing drains the queue
	before := testutil.ToFloat64(metrics.WSMessagesDropped)

	hub.BroadcastJSON("kept", nil)
	hub.BroadcastJSON("dropped", nil)

	if got := testutil.ToFloat64(metrics.WSMessagesDropped) - before; got != 1 {
		t.Errorf("dropped counter delta = %v, want 1", got)
	}
	if msg := <-hub.broadcast; msg.Type != "kept" {
		t.Errorf("queued message = %q, want kept", msg.Type)
	}
}

func TestHub_RunWithContextClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	c := testClient(hub, 1)
	hub.Register <- c
	waitForClients(t, hub, 1)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("clients left after shutdown: %d", hub.GetClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel should be closed on shutdown")
	}
}

func TestShutdownReason(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := shutdownReason(canceled); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled reason = %q", got)
	}

	expired, cancel2 := context.WithTimeout(context.Background(), -time.Second)
	defer cancel2()
	if got := shutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline reason = %q", got)
	}
}
