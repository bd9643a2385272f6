// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

/*
Package services adapts Safewatch components to suture.Service.

Each wrapper turns a component's lifecycle into the Serve(ctx) error form
suture expects and names itself through fmt.Stringer for supervisor logs:

  - HTTPServerService: ListenAndServe plus graceful Shutdown
  - RunnerService: anything with RunWithContext (WebSocket hub, risk scheduler)
  - EventBusService: the watermill router behind the event bus

Wrappers depend on small interfaces rather than concrete types so tests can
substitute fakes.
*/
package services
