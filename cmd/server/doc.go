// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

/*
Package main is the entry point for the Safewatch server.

Safewatch collects GPS fixes and SOS alerts from tourists' phones, scores each
tourist's recent movement for signs of trouble, and serves the results to a
police dashboard over REST and a live WebSocket feed.

# Application Architecture

	RootSupervisor ("safewatch")
	├── ProcessingSupervisor ("processing-layer")
	│   ├── Event bus router (location.recorded, sos.raised)
	│   └── Risk scheduler (EvaluateAll every ANALYSIS_INTERVAL)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket hub
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi)

Component initialization order:

 1. Configuration: koanf v2 (defaults, optional YAML file, environment)
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB
 4. Risk engine: policy from config, gobreaker-wrapped store
 5. Event bus: watermill over gochannel or NATS (optionally embedded)
 6. Authentication: JWT, bcrypt police account, badger revocation list
 7. Authorization: casbin route policy
 8. Supervisor tree: suture v4
 9. HTTP server

# Configuration

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=5000
	ENVIRONMENT=production
	LOG_LEVEL=info                # trace, debug, info, warn, error
	LOG_FORMAT=json               # json or console

	# Database
	DUCKDB_PATH=/data/safewatch.duckdb

	# Authentication
	AUTH_MODE=jwt                 # jwt or none (none is refused in production)
	JWT_SECRET=<32+ chars>
	POLICE_USERNAME=police
	POLICE_PASSWORD=<password>    # or POLICE_PASSWORD_HASH=<bcrypt>
	REVOCATION_STORE_PATH=/data/revocations

	# Risk analysis
	ANALYSIS_INTERVAL=5m

	# Events
	EVENTS_ENABLED=true
	EVENTS_BACKEND=memory         # memory or nats
	NATS_URL=nats://127.0.0.1:4222
	NATS_EMBEDDED=false

See the config package for the full list.

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up to
HTTP_SHUTDOWN_TIMEOUT; the event bus and database are closed after the
tree stops.
*/
package main
