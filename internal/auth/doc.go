// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

/*
Package auth authenticates tourists and police officers.

Both roles log in with local credentials and receive an HS256 JWT:

  - tourists: email and bcrypt-hashed password stored with the tourist
  - police: a single configured officer account (POLICE_USERNAME with
    POLICE_PASSWORD or POLICE_PASSWORD_HASH)

Every token carries a unique ID (jti). Logout records the jti in a
RevocationStore backed by BadgerDB with a TTL equal to the token's
remaining lifetime, so revoked tokens stay rejected until they would have
expired anyway and the store never grows without bound.

Middleware extracts the bearer token from the Authorization header, or
from the token query parameter for WebSocket upgrades where browsers cannot
set headers, validates it and stores the Claims in the request context.
Role checks are left to package authz.

With AUTH_MODE=none every request is treated as the development officer
account. Configuration refuses this mode in production.
*/
package auth
