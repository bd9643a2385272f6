// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

// Package authz decides which role may call which API route.
//
// Decisions come from a Casbin RBAC model matching request paths with
// keyMatch2 and methods with regexMatch. The built-in policy (policy.csv)
// gives tourists the reporting endpoints and police the dashboard, analysis
// and live channel. A policy file set with AUTHZ_POLICY_PATH replaces it
// and is reloaded periodically.
//
// Ownership (a tourist may only report for their own tourist_id) depends on
// the request body and is checked by the handlers, not here.
package authz
