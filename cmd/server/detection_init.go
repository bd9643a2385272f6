// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package main

import (
	"fmt"

	"github.com/tomtom215/safewatch/internal/config"
	"github.com/tomtom215/safewatch/internal/detection"
)

// policyFromConfig builds the risk policy from the analysis section.
func policyFromConfig(cfg *config.AnalysisConfig) (detection.Policy, error) {
	var p detection.Policy

	p.Weights = map[detection.Anomaly]int{
		detection.AnomalyFrequentAlerts:    cfg.Weights.FrequentAlerts,
		detection.AnomalyStationaryTooLong: cfg.Weights.StationaryTooLong,
		detection.AnomalySuddenStop:        cfg.Weights.SuddenStop,
		detection.AnomalyUnusualSpeed:      cfg.Weights.UnusualSpeed,
		detection.AnomalyRouteDeviation:    cfg.Weights.RouteDeviation,
	}
	p.Bands = detection.Bands{
		Medium:   cfg.Bands.Medium,
		High:     cfg.Bands.High,
		Critical: cfg.Bands.Critical,
	}

	ct := cfg.Thresholds
	p.Thresholds = detection.Thresholds{
		SuddenStopMinPoints:        ct.SuddenStopMinPoints,
		SuddenStopMinSpeedKmh:      ct.SuddenStopMinSpeedKmh,
		SuddenStopResidualRatio:    ct.SuddenStopResidualRatio,
		UnusualSpeedKmh:            ct.UnusualSpeedKmh,
		StationaryPoints:           ct.StationaryPoints,
		StationaryRadiusMeters:     ct.StationaryRadiusMeters,
		StationaryMinDuration:      ct.StationaryMinDuration,
		FrequentAlertCount:         ct.FrequentAlertCount,
		RouteDeviationMinPoints:    ct.RouteDeviationMinPoints,
		RouteDeviationRecentPoints: ct.RouteDeviationRecentPoints,
		RouteDeviationMeters:       ct.RouteDeviationMeters,
	}

	p.HistoryWindow = cfg.HistoryWindow
	p.MaxPoints = cfg.MaxPoints
	p.AlertWindow = cfg.AlertWindow

	if err := p.Validate(); err != nil {
		return detection.Policy{}, fmt.Errorf("invalid analysis policy: %w", err)
	}
	return p, nil
}

// initDetection builds the risk engine over a circuit-broken view of store.
func initDetection(store detection.Store, cfg *config.AnalysisConfig) (*detection.Engine, error) {
	policy, err := policyFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	breakerCfg := detection.DefaultBreakerConfig()
	breakerCfg.MaxRequests = cfg.Breaker.MaxRequests
	breakerCfg.Interval = cfg.Breaker.Interval
	breakerCfg.Timeout = cfg.Breaker.Timeout
	breakerCfg.MinRequests = cfg.Breaker.MinRequests
	breakerCfg.FailureRatio = cfg.Breaker.FailureRatio

	engineCfg := detection.DefaultEngineConfig()
	engineCfg.Policy = policy
	engineCfg.Concurrency = cfg.Concurrency
	engineCfg.FetchTimeout = cfg.FetchTimeout
	engineCfg.FetchRate = cfg.FetchRate
	engineCfg.FetchBurst = cfg.FetchBurst

	engine, err := detection.NewEngine(detection.NewBreakerStore(store, breakerCfg), engineCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create risk engine: %w", err)
	}
	return engine, nil
}
