// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

// Package geo provides the great-circle geometry used by the risk engine.
//
// All distances use the Haversine formula on a spherical Earth. A planar
// approximation is not acceptable here because subjects are tracked at
// global scale.
package geo

import (
	"math"
	"time"
)

// EarthRadiusMeters is the mean Earth radius used by DistanceMeters.
const EarthRadiusMeters = 6371e3

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceMeters returns the great-circle distance between a and b in meters.
// The result is symmetric and exactly 0 when a == b.
func DistanceMeters(a, b Coordinate) float64 {
	if a == b {
		return 0
	}

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// SpeedKmh returns the average speed needed to cover the distance between
// from and to in the given elapsed time. The sign of elapsed is ignored.
// A zero elapsed time yields 0 rather than an infinite speed.
func SpeedKmh(from, to Coordinate, elapsed time.Duration) float64 {
	if elapsed == 0 {
		return 0
	}
	hours := math.Abs(elapsed.Hours())
	return (DistanceMeters(from, to) / 1000) / hours
}

// Centroid returns the arithmetic mean latitude and longitude of points.
// It returns the zero Coordinate for an empty slice.
//
// This is a plain mean of degrees, not a spherical centroid; it is only
// meaningful for point clouds that do not straddle the antimeridian.
func Centroid(points []Coordinate) Coordinate {
	if len(points) == 0 {
		return Coordinate{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLon += p.Longitude
	}

	n := float64(len(points))
	return Coordinate{Latitude: sumLat / n, Longitude: sumLon / n}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
