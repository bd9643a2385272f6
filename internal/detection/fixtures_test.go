// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"math"
	"time"

	"github.com/tomtom215/safewatch/internal/geo"
)

var (
	testOrigin = geo.Coordinate{Latitude: 48.8566, Longitude: 2.3522}
	testStart  = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
)

// leg is one northward movement between consecutive fixes.
type leg struct {
	speedKmh float64
	duration time.Duration
}

// trackFromLegs builds a newest-first series starting at testOrigin and
// testStart. Legs are given oldest first. Moving due north keeps the
// Haversine distance equal to the requested distance.
func trackFromLegs(legs ...leg) LocationSeries {
	points := []LocationPoint{{
		Latitude:  testOrigin.Latitude,
		Longitude: testOrigin.Longitude,
		Timestamp: testStart,
	}}

	pos := testOrigin
	ts := testStart
	north := 0.0
	for _, l := range legs {
		north += l.speedKmh * 1000 * l.duration.Hours()
		pos = offsetMeters(testOrigin, north, 0)
		ts = ts.Add(l.duration)
		points = append(points, LocationPoint{Latitude: pos.Latitude, Longitude: pos.Longitude, Timestamp: ts})
	}

	return newestFirst(points)
}

// offsetMeters moves origin north and east by the given meters using a local
// equirectangular approximation.
func offsetMeters(origin geo.Coordinate, northMeters, eastMeters float64) geo.Coordinate {
	dLat := northMeters / geo.EarthRadiusMeters
	dLon := eastMeters / (geo.EarthRadiusMeters * math.Cos(origin.Latitude*math.Pi/180))
	return geo.Coordinate{
		Latitude:  origin.Latitude + dLat*180/math.Pi,
		Longitude: origin.Longitude + dLon*180/math.Pi,
	}
}

// pointAt returns a fix offset from testOrigin, minutes after testStart.
func pointAt(northMeters, eastMeters float64, minutes int) LocationPoint {
	c := offsetMeters(testOrigin, northMeters, eastMeters)
	return LocationPoint{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Timestamp: testStart.Add(time.Duration(minutes) * time.Minute),
	}
}

// newestFirst reverses a chronological slice.
func newestFirst(chronological []LocationPoint) LocationSeries {
	out := make(LocationSeries, len(chronological))
	for i, p := range chronological {
		out[len(chronological)-1-i] = p
	}
	return out
}
