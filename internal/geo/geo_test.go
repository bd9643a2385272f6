// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package geo

import (
	"math"
	"testing"
	"time"
)

func TestDistanceMeters(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Coordinate
		want      float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         Coordinate{Latitude: 28.6139, Longitude: 77.2090},
			b:         Coordinate{Latitude: 28.6139, Longitude: 77.2090},
			want:      0,
			tolerance: 0,
		},
		{
			name:      "one degree of latitude",
			a:         Coordinate{Latitude: 0, Longitude: 0},
			b:         Coordinate{Latitude: 1, Longitude: 0},
			want:      EarthRadiusMeters * math.Pi / 180,
			tolerance: 0.01,
		},
		{
			name:      "paris to london",
			a:         Coordinate{Latitude: 48.8566, Longitude: 2.3522},
			b:         Coordinate{Latitude: 51.5074, Longitude: -0.1278},
			want:      343_500,
			tolerance: 1_000,
		},
		{
			name:      "antipodal points",
			a:         Coordinate{Latitude: 0, Longitude: 0},
			b:         Coordinate{Latitude: 0, Longitude: 180},
			want:      math.Pi * EarthRadiusMeters,
			tolerance: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceMeters() = %.3f, want %.3f (+/- %.3f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	points := []Coordinate{
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 40.7128, Longitude: -74.0060},
		{Latitude: 89.9, Longitude: 10},
		{Latitude: -89.9, Longitude: -170},
		{Latitude: 15.2993, Longitude: 74.1240},
	}

	for i := range points {
		for j := range points {
			ab := DistanceMeters(points[i], points[j])
			ba := DistanceMeters(points[j], points[i])
			if math.Abs(ab-ba) > 1e-6 {
				t.Errorf("distance(%v,%v)=%f but distance(%v,%v)=%f", points[i], points[j], ab, points[j], points[i], ba)
			}
			if ab < 0 {
				t.Errorf("distance(%v,%v) is negative: %f", points[i], points[j], ab)
			}
		}
	}
}

func TestSpeedKmh(t *testing.T) {
	origin := Coordinate{Latitude: 15.4909, Longitude: 73.8278}
	hundredKm := offsetMeters(origin, 100_000, 0)

	tests := []struct {
		name      string
		elapsed   time.Duration
		to        Coordinate
		want      float64
		tolerance float64
	}{
		{"zero elapsed is zero speed", 0, hundredKm, 0, 0},
		{"100 km in 10 minutes", 10 * time.Minute, hundredKm, 600, 1},
		{"negative elapsed uses magnitude", -10 * time.Minute, hundredKm, 600, 1},
		{"stationary", time.Hour, origin, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpeedKmh(origin, tt.to, tt.elapsed)
			if got < 0 {
				t.Fatalf("SpeedKmh() = %f, must not be negative", got)
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("SpeedKmh() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	if got := Centroid(nil); got != (Coordinate{}) {
		t.Errorf("Centroid(nil) = %v, want zero value", got)
	}

	got := Centroid([]Coordinate{
		{Latitude: 10, Longitude: 20},
		{Latitude: 20, Longitude: 40},
		{Latitude: 30, Longitude: 60},
	})
	want := Coordinate{Latitude: 20, Longitude: 40}
	if math.Abs(got.Latitude-want.Latitude) > 1e-9 || math.Abs(got.Longitude-want.Longitude) > 1e-9 {
		t.Errorf("Centroid() = %v, want %v", got, want)
	}
}

func TestoffsetMeters(t *testing.T) {
	origin := Coordinate{Latitude: 48.8566, Longitude: 2.3522}

	north := offsetMeters(origin, 500, 0)
	if d := DistanceMeters(origin, north); math.Abs(d-500) > 1 {
		t.Errorf("north offset distance = %f, want ~500", d)
	}

	east := offsetMeters(origin, 0, 2_000)
	if d := DistanceMeters(origin, east); math.Abs(d-2_000) > 2 {
		t.Errorf("east offset distance = %f, want ~2000", d)
	}
}

// offsetMeters moves origin north and east by the given meters using a local
// equirectangular approximation.
func offsetMeters(origin Coordinate, northMeters, eastMeters float64) Coordinate {
	dLat := northMeters / EarthRadiusMeters
	dLon := eastMeters / (EarthRadiusMeters * math.Cos(toRadians(origin.Latitude)))
	return Coordinate{
		Latitude:  origin.Latitude + dLat*180/math.Pi,
		Longitude: origin.Longitude + dLon*180/math.Pi,
	}
}
