package eligibility

import (
	"errors"
	"math"
)

type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Zone is a circular geofence around a campus location.
type Zone struct {
	Center       GeoPoint
	RadiusMeters float64
}

// ErrIncompleteZone marks a geofence that was never fully configured. It is
// distinct from being outside the fence so callers can tell the student a
// different story.
var ErrIncompleteZone = errors.New("geofence zone is incomplete")

const earthRadiusMeters = 6371000.0

// Contains reports whether the point sits inside the fence. The boundary
// itself counts as inside.
func (zone Zone) Contains(point GeoPoint) (bool, error) {
	if zone.RadiusMeters <= 0 {
		return false, ErrIncompleteZone
	}
	return HaversineMeters(zone.Center, point) <= zone.RadiusMeters, nil
}

// HaversineMeters computes the great-circle distance between two points.
func HaversineMeters(a GeoPoint, b GeoPoint) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
