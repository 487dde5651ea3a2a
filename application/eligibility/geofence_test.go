package eligibility

import (
	"errors"
	"math"
	"testing"
)

func TestZoneContains(t *testing.T) {
	center := GeoPoint{Latitude: 6.5244, Longitude: 3.3792}
	// roughly 55m north of the center
	nearby := GeoPoint{Latitude: center.Latitude + 0.0005, Longitude: center.Longitude}

	t.Run("the center is inside", func(t *testing.T) {
		inside, err := Zone{Center: center, RadiusMeters: 50}.Contains(center)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !inside {
			t.Error("expected the center point to be inside its own fence")
		}
	})

	t.Run("a point past the radius is outside", func(t *testing.T) {
		inside, err := Zone{Center: center, RadiusMeters: 50}.Contains(nearby)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if inside {
			t.Error("expected a point 55m out to be outside a 50m fence")
		}
	})

	t.Run("a wider radius admits the same point", func(t *testing.T) {
		inside, err := Zone{Center: center, RadiusMeters: 100}.Contains(nearby)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !inside {
			t.Error("expected a point 55m out to be inside a 100m fence")
		}
	})

	t.Run("zero radius is an incomplete zone", func(t *testing.T) {
		_, err := Zone{Center: center}.Contains(center)
		if !errors.Is(err, ErrIncompleteZone) {
			t.Fatalf("expected ErrIncompleteZone, got %v", err)
		}
	})

	t.Run("negative radius is an incomplete zone", func(t *testing.T) {
		_, err := Zone{Center: center, RadiusMeters: -10}.Contains(center)
		if !errors.Is(err, ErrIncompleteZone) {
			t.Fatalf("expected ErrIncompleteZone, got %v", err)
		}
	})
}

func TestHaversineMeters(t *testing.T) {
	a := GeoPoint{Latitude: 6.5244, Longitude: 3.3792}
	b := GeoPoint{Latitude: 6.5244 + 0.0005, Longitude: 3.3792}

	t.Run("half a millidegree of latitude is about 55m", func(t *testing.T) {
		distance := HaversineMeters(a, b)
		if math.Abs(distance-55.6) > 1.0 {
			t.Errorf("expected roughly 55.6m, got %.2f", distance)
		}
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		if HaversineMeters(a, b) != HaversineMeters(b, a) {
			t.Error("expected the same distance in both directions")
		}
	})

	t.Run("coincident points are zero apart", func(t *testing.T) {
		if HaversineMeters(a, a) != 0 {
			t.Error("expected zero distance for identical points")
		}
	})
}
