package geo

import (
	"cmp"
	"math"
	"slices"
)

// Match pairs a record with its distance from the search center.
type Match[T any] struct {
	Record     T       `json:"record"`
	DistanceKm float64 `json:"distance_km"`
}

// ValidateRadius rejects non-positive and non-finite radii.
func ValidateRadius(radiusKm float64) error {
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
		return &InputError{Field: "radius_km", Value: radiusKm, Reason: "must be a positive number"}
	}
	return nil
}

// FindNearby returns the records whose great-circle distance from center is at most radiusKm,
// nearest first. Distances are rounded with RoundKm after filtering and ordering on the
// exact value. The input slice is not modified.
func FindNearby[T Locatable](center Point, radiusKm float64, records []T) ([]Match[T], error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateRadius(radiusKm); err != nil {
		return nil, err
	}

	box := BoundingBoxAround(center, radiusKm)
	matches := make([]Match[T], 0)
	for _, record := range records {
		loc := record.Location()
		if !box.Contains(loc) {
			continue
		}
		distance := HaversineKm(center, loc)
		if distance > radiusKm {
			continue
		}
		matches = append(matches, Match[T]{Record: record, DistanceKm: distance})
	}

	slices.SortStableFunc(matches, func(a, b Match[T]) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})
	for i := range matches {
		matches[i].DistanceKm = RoundKm(matches[i].DistanceKm)
	}
	return matches, nil
}
