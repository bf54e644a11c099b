package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for every distance and box computation.
const EarthRadiusKm = 6371.0

// ErrInvalidInput is matched by every validation failure in this package.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes a rejected coordinate or radius.
type InputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets callers use errors.Is(err, ErrInvalidInput).
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Point is a WGS84 latitude/longitude pair in degrees.
type Point struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Locatable is implemented by records that carry a position.
type Locatable interface {
	Location() Point
}

// Validate checks lat ∈ [-90, 90] and long ∈ [-180, 180].
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return &InputError{Field: "latitude", Value: p.Lat, Reason: "must be within [-90, 90]"}
	}
	if math.IsNaN(p.Long) || p.Long < -180 || p.Long > 180 {
		return &InputError{Field: "longitude", Value: p.Long, Reason: "must be within [-180, 180]"}
	}
	return nil
}

// HaversineKm returns the great-circle distance between a and b.
func HaversineKm(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLong := toRadians(b.Long - a.Long)

	sinLat := math.Sin(dLat / 2)
	sinLong := math.Sin(dLong / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLong*sinLong
	// rounding can push h a hair outside [0, 1] for antipodal points
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RoundKm rounds a distance to two decimal places.
func RoundKm(v float64) float64 {
	return math.Round(v*100) / 100
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
