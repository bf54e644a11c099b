package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

// edgePaddingDeg widens every box edge so points lying exactly on the circle survive float error.
const edgePaddingDeg = 1e-9

// minPolarCos is the smallest cos(latitude) the longitude formula divides by.
const minPolarCos = 1e-12

// BoundingBox is a latitude/longitude rectangle in degrees.
// MinLong > MaxLong means the box crosses the antimeridian.
type BoundingBox struct {
	MinLat  float64 `json:"min_lat"`
	MaxLat  float64 `json:"max_lat"`
	MinLong float64 `json:"min_long"`
	MaxLong float64 `json:"max_long"`
}

// BoundingBoxAround returns a box that contains every point within radiusKm of center.
// When the circle reaches a pole the box spans all longitudes.
func BoundingBoxAround(center Point, radiusKm float64) BoundingBox {
	angular := radiusKm / EarthRadiusKm
	lat := toRadians(center.Lat)
	long := toRadians(center.Long)

	minLat := lat - angular
	maxLat := lat + angular

	cosLat := math.Cos(lat)
	if minLat <= -math.Pi/2 || maxLat >= math.Pi/2 || cosLat < minPolarCos {
		return BoundingBox{
			MinLat:  math.Max(-90, toDegrees(minLat)-edgePaddingDeg),
			MaxLat:  math.Min(90, toDegrees(maxLat)+edgePaddingDeg),
			MinLong: -180,
			MaxLong: 180,
		}
	}

	// angular < π/2 - |lat| here, so the ratio stays below 1
	deltaLong := math.Asin(math.Sin(angular) / cosLat)
	minLong := toDegrees(long-deltaLong) - edgePaddingDeg
	maxLong := toDegrees(long+deltaLong) + edgePaddingDeg
	if minLong < -180 {
		minLong += 360
	}
	if maxLong > 180 {
		maxLong -= 360
	}

	return BoundingBox{
		MinLat:  toDegrees(minLat) - edgePaddingDeg,
		MaxLat:  toDegrees(maxLat) + edgePaddingDeg,
		MinLong: minLong,
		MaxLong: maxLong,
	}
}

// CrossesAntimeridian reports whether the longitude range wraps past ±180.
func (b BoundingBox) CrossesAntimeridian() bool {
	return b.MinLong > b.MaxLong
}

// Contains reports whether p falls inside the box, edges included.
func (b BoundingBox) Contains(p Point) bool {
	if !(p.Lat >= b.MinLat && p.Lat <= b.MaxLat) {
		return false
	}
	if b.CrossesAntimeridian() {
		return p.Long >= b.MinLong || p.Long <= b.MaxLong
	}
	return p.Long >= b.MinLong && p.Long <= b.MaxLong
}

// Envelopes splits the box into non-wrapping XY rectangles (X = longitude, Y = latitude).
// A box crossing the antimeridian yields two envelopes, any other box one.
func (b BoundingBox) Envelopes() []*geom.Bounds {
	if !b.CrossesAntimeridian() {
		return []*geom.Bounds{
			geom.NewBounds(geom.XY).Set(b.MinLong, b.MinLat, b.MaxLong, b.MaxLat),
		}
	}
	return []*geom.Bounds{
		geom.NewBounds(geom.XY).Set(b.MinLong, b.MinLat, 180, b.MaxLat),
		geom.NewBounds(geom.XY).Set(-180, b.MinLat, b.MaxLong, b.MaxLat),
	}
}
