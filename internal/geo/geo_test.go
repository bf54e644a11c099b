package geo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type site struct {
	id  string
	loc Point
}

func (s site) Location() Point { return s.loc }

func TestPointValidate(t *testing.T) {
	tests := []struct {
		name    string
		point   Point
		wantErr bool
	}{
		{name: "origin", point: Point{0, 0}},
		{name: "north pole", point: Point{90, 0}},
		{name: "antimeridian", point: Point{-12.5, -180}},
		{name: "lat too high", point: Point{90.0001, 0}, wantErr: true},
		{name: "lat too low", point: Point{-91, 0}, wantErr: true},
		{name: "long too high", point: Point{0, 180.5}, wantErr: true},
		{name: "long NaN", point: Point{0, math.NaN()}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.point.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHaversineKm(t *testing.T) {
	paris := Point{Lat: 48.8566, Long: 2.3522}
	london := Point{Lat: 51.5074, Long: -0.1278}

	assert.InDelta(t, 343.5, HaversineKm(paris, london), 1.0)
	assert.InDelta(t, HaversineKm(paris, london), HaversineKm(london, paris), 1e-9)
	assert.Equal(t, 0.0, HaversineKm(paris, paris))

	// one degree of latitude on the mean sphere
	assert.InDelta(t, 111.19, HaversineKm(Point{0, 0}, Point{1, 0}), 0.01)
	// antipodes stay finite
	assert.InDelta(t, math.Pi*EarthRadiusKm, HaversineKm(Point{0, 0}, Point{0, 180}), 1e-6)
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 1.23, RoundKm(1.234))
	assert.Equal(t, 1.24, RoundKm(1.235001))
	assert.Equal(t, 0.0, RoundKm(0.001))
}

func TestBoundingBoxAround_Equator(t *testing.T) {
	box := BoundingBoxAround(Point{0, 0}, 111.19492664455873)

	assert.InDelta(t, -1, box.MinLat, 1e-6)
	assert.InDelta(t, 1, box.MaxLat, 1e-6)
	assert.InDelta(t, -1, box.MinLong, 1e-6)
	assert.InDelta(t, 1, box.MaxLong, 1e-6)
	assert.False(t, box.CrossesAntimeridian())
	require.Len(t, box.Envelopes(), 1)
}

func TestBoundingBoxAround_NearPoleSpansAllLongitudes(t *testing.T) {
	for _, lat := range []float64{90, -90, 89.99} {
		box := BoundingBoxAround(Point{Lat: lat, Long: 45}, 5)
		assert.Equal(t, -180.0, box.MinLong, "lat %v", lat)
		assert.Equal(t, 180.0, box.MaxLong, "lat %v", lat)
		assert.False(t, math.IsNaN(box.MinLat) || math.IsNaN(box.MaxLat))
		assert.LessOrEqual(t, box.MaxLat, 90.0)
		assert.GreaterOrEqual(t, box.MinLat, -90.0)
	}
}

func TestBoundingBoxAround_Antimeridian(t *testing.T) {
	box := BoundingBoxAround(Point{Lat: 10, Long: 179.99}, 20)
	require.True(t, box.CrossesAntimeridian())

	assert.True(t, box.Contains(Point{Lat: 10, Long: -179.95}))
	assert.True(t, box.Contains(Point{Lat: 10, Long: 179.9}))
	assert.False(t, box.Contains(Point{Lat: 10, Long: 0}))

	envelopes := box.Envelopes()
	require.Len(t, envelopes, 2)
	assert.Equal(t, box.MinLong, envelopes[0].Min(0))
	assert.Equal(t, 180.0, envelopes[0].Max(0))
	assert.Equal(t, -180.0, envelopes[1].Min(0))
	assert.Equal(t, box.MaxLong, envelopes[1].Max(0))
	assert.Equal(t, box.MinLat, envelopes[1].Min(1))
	assert.Equal(t, box.MaxLat, envelopes[1].Max(1))
}

func TestFindNearby_SamePoint(t *testing.T) {
	matches, err := FindNearby(Point{0, 0}, 1, []site{{id: "a", loc: Point{0, 0}}})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].Record.id)
	assert.Equal(t, 0.0, matches[0].DistanceKm)
}

func TestFindNearby_InvalidInput(t *testing.T) {
	records := []site{{id: "a", loc: Point{0, 0}}}

	for _, radius := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := FindNearby(Point{0, 0}, radius, records)
		require.Error(t, err, "radius %v", radius)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	_, err := FindNearby(Point{95, 0}, 1, records)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = FindNearby(Point{0, -181}, 1, records)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var inputErr *InputError
	_, err = FindNearby(Point{0, 0}, -2, records)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "radius_km", inputErr.Field)
}

func TestFindNearby_OrdersByDistanceAndFilters(t *testing.T) {
	center := Point{Lat: 12.9716, Long: 77.5946}
	records := []site{
		{id: "far", loc: Point{Lat: 13.0827, Long: 80.2707}},
		{id: "two-km", loc: Point{Lat: 12.9896, Long: 77.5946}},
		{id: "half-km", loc: Point{Lat: 12.9761, Long: 77.5946}},
		{id: "outside", loc: Point{Lat: 13.0716, Long: 77.5946}},
	}

	matches, err := FindNearby(center, 5, records)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "half-km", matches[0].Record.id)
	assert.Equal(t, "two-km", matches[1].Record.id)
	assert.InDelta(t, 0.5, matches[0].DistanceKm, 0.01)
	assert.InDelta(t, 2.0, matches[1].DistanceKm, 0.01)
}

func TestFindNearby_AcrossPoleAndAntimeridian(t *testing.T) {
	polar, err := FindNearby(Point{Lat: 90, Long: 0}, 10, []site{
		{id: "opposite side", loc: Point{Lat: 89.95, Long: 135}},
		{id: "too far", loc: Point{Lat: 89, Long: 0}},
	})
	require.NoError(t, err)
	require.Len(t, polar, 1)
	assert.Equal(t, "opposite side", polar[0].Record.id)

	wrapped, err := FindNearby(Point{Lat: 0, Long: 179.99}, 5, []site{
		{id: "west of line", loc: Point{Lat: 0, Long: -179.99}},
	})
	require.NoError(t, err)
	require.Len(t, wrapped, 1)
	assert.InDelta(t, 2.22, wrapped[0].DistanceKm, 0.01)
}

func TestFindNearby_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	centers := []Point{{0, 0}, {51.5, -0.12}, {-33.9, 151.2}, {89.5, 10}, {-10, 179.8}}

	for _, center := range centers {
		records := make([]site, 0, 400)
		for i := 0; i < 400; i++ {
			records = append(records, site{
				loc: Point{
					Lat:  math.Max(-90, math.Min(90, center.Lat+rng.Float64()*6-3)),
					Long: wrapLong(center.Long + rng.Float64()*6 - 3),
				},
			})
		}
		radius := 50 + rng.Float64()*150

		matches, err := FindNearby(center, radius, records)
		require.NoError(t, err)

		want := 0
		box := BoundingBoxAround(center, radius)
		for _, r := range records {
			if HaversineKm(center, r.loc) <= radius {
				want++
				assert.True(t, box.Contains(r.loc), "box must contain every point in the circle")
			}
		}
		assert.Equal(t, want, len(matches), "center %v radius %v", center, radius)

		for i, m := range matches {
			assert.LessOrEqual(t, HaversineKm(center, m.Record.loc), radius+1e-6)
			if i > 0 {
				assert.LessOrEqual(t, matches[i-1].DistanceKm, m.DistanceKm)
			}
		}
	}
}

func TestFindNearby_ExcludesOutsideBox(t *testing.T) {
	center := Point{Lat: 40, Long: -74}
	box := BoundingBoxAround(center, 10)
	outside := site{id: "out", loc: Point{Lat: box.MaxLat + 0.01, Long: -74}}

	matches, err := FindNearby(center, 10, []site{outside})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindNearby_Idempotent(t *testing.T) {
	records := []site{
		{id: "a", loc: Point{Lat: 1, Long: 1}},
		{id: "b", loc: Point{Lat: 1.001, Long: 1.001}},
		{id: "c", loc: Point{Lat: 1.001, Long: 1.001}},
	}
	snapshot := append([]site(nil), records...)

	first, err := FindNearby(Point{1, 1}, 3, records)
	require.NoError(t, err)
	second, err := FindNearby(Point{1, 1}, 3, records)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, records)
	// ties keep input order
	assert.Equal(t, "b", first[1].Record.id)
	assert.Equal(t, "c", first[2].Record.id)
}

func wrapLong(v float64) float64 {
	for v > 180 {
		v -= 360
	}
	for v < -180 {
		v += 360
	}
	return v
}
