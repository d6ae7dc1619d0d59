package location

import (
	"math"
	"testing"

	"valora/internal/types"
)

func TestHaversineMeters_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		from      types.Point
		to        types.Point
		wantM     float64
		tolerance float64
	}{
		{
			name:      "same point",
			from:      types.Point{Lat: 40.4168, Lng: -3.7038},
			to:        types.Point{Lat: 40.4168, Lng: -3.7038},
			wantM:     0,
			tolerance: 1e-9,
		},
		{
			name:      "one degree of latitude at the equator",
			from:      types.Point{Lat: 0, Lng: 0},
			to:        types.Point{Lat: 1, Lng: 0},
			wantM:     111195,
			tolerance: 1111.95,
		},
		{
			name:      "one degree of longitude at the equator",
			from:      types.Point{Lat: 0, Lng: 0},
			to:        types.Point{Lat: 0, Lng: 1},
			wantM:     111195,
			tolerance: 1111.95,
		},
		{
			name:      "Madrid to Barcelona (~505km)",
			from:      types.Point{Lat: 40.4168, Lng: -3.7038},
			to:        types.Point{Lat: 41.3874, Lng: 2.1686},
			wantM:     505000,
			tolerance: 5000,
		},
		{
			name:      "antipodes",
			from:      types.Point{Lat: 0, Lng: 0},
			to:        types.Point{Lat: 0, Lng: 180},
			wantM:     math.Pi * earthRadiusMeters,
			tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineMeters(tt.from, tt.to)
			if math.Abs(got-tt.wantM) > tt.tolerance {
				t.Errorf("HaversineMeters() = %f, want %f (±%f)", got, tt.wantM, tt.tolerance)
			}
		})
	}
}

func TestHaversineMeters_Symmetry(t *testing.T) {
	a := types.Point{Lat: 43.2630, Lng: -2.9350}
	b := types.Point{Lat: 37.3891, Lng: -5.9845}
	d1 := HaversineMeters(a, b)
	d2 := HaversineMeters(b, a)
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestHaversineMeters_MatchesReferenceFormula(t *testing.T) {
	from := types.Point{Lat: 28.4636, Lng: -16.2518}
	to := types.Point{Lat: 27.9202, Lng: -15.5474}

	lat1, lat2 := from.Lat*math.Pi/180, to.Lat*math.Pi/180
	dLat := (to.Lat - from.Lat) * math.Pi / 180
	dLng := (to.Lng - from.Lng) * math.Pi / 180
	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	want := 6371000 * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	if got := HaversineMeters(from, to); math.Abs(got-want) > 1e-6 {
		t.Errorf("HaversineMeters() = %f, want %f", got, want)
	}
}
