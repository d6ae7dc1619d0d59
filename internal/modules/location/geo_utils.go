// README: Pure geographic helpers (great-circle distance).
package location

import (
	"math"

	"valora/internal/types"
)

const earthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance in meters between two
// points specified in decimal degrees.
func HaversineMeters(from, to types.Point) float64 {
	dLat := degreesToRadians(to.Lat - from.Lat)
	dLng := degreesToRadians(to.Lng - from.Lng)

	rLat1 := degreesToRadians(from.Lat)
	rLat2 := degreesToRadians(to.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
