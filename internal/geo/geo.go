// README: Pure geographic computation helpers shared by the matching queries.
package geo

import (
	"math"

	"fixme/internal/types"
)

const earthRadiusKm = 6371.0

// DefaultRadiusKm is used when a caller does not specify a search radius.
const DefaultRadiusKm = 10.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// WithinRadius reports whether distanceKm falls inside an inclusive radius.
func WithinRadius(distanceKm, radiusKm float64) bool {
	return distanceKm <= radiusKm
}

// SortByDistance performs an insertion sort (fine for small N) on any slice
// where each element exposes a distance via the accessor function. The sort is
// stable, so equidistant elements keep their input order.
func SortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
