package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle distance in kilometers between two
// latitude/longitude points using the haversine formula on a spherical Earth.
// Inputs are expected to be valid coordinate ranges; out-of-range values
// produce mathematically defined but meaningless results. The function is
// pure and has no error path.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// FormatDistance renders a distance as user-facing text. Display rule:
// below one kilometer the value is shown as whole meters ("850 m"),
// otherwise as kilometers with one decimal ("12.4 km").
func FormatDistance(distanceKm float64) string {
	if distanceKm < 1.0 {
		return fmt.Sprintf("%d m", int(math.Round(distanceKm*1000)))
	}
	return fmt.Sprintf("%.1f km", distanceKm)
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
