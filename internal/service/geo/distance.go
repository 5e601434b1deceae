// internal/service/geo/distance.go

package geo

import (
	"fmt"
	"math"

	"geofeed/internal/domain/content"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by the Haversine formula
	EarthRadiusMeters = 6_371_000.0

	metersPerMile = 1609.34
	feetPerMile   = 5280.0
)

// DistanceMeters returns the great-circle distance between two points.
// Inputs are assumed finite; range checks are the caller's job.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	hSin := math.Sin(dPhi / 2)
	hSin *= hSin

	vSin := math.Sin(dLambda / 2)
	vSin *= vSin

	h := hSin + math.Cos(phi1)*math.Cos(phi2)*vSin

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Between returns the distance between two locations in meters
func Between(a, b content.Location) float64 {
	return DistanceMeters(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// WithinRadius reports whether point lies within radiusMeters of center
func WithinRadius(point, center content.Location, radiusMeters float64) bool {
	return Between(point, center) <= radiusMeters
}

// FormatDistance renders meters for display: meters below 0.1 mi, feet below
// 1 mi, one-decimal miles below 10 mi, whole miles beyond.
func FormatDistance(meters float64) string {
	miles := meters / metersPerMile

	switch {
	case miles < 0.1:
		return fmt.Sprintf("%dm", int64(math.Round(meters)))
	case miles < 1:
		return fmt.Sprintf("%dft", int64(math.Round(miles*feetPerMile)))
	case miles < 10:
		return fmt.Sprintf("%.1fmi", miles)
	default:
		return fmt.Sprintf("%dmi", int64(math.Round(miles)))
	}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
