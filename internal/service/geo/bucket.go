// internal/service/geo/bucket.go

package geo

import (
	"fmt"
	"math"

	"geofeed/internal/domain/content"
)

// GlobalBucket is the bucket token for requests without a location
const GlobalBucket = "global"

// DefaultGridDegrees is roughly 1.1 km of latitude
const DefaultGridDegrees = 0.01

// Bucket snaps a location to a coarse grid so near-duplicate requests share
// a cache entry. Nil locations map to GlobalBucket.
func Bucket(location *content.Location, gridDegrees float64) string {
	if location == nil {
		return GlobalBucket
	}
	if gridDegrees <= 0 {
		gridDegrees = DefaultGridDegrees
	}

	lat := math.Floor(location.Latitude/gridDegrees) * gridDegrees
	lng := math.Floor(location.Longitude/gridDegrees) * gridDegrees

	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}
