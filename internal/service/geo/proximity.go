// internal/service/geo/proximity.go

package geo

import (
	"geofeed/internal/domain/content"
	"geofeed/internal/domain/geo"
)

// FilterByProximity keeps items within the mode's radius of current. With no
// current location the input is returned as is. Items without coordinates
// are dropped whenever a location is given. Privacy rules are layered on by
// the caller.
func FilterByProximity(items []content.Item, current *content.Location, mode geo.ProximityMode) []content.Item {
	if current == nil {
		return items
	}

	return FilterWithin(items, *current, mode.Radius())
}

// FilterWithin keeps geotagged items within radiusMeters of center
func FilterWithin(items []content.Item, center content.Location, radiusMeters float64) []content.Item {
	filtered := make([]content.Item, 0, len(items))

	for _, item := range items {
		if item.Location == nil {
			continue
		}
		if WithinRadius(*item.Location, center, radiusMeters) {
			filtered = append(filtered, item)
		}
	}

	return filtered
}
