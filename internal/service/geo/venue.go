// internal/service/geo/venue.go

package geo

import (
	"geofeed/internal/domain/content"
	"geofeed/internal/domain/geo"
)

// DetectVenue returns a copy of the first venue whose radius contains
// location, or nil. Overlapping venues resolve by list order.
func DetectVenue(location *content.Location, venues []geo.Venue) *geo.Venue {
	if location == nil {
		return nil
	}

	for i := range venues {
		v := &venues[i]
		d := DistanceMeters(location.Latitude, location.Longitude, v.Latitude, v.Longitude)
		if d <= v.RadiusMeters {
			match := *v
			return &match
		}
	}

	return nil
}

// VenueDetector binds a fixed venue list
type VenueDetector struct {
	venues []geo.Venue
}

// NewVenueDetector copies venues so later edits by the caller have no effect
func NewVenueDetector(venues []geo.Venue) *VenueDetector {
	own := make([]geo.Venue, len(venues))
	copy(own, venues)

	return &VenueDetector{venues: own}
}

// Detect returns the venue containing location, or nil
func (d *VenueDetector) Detect(location *content.Location) *geo.Venue {
	return DetectVenue(location, d.venues)
}

// Venues returns a copy of the configured list
func (d *VenueDetector) Venues() []geo.Venue {
	out := make([]geo.Venue, len(d.venues))
	copy(out, d.venues)
	return out
}
