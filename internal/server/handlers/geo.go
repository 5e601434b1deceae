// internal/server/handlers/geo.go

package handlers

import (
	"net/http"

	"geofeed/internal/service/geo"
)

// GeoHandler handles venue and distance lookups
type GeoHandler struct {
	venues *geo.VenueDetector
}

// NewGeoHandler creates a new geo handler
func NewGeoHandler(venues *geo.VenueDetector) *GeoHandler {
	return &GeoHandler{
		venues: venues,
	}
}

// distanceResponse is the body of GetDistance
type distanceResponse struct {
	Meters float64 `json:"meters"`
	Label  string  `json:"label"`
}

// GetVenue returns the known venue containing a location
func (h *GeoHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	location, err := parseLocation(r, "lat", "lng")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if location == nil {
		respondWithError(w, http.StatusBadRequest, "Missing location parameters")
		return
	}

	venue := h.venues.Detect(location)
	if venue == nil {
		respondWithError(w, http.StatusNotFound, "No venue at location")
		return
	}

	respondWithJSON(w, http.StatusOK, venue)
}

// GetDistance returns the great-circle distance between two points
func (h *GeoHandler) GetDistance(w http.ResponseWriter, r *http.Request) {
	from, err := parseLocation(r, "lat1", "lng1")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	to, err := parseLocation(r, "lat2", "lng2")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if from == nil || to == nil {
		respondWithError(w, http.StatusBadRequest, "Missing location parameters")
		return
	}

	meters := geo.Between(*from, *to)
	respondWithJSON(w, http.StatusOK, distanceResponse{
		Meters: meters,
		Label:  geo.FormatDistance(meters),
	})
}
