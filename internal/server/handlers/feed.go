// internal/server/handlers/feed.go

package handlers

import (
	"context"
	"net/http"

	"github.com/phuslu/log"

	"geofeed/internal/domain/discovery"
	"geofeed/internal/domain/geo"
	"geofeed/internal/service/feed"
)

// FeedService builds the proximity feed
type FeedService interface {
	Recent(ctx context.Context, q feed.Query) ([]feed.Entry, error)
}

// FeedHandler handles home feed requests
type FeedHandler struct {
	service FeedService
	logger  *log.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(service FeedService, logger *log.Logger) *FeedHandler {
	return &FeedHandler{
		service: service,
		logger:  logger,
	}
}

// GetFeed returns recent posts near the viewer, or everywhere in global mode
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt(r, "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	location, err := parseLocation(r, "lat", "lng")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.service.Recent(r.Context(), feed.Query{
		Location:  location,
		Mode:      geo.ParseProximityMode(r.URL.Query().Get("mode")),
		Timeframe: discovery.ParseTimeframe(r.URL.Query().Get("timeframe")),
		Limit:     limit,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, "Failed to get feed", err)
		return
	}

	if entries == nil {
		entries = []feed.Entry{}
	}
	respondWithJSON(w, http.StatusOK, entries)
}
