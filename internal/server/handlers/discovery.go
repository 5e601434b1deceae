// internal/server/handlers/discovery.go

package handlers

import (
	"net/http"

	"github.com/phuslu/log"

	"geofeed/internal/domain/content"
	"geofeed/internal/domain/discovery"
)

// DiscoveryHandler handles trending, nearby and following requests
type DiscoveryHandler struct {
	engine discovery.Engine
	logger *log.Logger
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(engine discovery.Engine, logger *log.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		engine: engine,
		logger: logger,
	}
}

// GetTrending returns trending items, optionally restricted to an area
func (h *DiscoveryHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt(r, "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	radius, err := parseFloat(r, "radius")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	location, err := parseLocation(r, "lat", "lng")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.engine.GetTrending(r.Context(), discovery.TrendingQuery{
		Limit:        limit,
		Timeframe:    discovery.ParseTimeframe(r.URL.Query().Get("timeframe")),
		Location:     location,
		RadiusMeters: radius,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, "Failed to get trending content", err)
		return
	}

	respondWithItems(w, items)
}

// GetPopularNearby returns engaged items around a location
func (h *DiscoveryHandler) GetPopularNearby(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt(r, "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	radius, err := parseFloat(r, "radius")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	location, err := parseLocation(r, "lat", "lng")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.engine.GetPopularNearby(r.Context(), location, discovery.NearbyQuery{
		RadiusMeters: radius,
		Limit:        limit,
		Timeframe:    discovery.Timeframe(r.URL.Query().Get("timeframe")),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, "Failed to get popular nearby content", err)
		return
	}

	respondWithItems(w, items)
}

// GetFollowingActivity returns recent posts from followed authors
func (h *DiscoveryHandler) GetFollowingActivity(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID")
		return
	}

	limit, err := parseInt(r, "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.engine.GetFollowingActivity(r.Context(), userID, parseList(r, "following"), discovery.FollowingQuery{
		Limit:     limit,
		Timeframe: discovery.ParseTimeframe(r.URL.Query().Get("timeframe")),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, "Failed to get following activity", err)
		return
	}

	respondWithItems(w, items)
}

// ClearCache drops every cached discovery result
func (h *DiscoveryHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearCache()
	h.logger.Info().Msg("discovery cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

func respondWithItems(w http.ResponseWriter, items []content.Item) {
	if items == nil {
		items = []content.Item{}
	}
	respondWithJSON(w, http.StatusOK, items)
}
