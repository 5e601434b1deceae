// internal/domain/discovery/service.go

package discovery

import (
	"context"
	"errors"

	"geofeed/internal/domain/content"
)

// ErrUpstreamFetch marks a failure to load the candidate set. Callers use it
// to tell a failed request apart from an empty result.
var ErrUpstreamFetch = errors.New("upstream fetch failed")

// TrendingQuery parameterises a trending request
type TrendingQuery struct {
	Limit     int
	Timeframe Timeframe
	Location  *content.Location
	// RadiusMeters applies only when Location is set
	RadiusMeters float64
}

// NearbyQuery parameterises a popular-nearby request
type NearbyQuery struct {
	RadiusMeters float64
	Limit        int
	Timeframe    Timeframe
}

// FollowingQuery parameterises a following-activity request
type FollowingQuery struct {
	Limit     int
	Timeframe Timeframe
}

// Engine ranks content for discovery feeds
type Engine interface {
	// GetTrending returns items ranked by trending score, served from cache when fresh
	GetTrending(ctx context.Context, q TrendingQuery) ([]content.Item, error)

	// Refresh recomputes a trending result and overwrites its cache entry
	Refresh(ctx context.Context, q TrendingQuery) ([]content.Item, error)

	// GetPopularNearby returns engaged, geotagged trending items near location.
	// A nil location yields an empty result.
	GetPopularNearby(ctx context.Context, location *content.Location, q NearbyQuery) ([]content.Item, error)

	// GetFollowingActivity returns recent items from followed authors, newest first
	GetFollowingActivity(ctx context.Context, userID string, followingIDs []string, q FollowingQuery) ([]content.Item, error)

	// ClearCache drops every cached result
	ClearCache()
}
