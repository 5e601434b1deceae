// internal/service/feed/service.go

package feed

import (
	"context"
	"fmt"

	"github.com/phuslu/log"

	"geofeed/internal/domain/content"
	"geofeed/internal/domain/discovery"
	geoDomain "geofeed/internal/domain/geo"
	"geofeed/internal/service/geo"
)

const (
	DefaultLimit        = 30
	DefaultCandidateCap = 100
)

// Query parameterises a proximity feed request
type Query struct {
	Location  *content.Location
	Mode      geoDomain.ProximityMode
	Timeframe discovery.Timeframe
	Limit     int
}

// Entry is a feed item with display annotations relative to the viewer
type Entry struct {
	content.Item
	DistanceMeters *float64         `json:"distance_meters,omitempty"`
	DistanceLabel  string           `json:"distance_label,omitempty"`
	Venue          *geoDomain.Venue `json:"venue,omitempty"`
}

// Service builds the home feed from recent posts
type Service struct {
	store        content.ContentStore
	venues       *geo.VenueDetector
	clock        content.Clock
	candidateCap int
	logger       *log.Logger
}

// NewService creates a feed service
func NewService(store content.ContentStore, venues *geo.VenueDetector, clock content.Clock, candidateCap int, logger *log.Logger) *Service {
	if clock == nil {
		clock = content.SystemClock{}
	}
	if candidateCap <= 0 {
		candidateCap = DefaultCandidateCap
	}
	if venues == nil {
		venues = geo.NewVenueDetector(nil)
	}

	return &Service{
		store:        store,
		venues:       venues,
		clock:        clock,
		candidateCap: candidateCap,
		logger:       logger,
	}
}

// Recent returns recent posts filtered by proximity to the viewer, newest
// first. Without a viewer location nothing is filtered or annotated.
func (s *Service) Recent(ctx context.Context, q Query) ([]Entry, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	tf := discovery.ParseTimeframe(string(q.Timeframe))
	since := tf.Boundary(s.clock.Now())

	items, err := s.store.QueryRecent(ctx, since, s.candidateCap)
	if err != nil {
		s.logger.Error().Err(err).Msg("feed query failed")
		return nil, fmt.Errorf("%w: query recent content: %w", discovery.ErrUpstreamFetch, err)
	}

	items = geo.FilterByProximity(items, q.Location, q.Mode)
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, s.annotate(item, q.Location))
	}

	return entries, nil
}

func (s *Service) annotate(item content.Item, viewer *content.Location) Entry {
	entry := Entry{Item: item}

	if item.Location != nil {
		entry.Venue = s.venues.Detect(item.Location)
	}

	if viewer != nil && item.Location != nil {
		d := geo.Between(*viewer, *item.Location)
		entry.DistanceMeters = &d
		entry.DistanceLabel = geo.FormatDistance(d)
	}

	return entry
}
