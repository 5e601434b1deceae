// internal/service/discovery/engine.go

package discovery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"geofeed/internal/domain/content"
	discoveryDomain "geofeed/internal/domain/discovery"
	"geofeed/internal/service/geo"
)

const (
	// DefaultCandidateCap bounds how many recent items are scored per request
	DefaultCandidateCap = 100
	// MaxAuthorBatch is the store's limit on authors per query
	MaxAuthorBatch = 10

	DefaultTrendingLimit  = 20
	DefaultNearbyLimit    = 15
	DefaultFollowingLimit = 10
	DefaultRadiusMeters   = 5000.0

	nearbyOversample   = 3
	nearbyMinCandidate = 50

	modeTrending = "trending"
)

// EngineConfig tunes the discovery engine
type EngineConfig struct {
	CandidateCap         int
	DefaultLimit         int
	DefaultRadiusMeters  float64
	MaxConcurrentFetches int
	AuthorBatchSize      int
	BucketGridDegrees    float64
}

// DefaultEngineConfig returns the production defaults
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		CandidateCap:         DefaultCandidateCap,
		DefaultLimit:         DefaultTrendingLimit,
		DefaultRadiusMeters:  DefaultRadiusMeters,
		MaxConcurrentFetches: 16,
		AuthorBatchSize:      MaxAuthorBatch,
		BucketGridDegrees:    geo.DefaultGridDegrees,
	}
}

// Engine implements the discovery.Engine interface
type Engine struct {
	contentStore    content.ContentStore
	engagementStore content.EngagementStore
	cache           *Cache
	clock           content.Clock
	config          EngineConfig
	logger          *log.Logger
}

var _ discoveryDomain.Engine = (*Engine)(nil)

// NewEngine creates a discovery engine. Zero config fields take defaults.
func NewEngine(
	contentStore content.ContentStore,
	engagementStore content.EngagementStore,
	cache *Cache,
	clock content.Clock,
	config EngineConfig,
	logger *log.Logger,
) *Engine {
	defaults := DefaultEngineConfig()
	if config.CandidateCap <= 0 {
		config.CandidateCap = defaults.CandidateCap
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = defaults.DefaultLimit
	}
	if config.DefaultRadiusMeters <= 0 {
		config.DefaultRadiusMeters = defaults.DefaultRadiusMeters
	}
	if config.MaxConcurrentFetches <= 0 {
		config.MaxConcurrentFetches = defaults.MaxConcurrentFetches
	}
	if config.AuthorBatchSize <= 0 || config.AuthorBatchSize > MaxAuthorBatch {
		config.AuthorBatchSize = MaxAuthorBatch
	}
	if config.BucketGridDegrees <= 0 {
		config.BucketGridDegrees = defaults.BucketGridDegrees
	}
	if clock == nil {
		clock = content.SystemClock{}
	}
	if cache == nil {
		cache = NewCache(DefaultCacheTTL, clock)
	}

	return &Engine{
		contentStore:    contentStore,
		engagementStore: engagementStore,
		cache:           cache,
		clock:           clock,
		config:          config,
		logger:          logger,
	}
}

// GetTrending returns items ranked by trending score
func (e *Engine) GetTrending(ctx context.Context, q discoveryDomain.TrendingQuery) ([]content.Item, error) {
	q = e.normalizeTrending(q)
	key := e.trendingKey(q)

	if items, ok := e.cache.Get(key); ok {
		e.logger.Debug().Str("key", key).Int("count", len(items)).Msg("trending cache hit")
		return items, nil
	}

	e.logger.Debug().Str("key", key).Msg("trending cache miss")

	return e.computeAndStore(ctx, key, q)
}

// Refresh recomputes a trending result and overwrites its cache entry
func (e *Engine) Refresh(ctx context.Context, q discoveryDomain.TrendingQuery) ([]content.Item, error) {
	q = e.normalizeTrending(q)
	return e.computeAndStore(ctx, e.trendingKey(q), q)
}

// GetPopularNearby returns geotagged trending items with engagement near location
func (e *Engine) GetPopularNearby(ctx context.Context, location *content.Location, q discoveryDomain.NearbyQuery) ([]content.Item, error) {
	if location == nil {
		return []content.Item{}, nil
	}

	if q.RadiusMeters <= 0 {
		q.RadiusMeters = e.config.DefaultRadiusMeters
	}
	if q.Limit <= 0 {
		q.Limit = DefaultNearbyLimit
	}
	if !q.Timeframe.Known() {
		q.Timeframe = discoveryDomain.TimeframeWeek
	}

	internal := q.Limit * nearbyOversample
	if internal < nearbyMinCandidate {
		internal = nearbyMinCandidate
	}

	trending, err := e.GetTrending(ctx, discoveryDomain.TrendingQuery{
		Limit:        internal,
		Timeframe:    q.Timeframe,
		Location:     location,
		RadiusMeters: q.RadiusMeters,
	})
	if err != nil {
		return nil, err
	}

	popular := make([]content.Item, 0, q.Limit)
	for _, item := range trending {
		if !item.HasLocation() || !item.HasEngagement() {
			continue
		}
		popular = append(popular, item)
		if len(popular) == q.Limit {
			break
		}
	}

	return popular, nil
}

// GetFollowingActivity returns recent items from followed authors, newest first.
// Author ids are queried in batches no larger than the store limit.
func (e *Engine) GetFollowingActivity(ctx context.Context, userID string, followingIDs []string, q discoveryDomain.FollowingQuery) ([]content.Item, error) {
	authors := uniqueNonEmpty(followingIDs)
	if len(authors) == 0 {
		return []content.Item{}, nil
	}

	if q.Limit <= 0 {
		q.Limit = DefaultFollowingLimit
	}
	tf := discoveryDomain.ParseTimeframe(string(q.Timeframe))
	since := tf.Boundary(e.clock.Now())

	var merged []content.Item
	for start := 0; start < len(authors); start += e.config.AuthorBatchSize {
		end := start + e.config.AuthorBatchSize
		if end > len(authors) {
			end = len(authors)
		}

		batch, err := e.contentStore.QueryByAuthors(ctx, authors[start:end], since, q.Limit)
		if err != nil {
			e.logger.Error().Err(err).Str("user_id", userID).Int("batch_start", start).Msg("following activity query failed")
			return nil, fmt.Errorf("%w: query by authors: %w", discoveryDomain.ErrUpstreamFetch, err)
		}
		merged = append(merged, batch...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	if len(merged) > q.Limit {
		merged = merged[:q.Limit]
	}
	if merged == nil {
		merged = []content.Item{}
	}

	return merged, nil
}

// ClearCache drops every cached result
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

func (e *Engine) normalizeTrending(q discoveryDomain.TrendingQuery) discoveryDomain.TrendingQuery {
	if q.Limit <= 0 {
		q.Limit = e.config.DefaultLimit
	}
	q.Timeframe = discoveryDomain.ParseTimeframe(string(q.Timeframe))
	if q.Location != nil && q.RadiusMeters <= 0 {
		q.RadiusMeters = e.config.DefaultRadiusMeters
	}
	return q
}

func (e *Engine) trendingKey(q discoveryDomain.TrendingQuery) string {
	bucket := geo.Bucket(q.Location, e.config.BucketGridDegrees)
	if q.Location != nil {
		bucket = fmt.Sprintf("%s@%.0f", bucket, q.RadiusMeters)
	}
	return CacheKey(modeTrending, string(q.Timeframe), bucket, q.Limit)
}

func (e *Engine) computeAndStore(ctx context.Context, key string, q discoveryDomain.TrendingQuery) ([]content.Item, error) {
	items, err := e.computeTrending(ctx, q)
	if err != nil {
		return nil, err
	}

	e.cache.Set(key, items)
	return items, nil
}

// computeTrending runs fetch -> geo filter -> engagement fan-out -> score -> sort
func (e *Engine) computeTrending(ctx context.Context, q discoveryDomain.TrendingQuery) ([]content.Item, error) {
	start := time.Now()
	now := e.clock.Now()
	since := q.Timeframe.Boundary(now)

	candidates, err := e.contentStore.QueryRecent(ctx, since, e.config.CandidateCap)
	if err != nil {
		e.logger.Error().Err(err).Str("timeframe", string(q.Timeframe)).Msg("candidate fetch failed")
		return nil, fmt.Errorf("%w: query recent content: %w", discoveryDomain.ErrUpstreamFetch, err)
	}

	if q.Location != nil {
		candidates = geo.FilterWithin(candidates, *q.Location, q.RadiusMeters)
	}

	scored := e.scoreAll(ctx, candidates, now)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Trending.Score > scored[j].Trending.Score
	})

	if len(scored) > q.Limit {
		scored = scored[:q.Limit]
	}

	e.logger.Debug().
		Str("timeframe", string(q.Timeframe)).
		Int("candidates", len(candidates)).
		Int("returned", len(scored)).
		Dur("elapsed", time.Since(start)).
		Msg("trending computed")

	return scored, nil
}

// scoreAll fetches engagement for every candidate concurrently and returns
// annotated copies in candidate order. All fetches finish before it returns.
func (e *Engine) scoreAll(ctx context.Context, candidates []content.Item, now time.Time) []content.Item {
	scored := make([]content.Item, len(candidates))

	var g errgroup.Group
	g.SetLimit(e.config.MaxConcurrentFetches)

	for i, item := range candidates {
		g.Go(func() error {
			// Engagement failures degrade the item instead of failing the batch
			scored[i] = e.scoreItem(ctx, item, now)
			return nil
		})
	}
	g.Wait()

	return scored
}

func (e *Engine) scoreItem(ctx context.Context, item content.Item, now time.Time) content.Item {
	likes, comments, err := e.fetchEngagement(ctx, item.ID)
	if err != nil {
		e.logger.Warn().Err(err).Str("item_id", item.ID).Msg("engagement unavailable, scoring with zero counts")
		likes, comments = nil, nil
		item.EngagementDegraded = true
	}

	score := Score(item, likes, comments, now)
	item.Trending = &score
	item.LikeCount = len(likes)
	item.CommentCount = len(comments)

	return item
}

func (e *Engine) fetchEngagement(ctx context.Context, id string) ([]content.EngagementEvent, []content.EngagementEvent, error) {
	likes, err := e.engagementStore.LikesFor(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("likes for %s: %w", id, err)
	}

	comments, err := e.engagementStore.CommentsFor(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("comments for %s: %w", id, err)
	}

	return likes, comments, nil
}

func uniqueNonEmpty(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
