// internal/service/warmer/warmer.go

package warmer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"geofeed/internal/domain/content"
	"geofeed/internal/domain/discovery"
)

// JobName identifies the warm job in the scheduler
const JobName = "trending-warm"

// Refresher recomputes and caches a trending list
type Refresher interface {
	Refresh(ctx context.Context, q discovery.TrendingQuery) ([]content.Item, error)
}

// Announcer publishes the outcome of a refresh
type Announcer interface {
	PublishTrendingRefreshed(tf discovery.Timeframe, items []content.Item, computedAt time.Time) error
}

// Warmer keeps global trending lists hot in the cache
type Warmer struct {
	engine     Refresher
	announcer  Announcer
	timeframes []discovery.Timeframe
	limit      int
	clock      content.Clock
	logger     *log.Logger
}

// New creates a warmer. announcer may be nil when no event bus is configured.
// Unknown timeframe strings are rejected.
func New(engine Refresher, announcer Announcer, timeframes []string, limit int, clock content.Clock, logger *log.Logger) (*Warmer, error) {
	tfs := make([]discovery.Timeframe, 0, len(timeframes))
	for _, raw := range timeframes {
		tf := discovery.Timeframe(raw)
		if !tf.Known() {
			return nil, fmt.Errorf("unknown warm timeframe %q", raw)
		}
		tfs = append(tfs, tf)
	}

	return &Warmer{
		engine:     engine,
		announcer:  announcer,
		timeframes: tfs,
		limit:      limit,
		clock:      clock,
		logger:     logger,
	}, nil
}

// Run refreshes every configured timeframe. A failing timeframe does not stop the others.
func (w *Warmer) Run(ctx context.Context) error {
	var errs []error

	for _, tf := range w.timeframes {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		items, err := w.engine.Refresh(ctx, discovery.TrendingQuery{
			Limit:     w.limit,
			Timeframe: tf,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", tf, err))
			continue
		}

		w.logger.Info().Str("timeframe", string(tf)).Int("items", len(items)).Msg("trending cache warmed")

		if w.announcer == nil {
			continue
		}
		if err := w.announcer.PublishTrendingRefreshed(tf, items, w.clock.Now()); err != nil {
			errs = append(errs, fmt.Errorf("announce %s: %w", tf, err))
		}
	}

	return errors.Join(errs...)
}

// Schedule registers Run with s
func (w *Warmer) Schedule(s *Scheduler, schedule string) error {
	return s.AddJob(JobName, schedule, w.Run)
}
