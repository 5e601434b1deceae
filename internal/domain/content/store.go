// internal/domain/content/store.go

package content

import (
	"context"
	"time"
)

// ContentStore reads posted items
type ContentStore interface {
	// QueryRecent returns up to maxCount items created at or after since, newest first
	QueryRecent(ctx context.Context, since time.Time, maxCount int) ([]Item, error)

	// QueryByAuthors returns up to maxCount items by any of authorIDs created at
	// or after since, newest first. Callers chunk authorIDs to the store's batch limit.
	QueryByAuthors(ctx context.Context, authorIDs []string, since time.Time, maxCount int) ([]Item, error)
}

// EngagementStore reads likes and comments for a single item. A missing
// collection yields an empty slice, not an error.
type EngagementStore interface {
	LikesFor(ctx context.Context, contentID string) ([]EngagementEvent, error)
	CommentsFor(ctx context.Context, contentID string) ([]EngagementEvent, error)
}

// Writer is the write side used by ingestion
type Writer interface {
	CreateItem(ctx context.Context, item Item) error
	AddEngagement(ctx context.Context, event EngagementEvent) error
	RemoveEngagement(ctx context.Context, kind EngagementKind, id string) error
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns time.Now in UTC
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant
type FixedClock time.Time

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
