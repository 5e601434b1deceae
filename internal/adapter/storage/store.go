// internal/adapter/storage/store.go

package storage

import (
	"context"

	"geofeed/internal/domain/content"
)

// Store is what the composition root needs from a backend
type Store interface {
	content.ContentStore
	content.EngagementStore
	content.Writer
	EnsureSchema(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
