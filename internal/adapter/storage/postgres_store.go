// internal/adapter/storage/postgres_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"geofeed/internal/domain/content"
)

// PostgresStore implements the content and engagement ports on PostgreSQL
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new store over an open pool
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// EnsureSchema creates missing tables and indexes
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

// Close releases the pool
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

// QueryRecent returns items created at or after since, newest first
func (s *PostgresStore) QueryRecent(ctx context.Context, since time.Time, maxCount int) ([]content.Item, error) {
	query := `
		SELECT id, author_id, caption, image_url, created_at, latitude, longitude
		FROM posts
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, since, maxCount)
	if err != nil {
		return nil, fmt.Errorf("error querying recent posts: %w", err)
	}

	return scanItems(rows)
}

// QueryByAuthors returns items by any of authorIDs created at or after since
func (s *PostgresStore) QueryByAuthors(ctx context.Context, authorIDs []string, since time.Time, maxCount int) ([]content.Item, error) {
	if len(authorIDs) == 0 {
		return []content.Item{}, nil
	}

	query := `
		SELECT id, author_id, caption, image_url, created_at, latitude, longitude
		FROM posts
		WHERE author_id = ANY($1) AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.db.Query(ctx, query, authorIDs, since, maxCount)
	if err != nil {
		return nil, fmt.Errorf("error querying posts by authors: %w", err)
	}

	return scanItems(rows)
}

// LikesFor returns every like on an item
func (s *PostgresStore) LikesFor(ctx context.Context, contentID string) ([]content.EngagementEvent, error) {
	return s.engagementFor(ctx, "likes", content.KindLike, contentID)
}

// CommentsFor returns every comment on an item
func (s *PostgresStore) CommentsFor(ctx context.Context, contentID string) ([]content.EngagementEvent, error) {
	return s.engagementFor(ctx, "comments", content.KindComment, contentID)
}

func (s *PostgresStore) engagementFor(ctx context.Context, table string, kind content.EngagementKind, contentID string) ([]content.EngagementEvent, error) {
	query := fmt.Sprintf(`SELECT id, post_id, user_id, created_at FROM %s WHERE post_id = $1`, table)

	rows, err := s.db.Query(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", table, err)
	}
	defer rows.Close()

	events := []content.EngagementEvent{}
	for rows.Next() {
		e := content.EngagementEvent{Kind: kind}
		if err := rows.Scan(&e.ID, &e.TargetID, &e.UserID, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}

// CreateItem inserts a post, ignoring duplicates
func (s *PostgresStore) CreateItem(ctx context.Context, item content.Item) error {
	query := `
		INSERT INTO posts (id, author_id, caption, image_url, created_at, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	var lat, lng *float64
	if item.Location != nil {
		lat = &item.Location.Latitude
		lng = &item.Location.Longitude
	}

	if _, err := s.db.Exec(ctx, query, item.ID, item.AuthorID, item.Caption, item.ImageURL, item.CreatedAt, lat, lng); err != nil {
		return fmt.Errorf("error inserting post: %w", err)
	}

	return nil
}

// AddEngagement records a like or comment, ignoring duplicates
func (s *PostgresStore) AddEngagement(ctx context.Context, event content.EngagementEvent) error {
	table, ok := engagementTable(string(event.Kind))
	if !ok {
		return fmt.Errorf("unknown engagement kind %q", event.Kind)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, post_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, table)

	if _, err := s.db.Exec(ctx, query, event.ID, event.TargetID, event.UserID, event.OccurredAt); err != nil {
		return fmt.Errorf("error inserting %s: %w", table, err)
	}

	return nil
}

// RemoveEngagement deletes a like or comment by id
func (s *PostgresStore) RemoveEngagement(ctx context.Context, kind content.EngagementKind, id string) error {
	table, ok := engagementTable(string(kind))
	if !ok {
		return fmt.Errorf("unknown engagement kind %q", kind)
	}

	if _, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id); err != nil {
		return fmt.Errorf("error deleting from %s: %w", table, err)
	}

	return nil
}

func scanItems(rows pgx.Rows) ([]content.Item, error) {
	defer rows.Close()

	items := []content.Item{}
	for rows.Next() {
		var item content.Item
		var lat, lng *float64

		if err := rows.Scan(
			&item.ID, &item.AuthorID, &item.Caption, &item.ImageURL, &item.CreatedAt, &lat, &lng,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		// Set location if coordinates are present
		if lat != nil && lng != nil {
			item.Location = &content.Location{
				Latitude:  *lat,
				Longitude: *lng,
			}
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}
