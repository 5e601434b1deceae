// internal/adapter/storage/sqlite_store.go

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"geofeed/internal/domain/content"
)

// SQLiteStore implements the content and engagement ports on an embedded
// SQLite database. Timestamps are stored as unix milliseconds.
type SQLiteStore struct {
	db *sqlx.DB
}

type postRow struct {
	ID        string          `db:"id"`
	AuthorID  string          `db:"author_id"`
	Caption   string          `db:"caption"`
	ImageURL  string          `db:"image_url"`
	CreatedAt int64           `db:"created_at"`
	Latitude  sql.NullFloat64 `db:"latitude"`
	Longitude sql.NullFloat64 `db:"longitude"`
}

type engagementRow struct {
	ID        string `db:"id"`
	PostID    string `db:"post_id"`
	UserID    string `db:"user_id"`
	CreatedAt int64  `db:"created_at"`
}

// NewSQLiteStore opens the database at path. ":memory:" gives a private
// in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection keeps :memory: databases shared and serialises writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// EnsureSchema creates missing tables and indexes
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// QueryRecent returns items created at or after since, newest first
func (s *SQLiteStore) QueryRecent(ctx context.Context, since time.Time, maxCount int) ([]content.Item, error) {
	var rows []postRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, author_id, caption, image_url, created_at, latitude, longitude
		FROM posts
		WHERE created_at >= ?
		ORDER BY created_at DESC
		LIMIT ?`, since.UnixMilli(), maxCount)
	if err != nil {
		return nil, fmt.Errorf("select recent posts: %w", err)
	}

	return toItems(rows), nil
}

// QueryByAuthors returns items by any of authorIDs created at or after since
func (s *SQLiteStore) QueryByAuthors(ctx context.Context, authorIDs []string, since time.Time, maxCount int) ([]content.Item, error) {
	if len(authorIDs) == 0 {
		return []content.Item{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, author_id, caption, image_url, created_at, latitude, longitude
		FROM posts
		WHERE author_id IN (?) AND created_at >= ?
		ORDER BY created_at DESC
		LIMIT ?`, authorIDs, since.UnixMilli(), maxCount)
	if err != nil {
		return nil, fmt.Errorf("expand author ids: %w", err)
	}

	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select posts by authors: %w", err)
	}

	return toItems(rows), nil
}

// LikesFor returns every like on an item
func (s *SQLiteStore) LikesFor(ctx context.Context, contentID string) ([]content.EngagementEvent, error) {
	return s.engagementFor(ctx, "likes", content.KindLike, contentID)
}

// CommentsFor returns every comment on an item
func (s *SQLiteStore) CommentsFor(ctx context.Context, contentID string) ([]content.EngagementEvent, error) {
	return s.engagementFor(ctx, "comments", content.KindComment, contentID)
}

func (s *SQLiteStore) engagementFor(ctx context.Context, table string, kind content.EngagementKind, contentID string) ([]content.EngagementEvent, error) {
	var rows []engagementRow
	query := fmt.Sprintf(`SELECT id, post_id, user_id, created_at FROM %s WHERE post_id = ?`, table)

	if err := s.db.SelectContext(ctx, &rows, query, contentID); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}

	events := make([]content.EngagementEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, content.EngagementEvent{
			ID:         r.ID,
			TargetID:   r.PostID,
			UserID:     r.UserID,
			Kind:       kind,
			OccurredAt: time.UnixMilli(r.CreatedAt).UTC(),
		})
	}

	return events, nil
}

// CreateItem inserts a post, ignoring duplicates
func (s *SQLiteStore) CreateItem(ctx context.Context, item content.Item) error {
	row := postRow{
		ID:        item.ID,
		AuthorID:  item.AuthorID,
		Caption:   item.Caption,
		ImageURL:  item.ImageURL,
		CreatedAt: item.CreatedAt.UnixMilli(),
	}
	if item.Location != nil {
		row.Latitude = sql.NullFloat64{Float64: item.Location.Latitude, Valid: true}
		row.Longitude = sql.NullFloat64{Float64: item.Location.Longitude, Valid: true}
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO posts (id, author_id, caption, image_url, created_at, latitude, longitude)
		VALUES (:id, :author_id, :caption, :image_url, :created_at, :latitude, :longitude)
		ON CONFLICT (id) DO NOTHING`, row)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// AddEngagement records a like or comment, ignoring duplicates
func (s *SQLiteStore) AddEngagement(ctx context.Context, event content.EngagementEvent) error {
	table, ok := engagementTable(string(event.Kind))
	if !ok {
		return fmt.Errorf("unknown engagement kind %q", event.Kind)
	}

	row := engagementRow{
		ID:        event.ID,
		PostID:    event.TargetID,
		UserID:    event.UserID,
		CreatedAt: event.OccurredAt.UnixMilli(),
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, post_id, user_id, created_at)
		VALUES (:id, :post_id, :user_id, :created_at)
		ON CONFLICT (id) DO NOTHING`, table)

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	return nil
}

// RemoveEngagement deletes a like or comment by id
func (s *SQLiteStore) RemoveEngagement(ctx context.Context, kind content.EngagementKind, id string) error {
	table, ok := engagementTable(string(kind))
	if !ok {
		return fmt.Errorf("unknown engagement kind %q", kind)
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}

	return nil
}

func toItems(rows []postRow) []content.Item {
	items := make([]content.Item, 0, len(rows))

	for _, r := range rows {
		item := content.Item{
			ID:        r.ID,
			AuthorID:  r.AuthorID,
			Caption:   r.Caption,
			ImageURL:  r.ImageURL,
			CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
		}
		if r.Latitude.Valid && r.Longitude.Valid {
			item.Location = &content.Location{
				Latitude:  r.Latitude.Float64,
				Longitude: r.Longitude.Float64,
			}
		}
		items = append(items, item)
	}

	return items
}
