// internal/adapter/storage/schema.go

package storage

// postgresSchema creates the tables read by discovery
const postgresSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id          TEXT PRIMARY KEY,
	author_id   TEXT NOT NULL,
	caption     TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	latitude    DOUBLE PRECISION,
	longitude   DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC);
CREATE INDEX IF NOT EXISTS posts_author_created_idx ON posts (author_id, created_at DESC);

CREATE TABLE IF NOT EXISTS likes (
	id          TEXT PRIMARY KEY,
	post_id     TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS likes_post_idx ON likes (post_id);

CREATE TABLE IF NOT EXISTS comments (
	id          TEXT PRIMARY KEY,
	post_id     TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS comments_post_idx ON comments (post_id);
`

// sqliteSchema stores timestamps as unix milliseconds
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id          TEXT PRIMARY KEY,
		author_id   TEXT NOT NULL,
		caption     TEXT NOT NULL DEFAULT '',
		image_url   TEXT NOT NULL DEFAULT '',
		created_at  INTEGER NOT NULL,
		latitude    REAL,
		longitude   REAL
	)`,
	`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS posts_author_created_idx ON posts (author_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS likes (
		id          TEXT PRIMARY KEY,
		post_id     TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		created_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS likes_post_idx ON likes (post_id)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id          TEXT PRIMARY KEY,
		post_id     TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		created_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS comments_post_idx ON comments (post_id)`,
}

// engagementTable maps a kind to its table
func engagementTable(kind string) (string, bool) {
	switch kind {
	case "like":
		return "likes", true
	case "comment":
		return "comments", true
	default:
		return "", false
	}
}
