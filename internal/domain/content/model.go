// internal/domain/content/model.go

package content

import (
	"time"
)

// Location is a WGS84 coordinate in decimal degrees
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EngagementKind distinguishes likes from comments
type EngagementKind string

const (
	KindLike    EngagementKind = "like"
	KindComment EngagementKind = "comment"
)

// Valid reports whether k is a known engagement kind
func (k EngagementKind) Valid() bool {
	return k == KindLike || k == KindComment
}

// EngagementEvent is a like or comment on a content item
type EngagementEvent struct {
	ID         string         `json:"id"`
	TargetID   string         `json:"target_id"`
	UserID     string         `json:"user_id"`
	Kind       EngagementKind `json:"kind"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// TrendingScore is derived per item per scoring run and never persisted
type TrendingScore struct {
	Score           float64 `json:"score"`
	EngagementScore float64 `json:"engagement_score"`
	Velocity        float64 `json:"velocity"`
	TimeDecayFactor float64 `json:"time_decay_factor"`
	AgeInHours      float64 `json:"age_in_hours"`
	RecentLikes     int     `json:"recent_likes"`
	RecentComments  int     `json:"recent_comments"`
}

// Item is a single posted photo. The posting flow owns it; discovery only
// reads it and returns annotated copies.
type Item struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Caption   string    `json:"caption,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Location  *Location `json:"location,omitempty"`

	// Set by discovery
	Trending           *TrendingScore `json:"trending,omitempty"`
	LikeCount          int            `json:"like_count"`
	CommentCount       int            `json:"comment_count"`
	EngagementDegraded bool           `json:"engagement_degraded,omitempty"`
}

// HasLocation reports whether the item carries coordinates
func (i Item) HasLocation() bool {
	return i.Location != nil
}

// HasEngagement reports whether the item has at least one like or comment
func (i Item) HasEngagement() bool {
	return i.LikeCount > 0 || i.CommentCount > 0
}
