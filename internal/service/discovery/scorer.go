// internal/service/discovery/scorer.go

package discovery

import (
	"math"
	"time"

	"geofeed/internal/domain/content"
)

// Ranking constants. They decide what surfaces as trending; change them only
// with product sign-off.
const (
	LikeWeight    = 1.0
	CommentWeight = 2.0
	RecencyWindow = 24 * time.Hour
	DecayHours    = 24.0
	MinAgeInHours = 0.5
)

// Score computes the trending score for item at now. It is pure: the item is
// not modified and equal inputs give equal outputs.
func Score(item content.Item, likes, comments []content.EngagementEvent, now time.Time) content.TrendingScore {
	ageInHours := math.Max(MinAgeInHours, now.Sub(item.CreatedAt).Hours())

	recentLikes := countRecent(likes, now)
	recentComments := countRecent(comments, now)

	engagementScore := float64(recentLikes)*LikeWeight + float64(recentComments)*CommentWeight
	velocity := engagementScore / ageInHours
	timeDecayFactor := math.Exp(-ageInHours / DecayHours)

	return content.TrendingScore{
		Score:           velocity * (1 + timeDecayFactor),
		EngagementScore: engagementScore,
		Velocity:        velocity,
		TimeDecayFactor: timeDecayFactor,
		AgeInHours:      ageInHours,
		RecentLikes:     recentLikes,
		RecentComments:  recentComments,
	}
}

// countRecent counts events strictly inside the recency window. Older events
// are ignored, not decayed.
func countRecent(events []content.EngagementEvent, now time.Time) int {
	n := 0
	for _, e := range events {
		if now.Sub(e.OccurredAt) < RecencyWindow {
			n++
		}
	}
	return n
}
