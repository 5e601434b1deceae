// internal/adapter/events/publisher.go

package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"geofeed/internal/domain/content"
	"geofeed/internal/domain/discovery"
)

// TypeTrendingRefreshed is the event type published after a warm run
const TypeTrendingRefreshed = "trending.refreshed"

// DefaultTopic prefixes every outbound subject
const DefaultTopic = "discovery"

// Bus is the publishing half of a NATS connection
type Bus interface {
	Publish(subject string, data []byte) error
}

// TrendingRefreshed announces a recomputed global trending list
type TrendingRefreshed struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Timeframe  string    `json:"timeframe"`
	Count      int       `json:"count"`
	ItemIDs    []string  `json:"item_ids"`
	ComputedAt time.Time `json:"computed_at"`
}

// Publisher writes discovery events to NATS
type Publisher struct {
	bus    Bus
	topic  string
	logger *log.Logger
}

// NewPublisher creates a publisher. An empty topic falls back to DefaultTopic.
func NewPublisher(bus Bus, topic string, logger *log.Logger) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		bus:    bus,
		topic:  topic,
		logger: logger,
	}
}

// RefreshedSubject is the subject trending refresh events go out on
func (p *Publisher) RefreshedSubject() string {
	return fmt.Sprintf("%s.refreshed", p.topic)
}

// PublishTrendingRefreshed announces a freshly computed trending list
func (p *Publisher) PublishTrendingRefreshed(tf discovery.Timeframe, items []content.Item, computedAt time.Time) error {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	event := TrendingRefreshed{
		ID:         uuid.New().String(),
		Type:       TypeTrendingRefreshed,
		Timeframe:  string(tf),
		Count:      len(items),
		ItemIDs:    ids,
		ComputedAt: computedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh event: %w", err)
	}

	subject := p.RefreshedSubject()
	if err := p.bus.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug().Str("subject", subject).Str("timeframe", string(tf)).Int("count", len(items)).Msg("published trending refresh")
	return nil
}
