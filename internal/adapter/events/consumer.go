// internal/adapter/events/consumer.go

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/phuslu/log"

	"geofeed/internal/domain/content"
)

// Inbound subjects produced by the posting flow
const (
	SubjectContentCreated    = "content.created"
	SubjectEngagementCreated = "engagement.created"
	SubjectEngagementDeleted = "engagement.deleted"
)

var errMalformed = errors.New("malformed event")

// engagementDeleted is the payload of engagement.deleted
type engagementDeleted struct {
	ID   string                 `json:"id"`
	Kind content.EngagementKind `json:"kind"`
}

// Consumer ingests posts and engagement from NATS into the store
type Consumer struct {
	conn          *nats.Conn
	writer        content.Writer
	handleTimeout time.Duration
	logger        *log.Logger
	subscriptions []*nats.Subscription
}

// NewConsumer creates a consumer writing through writer
func NewConsumer(conn *nats.Conn, writer content.Writer, logger *log.Logger) *Consumer {
	return &Consumer{
		conn:          conn,
		writer:        writer,
		handleTimeout: 5 * time.Second,
		logger:        logger,
	}
}

// Start subscribes to every inbound subject
func (c *Consumer) Start() error {
	for _, subject := range []string{SubjectContentCreated, SubjectEngagementCreated, SubjectEngagementDeleted} {
		sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), c.handleTimeout)
			defer cancel()

			if err := c.handle(ctx, msg.Subject, msg.Data); err != nil {
				c.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("dropping event")
			}
		})
		if err != nil {
			c.Stop()
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		c.subscriptions = append(c.subscriptions, sub)
	}

	c.logger.Info().Int("subjects", len(c.subscriptions)).Msg("event consumer started")
	return nil
}

// Stop removes every subscription
func (c *Consumer) Stop() {
	for _, sub := range c.subscriptions {
		sub.Unsubscribe()
	}
	c.subscriptions = nil
}

func (c *Consumer) handle(ctx context.Context, subject string, data []byte) error {
	switch subject {
	case SubjectContentCreated:
		var item content.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("%w: %v", errMalformed, err)
		}
		if item.ID == "" || item.AuthorID == "" {
			return fmt.Errorf("%w: content requires id and author_id", errMalformed)
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		return c.writer.CreateItem(ctx, item)

	case SubjectEngagementCreated:
		var event content.EngagementEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return fmt.Errorf("%w: %v", errMalformed, err)
		}
		if event.ID == "" || event.TargetID == "" || !event.Kind.Valid() {
			return fmt.Errorf("%w: engagement requires id, target_id and a known kind", errMalformed)
		}
		if event.OccurredAt.IsZero() {
			event.OccurredAt = time.Now().UTC()
		}
		return c.writer.AddEngagement(ctx, event)

	case SubjectEngagementDeleted:
		var event engagementDeleted
		if err := json.Unmarshal(data, &event); err != nil {
			return fmt.Errorf("%w: %v", errMalformed, err)
		}
		if event.ID == "" || !event.Kind.Valid() {
			return fmt.Errorf("%w: deletion requires id and a known kind", errMalformed)
		}
		return c.writer.RemoveEngagement(ctx, event.Kind, event.ID)

	default:
		return fmt.Errorf("unexpected subject %s", subject)
	}
}
