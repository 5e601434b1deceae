package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"geofeed/internal/domain/content"
	"geofeed/internal/domain/discovery"
	"geofeed/internal/logging"
)

type published struct {
	subject string
	data    []byte
}

type fakeBus struct {
	messages []published
	err      error
}

func (b *fakeBus) Publish(subject string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, published{subject: subject, data: data})
	return nil
}

type fakeWriter struct {
	items   []content.Item
	added   []content.EngagementEvent
	removed []string
}

func (w *fakeWriter) CreateItem(_ context.Context, item content.Item) error {
	w.items = append(w.items, item)
	return nil
}

func (w *fakeWriter) AddEngagement(_ context.Context, event content.EngagementEvent) error {
	w.added = append(w.added, event)
	return nil
}

func (w *fakeWriter) RemoveEngagement(_ context.Context, kind content.EngagementKind, id string) error {
	w.removed = append(w.removed, string(kind)+":"+id)
	return nil
}

func TestPublishTrendingRefreshed(t *testing.T) {
	bus := &fakeBus{}
	p := NewPublisher(bus, "", logging.Nop())
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []content.Item{{ID: "a"}, {ID: "b"}}
	if err := p.PublishTrendingRefreshed(discovery.TimeframeWeek, items, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bus.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(bus.messages))
	}
	if bus.messages[0].subject != "discovery.refreshed" {
		t.Errorf("unexpected subject %s", bus.messages[0].subject)
	}

	var event TrendingRefreshed
	if err := json.Unmarshal(bus.messages[0].data, &event); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if event.ID == "" {
		t.Error("expected event id")
	}
	if event.Type != TypeTrendingRefreshed || event.Timeframe != "7d" || event.Count != 2 {
		t.Errorf("unexpected event %+v", event)
	}
	if len(event.ItemIDs) != 2 || event.ItemIDs[0] != "a" || event.ItemIDs[1] != "b" {
		t.Errorf("unexpected item ids %v", event.ItemIDs)
	}
	if !event.ComputedAt.Equal(now) {
		t.Errorf("expected computed_at %v, got %v", now, event.ComputedAt)
	}
}

func TestPublishTrendingRefreshed_CustomTopicAndError(t *testing.T) {
	bus := &fakeBus{err: errors.New("no connection")}
	p := NewPublisher(bus, "photos", logging.Nop())

	if got := p.RefreshedSubject(); got != "photos.refreshed" {
		t.Errorf("unexpected subject %s", got)
	}
	if err := p.PublishTrendingRefreshed(discovery.TimeframeDay, nil, time.Now()); err == nil {
		t.Error("expected publish error")
	}
}

func TestConsumerHandle(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		payload string
		wantErr bool
		check   func(t *testing.T, w *fakeWriter)
	}{
		{
			name:    "content created",
			subject: SubjectContentCreated,
			payload: `{"id":"p1","author_id":"u1","created_at":"2024-03-01T10:00:00Z","location":{"latitude":39.95,"longitude":-75.16}}`,
			check: func(t *testing.T, w *fakeWriter) {
				if len(w.items) != 1 || w.items[0].ID != "p1" || w.items[0].Location == nil {
					t.Errorf("unexpected items %+v", w.items)
				}
			},
		},
		{
			name:    "content without author",
			subject: SubjectContentCreated,
			payload: `{"id":"p1"}`,
			wantErr: true,
		},
		{
			name:    "engagement created",
			subject: SubjectEngagementCreated,
			payload: `{"id":"l1","target_id":"p1","user_id":"u2","kind":"like"}`,
			check: func(t *testing.T, w *fakeWriter) {
				if len(w.added) != 1 || w.added[0].Kind != content.KindLike {
					t.Fatalf("unexpected engagement %+v", w.added)
				}
				if w.added[0].OccurredAt.IsZero() {
					t.Error("expected occurred_at to default to now")
				}
			},
		},
		{
			name:    "engagement with unknown kind",
			subject: SubjectEngagementCreated,
			payload: `{"id":"x","target_id":"p1","kind":"share"}`,
			wantErr: true,
		},
		{
			name:    "engagement deleted",
			subject: SubjectEngagementDeleted,
			payload: `{"id":"c1","kind":"comment"}`,
			check: func(t *testing.T, w *fakeWriter) {
				if len(w.removed) != 1 || w.removed[0] != "comment:c1" {
					t.Errorf("unexpected removals %v", w.removed)
				}
			},
		},
		{
			name:    "malformed json",
			subject: SubjectEngagementDeleted,
			payload: `{`,
			wantErr: true,
		},
		{
			name:    "unknown subject",
			subject: "other.thing",
			payload: `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWriter{}
			c := NewConsumer(nil, w, logging.Nop())

			err := c.handle(context.Background(), tt.subject, []byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("handle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}
