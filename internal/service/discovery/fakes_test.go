package discovery

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"geofeed/internal/domain/content"
)

// manualClock is a settable clock for TTL and age tests
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(t time.Time) *manualClock {
	return &manualClock{now: t}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var errStoreDown = errors.New("store unavailable")

// fakeStore implements ContentStore and EngagementStore in memory
type fakeStore struct {
	mu sync.Mutex

	items    []content.Item
	likes    map[string][]content.EngagementEvent
	comments map[string][]content.EngagementEvent

	recentErr     error
	authorsErr    error
	engagementErr map[string]error

	recentCalls  int
	authorCalls  [][]string
	recentSince  time.Time
	recentMaxArg int

	// likesDelay holds each LikesFor call open so overlap can be measured
	likesDelay  time.Duration
	flightMu    sync.Mutex
	inFlight    int
	maxInFlight int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		likes:         make(map[string][]content.EngagementEvent),
		comments:      make(map[string][]content.EngagementEvent),
		engagementErr: make(map[string]error),
	}
}

func (s *fakeStore) add(item content.Item, likes, comments int, ago time.Duration, now time.Time) {
	s.items = append(s.items, item)
	for i := 0; i < likes; i++ {
		s.likes[item.ID] = append(s.likes[item.ID], content.EngagementEvent{
			TargetID: item.ID, Kind: content.KindLike, OccurredAt: now.Add(-ago),
		})
	}
	for i := 0; i < comments; i++ {
		s.comments[item.ID] = append(s.comments[item.ID], content.EngagementEvent{
			TargetID: item.ID, Kind: content.KindComment, OccurredAt: now.Add(-ago),
		})
	}
}

func (s *fakeStore) QueryRecent(ctx context.Context, since time.Time, maxCount int) ([]content.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recentCalls++
	s.recentSince = since
	s.recentMaxArg = maxCount

	if s.recentErr != nil {
		return nil, s.recentErr
	}

	var out []content.Item
	for _, item := range s.items {
		if !item.CreatedAt.Before(since) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > maxCount {
		out = out[:maxCount]
	}
	return out, nil
}

func (s *fakeStore) QueryByAuthors(ctx context.Context, authorIDs []string, since time.Time, maxCount int) ([]content.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := append([]string(nil), authorIDs...)
	s.authorCalls = append(s.authorCalls, batch)

	if s.authorsErr != nil {
		return nil, s.authorsErr
	}

	wanted := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		wanted[id] = true
	}

	var out []content.Item
	for _, item := range s.items {
		if wanted[item.AuthorID] && !item.CreatedAt.Before(since) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > maxCount {
		out = out[:maxCount]
	}
	return out, nil
}

func (s *fakeStore) LikesFor(ctx context.Context, id string) ([]content.EngagementEvent, error) {
	if s.likesDelay > 0 {
		s.flightMu.Lock()
		s.inFlight++
		if s.inFlight > s.maxInFlight {
			s.maxInFlight = s.inFlight
		}
		s.flightMu.Unlock()

		time.Sleep(s.likesDelay)

		s.flightMu.Lock()
		s.inFlight--
		s.flightMu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engagementErr[id]; err != nil {
		return nil, err
	}
	return s.likes[id], nil
}

func (s *fakeStore) CommentsFor(ctx context.Context, id string) ([]content.EngagementEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments[id], nil
}

func (s *fakeStore) contentCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recentCalls + len(s.authorCalls)
}
