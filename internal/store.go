package internal

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"go.eggybyte.com/flagx/core/value"
)

// flagStore holds the current resolved snapshot and fans new snapshots out
// to subscribers. It is the only component consumers read from; the engine
// is its only writer.
type flagStore struct {
	mu       sync.RWMutex
	current  *value.Snapshot
	subs     map[int]func(*value.Snapshot)
	keySubs  map[int]keySubscription
	nextSub  int
	refreshG singleflight.Group
}

type keySubscription struct {
	key string
	fn  func(value.Resolved)
}

func newFlagStore() *flagStore {
	return &flagStore{
		subs:    make(map[int]func(*value.Snapshot)),
		keySubs: make(map[int]keySubscription),
	}
}

// Current returns the last published snapshot, nil before the first
// publication.
func (s *flagStore) Current() *value.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Publish installs a new snapshot and returns the notification list:
// every whole-snapshot subscriber, plus the per-key subscribers whose
// resolved value or provenance changed against the previous snapshot.
// Callbacks are returned rather than invoked so the engine can deliver
// them outside its own lock.
func (s *flagStore) Publish(snap *value.Snapshot) []func() {
	s.mu.Lock()
	prev := s.current
	s.current = snap

	notify := make([]func(), 0, len(s.subs)+len(s.keySubs))
	for _, fn := range s.subs {
		fn := fn
		notify = append(notify, func() { fn(snap) })
	}
	for _, sub := range s.keySubs {
		next := snap.Get(sub.key)
		if prev != nil && prev.Get(sub.key).Equal(next) {
			continue
		}
		fn := sub.fn
		notify = append(notify, func() { fn(next) })
	}
	s.mu.Unlock()

	return notify
}

// Subscribe registers a listener for every published snapshot.
// The returned function removes the subscription.
func (s *flagStore) Subscribe(fn func(*value.Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// SubscribeKey registers a listener notified only when the resolved value
// or provenance of key differs from the previous snapshot.
func (s *flagStore) SubscribeKey(key string, fn func(value.Resolved)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.keySubs[id] = keySubscription{key: key, fn: fn}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.keySubs, id)
	}
}

// Refresh coalesces concurrent refresh calls into one underlying fetch.
// A caller arriving while a refresh is in flight shares its outcome
// instead of triggering a second one.
func (s *flagStore) Refresh(ctx context.Context, fetch func(context.Context) error) error {
	_, err, _ := s.refreshG.Do("refresh", func() (any, error) {
		return nil, fetch(ctx)
	})
	return err
}
