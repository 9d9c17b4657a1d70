package services

import (
	"context"
	"sync"
)

// Store holds an immutable snapshot of session state and notifies subscribers
// whenever a new snapshot is published. Snapshots must be treated as read-only
// by readers; writers derive a new value in Update.
type Store[T any] struct {
	mu          sync.RWMutex
	snapshot    T
	version     uint64
	subscribers map[chan T]struct{}
}

// NewStore creates a store with an initial snapshot
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{
		snapshot:    initial,
		subscribers: make(map[chan T]struct{}),
	}
}

// Get returns the current snapshot
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Version returns the number of snapshots published since creation
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Update replaces the snapshot with fn(current) and notifies subscribers
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publish(fn(s.snapshot))
	return s.snapshot
}

// TryUpdate is Update for writers that may decide not to publish. When fn
// returns false nothing changes and subscribers are not notified.
func (s *Store[T]) TryUpdate(fn func(T) (T, bool)) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := fn(s.snapshot)
	if !ok {
		return s.snapshot, false
	}
	s.publish(next)
	return s.snapshot, true
}

// publish installs a snapshot. Callers hold s.mu.
func (s *Store[T]) publish(next T) {
	s.snapshot = next
	s.version++
	for ch := range s.subscribers {
		// Latest wins: drop a pending snapshot the subscriber has not read yet.
		select {
		case <-ch:
		default:
		}
		ch <- s.snapshot
	}
}

// Subscribe returns a channel receiving every snapshot published after the
// call. A slow reader only sees the most recent one. The channel is closed
// when ctx is done.
func (s *Store[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subscribers, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// SubscriberCount returns the number of active subscriptions
func (s *Store[T]) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
