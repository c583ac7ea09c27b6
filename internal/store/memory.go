package store

import (
	"sync"
	"time"
)

// subscriberBuffer is the channel capacity given to each subscriber.
const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// Subscribers receive snapshots via buffered channels. Sends are
// non-blocking; if a subscriber's buffer is full, the snapshot is dropped
// for that subscriber to prevent blocking writers.
type MemoryStore[T any] struct {
	mu          sync.RWMutex
	current     Snapshot[T]
	subscribers map[chan Snapshot[T]]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a store holding initial at version 0.
func NewMemoryStore[T any](initial T) *MemoryStore[T] {
	return &MemoryStore[T]{
		current: Snapshot[T]{
			State:     initial,
			UpdatedAt: time.Now(),
		},
		subscribers: make(map[chan Snapshot[T]]struct{}),
	}
}

// Get returns the current snapshot.
func (m *MemoryStore[T]) Get() Snapshot[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set stores state as the next version and notifies all subscribers.
func (m *MemoryStore[T]) Set(state T) Snapshot[T] {
	m.mu.Lock()
	m.current = Snapshot[T]{
		State:     state,
		Version:   m.current.Version + 1,
		UpdatedAt: time.Now(),
	}
	snap := m.current
	m.mu.Unlock()

	m.notifySubscribers(snap)
	return snap
}

// Subscribe creates a new subscription and returns a channel for receiving
// snapshots.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore[T]) Subscribe() <-chan Snapshot[T] {
	ch := make(chan Snapshot[T], subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore[T]) Unsubscribe(ch <-chan Snapshot[T]) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

func (m *MemoryStore[T]) notifySubscribers(snap Snapshot[T]) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- snap:
		default:
			// subscriber is slow, drop the snapshot
		}
	}
}
