package store

import "time"

// Snapshot is the state at one point in time.
type Snapshot[T any] struct {
	// State is the state value. Callers must treat it as read-only.
	State T

	// Version starts at 0 for the initial state and increases by one on
	// every Set.
	Version uint64

	// UpdatedAt is when this version was stored.
	UpdatedAt time.Time
}

// Store defines the interface for holding and subscribing to the state.
//
// Store implementations must be safe for concurrent access.
type Store[T any] interface {
	// Get returns the current snapshot.
	Get() Snapshot[T]

	// Set replaces the state, bumps the version and notifies subscribers.
	Set(state T) Snapshot[T]

	// Subscribe returns a channel that receives every new snapshot.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Snapshot[T]

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Snapshot[T])
}
