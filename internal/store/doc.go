// Package store holds the single in-memory state value served by webui.
//
// The main components are:
//
//   - [Store]: Interface defining read, write and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [Snapshot]: A state value together with its version
//   - [Merge]: Shallow overlay of a patch onto a state value
//
// The store makes reads and writes of the state safe for concurrent use but
// does not serialize read-modify-write cycles: two writers that both start
// from the same snapshot will race, and the last [MemoryStore.Set] wins.
// Subscribers receive snapshots via channels with non-blocking sends (slow
// subscribers will miss updates rather than block the system).
//
// Users of the webui library should not need to interact with this package
// directly.
package store
