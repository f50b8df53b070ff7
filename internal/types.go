// Package internal implements the flagx resolution engine, reactive store
// and the bundled provider/store adapters.
package internal

import (
	"context"
)

// RemoteProvider mirrors the public flagx.RemoteProvider interface so the
// engine does not depend on the facade package.
type RemoteProvider interface {
	// Initialize performs the first fetch-and-activate cycle.
	Initialize(ctx context.Context) error

	// Refresh performs a new fetch-and-activate cycle. The set returned by
	// GetAll must not change until the new fetch is fully activated.
	Refresh(ctx context.Context) error

	// GetAll returns the last successfully activated raw values, or an
	// empty map if nothing was ever fetched.
	GetAll() map[string]any
}

// KeyValueStore mirrors the public flagx.KeyValueStore interface. Values
// are persisted in the host store's native string encoding.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value under key.
	Set(ctx context.Context, key string, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys returns all stored keys.
	Keys(ctx context.Context) ([]string, error)
}

// Recorder receives engine events for metrics collection. A nil Recorder
// is valid and records nothing.
type Recorder interface {
	// RefreshObserved records one refresh attempt against the remote
	// provider with its outcome ("success" or "failure").
	RefreshObserved(outcome string)

	// SnapshotPublished records one snapshot publication and its key count.
	SnapshotPublished(keys int)

	// OverrideMutated records one override write, clear or clear-all.
	OverrideMutated(op string)
}

// State is the engine lifecycle state.
type State int32

// Engine lifecycle: Uninitialized -> Initializing -> Ready <-> Refreshing.
// Initializing always reaches Ready, even when the remote provider fails;
// defaults and overrides must keep serving.
const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateRefreshing
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateRefreshing:
		return "refreshing"
	default:
		return "uninitialized"
	}
}
