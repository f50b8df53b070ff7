package internal

import (
	"context"
	"sync"
	"sync/atomic"

	"go.eggybyte.com/flagx/core/errors"
	"go.eggybyte.com/flagx/core/log"
	"go.eggybyte.com/flagx/core/value"
)

// Engine merges the remote provider, the override store and the static
// defaults table into immutable resolved snapshots.
//
// Precedence per key: override > remote > default. Overrides are
// authoritative regardless of remote state so operators and testers can
// pin a value deterministically.
//
// The engine is the single writer of the published snapshot. Overrides are
// cached in memory (write-through to the host store), so resolution against
// an already-activated remote set never blocks.
type Engine struct {
	logger    log.Logger
	remote    RemoteProvider
	overrides *overrideStore
	defaults  map[string]value.Value
	recorder  Recorder
	store     *flagStore

	state int32 // atomic State

	// mu serializes mutations and snapshot publication.
	mu            sync.Mutex
	overrideCache map[string]value.Value

	// notifyMu guards the delivery queue. Notification batches enqueue in
	// publication order while e.mu is held, and a single drainer invokes
	// them, so every subscriber observes snapshots in the order they were
	// published even under concurrent mutators.
	notifyMu   sync.Mutex
	notifyQ    [][]func()
	delivering bool
}

// EngineOptions carries the engine's collaborators. Remote and Recorder
// may be nil; Logger and KV must be set by the facade.
type EngineOptions struct {
	Logger         log.Logger
	Remote         RemoteProvider
	KV             KeyValueStore
	Defaults       map[string]value.Value
	OverridePrefix string
	Recorder       Recorder
}

// NewEngine constructs an engine in the uninitialized state.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Logger == nil {
		return nil, errors.New(errors.CodeInvalidArgument, "logger is required")
	}
	if opts.KV == nil {
		return nil, errors.New(errors.CodeInvalidArgument, "key-value store is required")
	}
	for k := range opts.Defaults {
		if k == "" {
			return nil, errors.New(errors.CodeInvalidArgument, "defaults table contains an empty key")
		}
	}

	defaults := make(map[string]value.Value, len(opts.Defaults))
	for k, v := range opts.Defaults {
		defaults[k] = v
	}

	return &Engine{
		logger:        opts.Logger,
		remote:        opts.Remote,
		overrides:     newOverrideStore(opts.KV, opts.OverridePrefix),
		defaults:      defaults,
		recorder:      opts.Recorder,
		store:         newFlagStore(),
		overrideCache: make(map[string]value.Value),
	}, nil
}

// State returns the engine lifecycle state.
func (e *Engine) State() State {
	return State(atomic.LoadInt32(&e.state))
}

func (e *Engine) setState(s State) {
	atomic.StoreInt32(&e.state, int32(s))
}

// Initialize brings the engine to the ready state and publishes the first
// snapshot. A remote provider failure is absorbed and logged, never
// returned: defaults and overrides must still give the application a
// usable configuration. Only re-initialization is an error.
func (e *Engine) Initialize(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&e.state, int32(StateUninitialized), int32(StateInitializing)) {
		return errors.New(errors.CodeInvalidArgument, "engine is already initialized")
	}

	if e.remote != nil {
		if err := e.remote.Initialize(ctx); err != nil {
			e.logger.Error(err, "remote provider unavailable, serving overrides and defaults")
		}
	}

	cache, err := e.overrides.ListAll(ctx)
	if err != nil {
		// A broken override store degrades to remote+defaults; it must
		// not keep the application from configuring itself.
		e.logger.Error(err, "override store unreadable, serving remote and defaults")
		cache = make(map[string]value.Value)
	}

	e.mu.Lock()
	e.overrideCache = cache
	e.publishLocked()
	e.mu.Unlock()

	e.setState(StateReady)
	e.drain()
	e.logger.Info("engine initialized",
		log.Int("defaults", len(e.defaults)),
		log.Int("overrides", len(cache)))
	return nil
}

// Refresh triggers a fetch-and-activate cycle against the remote provider.
// Concurrent calls share one in-flight fetch. On failure the previously
// published snapshot stays authoritative and the error is returned with
// code UNAVAILABLE.
func (e *Engine) Refresh(ctx context.Context) error {
	if e.State() == StateUninitialized {
		return errors.New(errors.CodeInvalidArgument, "engine is not initialized")
	}
	if e.remote == nil {
		return errors.New(errors.CodeUnavailable, "no remote provider configured")
	}

	return e.store.Refresh(ctx, func(ctx context.Context) error {
		e.setState(StateRefreshing)
		defer e.setState(StateReady)

		if err := e.remote.Refresh(ctx); err != nil {
			e.record(func(r Recorder) { r.RefreshObserved("failure") })
			e.logger.Warn("refresh failed, keeping last snapshot")
			return errors.Wrap(errors.CodeUnavailable, "remote.refresh", err)
		}

		e.record(func(r Recorder) { r.RefreshObserved("success") })

		e.mu.Lock()
		e.publishLocked()
		e.mu.Unlock()
		e.drain()
		return nil
	})
}

// Resolve resolves a single key: override first, then the decoded remote
// value, then the defaults table, then the absent sentinel.
func (e *Engine) Resolve(key string) value.Resolved {
	e.mu.Lock()
	ov, hasOverride := e.overrideCache[key]
	e.mu.Unlock()
	if hasOverride {
		return value.Resolved{Value: ov, Provenance: value.ProvenanceOverride}
	}

	if e.remote != nil {
		if raw, ok := e.remote.GetAll()[key]; ok {
			return value.Resolved{Value: value.Decode(raw), Provenance: value.ProvenanceRemote}
		}
	}

	if def, ok := e.defaults[key]; ok {
		return value.Resolved{Value: def, Provenance: value.ProvenanceDefault}
	}

	return value.Resolved{Value: value.Absent(), Provenance: value.ProvenanceNone}
}

// Snapshot returns the last published snapshot.
func (e *Engine) Snapshot() *value.Snapshot {
	return e.store.Current()
}

// SetOverride persists an override and republishes. The write completes
// before the new snapshot is published, and publication completes before
// this call returns.
func (e *Engine) SetOverride(ctx context.Context, key string, v value.Value) error {
	if key == "" {
		return errors.New(errors.CodeInvalidArgument, "override key must not be empty")
	}
	if v.IsAbsent() {
		return errors.New(errors.CodeInvalidArgument, "cannot set the absent sentinel as an override")
	}

	e.mu.Lock()
	if err := e.overrides.Set(ctx, key, v); err != nil {
		e.mu.Unlock()
		return err
	}
	e.overrideCache[key] = v
	e.publishLocked()
	e.mu.Unlock()

	e.record(func(r Recorder) { r.OverrideMutated("set") })
	e.drain()
	e.logger.Debug("override set", log.Str("key", key))
	return nil
}

// ClearOverride removes the override for key and republishes, reverting
// the key to its remote or default value on the very next resolution.
func (e *Engine) ClearOverride(ctx context.Context, key string) error {
	e.mu.Lock()
	if err := e.overrides.Remove(ctx, key); err != nil {
		e.mu.Unlock()
		return err
	}
	delete(e.overrideCache, key)
	e.publishLocked()
	e.mu.Unlock()

	e.record(func(r Recorder) { r.OverrideMutated("clear") })
	e.drain()
	e.logger.Debug("override cleared", log.Str("key", key))
	return nil
}

// ClearAllOverrides removes every override under the reserved prefix and
// republishes.
func (e *Engine) ClearAllOverrides(ctx context.Context) error {
	e.mu.Lock()
	if err := e.overrides.Clear(ctx); err != nil {
		e.mu.Unlock()
		return err
	}
	e.overrideCache = make(map[string]value.Value)
	e.publishLocked()
	e.mu.Unlock()

	e.record(func(r Recorder) { r.OverrideMutated("clear_all") })
	e.drain()
	e.logger.Debug("all overrides cleared")
	return nil
}

// Subscribe registers a whole-snapshot listener.
func (e *Engine) Subscribe(fn func(*value.Snapshot)) func() {
	return e.store.Subscribe(fn)
}

// SubscribeKey registers a per-key listener.
func (e *Engine) SubscribeKey(key string, fn func(value.Resolved)) func() {
	return e.store.SubscribeKey(key, fn)
}

// publishLocked computes the snapshot over the union of remote, override
// and default keys, installs it and queues the subscriber notifications.
// Callers hold e.mu, which keeps the queue in publication order, and must
// call drain after unlocking.
func (e *Engine) publishLocked() {
	entries := make(map[string]value.Resolved, len(e.defaults)+len(e.overrideCache))

	for k, v := range e.defaults {
		entries[k] = value.Resolved{Value: v, Provenance: value.ProvenanceDefault}
	}
	if e.remote != nil {
		for k, raw := range e.remote.GetAll() {
			entries[k] = value.Resolved{Value: value.Decode(raw), Provenance: value.ProvenanceRemote}
		}
	}
	for k, v := range e.overrideCache {
		entries[k] = value.Resolved{Value: v, Provenance: value.ProvenanceOverride}
	}

	notify := e.store.Publish(value.NewSnapshot(entries))
	e.record(func(r Recorder) { r.SnapshotPublished(len(entries)) })
	if len(notify) == 0 {
		return
	}

	e.notifyMu.Lock()
	e.notifyQ = append(e.notifyQ, notify)
	e.notifyMu.Unlock()
}

// drain invokes queued subscriber callbacks with no engine lock held, so
// a callback may call back into the engine without deadlocking. Only one
// goroutine drains at a time: a callback that mutates the engine
// re-enters here, finds delivery in progress and leaves its batch to the
// active drainer, which preserves first-in-first-out delivery.
func (e *Engine) drain() {
	e.notifyMu.Lock()
	if e.delivering {
		e.notifyMu.Unlock()
		return
	}
	e.delivering = true
	for len(e.notifyQ) > 0 {
		batch := e.notifyQ[0]
		e.notifyQ = e.notifyQ[1:]
		e.notifyMu.Unlock()
		for _, fn := range batch {
			fn()
		}
		e.notifyMu.Lock()
	}
	e.delivering = false
	e.notifyMu.Unlock()
}

func (e *Engine) record(fn func(Recorder)) {
	if e.recorder != nil {
		fn(e.recorder)
	}
}
