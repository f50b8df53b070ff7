package flagx

import (
	"context"

	"go.eggybyte.com/flagx/core/errors"
	"go.eggybyte.com/flagx/core/log"
	"go.eggybyte.com/flagx/core/value"
	"go.eggybyte.com/flagx/internal"
)

// RemoteProvider is the remote configuration backend consumed by the
// engine. Implementations must activate fetched value sets atomically:
// GetAll must never expose a partially-updated set, and a failed Refresh
// must leave the previously activated set untouched.
type RemoteProvider interface {
	// Initialize performs the first fetch-and-activate cycle.
	Initialize(ctx context.Context) error

	// Refresh performs a new fetch-and-activate cycle.
	Refresh(ctx context.Context) error

	// GetAll returns the last successfully activated raw values, or an
	// empty map if nothing was ever fetched.
	GetAll() map[string]any
}

// KeyValueStore is the local persistence consumed by the engine for
// override entries. The engine namespaces its keys under a reserved
// prefix, so the store may be shared with the host application.
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

// Engine is the configuration resolution engine. One explicitly
// constructed instance is shared per process and passed to consumers;
// there is no hidden global.
//
// Precedence per key: override > remote > default. Typed getters never
// fail: a variant mismatch or unresolved key yields the caller's fallback,
// because remote and override data is untrusted input.
type Engine interface {
	// Initialize transitions the engine to ready and publishes the first
	// snapshot. A remote provider failure is absorbed and logged so
	// overrides and defaults keep serving; only re-initialization errors.
	Initialize(ctx context.Context) error

	// Refresh fetches and activates a new remote value set, then
	// republishes. Concurrent calls share one in-flight fetch. On failure
	// the last snapshot stays published and an UNAVAILABLE error returns.
	Refresh(ctx context.Context) error

	// GetBool returns the resolved boolean for key, or fallback.
	GetBool(key string, fallback bool) bool

	// GetInt returns the resolved integer for key, or fallback.
	GetInt(key string, fallback int64) int64

	// GetFloat returns the resolved float for key, or fallback.
	GetFloat(key string, fallback float64) float64

	// GetString returns the resolved string for key, or fallback.
	GetString(key string, fallback string) string

	// GetJSON returns the resolved JSON document for key, or fallback.
	GetJSON(key string, fallback any) any

	// Resolve returns the resolved value and its provenance for key.
	Resolve(key string) value.Resolved

	// Snapshot returns the last published snapshot. Snapshots are
	// immutable; compare by pointer to detect "nothing changed".
	Snapshot() *value.Snapshot

	// SetOverride persists an override and republishes before returning.
	// Overrides dominate remote and default values until cleared.
	SetOverride(ctx context.Context, key string, v value.Value) error

	// ClearOverride removes the override for key and republishes,
	// reverting the key to its remote or default value.
	ClearOverride(ctx context.Context, key string) error

	// ClearAllOverrides removes every override and republishes.
	ClearAllOverrides(ctx context.Context) error

	// Subscribe registers a listener for every published snapshot.
	// The returned function removes the subscription.
	Subscribe(fn func(*value.Snapshot)) (unsubscribe func())

	// SubscribeKey registers a listener notified only when the resolved
	// value or provenance of key changes between snapshots.
	SubscribeKey(key string, fn func(value.Resolved)) (unsubscribe func())

	// Bind decodes the current snapshot into a struct via `flag` tags.
	// With WithUpdateCallback the struct is re-bound on every change.
	Bind(target any, opts ...BindOption) error

	// State returns the engine lifecycle state for diagnostics.
	State() string
}

// Options holds the engine's collaborators and static configuration.
type Options struct {
	Logger         log.Logger               // Diagnostics collaborator (default: discard)
	Remote         RemoteProvider           // Remote backend (optional; nil serves overrides and defaults only)
	Store          KeyValueStore            // Override persistence (default: in-memory)
	Defaults       map[string]value.Value   // Static defaults table, never mutated at runtime
	OverridePrefix string                   // Reserved key prefix (default: "config_override_")
	Metrics        *MetricsCollector        // Optional Prometheus collector
}

// BindOption configures binding behavior.
type BindOption interface {
	apply(*bindConfig)
}

type bindConfig struct {
	onUpdate func()
}

type bindOptionFunc func(*bindConfig)

func (f bindOptionFunc) apply(cfg *bindConfig) {
	f(cfg)
}

// WithUpdateCallback re-binds the target and invokes fn whenever a new
// snapshot is published.
func WithUpdateCallback(fn func()) BindOption {
	return bindOptionFunc(func(cfg *bindConfig) {
		cfg.onUpdate = fn
	})
}

// New constructs an engine in the uninitialized state. Call Initialize
// before reading values; getters before then serve only defaults.
func New(opts Options) (Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard
	}

	var remote internal.RemoteProvider
	if opts.Remote != nil {
		remote = opts.Remote
	}

	var kv internal.KeyValueStore
	if opts.Store != nil {
		kv = opts.Store
	} else {
		kv = internal.NewMemoryKVStore()
	}

	var recorder internal.Recorder
	if opts.Metrics != nil {
		recorder = opts.Metrics
	}

	impl, err := internal.NewEngine(internal.EngineOptions{
		Logger:         logger,
		Remote:         remote,
		KV:             kv,
		Defaults:       opts.Defaults,
		OverridePrefix: opts.OverridePrefix,
		Recorder:       recorder,
	})
	if err != nil {
		return nil, err
	}

	return &engine{impl: impl}, nil
}

// engine wraps the internal engine implementation.
type engine struct {
	impl *internal.Engine
}

func (e *engine) Initialize(ctx context.Context) error {
	return e.impl.Initialize(ctx)
}

func (e *engine) Refresh(ctx context.Context) error {
	return e.impl.Refresh(ctx)
}

func (e *engine) GetBool(key string, fallback bool) bool {
	return e.impl.Resolve(key).Value.BoolOr(fallback)
}

func (e *engine) GetInt(key string, fallback int64) int64 {
	return e.impl.Resolve(key).Value.IntOr(fallback)
}

func (e *engine) GetFloat(key string, fallback float64) float64 {
	return e.impl.Resolve(key).Value.FloatOr(fallback)
}

func (e *engine) GetString(key string, fallback string) string {
	return e.impl.Resolve(key).Value.StrOr(fallback)
}

func (e *engine) GetJSON(key string, fallback any) any {
	return e.impl.Resolve(key).Value.JSONOr(fallback)
}

func (e *engine) Resolve(key string) value.Resolved {
	return e.impl.Resolve(key)
}

func (e *engine) Snapshot() *value.Snapshot {
	return e.impl.Snapshot()
}

func (e *engine) SetOverride(ctx context.Context, key string, v value.Value) error {
	return e.impl.SetOverride(ctx, key, v)
}

func (e *engine) ClearOverride(ctx context.Context, key string) error {
	return e.impl.ClearOverride(ctx, key)
}

func (e *engine) ClearAllOverrides(ctx context.Context) error {
	return e.impl.ClearAllOverrides(ctx)
}

func (e *engine) Subscribe(fn func(*value.Snapshot)) func() {
	return e.impl.Subscribe(fn)
}

func (e *engine) SubscribeKey(key string, fn func(value.Resolved)) func() {
	return e.impl.SubscribeKey(key, fn)
}

func (e *engine) Bind(target any, opts ...BindOption) error {
	if target == nil {
		return errors.New(errors.CodeInvalidArgument, "target cannot be nil")
	}

	var cfg bindConfig
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if err := internal.BindToStruct(e.impl.Snapshot(), target); err != nil {
		return errors.Wrap(errors.CodeInvalidArgument, "engine.bind", err)
	}

	if cfg.onUpdate != nil {
		e.impl.Subscribe(func(snap *value.Snapshot) {
			if err := internal.BindToStruct(snap, target); err != nil {
				return
			}
			cfg.onUpdate()
		})
	}

	return nil
}

func (e *engine) State() string {
	return e.impl.State().String()
}

// IsUnavailable reports whether err is a remote provider failure.
func IsUnavailable(err error) bool {
	return errors.IsCode(err, errors.CodeUnavailable)
}

// IsStorage reports whether err is an override store failure.
func IsStorage(err error) bool {
	return errors.IsCode(err, errors.CodeStorage)
}
