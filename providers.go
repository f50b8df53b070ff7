package flagx

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"
	"k8s.io/client-go/kubernetes"

	"go.eggybyte.com/flagx/core/log"
	"go.eggybyte.com/flagx/internal"
)

// HTTPRemoteOptions configures the HTTP remote provider.
type HTTPRemoteOptions struct {
	Timeout          time.Duration // Request timeout (default: 10s)
	MaxRetries       int           // Retry attempts per fetch (default: 3)
	RetryBackoff     time.Duration // Initial backoff duration (default: 100ms)
	EnableCircuit    bool          // Enable circuit breaker
	CircuitThreshold uint32        // Consecutive failures before the breaker opens (default: 5)
	Header           http.Header   // Extra headers, e.g. authorization
	Client           *http.Client  // Override the HTTP client (testing)
	Logger           log.Logger
}

// NewHTTPRemoteProvider creates a remote provider that fetches the full raw
// value set as one JSON object from url.
func NewHTTPRemoteProvider(url string, opts HTTPRemoteOptions) RemoteProvider {
	return internal.NewHTTPRemoteProvider(url, internal.HTTPRemoteOptions{
		Timeout:          opts.Timeout,
		MaxRetries:       opts.MaxRetries,
		RetryBackoff:     opts.RetryBackoff,
		EnableCircuit:    opts.EnableCircuit,
		CircuitThreshold: opts.CircuitThreshold,
		Header:           opts.Header,
		Client:           opts.Client,
		Logger:           opts.Logger,
	})
}

// ConfigMapRemoteOptions configures the Kubernetes ConfigMap provider.
type ConfigMapRemoteOptions struct {
	Namespace string               // ConfigMap namespace (default: "default")
	Client    kubernetes.Interface // Injected client; nil uses in-cluster config
	Logger    log.Logger
}

// NewConfigMapRemoteProvider creates a remote provider reading the named
// Kubernetes ConfigMap's data section.
func NewConfigMapRemoteProvider(name string, opts ConfigMapRemoteOptions) RemoteProvider {
	return internal.NewConfigMapRemoteProvider(name, internal.ConfigMapRemoteOptions{
		Namespace: opts.Namespace,
		Client:    opts.Client,
		Logger:    opts.Logger,
	})
}

// StaticRemoteProvider serves a fixed raw value set from memory, for tests
// and applications that deliver remote values through their own channel.
type StaticRemoteProvider struct {
	impl *internal.StaticRemoteProvider
}

// NewStaticRemoteProvider creates a provider whose first fetch activates
// the given values.
func NewStaticRemoteProvider(values map[string]any) *StaticRemoteProvider {
	return &StaticRemoteProvider{impl: internal.NewStaticRemoteProvider(values)}
}

// Initialize activates the staged value set.
func (p *StaticRemoteProvider) Initialize(ctx context.Context) error {
	return p.impl.Initialize(ctx)
}

// Refresh activates the staged value set.
func (p *StaticRemoteProvider) Refresh(ctx context.Context) error {
	return p.impl.Refresh(ctx)
}

// GetAll returns the last activated value set.
func (p *StaticRemoteProvider) GetAll() map[string]any {
	return p.impl.GetAll()
}

// SetValues stages a new value set; it activates on the next successful
// Initialize or Refresh.
func (p *StaticRemoteProvider) SetValues(values map[string]any) {
	p.impl.SetValues(values)
}

// FailWith makes subsequent Initialize and Refresh calls fail with err.
// Passing nil restores normal operation.
func (p *StaticRemoteProvider) FailWith(err error) {
	p.impl.FailWith(err)
}

// NewMemoryStore creates a process-local KeyValueStore.
func NewMemoryStore() KeyValueStore {
	return internal.NewMemoryKVStore()
}

// GormStoreOptions holds the database connection settings for the durable
// key-value store.
type GormStoreOptions struct {
	DSN             string        // Database connection string
	Driver          string        // mysql, postgres or sqlite (default: sqlite)
	MaxIdleConns    int           // Maximum idle connections
	MaxOpenConns    int           // Maximum open connections
	ConnMaxLifetime time.Duration // Maximum connection lifetime
}

// GormStore is a durable KeyValueStore backed by a SQL database.
type GormStore struct {
	impl *internal.GormKVStore
}

// NewGormStore opens the database, migrates the backing table and returns
// the store.
func NewGormStore(opts GormStoreOptions) (*GormStore, error) {
	impl, err := internal.NewGormKVStore(internal.GormKVOptions{
		DSN:             opts.DSN,
		Driver:          opts.Driver,
		MaxIdleConns:    opts.MaxIdleConns,
		MaxOpenConns:    opts.MaxOpenConns,
		ConnMaxLifetime: opts.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	return &GormStore{impl: impl}, nil
}

// NewGormStoreFromDB wraps an existing GORM handle.
func NewGormStoreFromDB(db *gorm.DB) (*GormStore, error) {
	impl, err := internal.NewGormKVStoreFromDB(db)
	if err != nil {
		return nil, err
	}
	return &GormStore{impl: impl}, nil
}

// Get returns the stored value and whether the key exists.
func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.impl.Get(ctx, key)
}

// Set stores a value under key.
func (s *GormStore) Set(ctx context.Context, key string, value string) error {
	return s.impl.Set(ctx, key, value)
}

// Remove deletes key.
func (s *GormStore) Remove(ctx context.Context, key string) error {
	return s.impl.Remove(ctx, key)
}

// Keys returns all stored keys.
func (s *GormStore) Keys(ctx context.Context) ([]string, error) {
	return s.impl.Keys(ctx)
}

// Close closes the underlying database connection.
func (s *GormStore) Close() error {
	return s.impl.Close()
}
