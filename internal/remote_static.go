package internal

import (
	"context"
	"sync"
)

// StaticRemoteProvider serves a fixed raw value set from memory. It stands
// in for a real backend in tests and in applications that ship remote
// values through their own channel.
type StaticRemoteProvider struct {
	mu       sync.RWMutex
	values   map[string]any
	pending  map[string]any
	initErr  error
	fetchErr error
}

// NewStaticRemoteProvider creates a provider whose first fetch activates
// the given values.
func NewStaticRemoteProvider(values map[string]any) *StaticRemoteProvider {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &StaticRemoteProvider{pending: copied}
}

// Initialize activates the pending value set, or fails with the configured
// error.
func (p *StaticRemoteProvider) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initErr != nil {
		return p.initErr
	}
	p.values = p.pending
	return nil
}

// Refresh activates the pending value set, or fails with the configured
// error leaving the active set untouched.
func (p *StaticRemoteProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fetchErr != nil {
		return p.fetchErr
	}
	p.values = p.pending
	return nil
}

// GetAll returns the last activated value set.
func (p *StaticRemoteProvider) GetAll() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// SetValues stages a new value set; it becomes visible on the next
// successful Initialize or Refresh, never earlier.
func (p *StaticRemoteProvider) SetValues(values map[string]any) {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = copied
}

// FailWith makes subsequent Initialize and Refresh calls fail with err.
// Passing nil restores normal operation.
func (p *StaticRemoteProvider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initErr = err
	p.fetchErr = err
}
