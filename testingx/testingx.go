// Package testingx provides test doubles for flagx consumers.
//
// Overview:
//   - Responsibility: Capture diagnostics and inject storage failures in tests
//   - Key Types: MockLogger, FailingStore
//   - Concurrency Model: Thread-safe where engine fan-out requires it
//   - Error Semantics: Assertions are left to the test; doubles only record
//   - Performance Notes: Optimized for test readability, not throughput
//
// Usage:
//
//	logger := testingx.NewMockLogger()
//	eng, _ := flagx.New(flagx.Options{Logger: logger})
package testingx

import (
	"context"
	"sync"

	"go.eggybyte.com/flagx/core/log"
)

// LogEntry is one captured log record.
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
	Err     error
}

// MockLogger records every log call for assertion.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger creates an empty recording logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// With returns the logger itself; field inheritance is not recorded.
func (m *MockLogger) With(kv ...any) log.Logger { return m }

// Debug records a debug entry.
func (m *MockLogger) Debug(msg string, kv ...any) { m.record("DEBUG", msg, nil, kv) }

// Info records an info entry.
func (m *MockLogger) Info(msg string, kv ...any) { m.record("INFO", msg, nil, kv) }

// Warn records a warn entry.
func (m *MockLogger) Warn(msg string, kv ...any) { m.record("WARN", msg, nil, kv) }

// Error records an error entry.
func (m *MockLogger) Error(err error, msg string, kv ...any) { m.record("ERROR", msg, err, kv) }

func (m *MockLogger) record(level, msg string, err error, kv []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: kv, Err: err})
}

// Entries returns a copy of the captured records.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// HasMessage reports whether any record carries the given message.
func (m *MockLogger) HasMessage(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}

// FailingStore is a key-value store that fails selected operations with a
// configured error, delegating the rest to an in-memory map.
type FailingStore struct {
	mu      sync.RWMutex
	data    map[string]string
	GetErr  error
	SetErr  error
	DelErr  error
	KeysErr error
}

// NewFailingStore creates an empty store with no failures armed.
func NewFailingStore() *FailingStore {
	return &FailingStore{data: make(map[string]string)}
}

// Get returns the stored value, or GetErr when armed.
func (s *FailingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores the value, or fails with SetErr when armed.
func (s *FailingStore) Set(ctx context.Context, key string, value string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Remove deletes the key, or fails with DelErr when armed.
func (s *FailingStore) Remove(ctx context.Context, key string) error {
	if s.DelErr != nil {
		return s.DelErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys lists stored keys, or fails with KeysErr when armed.
func (s *FailingStore) Keys(ctx context.Context) ([]string, error) {
	if s.KeysErr != nil {
		return nil, s.KeysErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// Len returns the number of stored entries.
func (s *FailingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
