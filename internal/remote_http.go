package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"

	"go.eggybyte.com/flagx/core/errors"
	"go.eggybyte.com/flagx/core/log"
)

// HTTPRemoteOptions configures the HTTP remote provider.
type HTTPRemoteOptions struct {
	Timeout          time.Duration // Request timeout (default: 10s)
	MaxRetries       int           // Retry attempts per fetch (default: 3)
	RetryBackoff     time.Duration // Initial backoff duration (default: 100ms)
	EnableCircuit    bool          // Enable circuit breaker (default: true)
	CircuitThreshold uint32        // Consecutive failures before the breaker opens (default: 5)
	Header           http.Header   // Extra headers, e.g. authorization
	Client           *http.Client  // Override the HTTP client (testing)
	Logger           log.Logger
}

// HTTPRemoteProvider fetches the full raw value set as one JSON object from
// a configuration endpoint. A fetch activates atomically: GetAll never
// exposes a partially-updated set, and a failed fetch leaves the previously
// activated set in place.
type HTTPRemoteProvider struct {
	url    string
	client *http.Client
	header http.Header
	logger log.Logger
	active atomic.Pointer[map[string]any]
}

// NewHTTPRemoteProvider creates a provider polling the given URL.
func NewHTTPRemoteProvider(url string, opts HTTPRemoteOptions) *HTTPRemoteProvider {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = 100 * time.Millisecond
	}
	if opts.CircuitThreshold == 0 {
		opts.CircuitThreshold = 5
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard
	}

	client := opts.Client
	if client == nil {
		var cb *gobreaker.CircuitBreaker
		if opts.EnableCircuit {
			cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
				Name:        "flagx-remote",
				MaxRequests: opts.CircuitThreshold,
				Timeout:     60 * time.Second,
				ReadyToTrip: func(counts gobreaker.Counts) bool {
					return counts.ConsecutiveFailures > opts.CircuitThreshold
				},
			})
		}
		client = &http.Client{
			Timeout: opts.Timeout,
			Transport: &retryTransport{
				base:       http.DefaultTransport,
				maxRetries: opts.MaxRetries,
				backoff:    opts.RetryBackoff,
				cb:         cb,
			},
		}
	}

	return &HTTPRemoteProvider{
		url:    url,
		client: client,
		header: opts.Header,
		logger: logger,
	}
}

// Initialize performs the first fetch-and-activate cycle.
func (p *HTTPRemoteProvider) Initialize(ctx context.Context) error {
	return p.fetch(ctx, "remote.initialize")
}

// Refresh performs a new fetch-and-activate cycle.
func (p *HTTPRemoteProvider) Refresh(ctx context.Context) error {
	return p.fetch(ctx, "remote.refresh")
}

// GetAll returns the last activated raw value set, empty if nothing was
// ever fetched.
func (p *HTTPRemoteProvider) GetAll() map[string]any {
	if active := p.active.Load(); active != nil {
		return *active
	}
	return map[string]any{}
}

func (p *HTTPRemoteProvider) fetch(ctx context.Context, op string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return errors.Wrap(errors.CodeUnavailable, op, err)
	}
	for k, vs := range p.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.CodeUnavailable, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrap(errors.CodeUnavailable, op,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	// UseNumber keeps integral remote numbers distinguishable from floats.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return errors.Wrap(errors.CodeUnavailable, op, err)
	}

	p.active.Store(&values)
	p.logger.Debug("remote values activated", log.Int("keys", len(values)))
	return nil
}

// retryTransport retries transient failures with exponential backoff,
// optionally behind a circuit breaker.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
	cb         *gobreaker.CircuitBreaker
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.cb != nil {
		result, cbErr := t.cb.Execute(func() (interface{}, error) {
			return t.roundTripWithRetry(req)
		})
		if cbErr != nil {
			return nil, cbErr
		}
		return result.(*http.Response), nil
	}

	return t.roundTripWithRetry(req)
}

func (t *retryTransport) roundTripWithRetry(req *http.Request) (*http.Response, error) {
	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		resp, err := t.base.RoundTrip(req.Clone(req.Context()))

		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		lastResp = resp
		lastErr = err

		if attempt == t.maxRetries {
			break
		}

		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(t.backoff * time.Duration(1<<uint(attempt))):
		}
	}

	return lastResp, lastErr
}
