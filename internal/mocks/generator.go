package mocks

import (
	"context"
	"sync"

	"github.com/geo-copy/geo-api/internal/generation"
)

// MockGenerator implements the buffered generation contract used by the
// fan-out scheduler and the HTTP handlers.
type MockGenerator struct {
	GenerateFn func(ctx context.Context, req generation.Request) (generation.Result, error)
	StreamFn   func(ctx context.Context, req generation.Request) (*generation.StreamSession, error)

	// Default response values
	Result generation.Result
	Err    error

	mu       sync.Mutex
	requests []generation.Request
}

// Generate records the request and returns the configured outcome.
func (m *MockGenerator) Generate(ctx context.Context, req generation.Request) (generation.Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	return m.Result, m.Err
}

// Stream records the request and delegates to StreamFn.
func (m *MockGenerator) Stream(ctx context.Context, req generation.Request) (*generation.StreamSession, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.StreamFn != nil {
		return m.StreamFn(ctx, req)
	}
	return nil, m.Err
}

// Requests returns a copy of every request received.
func (m *MockGenerator) Requests() []generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]generation.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns how many requests were received.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
