package mocks

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/geo-copy/geo-api/internal/llm"
	"github.com/geo-copy/geo-api/internal/provider"
)

// MockCompleter implements generation.Completer for testing
type MockCompleter struct {
	CompleteFn func(ctx context.Context, cfg provider.Config, model, prompt string) (string, error)
	StreamFn   func(ctx context.Context, cfg provider.Config, model, prompt string) (io.ReadCloser, error)

	// Default response values
	Content    string
	StreamBody string
	Err        error

	mu    sync.Mutex
	calls []CompleterCall
}

// CompleterCall records one call to the mock.
type CompleterCall struct {
	Stream bool
	Config provider.Config
	Model  string
	Prompt string
}

func (m *MockCompleter) record(c CompleterCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// Calls returns a copy of the recorded calls.
func (m *MockCompleter) Calls() []CompleterCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompleterCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete implements generation.Completer.
func (m *MockCompleter) Complete(
	ctx context.Context,
	cfg provider.Config,
	model, prompt string,
	_ ...llm.CallOption,
) (string, error) {
	m.record(CompleterCall{Config: cfg, Model: model, Prompt: prompt})
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, cfg, model, prompt)
	}
	return m.Content, m.Err
}

// Stream implements generation.Completer.
func (m *MockCompleter) Stream(
	ctx context.Context,
	cfg provider.Config,
	model, prompt string,
	_ ...llm.CallOption,
) (io.ReadCloser, error) {
	m.record(CompleterCall{Stream: true, Config: cfg, Model: model, Prompt: prompt})
	if m.StreamFn != nil {
		return m.StreamFn(ctx, cfg, model, prompt)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return io.NopCloser(strings.NewReader(m.StreamBody)), nil
}
