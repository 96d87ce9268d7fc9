package generation_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/generation"
	"github.com/geo-copy/geo-api/internal/llm"
	"github.com/geo-copy/geo-api/internal/mocks"
	"github.com/geo-copy/geo-api/internal/platform/logger"
	"github.com/geo-copy/geo-api/internal/platform/memory"
	"github.com/geo-copy/geo-api/internal/prompt"
	"github.com/geo-copy/geo-api/internal/provider"
	"github.com/geo-copy/geo-api/internal/store"
)

type fixture struct {
	svc       *generation.Service
	completer *mocks.MockCompleter
	logs      *logger.TestLogBuffer
}

func newFixture(t *testing.T, creds map[domain.Provider]string) fixture {
	t.Helper()

	catalog, err := memory.NewCatalog([]domain.Product{
		{
			ID:       "p1",
			Name:     "X100 Smart Watch",
			Category: domain.CategoryParametric,
			Price:    1299,
			Variants: []domain.GeoVariant{{KeyConclusion: "A mid-range watch."}},
		},
	}, nil)
	require.NoError(t, err)

	l, buf := logger.NewTestLogger(t)
	completer := &mocks.MockCompleter{Content: "generated copy"}
	composer := prompt.NewComposer(prompt.WithPicker(func(n int) int { return n - 1 }))

	svc := generation.NewService(catalog, provider.NewResolver(creds), completer, composer, l)
	return fixture{svc: svc, completer: completer, logs: buf}
}

func copyType(ct domain.CopyType) *domain.CopyType { return &ct }

func TestGenerate_Success(t *testing.T) {
	f := newFixture(t, map[domain.Provider]string{domain.ProviderOpenAI: "sk-test"})

	res, err := f.svc.Generate(context.Background(), generation.Request{
		ProductID: "p1",
		CopyType:  copyType(domain.CopyTypeComparison),
		Model:     "gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated copy", res.Content)
	assert.Equal(t, domain.CopyTypeComparison, res.CopyType)
	assert.Equal(t, "gpt-4o", res.Model)
	assert.Equal(t, domain.ProviderOpenAI, res.Provider)

	calls := f.completer.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Stream)
	assert.Equal(t, "gpt-4o", calls[0].Model)
	assert.Equal(t, "sk-test", calls[0].Config.APIKey)
	assert.Contains(t, calls[0].Prompt, "X100 Smart Watch")
	assert.Contains(t, calls[0].Prompt, "[Price Information]")

	entries := f.logs.EntriesWithMessage("LLM generation ok")
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0]["product_id"])
	assert.Equal(t, "comparison", entries[0]["copy_type"])
	assert.Equal(t, "gpt-4o", entries[0]["model"])
	assert.Equal(t, "openai", entries[0]["provider"])
	assert.Contains(t, entries[0], "duration_ms")
}

func TestGenerate_NormalizesCopyType(t *testing.T) {
	f := newFixture(t, map[domain.Provider]string{domain.ProviderOpenAI: "sk-test"})

	res, err := f.svc.Generate(context.Background(), generation.Request{
		ProductID: "p1",
		CopyType:  copyType(" Mechanism "),
		Model:     "gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CopyTypeMechanism, res.CopyType)

	calls := f.completer.Calls()
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Prompt, "[Price Information]")
}

func TestGenerate_RandomCopyTypeAndCustomPrompt(t *testing.T) {
	f := newFixture(t, map[domain.Provider]string{domain.ProviderDeepSeek: "ds-key"})

	res, err := f.svc.Generate(context.Background(), generation.Request{
		ProductID:    "p1",
		Model:        "deepseek-chat",
		CustomPrompt: "say hi",
	})
	require.NoError(t, err)
	// The fixture picker always returns the last copy type.
	assert.Equal(t, domain.CopyTypeBoundary, res.CopyType)

	calls := f.completer.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "say hi", calls[0].Prompt)
	assert.Equal(t, domain.ProviderDeepSeek, calls[0].Config.Provider)
}

func TestGenerate_EmptyContentIsNotAnError(t *testing.T) {
	f := newFixture(t, map[domain.Provider]string{domain.ProviderOpenAI: "sk-test"})
	f.completer.Content = ""

	res, err := f.svc.Generate(context.Background(), generation.Request{ProductID: "p1", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Empty(t, res.Content)
}

func TestGenerate_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		creds   map[domain.Provider]string
		req     generation.Request
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown product wins over unknown model",
			req:     generation.Request{ProductID: "missing", Model: "nope"},
			wantErr: store.ErrProductNotFound,
		},
		{
			name:    "unknown model",
			creds:   map[domain.Provider]string{domain.ProviderOpenAI: "sk-test"},
			req:     generation.Request{ProductID: "p1", Model: "nope"},
			wantErr: store.ErrModelNotFound,
		},
		{
			name:    "missing credential",
			req:     generation.Request{ProductID: "p1", Model: "gpt-4o"},
			wantErr: llm.ErrCredentialMissing,
			wantMsg: "openai API Key not configured",
		},
		{
			name:    "blank credential",
			creds:   map[domain.Provider]string{domain.ProviderQwen: "   "},
			req:     generation.Request{ProductID: "p1", Model: "qwen-plus"},
			wantErr: llm.ErrCredentialMissing,
			wantMsg: "qwen API Key not configured",
		},
		{
			name:    "invalid copy type",
			creds:   map[domain.Provider]string{domain.ProviderOpenAI: "sk-test"},
			req:     generation.Request{ProductID: "p1", Model: "gpt-4o", CopyType: copyType("haiku")},
			wantErr: domain.ErrInvalidCopyType,
		},
		{
			name:    "missing fields",
			req:     generation.Request{},
			wantErr: generation.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.creds)

			_, err := f.svc.Generate(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}

			_, err = f.svc.Stream(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Empty(t, f.completer.Calls(), "no upstream call on validation failure")
		})
	}
}

func TestGenerate_CredentialErrorType(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Generate(context.Background(), generation.Request{ProductID: "p1", Model: "grok-1"})
	var credErr *generation.CredentialError
	require.True(t, errors.As(err, &credErr))
	assert.Equal(t, domain.ProviderGrok, credErr.Provider)
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	f := newFixture(t, map[domain.Provider]string{domain.ProviderOpenAI: "sk-test"})
	f.completer.Err = &llm.UpstreamError{StatusCode: 401, Body: "Incorrect API key provided: sk-abcdefghijkl"}

	_, err := f.svc.Generate(context.Background(), generation.Request{ProductID: "p1", Model: "gpt-4o"})
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.ErrorIs(t, err, llm.ErrUpstream)

	entries := f.logs.EntriesWithMessage("LLM generation failed")
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0]["product_id"])
	assert.Contains(t, entries[0]["error"], "API Error: 401")
	assert.NotContains(t, entries[0]["error"], "sk-abcdefghijkl")
}

func TestStream(t *testing.T) {
	f := newFixture(t, map[domain.Provider]string{domain.ProviderOpenAI: "sk-test"})
	f.completer.StreamBody = "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n"

	session, err := f.svc.Stream(context.Background(), generation.Request{
		ProductID: "p1",
		CopyType:  copyType(domain.CopyTypeDefinition),
		Model:     "gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CopyTypeDefinition, session.CopyType)

	var out bytes.Buffer
	flushes := 0
	require.NoError(t, session.Relay(context.Background(), &out, func() { flushes++ }))
	assert.Equal(t, "data: {\"content\":\"Hi\"}\n\ndata: [DONE]\n\n", out.String())
	assert.Equal(t, 2, flushes)
	assert.NoError(t, session.Close())

	calls := f.completer.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Stream)
	require.Len(t, f.logs.EntriesWithMessage("LLM stream finished"), 1)
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestStream_RelayClosesUpstream(t *testing.T) {
	f := newFixture(t, map[domain.Provider]string{domain.ProviderOpenAI: "sk-test"})
	body := &closeTracker{Reader: strings.NewReader("data: [DONE]\n")}
	f.completer.StreamFn = func(ctx context.Context, cfg provider.Config, model, prompt string) (io.ReadCloser, error) {
		return body, nil
	}

	session, err := f.svc.Stream(context.Background(), generation.Request{ProductID: "p1", Model: "gpt-4o"})
	require.NoError(t, err)
	require.NoError(t, session.Relay(context.Background(), io.Discard, nil))
	assert.True(t, body.closed)
}

func TestStream_UpstreamFailure(t *testing.T) {
	f := newFixture(t, map[domain.Provider]string{domain.ProviderOpenAI: "sk-test"})
	f.completer.Err = llm.ErrEmptyBody

	_, err := f.svc.Stream(context.Background(), generation.Request{ProductID: "p1", Model: "gpt-4o"})
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.ErrorIs(t, err, llm.ErrEmptyBody)
}
