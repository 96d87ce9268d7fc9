package provider

import (
	"testing"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownProviders(t *testing.T) {
	t.Parallel()

	r := NewResolver(map[domain.Provider]string{
		domain.ProviderOpenAI: "sk-openai",
		domain.ProviderQwen:   "sk-qwen",
	})

	tests := []struct {
		provider     domain.Provider
		wantEndpoint string
		wantKey      string
	}{
		{domain.ProviderOpenAI, "https://api.openai.com/v1/chat/completions", "sk-openai"},
		{domain.ProviderDeepSeek, "https://api.deepseek.com/chat/completions", ""},
		{domain.ProviderQwen, "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions", "sk-qwen"},
		{domain.ProviderGrok, "https://api.x.ai/v1/chat/completions", ""},
	}

	for _, tc := range tests {
		t.Run(string(tc.provider), func(t *testing.T) {
			cfg, err := r.Resolve(tc.provider)
			require.NoError(t, err)

			assert.Equal(t, tc.provider, cfg.Provider)
			assert.Equal(t, tc.wantEndpoint, cfg.Endpoint())
			assert.Equal(t, tc.wantKey, cfg.APIKey)
			assert.Equal(t, tc.wantKey != "", cfg.HasCredential())
		})
	}
}

func TestResolve_Unsupported(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)
	for _, p := range []domain.Provider{domain.ProviderAnthropic, domain.ProviderGoogle, domain.ProviderLocal, "made-up"} {
		_, err := r.Resolve(p)
		assert.ErrorIs(t, err, ErrUnsupportedProvider, "provider %s", p)
	}
}

func TestResolve_CredentialsCopied(t *testing.T) {
	t.Parallel()

	creds := map[domain.Provider]string{domain.ProviderGrok: "original"}
	r := NewResolver(creds)
	creds[domain.ProviderGrok] = "changed"

	cfg, err := r.Resolve(domain.ProviderGrok)
	require.NoError(t, err)
	assert.Equal(t, "original", cfg.APIKey)
}

func TestResolve_BaseURLOverride(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil, WithBaseURLOverride(domain.ProviderDeepSeek, "http://127.0.0.1:9999"))

	cfg, err := r.Resolve(domain.ProviderDeepSeek)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999/chat/completions", cfg.Endpoint())
}

func TestConfig_HasCredentialWhitespace(t *testing.T) {
	t.Parallel()

	assert.False(t, Config{APIKey: "   "}.HasCredential())
}

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.ElementsMatch(t, []domain.Provider{
		domain.ProviderOpenAI, domain.ProviderDeepSeek, domain.ProviderQwen, domain.ProviderGrok,
	}, Supported())
}
