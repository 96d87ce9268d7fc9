package provider

import (
	"fmt"
	"strings"

	"github.com/geo-copy/geo-api/internal/domain"
)

// completionsPath is appended to every base URL to form the endpoint.
const completionsPath = "chat/completions"

// endpoints maps each supported provider to its OpenAI-compatible base URL.
var endpoints = map[domain.Provider]string{
	domain.ProviderOpenAI:   "https://api.openai.com/v1/",
	domain.ProviderDeepSeek: "https://api.deepseek.com/",
	domain.ProviderQwen:     "https://dashscope.aliyuncs.com/compatible-mode/v1/",
	domain.ProviderGrok:     "https://api.x.ai/v1/",
}

// Config is a resolved upstream target. An empty APIKey is a valid value;
// callers must check HasCredential before issuing any request.
type Config struct {
	Provider domain.Provider
	BaseURL  string
	APIKey   string
}

// Endpoint returns the full chat-completion URL.
func (c Config) Endpoint() string {
	return c.BaseURL + completionsPath
}

// HasCredential reports whether an API key is configured.
func (c Config) HasCredential() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Resolver looks up provider configs. It is safe for concurrent use because
// it is never mutated after construction.
type Resolver struct {
	credentials map[domain.Provider]string
	overrides   map[domain.Provider]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURLOverride points a supported provider at a different base URL,
// e.g. a proxy or a test server. The URL should end with a slash.
func WithBaseURLOverride(p domain.Provider, baseURL string) Option {
	return func(r *Resolver) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		r.overrides[p] = baseURL
	}
}

// NewResolver creates a Resolver over the given credentials. The map is
// copied; later changes to it have no effect.
func NewResolver(credentials map[domain.Provider]string, opts ...Option) *Resolver {
	r := &Resolver{
		credentials: make(map[domain.Provider]string, len(credentials)),
		overrides:   make(map[domain.Provider]string),
	}
	for p, key := range credentials {
		r.credentials[p] = key
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the endpoint and credential for p.
func (r *Resolver) Resolve(p domain.Provider) (Config, error) {
	base, ok := endpoints[p]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedProvider, p)
	}
	if override, ok := r.overrides[p]; ok {
		base = override
	}
	return Config{
		Provider: p,
		BaseURL:  base,
		APIKey:   r.credentials[p],
	}, nil
}

// Supported lists the providers that have an endpoint.
func Supported() []domain.Provider {
	out := make([]domain.Provider, 0, len(endpoints))
	for p := range endpoints {
		out = append(out, p)
	}
	return out
}
