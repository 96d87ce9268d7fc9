package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/geo-copy/geo-api/internal/provider"
)

const (
	// DefaultTemperature is used when neither the client nor the call sets one.
	DefaultTemperature = 0.7

	completionsPath = "chat/completions"

	// contentPath locates the generated text in a buffered response.
	contentPath = "choices.0.message.content"
)

// Client performs chat-completion calls against any resolved provider.
// The zero value is not usable; create one with NewClient.
type Client struct {
	httpClient  *http.Client
	temperature float64
	timeout     time.Duration
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithDefaultTemperature sets the temperature applied when a call does not
// specify one.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.temperature = t
	}
}

// WithTimeout bounds buffered completion calls. Streaming calls are bounded
// only by their context. Zero disables the bound.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		temperature: DefaultTemperature,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "llm_client")
	return c
}

// CallOption adjusts a single completion call.
type CallOption func(*callSettings)

type callSettings struct {
	temperature float64
}

// WithTemperature overrides the sampling temperature for one call.
func WithTemperature(t float64) CallOption {
	return func(s *callSettings) {
		s.temperature = t
	}
}

// Complete sends prompt as a single user message and waits for the whole
// response. It returns the first choice's message content, or "" when the
// response does not contain one.
func (c *Client) Complete(
	ctx context.Context,
	cfg provider.Config,
	model string,
	prompt string,
	opts ...CallOption,
) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.post(ctx, cfg, model, prompt, false, opts)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", cfg.Provider, err)
	}

	content := gjson.GetBytes(body, contentPath)
	if !content.Exists() {
		c.logger.DebugContext(ctx, "completion response has no content",
			"provider", cfg.Provider,
			"model", model,
			"body_length", len(body))
		return "", nil
	}
	return content.String(), nil
}

// Stream sends the same request as Complete with streaming enabled and
// returns the live response body in the provider's native event format.
// The caller must close it.
func (c *Client) Stream(
	ctx context.Context,
	cfg provider.Config,
	model string,
	prompt string,
	opts ...CallOption,
) (io.ReadCloser, error) {
	resp, err := c.post(ctx, cfg, model, prompt, true, opts)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody || resp.ContentLength == 0 {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, ErrEmptyBody
	}
	return resp.Body, nil
}

// post issues the request and hands back the raw response without decoding it.
func (c *Client) post(
	ctx context.Context,
	cfg provider.Config,
	model string,
	prompt string,
	stream bool,
	opts []CallOption,
) (*http.Response, error) {
	if !cfg.HasCredential() {
		return nil, fmt.Errorf("%w: %s", ErrCredentialMissing, cfg.Provider)
	}

	settings := callSettings{temperature: c.temperature}
	for _, opt := range opts {
		opt(&settings)
	}

	sdk := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
	)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(settings.temperature),
	}

	var reqOpts []option.RequestOption
	if stream {
		reqOpts = append(reqOpts, option.WithJSONSet("stream", true))
	}

	c.logger.DebugContext(ctx, "sending completion request",
		"provider", cfg.Provider,
		"endpoint", cfg.Endpoint(),
		"model", model,
		"stream", stream,
		"prompt_length", len(prompt))

	var resp *http.Response
	if err := sdk.Post(ctx, completionsPath, params, &resp, reqOpts...); err != nil {
		return nil, c.mapError(cfg, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: no response from %s", ErrUpstream, cfg.Provider)
	}
	return resp, nil
}

// mapError converts SDK errors into this package's error types.
func (c *Client) mapError(cfg provider.Config, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{
			Provider:   cfg.Provider,
			StatusCode: apiErr.StatusCode,
			Body:       errorBody(apiErr),
		}
	}
	return fmt.Errorf("completion request to %s failed: %w", cfg.Provider, err)
}

// errorBody returns the response body the SDK kept on the error.
func errorBody(apiErr *openai.Error) string {
	if apiErr.Response != nil && apiErr.Response.Body != nil {
		if b, err := io.ReadAll(apiErr.Response.Body); err == nil && len(b) > 0 {
			return string(b)
		}
	}
	return apiErr.RawJSON()
}
