package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"github.com/mrz1836/crewgen/internal/config"
	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/ctxutil"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
)

// Compile-time check that Client implements Completer.
var _ Completer = (*Client)(nil)

// Client calls POST {base_url}/v1/chat/completions through the OpenAI SDK.
// It makes one request per Complete and does not retry.
type Client struct {
	api         openai.Client
	baseURL     string
	model       string
	temperature float64
	platformKey string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPlatformKey overrides the platform key read from the environment.
func WithPlatformKey(key string) Option {
	return func(c *Client) {
		c.platformKey = strings.TrimSpace(key)
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client from cfg. A nil cfg uses built-in defaults.
func NewClient(cfg *config.LLMConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:     constants.DefaultLLMBaseURL,
		model:       constants.DefaultLLMModel,
		temperature: constants.DefaultLLMTemperature,
		httpClient:  http.DefaultClient,
		logger:      zerolog.Nop(),
	}
	if cfg != nil {
		if cfg.BaseURL != "" {
			c.baseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			c.model = cfg.Model
		}
		c.temperature = cfg.Temperature
		c.platformKey = cfg.PlatformAPIKey()
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimSuffix(c.baseURL, "/")
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	c.api = openai.NewClient(
		option.WithBaseURL(c.baseURL+"/v1/"),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
	)
	return c
}

// Model returns the default model name.
func (c *Client) Model() string {
	return c.model
}

// HasPlatformKey reports whether a platform key is available.
func (c *Client) HasPlatformKey() bool {
	return c.platformKey != ""
}

// resolveKey picks the API key for cred.
func (c *Client) resolveKey(cred Credential) (string, error) {
	if cred.UserSupplied {
		key := strings.TrimSpace(cred.APIKey)
		if key == "" {
			return "", fmt.Errorf("api key required when not using the platform key: %w", crewerrors.ErrEmptyValue)
		}
		return key, nil
	}
	if c.platformKey == "" {
		return "", crewerrors.ErrConfigurationMissing
	}
	return c.platformKey, nil
}

// Complete sends req and returns the first choice's message content.
func (c *Client) Complete(ctx context.Context, req *Request) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	key, err := c.resolveKey(req.Credential)
	if err != nil {
		return "", err
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(c.temperature),
	}
	if req.System != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(req.System))
	}
	params.Messages = append(params.Messages, openai.UserMessage(req.Prompt))
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	c.logger.Debug().
		Str("model", model).
		Bool("json", req.JSON).
		Bool("user_key", req.Credential.UserSupplied).
		Int("prompt_len", len(req.Prompt)).
		Msg("sending completion request")

	resp, err := c.api.Chat.Completions.New(ctx, params, option.WithAPIKey(key))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", c.upstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %w", crewerrors.ErrUpstreamUnavailable, crewerrors.ErrEmptyCompletion)
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug().Int("response_len", len(content)).Msg("completion received")
	return content, nil
}

// upstreamError wraps a failed call with ErrUpstreamUnavailable.
// Service error responses keep their status and message.
func (c *Client) upstreamError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		c.logger.Warn().Err(err).Msg("completion request failed")
		return fmt.Errorf("%w: %w", crewerrors.ErrUpstreamUnavailable, err)
	}

	detail := apiErr.Message
	if detail == "" {
		detail = http.StatusText(apiErr.StatusCode)
	}
	c.logger.Warn().
		Int("status", apiErr.StatusCode).
		Str("detail", detail).
		Msg("completion service returned non-success status")
	return fmt.Errorf("%w: status %d: %s", crewerrors.ErrUpstreamUnavailable, apiErr.StatusCode, detail)
}
