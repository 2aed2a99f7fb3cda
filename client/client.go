package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/internal/provider/anthropic"
	"github.com/spetersoncode/blogsmith/internal/provider/google"
	"github.com/spetersoncode/blogsmith/internal/provider/openai"
	"github.com/spetersoncode/blogsmith/internal/retry"
)

// imageCapable lists the providers that can render images.
var imageCapable = map[ai.Provider]bool{
	ai.ProviderOpenAI: true,
	ai.ProviderGoogle: true,
}

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Config holds configuration for creating a gateway client.
type Config struct {
	// Provider serves chat requests. Defaults to OpenAI.
	Provider ai.Provider

	// ImageProvider serves image requests. Defaults to OpenAI.
	ImageProvider ai.Provider

	// APIKeys contains authentication keys for each provider.
	APIKeys APIKeys

	// Model overrides the chat provider's default model.
	Model string

	// ImageModel overrides the image provider's default model.
	ImageModel string

	// Temperature is applied to every chat request when set.
	Temperature *float64

	// MaxTokens caps each chat reply. Zero uses the provider default.
	MaxTokens int

	// Retry configures retry behavior for transient errors.
	// If nil, retry.DefaultConfig is used.
	Retry *retry.Config

	// Events is an optional channel for receiving request events.
	Events chan<- Event
}

// ErrFeatureNotSupported is returned when a feature is unavailable for the provider.
type ErrFeatureNotSupported struct {
	Provider string
	Feature  string
}

func (e *ErrFeatureNotSupported) Error() string {
	return fmt.Sprintf("%s provider does not support %s", e.Provider, e.Feature)
}

// ErrMissingAPIKey is returned when a provider is used but no API key is
// configured for it.
type ErrMissingAPIKey struct {
	Provider string
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithChatProvider uses p for chat instead of a configured backend.
func WithChatProvider(p ai.ChatProvider) ClientOption {
	return func(c *Client) {
		c.chat = p
	}
}

// WithImageProvider uses p for images instead of a configured backend.
func WithImageProvider(p ai.ImageProvider) ClientOption {
	return func(c *Client) {
		c.image = p
	}
}

// WithLogger sets the logger used for retry and request diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// Client is the gateway to the configured model providers.
// Provider clients are lazily initialized when first needed.
type Client struct {
	cfg         Config
	retryConfig retry.Config
	logger      *slog.Logger

	mu    sync.RWMutex
	chat  ai.ChatProvider
	image ai.ImageProvider
}

// New creates a gateway client with the given configuration.
func New(cfg Config, opts ...ClientOption) *Client {
	if cfg.Provider == "" {
		cfg.Provider = ai.ProviderOpenAI
	}
	if cfg.ImageProvider == "" {
		cfg.ImageProvider = ai.ProviderOpenAI
	}
	retryConfig := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryConfig = *cfg.Retry
	}

	c := &Client{
		cfg:         cfg,
		retryConfig: retryConfig,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the configured chat provider name.
func (c *Client) Provider() ai.Provider { return c.cfg.Provider }

// getChatProvider returns the chat backend, initializing it if needed.
func (c *Client) getChatProvider(ctx context.Context) (ai.ChatProvider, error) {
	c.mu.RLock()
	if c.chat != nil {
		defer c.mu.RUnlock()
		return c.chat, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.chat != nil {
		return c.chat, nil
	}

	p, err := c.newChatProvider(ctx)
	if err != nil {
		return nil, err
	}
	c.chat = p
	return p, nil
}

func (c *Client) newChatProvider(ctx context.Context) (ai.ChatProvider, error) {
	keys := c.cfg.APIKeys
	switch c.cfg.Provider {
	case ai.ProviderOpenAI:
		if keys.OpenAI == "" {
			return nil, &ErrMissingAPIKey{Provider: "openai"}
		}
		var opts []openai.ClientOption
		if c.cfg.Model != "" {
			opts = append(opts, openai.WithModel(c.cfg.Model))
		}
		return openai.New(keys.OpenAI, opts...), nil
	case ai.ProviderAnthropic:
		if keys.Anthropic == "" {
			return nil, &ErrMissingAPIKey{Provider: "anthropic"}
		}
		var opts []anthropic.ClientOption
		if c.cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(c.cfg.Model))
		}
		return anthropic.New(keys.Anthropic, opts...), nil
	case ai.ProviderGoogle:
		if keys.Google == "" {
			return nil, &ErrMissingAPIKey{Provider: "google"}
		}
		var opts []google.ClientOption
		if c.cfg.Model != "" {
			opts = append(opts, google.WithModel(c.cfg.Model))
		}
		client, err := google.New(ctx, keys.Google, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", c.cfg.Provider)
	}
}

// getImageProvider returns the image backend, initializing it if needed.
func (c *Client) getImageProvider(ctx context.Context) (ai.ImageProvider, error) {
	c.mu.RLock()
	if c.image != nil {
		defer c.mu.RUnlock()
		return c.image, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.image != nil {
		return c.image, nil
	}

	provider := c.cfg.ImageProvider
	if !imageCapable[provider] {
		return nil, &ErrFeatureNotSupported{Provider: provider.String(), Feature: "image"}
	}

	keys := c.cfg.APIKeys
	switch provider {
	case ai.ProviderOpenAI:
		if keys.OpenAI == "" {
			return nil, &ErrMissingAPIKey{Provider: "openai"}
		}
		var opts []openai.ClientOption
		if c.cfg.ImageModel != "" {
			opts = append(opts, openai.WithImageModel(c.cfg.ImageModel))
		}
		c.image = openai.New(keys.OpenAI, opts...)
	case ai.ProviderGoogle:
		if keys.Google == "" {
			return nil, &ErrMissingAPIKey{Provider: "google"}
		}
		var opts []google.ClientOption
		if c.cfg.ImageModel != "" {
			opts = append(opts, google.WithImageModel(c.cfg.ImageModel))
		}
		client, err := google.New(ctx, keys.Google, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google client: %w", err)
		}
		c.image = client
	}
	return c.image, nil
}

// Chat sends a conversation and returns a complete response.
// Transient errors are retried according to the client's retry configuration.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	chatProvider, err := c.getChatProvider(ctx)
	if err != nil {
		return nil, err
	}

	if c.cfg.Temperature != nil {
		opts = append([]ai.Option{ai.WithTemperature(*c.cfg.Temperature)}, opts...)
	}
	if c.cfg.MaxTokens > 0 {
		opts = append([]ai.Option{ai.WithMaxTokens(c.cfg.MaxTokens)}, opts...)
	}

	start := time.Now()
	c.emit(Event{Type: EventRequestStart, Operation: "chat", Provider: c.cfg.Provider})

	resp, err := retry.DoWithObserver(ctx, c.retryConfig, c.observer("chat", c.cfg.Provider),
		func(ctx context.Context) (*ai.Response, error) {
			return chatProvider.Chat(ctx, messages, opts...)
		})
	if err != nil {
		c.emit(Event{
			Type:      EventRequestError,
			Operation: "chat",
			Provider:  c.cfg.Provider,
			Duration:  time.Since(start),
			Error:     err,
		})
		return nil, err
	}

	c.logger.Debug("chat complete",
		"provider", c.cfg.Provider,
		"duration", time.Since(start),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)
	c.emit(Event{
		Type:      EventRequestComplete,
		Operation: "chat",
		Provider:  c.cfg.Provider,
		Duration:  time.Since(start),
		Usage:     &resp.Usage,
	})
	return resp, nil
}

// GenerateImage creates images from a text prompt.
// Transient errors are retried according to the client's retry configuration.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (*ai.ImageResponse, error) {
	imageProvider, err := c.getImageProvider(ctx)
	if err != nil {
		return nil, err
	}

	provider := c.cfg.ImageProvider
	start := time.Now()
	c.emit(Event{Type: EventRequestStart, Operation: "image", Provider: provider})

	resp, err := retry.DoWithObserver(ctx, c.retryConfig, c.observer("image", provider),
		func(ctx context.Context) (*ai.ImageResponse, error) {
			return imageProvider.GenerateImage(ctx, prompt, opts...)
		})
	if err != nil {
		c.emit(Event{
			Type:      EventRequestError,
			Operation: "image",
			Provider:  provider,
			Duration:  time.Since(start),
			Error:     err,
		})
		return nil, err
	}

	c.emit(Event{
		Type:      EventRequestComplete,
		Operation: "image",
		Provider:  provider,
		Duration:  time.Since(start),
	})
	return resp, nil
}

// observer logs retry activity and forwards it as client events.
func (c *Client) observer(operation string, provider ai.Provider) retry.Observer {
	return func(re retry.Event) {
		switch re.Type {
		case retry.EventRetrying:
			c.logger.Warn("retrying request",
				"operation", operation,
				"provider", provider,
				"attempt", re.Attempt,
				"max_attempts", re.MaxAttempts,
				"delay", re.Delay)
		case retry.EventExhausted:
			c.logger.Warn("retries exhausted",
				"operation", operation,
				"provider", provider,
				"error", re.Error)
		}
		reCopy := re
		c.emit(Event{
			Type:       EventRetry,
			Operation:  operation,
			Provider:   provider,
			RetryEvent: &reCopy,
		})
	}
}

var (
	_ ai.ChatProvider  = (*Client)(nil)
	_ ai.ImageProvider = (*Client)(nil)
)
