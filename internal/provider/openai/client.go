// Package openai implements chat and image generation over the OpenAI API.
package openai

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/spetersoncode/blogsmith"
)

// Default models.
const (
	DefaultChatModel  = "gpt-4o-mini"
	DefaultImageModel = "gpt-image-1"
)

// Client wraps the OpenAI SDK to implement ai.ChatProvider and ai.ImageProvider.
type Client struct {
	client     *openai.Client
	model      string
	imageModel string
}

// ClientOption configures the OpenAI client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model      string
	imageModel string
	sdkOpts    []option.RequestOption
}

// WithModel sets the default chat model.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithImageModel sets the default image model.
func WithImageModel(model string) ClientOption {
	return func(c *clientConfig) {
		c.imageModel = model
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.sdkOpts = append(c.sdkOpts, option.WithBaseURL(url))
	}
}

// New creates a new OpenAI client with the given API key.
// SDK-level retries are disabled; the gateway owns retry policy.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{model: DefaultChatModel, imageModel: DefaultImageModel}
	for _, opt := range opts {
		opt(cfg)
	}

	sdkOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, cfg.sdkOpts...)
	client := openai.NewClient(sdkOpts...)

	return &Client{client: &client, model: cfg.model, imageModel: cfg.imageModel}
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if options.ResponseSchema != nil {
		params.ResponseFormat = buildSchemaFormat(options.ResponseSchema)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.ErrEmptyResponse
	}

	return &ai.Response{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}

func convertMessages(messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case ai.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case ai.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

var _ ai.ChatProvider = (*Client)(nil)
var _ ai.ImageProvider = (*Client)(nil)
