// Package anthropic implements chat over the Anthropic Messages API.
//
// Structured output is obtained by forcing a call to a synthetic tool whose
// input schema is the requested response schema.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/spetersoncode/blogsmith"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = "claude-sonnet-4-5"

const defaultMaxTokens = 8192

// Client wraps the Anthropic SDK to implement ai.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

// ClientOption configures the Anthropic client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model   string
	sdkOpts []option.RequestOption
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.sdkOpts = append(c.sdkOpts, option.WithBaseURL(url))
	}
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{model: DefaultChatModel}
	for _, opt := range opts {
		opt(cfg)
	}
	sdkOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, cfg.sdkOpts...)
	client := anthropic.NewClient(sdkOpts...)
	return &Client{client: &client, model: cfg.model}
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if options.ResponseSchema != nil {
		tool, choice := buildJSONTool(options.ResponseSchema)
		params.Tools = []anthropic.ToolUnionParam{tool}
		params.ToolChoice = choice
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			if options.ResponseSchema == nil {
				content.WriteString(block.Text)
			}
		case "tool_use":
			if options.ResponseSchema != nil && block.Name == jsonToolName {
				content.Reset()
				content.Write(block.Input)
			}
		}
	}

	return &ai.Response{
		Content:      content.String(),
		FinishReason: string(resp.StopReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}, nil
}

func convertMessages(messages []ai.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		// The API rejects empty text blocks.
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case ai.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case ai.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return result, system
}

// wrapError categorizes an Anthropic SDK error by HTTP status.
func wrapError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError("anthropic request failed", apiErr.StatusCode, 0, err)
}

var _ ai.ChatProvider = (*Client)(nil)
