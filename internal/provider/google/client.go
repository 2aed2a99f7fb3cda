// Package google implements Gemini chat and Imagen image generation over
// the Google GenAI SDK.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	ai "github.com/spetersoncode/blogsmith"
	"google.golang.org/genai"
)

// Default models.
const (
	DefaultChatModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
)

// Client wraps the Google GenAI SDK to implement ai.ChatProvider and ai.ImageProvider.
type Client struct {
	client     *genai.Client
	model      string
	imageModel string
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the default chat model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithImageModel sets the default image model.
func WithImageModel(model string) ClientOption {
	return func(c *Client) {
		c.imageModel = model
	}
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{client: client, model: DefaultChatModel, imageModel: DefaultImageModel}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	contents, system := convertMessages(messages)
	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if options.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = convertSchema(options.ResponseSchema.Schema)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}

	var content strings.Builder
	finishReason := ""
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		finishReason = string(cand.FinishReason)
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				content.WriteString(part.Text)
			}
		}
	}

	usage := ai.Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &ai.Response{Content: content.String(), FinishReason: finishReason, Usage: usage}, nil
}

// GenerateImage generates images from a text prompt using Imagen.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (*ai.ImageResponse, error) {
	options := ai.ApplyImageOptions(opts...)
	model := c.imageModel
	if options.Model != "" {
		model = options.Model
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    options.Size.AspectRatio(),
	}

	resp, err := c.client.Models.GenerateImages(ctx, model, prompt, config)
	if err != nil {
		return nil, wrapError(err)
	}

	var images []ai.GeneratedImage
	for _, img := range resp.GeneratedImages {
		if img.Image != nil && len(img.Image.ImageBytes) > 0 {
			images = append(images, ai.GeneratedImage{Data: img.Image.ImageBytes})
		}
	}
	if len(images) == 0 {
		return nil, ai.ErrEmptyResponse
	}
	return &ai.ImageResponse{Images: images}, nil
}

// convertMessages maps the conversation to Gemini contents. System messages
// become the system instruction.
func convertMessages(messages []ai.Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var system *genai.Content

	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case ai.RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: msg.Content})
		case ai.RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: msg.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: msg.Content}}})
		}
	}
	return contents, system
}

// convertSchema converts a JSON Schema document to a genai Schema.
func convertSchema(schemaJSON json.RawMessage) *genai.Schema {
	var m map[string]any
	if err := json.Unmarshal(schemaJSON, &m); err != nil {
		return nil
	}
	return convertSchemaObject(m)
}

func convertSchemaObject(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	result := &genai.Schema{}
	typ := schema["type"]
	if types, ok := typ.([]any); ok {
		// ["string", "null"] becomes a nullable string.
		for _, t := range types {
			if t == "null" {
				nullable := true
				result.Nullable = &nullable
			} else {
				typ = t
			}
		}
	}
	switch typ {
	case "string":
		result.Type = genai.TypeString
	case "number":
		result.Type = genai.TypeNumber
	case "integer":
		result.Type = genai.TypeInteger
	case "boolean":
		result.Type = genai.TypeBoolean
	case "array":
		result.Type = genai.TypeArray
	case "object":
		result.Type = genai.TypeObject
	}

	if desc, ok := schema["description"].(string); ok {
		result.Description = desc
	}
	if enum, ok := schema["enum"].([]any); ok {
		for _, e := range enum {
			if s, ok := e.(string); ok {
				result.Enum = append(result.Enum, s)
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		result.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if pm, ok := prop.(map[string]any); ok {
				result.Properties[name] = convertSchemaObject(pm)
			}
		}
	}
	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				result.Required = append(result.Required, s)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		result.Items = convertSchemaObject(items)
	}
	return result
}

// wrapError categorizes a GenAI error by HTTP status. The SDK does not
// expose response headers, so no Retry-After hint is available.
func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return ai.NewStatusError("google request failed", apiErr.Code, 0, err)
	}
	return err
}

var _ ai.ChatProvider = (*Client)(nil)
var _ ai.ImageProvider = (*Client)(nil)
