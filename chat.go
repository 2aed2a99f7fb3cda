package blogsmith

import "context"

// ChatProvider defines the interface for text-generation backends.
type ChatProvider interface {
	// Chat sends a conversation and returns a complete response.
	// When Options.ResponseSchema is set the provider must request
	// schema-constrained JSON from the model.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)
}
