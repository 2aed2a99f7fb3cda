package client

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/schema"
)

// GenerateText sends a system and user prompt and returns the reply text.
func (c *Client) GenerateText(ctx context.Context, system, user string) (string, error) {
	resp, err := c.Chat(ctx, ai.Prompt(system, user))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// GenerateStructured requests a reply conforming to rs and decodes it into
// out. A reply that is not valid JSON, violates the schema or does not decode
// into out fails with *ai.SchemaError.
func (c *Client) GenerateStructured(ctx context.Context, system, user string, rs ai.ResponseSchema, out any) error {
	resp, err := c.Chat(ctx, ai.Prompt(system, user), ai.WithResponseSchema(rs))
	if err != nil {
		return err
	}
	return decodeStructured(rs, resp.Content, out)
}

// Structured is the generic form of GenerateStructured.
func Structured[T any](ctx context.Context, c *Client, system, user string, rs ai.ResponseSchema) (T, error) {
	var result T
	if err := c.GenerateStructured(ctx, system, user, rs, &result); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func decodeStructured(rs ai.ResponseSchema, content string, out any) error {
	data := []byte(stripCodeFence(content))
	if len(rs.Schema) > 0 {
		if err := schema.Check(rs.Schema, data); err != nil {
			return &ai.SchemaError{Schema: rs.Name, Content: content, Err: err}
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		return &ai.SchemaError{Schema: rs.Name, Content: content, Err: err}
	}
	return nil
}

// stripCodeFence removes a surrounding ```json fence some models add even in
// JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
