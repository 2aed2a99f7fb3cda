package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test-key", WithBaseURL(srv.URL+"/"))
}

func TestChat(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "## Intro\nHello"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`)
	})

	resp, err := c.Chat(context.Background(), ai.Prompt("be terse", "write"), ai.WithTemperature(0.2))
	require.NoError(t, err)
	assert.Equal(t, "## Intro\nHello", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, ai.Usage{InputTokens: 12, OutputTokens: 4}, resp.Usage)

	assert.Equal(t, DefaultChatModel, body["model"])
	assert.Equal(t, 0.2, body["temperature"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestChatWithSchema(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"ok\":true}"}}],
			"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`)
	})

	rs := ai.ResponseSchema{
		Name:   "check",
		Schema: schema.Object().Field("ok", schema.Bool().Required()).MustBuild(),
	}
	resp, err := c.Chat(context.Background(), ai.Prompt("", "ok?"), ai.WithResponseSchema(rs), ai.WithModel("gpt-4.1"))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content)

	assert.Equal(t, "gpt-4.1", body["model"])
	format := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	js := format["json_schema"].(map[string]any)
	assert.Equal(t, "check", js["name"])
	assert.Equal(t, true, js["strict"])
}

func TestChatRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"slow down","type":"rate_limit_error"}}`)
	})

	_, err := c.Chat(context.Background(), ai.Prompt("", "hi"))
	require.Error(t, err)
	assert.True(t, ai.IsTransient(err))
	assert.Equal(t, 7*time.Second, ai.RetryAfterOf(err))
}

func TestChatUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	})

	_, err := c.Chat(context.Background(), ai.Prompt("", "hi"))
	assert.True(t, ai.IsPermanent(err))
}

func TestGenerateImage(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"created":1,"data":[{"b64_json":"cG5n"}]}`)
	})

	resp, err := c.GenerateImage(context.Background(), "a tree diagram",
		ai.WithImageSize(ai.ImageSizeLandscape), ai.WithImageQuality(ai.ImageQualityHigh))
	require.NoError(t, err)
	require.Len(t, resp.Images, 1)

	data, err := resp.Images[0].Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	assert.Equal(t, DefaultImageModel, body["model"])
	assert.Equal(t, "1536x1024", body["size"])
	assert.Equal(t, "high", body["quality"])
	assert.NotContains(t, body, "response_format")
}

func TestStrictify(t *testing.T) {
	raw := schema.Object().
		Field("title", schema.String().MinLength(1).Required()).
		Field("tags", schema.Array(schema.String()).MaxItems(5)).
		Field("tasks", schema.Array(schema.Object().
			Field("id", schema.Int().Min(1)).
			Field("goal", schema.String())).MinItems(1).Required()).
		MustBuild()

	m := ai.ResponseSchema{Schema: raw}.SchemaMap()
	strictify(m)

	assert.Equal(t, false, m["additionalProperties"])
	assert.Equal(t, []string{"tags", "tasks", "title"}, m["required"])

	props := m["properties"].(map[string]any)
	assert.NotContains(t, props["title"], "minLength")
	assert.NotContains(t, props["tags"], "maxItems")

	task := props["tasks"].(map[string]any)["items"].(map[string]any)
	assert.Equal(t, false, task["additionalProperties"])
	assert.Equal(t, []string{"goal", "id"}, task["required"])
	assert.NotContains(t, task["properties"].(map[string]any)["id"], "minimum")
}
