package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/blogsmith/blog"
	"github.com/spetersoncode/blogsmith/pipeline"
	"github.com/spetersoncode/blogsmith/store"
	"github.com/spetersoncode/blogsmith/workflow"
)

type mockRunner struct {
	got    pipeline.Input
	result *workflow.Result[blog.State]
	err    error
}

func (m *mockRunner) Run(ctx context.Context, in pipeline.Input, opts ...workflow.Option) (*workflow.Result[blog.State], error) {
	m.got = in
	return m.result, m.err
}

type mockLister struct {
	posts []store.Post
}

func (m *mockLister) List(ctx context.Context) ([]store.Post, error) {
	return m.posts, nil
}

func connect(t *testing.T, s *server.MCPServer) *client.Client {
	t.Helper()
	c, err := client.NewInProcessClient(s)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err)
	return c
}

func call(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestListTools(t *testing.T) {
	t.Run("write only", func(t *testing.T) {
		c := connect(t, NewServer(&mockRunner{}))
		tools, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
		require.NoError(t, err)
		require.Len(t, tools.Tools, 1)
		assert.Equal(t, WriteToolName, tools.Tools[0].Name)
	})

	t.Run("with lister", func(t *testing.T) {
		c := connect(t, NewServer(&mockRunner{}, WithPostLister(&mockLister{})))
		tools, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
		require.NoError(t, err)
		var names []string
		for _, tool := range tools.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{WriteToolName, ListToolName}, names)
	})
}

func TestWriteBlogPost(t *testing.T) {
	runner := &mockRunner{result: &workflow.Result[blog.State]{
		Termination: workflow.TerminationComplete,
		State: blog.State{
			Mode:          blog.ModeHybrid,
			Sections:      []blog.Section{{TaskID: 1}, {TaskID: 2}},
			ImageSpecs:    []blog.ImageSpec{{Filename: "a.png"}},
			FinalMarkdown: "# Go Generics\n\nBody\n",
			OutputPath:    "outputs/go_generics.md",
			Warnings:      []string{"only 1 image planned; expected 2-3"},
		},
	}}
	c := connect(t, NewServer(runner))

	result := call(t, c, WriteToolName, map[string]any{"topic": "Go generics", "as_of": "2024-06-10"})
	assert.False(t, result.IsError)
	assert.Equal(t, pipeline.Input{Topic: "Go generics", AsOf: "2024-06-10"}, runner.got)

	var out WriteResult
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &out))
	assert.Equal(t, WriteResult{
		Title:      "Go Generics",
		OutputPath: "outputs/go_generics.md",
		Mode:       "hybrid",
		Sections:   2,
		Images:     1,
		Warnings:   []string{"only 1 image planned; expected 2-3"},
		Markdown:   "# Go Generics\n\nBody\n",
	}, out)
}

func TestWriteBlogPostError(t *testing.T) {
	runner := &mockRunner{err: errors.New("router failed")}
	c := connect(t, NewServer(runner))

	result := call(t, c, WriteToolName, map[string]any{"topic": "x"})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "router failed")
}

func TestListBlogPosts(t *testing.T) {
	modified := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	lister := &mockLister{posts: []store.Post{{Name: "go_generics", Title: "Go Generics", ModTime: modified}}}
	c := connect(t, NewServer(&mockRunner{}, WithPostLister(lister)))

	result := call(t, c, ListToolName, map[string]any{})
	assert.False(t, result.IsError)

	var posts []store.Post
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Go Generics", posts[0].Title)
	assert.True(t, modified.Equal(posts[0].ModTime))
}
