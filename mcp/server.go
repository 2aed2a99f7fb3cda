package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/blogsmith/blog"
	"github.com/spetersoncode/blogsmith/pipeline"
	"github.com/spetersoncode/blogsmith/schema"
	"github.com/spetersoncode/blogsmith/store"
	"github.com/spetersoncode/blogsmith/workflow"
)

// Tool names.
const (
	WriteToolName = "write_blog_post"
	ListToolName  = "list_blog_posts"
)

// Runner runs the pipeline. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, in pipeline.Input, opts ...workflow.Option) (*workflow.Result[blog.State], error)
}

// PostLister lists saved posts. *store.FS implements it.
type PostLister interface {
	List(ctx context.Context) ([]store.Post, error)
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	lister  PostLister
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithPostLister enables the list_blog_posts tool.
func WithPostLister(l PostLister) ServerOption {
	return func(c *serverConfig) {
		c.lister = l
	}
}

var writeToolSchema = schema.Object().
	Field("topic", schema.String().Desc("What the post should be about").MinLength(1).Required()).
	Field("as_of", schema.String().Desc("Reference date, YYYY-MM-DD. Defaults to today.").Pattern(`^\d{4}-\d{2}-\d{2}$`)).
	MustBuild()

var listToolSchema = schema.Object().MustBuild()

// WriteResult is the JSON payload returned by write_blog_post.
type WriteResult struct {
	Title      string   `json:"title"`
	OutputPath string   `json:"output_path,omitempty"`
	Mode       string   `json:"mode"`
	Sections   int      `json:"sections"`
	Images     int      `json:"images"`
	Warnings   []string `json:"warnings,omitempty"`
	Markdown   string   `json:"markdown"`
}

// NewServer creates an MCP server exposing the pipeline.
func NewServer(runner Runner, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "blogsmith",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewToolWithRawSchema(WriteToolName,
			"Research, plan, write and illustrate a technical blog post on a topic. Returns the finished markdown.",
			writeToolSchema),
		writeHandler(runner),
	)
	if cfg.lister != nil {
		s.AddTool(
			mcp.NewToolWithRawSchema(ListToolName, "List previously written blog posts, newest first.", listToolSchema),
			listHandler(cfg.lister),
		)
	}
	return s
}

func writeHandler(runner Runner) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var in pipeline.Input
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			if err := json.Unmarshal(data, &in); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
		}

		result, err := runner.Run(ctx, in)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		state := result.State
		out := WriteResult{
			Title:      blog.ExtractTitle(state.FinalMarkdown),
			OutputPath: state.OutputPath,
			Mode:       string(state.Mode),
			Sections:   len(state.Sections),
			Images:     len(state.ImageSpecs),
			Warnings:   state.Warnings,
			Markdown:   state.FinalMarkdown,
		}
		data, err := json.Marshal(out)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func listHandler(lister PostLister) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		posts, err := lister.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if posts == nil {
			posts = []store.Post{}
		}
		data, err := json.Marshal(posts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// ServeStdio serves the pipeline over stdin/stdout.
func ServeStdio(runner Runner, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(runner, opts...))
}
