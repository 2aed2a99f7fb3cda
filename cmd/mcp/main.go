// Command mcp serves the blog pipeline as MCP tools over stdio.
//
// Tools:
//
//	write_blog_post  write and save a post on a topic
//	list_blog_posts  list saved posts
//
// Example client configuration:
//
//	{
//	    "mcpServers": {
//	        "blogsmith": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcp"],
//	            "cwd": "/path/to/blogsmith"
//	        }
//	    }
//	}
//
// Logs go to stderr; stdout carries the protocol.
package main

import (
	"log"

	"github.com/spetersoncode/blogsmith/internal/app"
	"github.com/spetersoncode/blogsmith/internal/config"
	"github.com/spetersoncode/blogsmith/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	a := app.New(cfg, app.NewLogger(cfg))

	if err := mcp.ServeStdio(a.Pipeline,
		mcp.WithName("blogsmith"),
		mcp.WithVersion("1.0.0"),
		mcp.WithPostLister(a.Store),
	); err != nil {
		log.Fatal(err)
	}
}
