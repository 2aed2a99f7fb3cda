// Package mcp exposes the blog pipeline as an MCP (Model Context Protocol)
// server, so assistants such as Claude Desktop can commission posts.
//
// Two tools are served:
//
//   - write_blog_post runs the full pipeline for a topic and returns the
//     finished markdown along with where it was saved.
//   - list_blog_posts lists previously saved posts, when a lister is
//     configured.
//
// Serve over stdio for subprocess-based clients:
//
//	if err := mcp.ServeStdio(p, mcp.WithPostLister(fs)); err != nil {
//	    log.Fatal(err)
//	}
package mcp
