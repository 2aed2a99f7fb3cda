package store

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/spetersoncode/blogsmith/blog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts a post to a standalone HTML document.
func RenderHTML(md string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return "", err
	}
	title := blog.ExtractTitle(md)
	if title == "" {
		title = "Blog post"
	}
	return fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body.String()), nil
}

// ExportHTML renders the post saved under name to <outputs>/<name>.html and
// returns that path. Image links stay relative, so the page finds the
// images next to it.
func (s *FS) ExportHTML(ctx context.Context, name string) (string, error) {
	md, err := s.Load(ctx, name)
	if err != nil {
		return "", err
	}
	doc, err := RenderHTML(md)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", &WriteError{Path: s.outputDir, Err: err}
	}
	out := filepath.Join(s.outputDir, strings.TrimSuffix(name, ".md")+".html")
	if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
		return "", &WriteError{Path: out, Err: err}
	}
	return out, nil
}
