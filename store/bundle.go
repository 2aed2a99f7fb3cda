package store

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Bundle writes a zip archive containing the post as <name>.md and every
// local image it links under images/. Missing images are skipped.
func (s *FS) Bundle(ctx context.Context, w io.Writer, name string) error {
	markdown, err := s.Load(ctx, name)
	if err != nil {
		return err
	}
	name = strings.TrimSuffix(name, ".md")

	zw := zip.NewWriter(w)
	md, err := zw.Create(name + ".md")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(md, markdown); err != nil {
		return err
	}

	for _, ref := range ImageRefs(markdown) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.addImage(zw, ref); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (s *FS) addImage(zw *zip.Writer, ref string) error {
	file := filepath.Join(s.ImagesDir(), path.Base(ref))
	f, err := os.Open(file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	entry, err := zw.Create(ImagesDirName + "/" + path.Base(ref))
	if err != nil {
		return err
	}
	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("store: bundle %s: %w", ref, err)
	}
	return nil
}

// ImageRefs returns the distinct local image destinations under images/
// that markdown links, in document order.
func ImageRefs(markdown string) []string {
	src := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	seen := make(map[string]bool)
	var refs []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if strings.HasPrefix(dest, ImagesDirName+"/") && !strings.Contains(dest, "..") && !seen[dest] {
			seen[dest] = true
			refs = append(refs, dest)
		}
		return ast.WalkContinue, nil
	})
	return refs
}
