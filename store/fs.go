package store

import (
	"cmp"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spetersoncode/blogsmith/blog"
)

// ImagesDirName is the directory under the outputs dir holding images.
const ImagesDirName = "images"

// Post describes a saved post.
type Post struct {
	Name    string    `json:"name"` // slug, without extension
	Title   string    `json:"title"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// FS stores posts on the local filesystem.
type FS struct {
	outputDir string
	rootDir   string
}

// New creates a filesystem store. An empty rootDir disables the second copy.
func New(outputDir, rootDir string) *FS {
	return &FS{outputDir: outputDir, rootDir: rootDir}
}

// OutputDir returns the canonical output directory.
func (s *FS) OutputDir() string { return s.outputDir }

// ImagesDir returns the directory images are written to.
func (s *FS) ImagesDir() string { return filepath.Join(s.outputDir, ImagesDirName) }

// Save writes markdown under name in the outputs dir and the root dir, and
// returns the outputs path. Image links in the root copy are rewritten to
// point into the outputs images dir.
func (s *FS) Save(ctx context.Context, name, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", &WriteError{Path: s.outputDir, Err: err}
	}

	outPath := s.path(name)
	if err := os.WriteFile(outPath, []byte(markdown), 0o644); err != nil {
		return "", &WriteError{Path: outPath, Err: err}
	}

	if s.rootDir != "" {
		rootPath := filepath.Join(s.rootDir, name+".md")
		if filepath.Clean(rootPath) != filepath.Clean(outPath) {
			rootCopy := rebaseImages(markdown, s.rootDir, s.ImagesDir())
			if err := os.WriteFile(rootPath, []byte(rootCopy), 0o644); err != nil {
				return "", &WriteError{Path: rootPath, Err: err}
			}
		}
	}
	return outPath, nil
}

// rebaseImages rewrites images/ links so they resolve from dir.
func rebaseImages(markdown, dir, imagesDir string) string {
	rel, err := filepath.Rel(dir, imagesDir)
	if err != nil {
		abs, absErr := filepath.Abs(imagesDir)
		if absErr != nil {
			return markdown
		}
		rel = abs
	}
	rel = filepath.ToSlash(rel)
	if rel == ImagesDirName {
		return markdown
	}
	return strings.ReplaceAll(markdown, "]("+ImagesDirName+"/", "]("+rel+"/")
}

// Load returns the markdown saved under name, preferring the outputs copy.
func (s *FS) Load(ctx context.Context, name string) (string, error) {
	path, err := s.locate(ctx, name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns saved posts, newest first. A post present in both
// directories is reported once, from the outputs dir.
func (s *FS) List(ctx context.Context) ([]Post, error) {
	seen := make(map[string]bool)
	var posts []Post

	for _, dir := range []string{s.outputDir, s.rootDir} {
		if dir == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".md")
			if seen[name] {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			title := blog.ExtractTitle(string(data))
			if title == "" {
				continue
			}
			seen[name] = true
			posts = append(posts, Post{
				Name:    name,
				Title:   title,
				Path:    path,
				ModTime: info.ModTime(),
				Size:    info.Size(),
			})
		}
	}

	slices.SortStableFunc(posts, func(a, b Post) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return posts, nil
}

func (s *FS) path(name string) string {
	return filepath.Join(s.outputDir, name+".md")
}

// locate finds the file for name in the outputs dir, then the root dir.
func (s *FS) locate(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = strings.TrimSuffix(name, ".md")
	if err := validName(name); err != nil {
		return "", err
	}
	candidates := []string{s.path(name)}
	if s.rootDir != "" {
		candidates = append(candidates, filepath.Join(s.rootDir, name+".md"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrNotFound
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return ErrInvalidName
	}
	return nil
}
