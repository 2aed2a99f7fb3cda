package imagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/blog"
	"golang.org/x/sync/errgroup"
)

// ErrNoProvider is returned when rendering without an image provider.
var ErrNoProvider = errors.New("imagegen: no image provider configured")

// FailureBanner is prepended to a post when image handling fails as a whole.
const FailureBanner = "> ⚠️ Note: Image generation failed. See markdown for placeholders.\n\n"

// renderConcurrency bounds simultaneous image requests.
const renderConcurrency = 3

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger for per-image outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithModel sets the image model passed to the provider.
func WithModel(model string) Option {
	return func(r *Renderer) {
		r.model = model
	}
}

// Renderer generates images and writes them under a directory.
type Renderer struct {
	provider ai.ImageProvider
	dir      string
	model    string
	logger   *slog.Logger
}

// New creates a renderer writing into dir. The markdown links images as
// images/<filename>, so dir is normally <outputs>/images.
func New(provider ai.ImageProvider, dir string, opts ...Option) *Renderer {
	r := &Renderer{provider: provider, dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the directory images are written to.
func (r *Renderer) Dir() string { return r.dir }

// Render generates one image and returns its bytes.
func (r *Renderer) Render(ctx context.Context, prompt string, size ai.ImageSize, quality ai.ImageQuality) ([]byte, error) {
	if r.provider == nil {
		return nil, ErrNoProvider
	}
	if !size.Valid() {
		size = ai.ImageSizeSquare
	}
	if !quality.Valid() {
		quality = ai.ImageQualityMedium
	}

	opts := []ai.ImageOption{ai.WithImageSize(size), ai.WithImageQuality(quality)}
	if r.model != "" {
		opts = append(opts, ai.WithImageModel(r.model))
	}

	resp, err := r.provider.GenerateImage(ctx, prompt, opts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Images) == 0 {
		return nil, ai.ErrEmptyResponse
	}
	return resp.Images[0].Bytes()
}

// ApplyToDocument renders every spec and replaces its placeholder with an
// image link, or with a diagnostic block when that image fails. Images
// already on disk are reused. The error is non-nil only when no image can
// be written at all, e.g. the directory cannot be created.
func (r *Renderer) ApplyToDocument(ctx context.Context, markdown string, specs []blog.ImageSpec) (string, error) {
	if len(specs) == 0 {
		return markdown, nil
	}
	if r.provider == nil {
		return markdown, ErrNoProvider
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return markdown, fmt.Errorf("imagegen: create image dir: %w", err)
	}

	replacements := make([]string, len(specs))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderConcurrency)
	for i, spec := range specs {
		g.Go(func() error {
			err := r.renderSpec(gctx, spec)

			mu.Lock()
			done++
			n := done
			mu.Unlock()

			if err != nil {
				r.logger.Warn("image generation failed",
					"filename", spec.Filename, "progress", fmt.Sprintf("%d/%d", n, len(specs)), "error", err)
				replacements[i] = FailureBlock(spec, err)
				return nil
			}
			r.logger.Info("image saved",
				"filename", spec.Filename, "progress", fmt.Sprintf("%d/%d", n, len(specs)))
			replacements[i] = ImageMarkdown(spec)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return markdown, err
	}

	for i, spec := range specs {
		if spec.Placeholder == "" {
			continue
		}
		markdown = strings.ReplaceAll(markdown, spec.Placeholder, replacements[i])
	}
	return markdown, nil
}

func (r *Renderer) renderSpec(ctx context.Context, spec blog.ImageSpec) error {
	if spec.Filename == "" || filepath.Base(spec.Filename) != spec.Filename {
		return fmt.Errorf("invalid image filename %q", spec.Filename)
	}
	path := filepath.Join(r.dir, spec.Filename)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := r.Render(ctx, spec.Prompt, ai.ImageSize(spec.Size), ai.ImageQuality(spec.Quality))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ImageMarkdown is the markdown that replaces a rendered image's placeholder.
func ImageMarkdown(spec blog.ImageSpec) string {
	return fmt.Sprintf("![%s](images/%s)\n*%s*", spec.Alt, spec.Filename, spec.Caption)
}

// FailureBlock is the diagnostic that replaces a failed image's placeholder.
func FailureBlock(spec blog.ImageSpec, err error) string {
	return fmt.Sprintf("> **[IMAGE GENERATION FAILED]** %s\n>\n> **Alt:** %s\n>\n> **Prompt:** %s\n>\n> **Error:** %v\n",
		spec.Caption, spec.Alt, spec.Prompt, err)
}
