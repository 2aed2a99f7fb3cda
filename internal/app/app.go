// Package app wires configuration into a ready-to-run pipeline for the
// commands.
package app

import (
	"log/slog"
	"os"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/client"
	"github.com/spetersoncode/blogsmith/imagegen"
	"github.com/spetersoncode/blogsmith/internal/config"
	"github.com/spetersoncode/blogsmith/internal/retry"
	"github.com/spetersoncode/blogsmith/pipeline"
	"github.com/spetersoncode/blogsmith/research"
	"github.com/spetersoncode/blogsmith/store"
	"github.com/spetersoncode/blogsmith/workflow"
)

// App holds the components a command uses.
type App struct {
	Config   *config.Config
	Client   *client.Client
	Store    *store.FS
	Pipeline *pipeline.Pipeline
	Logger   *slog.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	clientOpts []client.ClientOption
}

// WithClientOptions passes options to the gateway client.
func WithClientOptions(opts ...client.ClientOption) Option {
	return func(o *options) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// NewLogger returns a text logger on stderr at the configured level.
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// New builds the gateway client, store and pipeline from cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *App {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	rc := retry.DefaultConfig()
	rc.MaxAttempts = cfg.RetryAttempts
	temperature := cfg.Temperature

	c := client.New(client.Config{
		Provider:      ai.Provider(cfg.Provider),
		ImageProvider: ai.Provider(cfg.ImageProvider),
		APIKeys: client.APIKeys{
			Anthropic: cfg.AnthropicKey,
			OpenAI:    cfg.OpenAIKey,
			Google:    cfg.GoogleKey,
		},
		Model:       cfg.Model,
		ImageModel:  cfg.ImageModel,
		Temperature: &temperature,
		MaxTokens:   cfg.MaxTokens,
		Retry:       &rc,
	}, append([]client.ClientOption{client.WithLogger(logger)}, o.clientOpts...)...)

	fs := store.New(cfg.OutputDir, cfg.RootDir)

	var searcher research.Searcher
	if cfg.TavilyKey != "" {
		searcher = research.NewTavilySearcher(cfg.TavilyKey)
	} else {
		logger.Info("TAVILY_API_KEY not set; research will gather no evidence")
	}

	p := pipeline.New(c,
		pipeline.WithGatherer(research.NewGatherer(searcher, c, research.WithLogger(logger))),
		pipeline.WithImages(imagegen.New(c, fs.ImagesDir(), imagegen.WithLogger(logger))),
		pipeline.WithStore(fs),
		pipeline.WithLogger(logger),
		pipeline.WithWorkflowOptions(
			workflow.WithTimeout(cfg.Timeout),
			workflow.WithStepTimeout(cfg.StepTimeout),
			workflow.WithMaxConcurrency(cfg.MaxConcurrency),
		),
	)

	return &App{
		Config:   cfg,
		Client:   c,
		Store:    fs,
		Pipeline: p,
		Logger:   logger,
	}
}
