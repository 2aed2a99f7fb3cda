// Package config loads blogsmith settings from a .env file, an optional
// YAML file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the YAML file read when BLOGSMITH_CONFIG is unset.
const DefaultFile = "blogsmith.yaml"

// Config holds every setting the commands need.
type Config struct {
	// Providers
	Provider      string  `yaml:"provider"`       // anthropic, openai, google
	ImageProvider string  `yaml:"image_provider"` // openai, google
	Model         string  `yaml:"model"`          // empty uses the provider default
	ImageModel    string  `yaml:"image_model"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"` // 0 uses the provider default

	// API keys come from the environment only.
	AnthropicKey string `yaml:"-"`
	OpenAIKey    string `yaml:"-"`
	GoogleKey    string `yaml:"-"`
	TavilyKey    string `yaml:"-"`

	// Output
	OutputDir string `yaml:"output_dir"`
	RootDir   string `yaml:"root_dir"`

	// Runs
	Timeout        time.Duration `yaml:"timeout"`
	StepTimeout    time.Duration `yaml:"step_timeout"`
	MaxConcurrency int           `yaml:"max_concurrency"`
	RetryAttempts  int           `yaml:"retry_attempts"`

	// Server
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Provider:      "openai",
		ImageProvider: "openai",
		Temperature:   0.7,
		OutputDir:     "outputs",
		RootDir:       ".",
		Timeout:       30 * time.Minute,
		StepTimeout:   5 * time.Minute,
		RetryAttempts: 3,
		Port:          "8000",
		LogLevel:      "info",
	}
}

// Load reads .env if present, then the YAML file named by
// BLOGSMITH_CONFIG (default blogsmith.yaml, skipped when absent), then
// environment variables, and validates the result.
func Load() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := Default()

	path := getEnvOrDefault("BLOGSMITH_CONFIG", DefaultFile)
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Provider = strings.ToLower(getEnvOrDefault("BLOGSMITH_PROVIDER", c.Provider))
	c.ImageProvider = strings.ToLower(getEnvOrDefault("IMAGE_PROVIDER", c.ImageProvider))
	c.Model = getEnvOrDefault("MODEL_NAME", c.Model)
	c.ImageModel = getEnvOrDefault("IMAGE_MODEL", c.ImageModel)
	c.Temperature = getEnvFloatOrDefault("MODEL_TEMPERATURE", c.Temperature)
	c.MaxTokens = getEnvIntOrDefault("MODEL_MAX_TOKENS", c.MaxTokens)

	c.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.GoogleKey = os.Getenv("GOOGLE_API_KEY")
	c.TavilyKey = os.Getenv("TAVILY_API_KEY")

	c.OutputDir = getEnvOrDefault("BLOGSMITH_OUTPUT_DIR", c.OutputDir)
	c.RootDir = getEnvOrDefault("BLOGSMITH_ROOT_DIR", c.RootDir)

	c.Timeout = getEnvDurationOrDefault("BLOGSMITH_TIMEOUT", c.Timeout)
	c.StepTimeout = getEnvDurationOrDefault("BLOGSMITH_STEP_TIMEOUT", c.StepTimeout)
	c.MaxConcurrency = getEnvIntOrDefault("BLOGSMITH_MAX_CONCURRENCY", c.MaxConcurrency)
	c.RetryAttempts = getEnvIntOrDefault("BLOGSMITH_RETRY_ATTEMPTS", c.RetryAttempts)

	c.Port = getEnvOrDefault("BLOGSMITH_PORT", c.Port)
	c.LogLevel = strings.ToLower(getEnvOrDefault("BLOGSMITH_LOG_LEVEL", c.LogLevel))
}

// Validate checks that the selected providers are known and have keys.
func (c *Config) Validate() error {
	if err := c.requireKey(c.Provider, "BLOGSMITH_PROVIDER", "anthropic, openai, or google"); err != nil {
		return err
	}

	switch c.ImageProvider {
	case "openai", "google":
	default:
		return fmt.Errorf("unknown image provider: %s (must be openai or google)", c.ImageProvider)
	}
	if err := c.requireKey(c.ImageProvider, "IMAGE_PROVIDER", "openai or google"); err != nil {
		return err
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("MODEL_TEMPERATURE must be between 0 and 2, got %g", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("MODEL_MAX_TOKENS must not be negative, got %d", c.MaxTokens)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("BLOGSMITH_MAX_CONCURRENCY must not be negative, got %d", c.MaxConcurrency)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("BLOGSMITH_RETRY_ATTEMPTS must be at least 1, got %d", c.RetryAttempts)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("BLOGSMITH_OUTPUT_DIR is required")
	}
	return nil
}

func (c *Config) requireKey(provider, setting, allowed string) error {
	switch provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case "google":
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	case "":
		return fmt.Errorf("%s is required (%s)", setting, allowed)
	default:
		return fmt.Errorf("unknown provider: %s (must be %s)", provider, allowed)
	}
	return nil
}

// SlogLevel converts LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
