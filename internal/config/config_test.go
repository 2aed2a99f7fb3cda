package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"BLOGSMITH_CONFIG", "BLOGSMITH_PROVIDER", "IMAGE_PROVIDER", "MODEL_NAME", "IMAGE_MODEL",
	"MODEL_TEMPERATURE", "MODEL_MAX_TOKENS", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY", "TAVILY_API_KEY",
	"BLOGSMITH_OUTPUT_DIR", "BLOGSMITH_ROOT_DIR", "BLOGSMITH_TIMEOUT", "BLOGSMITH_STEP_TIMEOUT",
	"BLOGSMITH_MAX_CONCURRENCY", "BLOGSMITH_RETRY_ATTEMPTS", "BLOGSMITH_PORT", "BLOGSMITH_LOG_LEVEL",
}

// cleanEnv clears every setting and points the config file somewhere empty.
func cleanEnv(t *testing.T) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("BLOGSMITH_CONFIG", filepath.Join(dir, "blogsmith.yaml"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "openai", cfg.ImageProvider)
	assert.Empty(t, cfg.Model)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, ".", cfg.RootDir)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.StepTimeout)
	assert.Equal(t, 0, cfg.MaxConcurrency)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := cleanEnv(t)
	yamlPath := filepath.Join(dir, "blogsmith.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
provider: anthropic
image_provider: google
model: claude-from-file
temperature: 0.2
output_dir: posts
timeout: 10m
max_concurrency: 4
log_level: debug
`), 0o644))

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("MODEL_NAME", "claude-from-env")
	t.Setenv("BLOGSMITH_STEP_TIMEOUT", "90s")
	t.Setenv("MODEL_MAX_TOKENS", "4096")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "google", cfg.ImageProvider)
	assert.Equal(t, "claude-from-env", cfg.Model, "environment overrides the file")
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, "posts", cfg.OutputDir)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.Equal(t, 90*time.Second, cfg.StepTimeout)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadBadFile(t *testing.T) {
	dir := cleanEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blogsmith.yaml"), []byte("provider: [unclosed"), 0o644))
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := Load()
	assert.ErrorContains(t, err, "parse config")
}

func TestInvalidEnvValuesKeepDefaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BLOGSMITH_TIMEOUT", "soon")
	t.Setenv("BLOGSMITH_RETRY_ATTEMPTS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.OpenAIKey = "sk"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing provider", func(c *Config) { c.Provider = "" }, "BLOGSMITH_PROVIDER is required"},
		{"unknown provider", func(c *Config) { c.Provider = "mistral" }, "unknown provider: mistral"},
		{"anthropic without key", func(c *Config) { c.Provider = "anthropic" }, "ANTHROPIC_API_KEY is required"},
		{"anthropic images", func(c *Config) { c.ImageProvider = "anthropic" }, "unknown image provider"},
		{"google images without key", func(c *Config) { c.ImageProvider = "google" }, "GOOGLE_API_KEY is required"},
		{"temperature", func(c *Config) { c.Temperature = 3 }, "MODEL_TEMPERATURE"},
		{"concurrency", func(c *Config) { c.MaxConcurrency = -1 }, "BLOGSMITH_MAX_CONCURRENCY"},
		{"max tokens", func(c *Config) { c.MaxTokens = -1 }, "MODEL_MAX_TOKENS"},
		{"retries", func(c *Config) { c.RetryAttempts = 0 }, "BLOGSMITH_RETRY_ATTEMPTS"},
		{"output dir", func(c *Config) { c.OutputDir = "" }, "BLOGSMITH_OUTPUT_DIR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
