package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2epub/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // MD2EPUB_CONFIG: config file name or path
	Style       string        // MD2EPUB_STYLE: style name or CSS path
	AssetPath   string        // MD2EPUB_ASSET_PATH: custom styles directory
	Remote      string        // MD2EPUB_REMOTE: base URL of the book
	OutputDir   string        // MD2EPUB_OUTPUT_DIR: default output directory
	Concurrency int           // MD2EPUB_CONCURRENCY: parallel fetches
	Timeout     time.Duration // MD2EPUB_TIMEOUT: remote request timeout
}

// knownEnvVars lists valid MD2EPUB_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2EPUB_CONFIG":      true,
	"MD2EPUB_STYLE":       true,
	"MD2EPUB_ASSET_PATH":  true,
	"MD2EPUB_REMOTE":      true,
	"MD2EPUB_OUTPUT_DIR":  true,
	"MD2EPUB_CONCURRENCY": true,
	"MD2EPUB_TIMEOUT":     true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2EPUB_CONFIG"),
		Style:      os.Getenv("MD2EPUB_STYLE"),
		AssetPath:  os.Getenv("MD2EPUB_ASSET_PATH"),
		Remote:     os.Getenv("MD2EPUB_REMOTE"),
		OutputDir:  os.Getenv("MD2EPUB_OUTPUT_DIR"),
	}

	if timeout := os.Getenv("MD2EPUB_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if n := os.Getenv("MD2EPUB_CONCURRENCY"); n != "" {
		if c, err := strconv.Atoi(n); err == nil && c > 0 {
			cfg.Concurrency = c
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for each unrecognized MD2EPUB_* variable.
// Helps catch typos like MD2EPUB_REMOTE_URL instead of MD2EPUB_REMOTE.
func warnUnknownEnvVars(logger *slog.Logger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "MD2EPUB_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.Style.Path == "" {
		cfg.Style.Path = env.Style
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Remote != "" && cfg.Fetch.Remote == "" {
		cfg.Fetch.Remote = env.Remote
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Concurrency > 0 && cfg.Fetch.Concurrency == 0 {
		cfg.Fetch.Concurrency = env.Concurrency
	}
	if env.Timeout > 0 && cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = env.Timeout
	}
}
