package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2epub/internal/fileutil"
	"github.com/alnah/go-md2epub/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength  = 4096 // PATH_MAX on Linux
	MaxURLLength   = 2048 // Browser limit
	MaxConcurrency = 64
	MaxTimeout     = 10 * time.Minute
)

// appDir is the directory under the user config dir searched for configs.
const appDir = "md2epub"

// Config holds CLI defaults. Flags override every field.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Style  StyleConfig  `yaml:"style"`
	Assets AssetsConfig `yaml:"assets"`
	Fetch  FetchConfig  `yaml:"fetch"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the manifest
}

// StyleConfig selects the fixed stylesheet of generated books.
type StyleConfig struct {
	Path string `yaml:"path"` // Style name (e.g. "plain") or CSS file path; empty = default
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Directory of custom styles; empty = embedded only
}

// FetchConfig defines how book sources are read.
type FetchConfig struct {
	Remote      string        `yaml:"remote"`      // Base URL of a remote book; empty = manifest directory
	Concurrency int           `yaml:"concurrency"` // Parallel fetches; 0 = library default
	Timeout     time.Duration `yaml:"timeout"`     // Per-request timeout for remote fetches; 0 = default
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("style.path", c.Style.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("fetch.remote", c.Fetch.Remote, MaxURLLength); err != nil {
		return err
	}
	if c.Fetch.Remote != "" && !fileutil.IsURL(c.Fetch.Remote) {
		return fmt.Errorf("%w: fetch.remote: %q is not an http or https URL", ErrInvalidField, c.Fetch.Remote)
	}
	if c.Fetch.Concurrency < 0 || c.Fetch.Concurrency > MaxConcurrency {
		return fmt.Errorf("%w: fetch.concurrency: must be between 0 and %d, got %d", ErrInvalidField, MaxConcurrency, c.Fetch.Concurrency)
	}
	if c.Fetch.Timeout < 0 || c.Fetch.Timeout > MaxTimeout {
		return fmt.Errorf("%w: fetch.timeout: must be between 0 and %s, got %s", ErrInvalidField, MaxTimeout, c.Fetch.Timeout)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that keeps every library default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/md2epub/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
