package main

// Notes:
// - These tests use t.Setenv and therefore do not run in parallel.

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-md2epub/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Reading MD2EPUB_* variables
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MD2EPUB_CONFIG", "work")
	t.Setenv("MD2EPUB_STYLE", "plain")
	t.Setenv("MD2EPUB_ASSET_PATH", "/styles")
	t.Setenv("MD2EPUB_REMOTE", "https://example.com/book/")
	t.Setenv("MD2EPUB_OUTPUT_DIR", "dist")
	t.Setenv("MD2EPUB_CONCURRENCY", "3")
	t.Setenv("MD2EPUB_TIMEOUT", "90s")

	got := loadEnvConfig()
	want := &envConfig{
		ConfigPath:  "work",
		Style:       "plain",
		AssetPath:   "/styles",
		Remote:      "https://example.com/book/",
		OutputDir:   "dist",
		Concurrency: 3,
		Timeout:     90 * time.Second,
	}
	if *got != *want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", got, want)
	}
}

func TestLoadEnvConfig_InvalidNumbers(t *testing.T) {
	t.Setenv("MD2EPUB_CONCURRENCY", "-2")
	t.Setenv("MD2EPUB_TIMEOUT", "soon")

	got := loadEnvConfig()
	if got.Concurrency != 0 || got.Timeout != 0 {
		t.Errorf("Concurrency, Timeout = %d, %s, want zero values", got.Concurrency, got.Timeout)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Precedence: config file > env
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		Style:       "plain",
		AssetPath:   "/styles",
		Remote:      "https://env.example.com/",
		OutputDir:   "env-dist",
		Concurrency: 3,
		Timeout:     time.Minute,
	}

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)
		if cfg.Style.Path != "plain" || cfg.Assets.BasePath != "/styles" || cfg.Fetch.Remote != env.Remote ||
			cfg.Output.DefaultDir != "env-dist" || cfg.Fetch.Concurrency != 3 || cfg.Fetch.Timeout != time.Minute {
			t.Errorf("config = %+v", cfg)
		}
	})

	t.Run("keeps config file values", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{
			Style:  config.StyleConfig{Path: "default"},
			Output: config.OutputConfig{DefaultDir: "file-dist"},
			Fetch:  config.FetchConfig{Concurrency: 8},
		}
		applyEnvConfig(env, cfg)
		if cfg.Style.Path != "default" || cfg.Output.DefaultDir != "file-dist" || cfg.Fetch.Concurrency != 8 {
			t.Errorf("config = %+v, want config file values kept", cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MD2EPUB_STYLE", "plain")
	t.Setenv("MD2EPUB_REMOTE_URL", "https://example.com/")

	var buf bytes.Buffer
	warnUnknownEnvVars(slog.New(slog.NewTextHandler(&buf, nil)))

	out := buf.String()
	if !strings.Contains(out, "MD2EPUB_REMOTE_URL") {
		t.Errorf("output = %q, want warning for MD2EPUB_REMOTE_URL", out)
	}
	if strings.Contains(out, "MD2EPUB_STYLE") {
		t.Errorf("output = %q, known variable should not warn", out)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_EnvOverrides - Environment values reach the build
// ---------------------------------------------------------------------------

func TestRunMain_EnvOverrides(t *testing.T) {
	dir := newBookDir(t)
	outDir := t.TempDir()
	t.Setenv("MD2EPUB_OUTPUT_DIR", outDir)
	t.Setenv("MD2EPUB_STYLE", "plain")

	env := newTestEnv("")
	if code := runMain([]string{"md2epub", dir + "/book.json"}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d (stderr: %s)", code, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), outDir) {
		t.Errorf("stdout = %q, want book created in %s", env.stdout.String(), outDir)
	}
}
