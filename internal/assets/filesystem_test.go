package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeStyle(t *testing.T, dir, name, content string) {
	t.Helper()

	stylesDir := filepath.Join(dir, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		t.Fatalf("failed to create styles dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stylesDir, name+".css"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write CSS file: %v", err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader == nil {
			t.Fatal("NewFilesystemLoader() returned nil")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(filePath, []byte("test"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	t.Run("loads existing style", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		cssContent := "body { color: red; }"
		writeStyle(t, tmpDir, "custom", cssContent)

		loader, err := NewFilesystemLoader(tmpDir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		got, err := loader.LoadStyle("custom")
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if got != cssContent {
			t.Errorf("LoadStyle() = %q, want %q", got, cssContent)
		}
	})

	t.Run("returns ErrStyleNotFound for nonexistent", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.LoadStyle("nonexistent")
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("returns ErrInvalidAssetName for invalid name", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		for _, name := range []string{"", "../secret", "..\\secret", "style.evil"} {
			if _, err := loader.LoadStyle(name); !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("LoadStyle(%q) error = %v, want ErrInvalidAssetName", name, err)
			}
		}
	})
}

func TestFilesystemLoader_PathContainment(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "styles"), 0o755); err != nil {
		t.Fatalf("failed to create styles dir: %v", err)
	}

	secretFile := filepath.Join(t.TempDir(), "secret.css")
	if err := os.WriteFile(secretFile, []byte("secret content"), 0o644); err != nil {
		t.Fatalf("failed to write secret file: %v", err)
	}
	if err := os.Symlink(secretFile, filepath.Join(tmpDir, "styles", "evil.css")); err != nil {
		t.Skipf("symlink creation not supported: %v", err)
	}

	loader, err := NewFilesystemLoader(tmpDir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	_, err = loader.LoadStyle("evil")
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle() with symlink escape error = %v, want ErrPathTraversal", err)
	}
}
