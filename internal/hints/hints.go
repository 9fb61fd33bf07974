// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2epub/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForRemoteFetch returns hints for errors reaching a remote book source.
// Detects CI/Docker environments and proxy settings.
func ForRemoteFetch() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if inCI || IsInContainer() {
		hints = append(hints, "check the container or runner has network access")
	}
	if os.Getenv("HTTPS_PROXY") == "" && os.Getenv("https_proxy") == "" {
		hints = append(hints, "set HTTPS_PROXY if a proxy is required")
	}
	hints = append(hints, "--remote must point at the directory holding the manifest")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for slow remote sources, raise fetch.timeout in the config file")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "md2epub") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForMissingFile returns hints for content, stylesheet or image files that
// could not be found.
func ForMissingFile() string {
	return format("paths in contents, css and cover are relative to the manifest; images are relative to their chapter")
}

// ForInvalidManifest returns a hint for the named manifest field.
func ForInvalidManifest(field string) string {
	switch {
	case field == "contents":
		return format(`list at least one markdown file, e.g. "contents": ["01-intro.md"]`)
	case strings.HasPrefix(field, "authors"):
		return format(`each author needs a name; roles are three-letter MARC codes such as "aut" or "edt"`)
	case field == "tocDepth":
		return format("use a heading depth between 1 and 6")
	case field == "date" || field == "created" || field == "copyrighted":
		return format("use YYYY-MM-DD, YYYY-MM or YYYY")
	case field == "":
		return format("the manifest must be a JSON or YAML object")
	default:
		return ""
	}
}

// ForReadOnlyManifest returns a hint for manifests whose generated
// identifier could not be saved.
func ForReadOnlyManifest() string {
	return format("add a uuid key to the manifest to keep the book identifier stable across builds")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
