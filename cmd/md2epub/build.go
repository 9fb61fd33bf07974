package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	md2epub "github.com/alnah/go-md2epub"
	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/config"
	"github.com/alnah/go-md2epub/internal/fileutil"
	"github.com/alnah/go-md2epub/internal/hints"
	"github.com/alnah/go-md2epub/internal/source"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage     = errors.New("invalid arguments")
	ErrReadStyle = errors.New("failed to read style file")
	ErrWriteEPUB = errors.New("failed to write EPUB file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdioArg selects standard input or output in place of a file.
const stdioArg = "-"

// defaultBookName is used when a title yields an empty slug.
const defaultBookName = "book"

// savingStore records the result of the last Save so the CLI can tell
// a read-only manifest apart from one that never needed saving.
type savingStore struct {
	md2epub.ManifestStore
	saved   bool
	saveErr error
}

func (s *savingStore) Save(ctx context.Context, data []byte) error {
	s.saved = true
	s.saveErr = s.ManifestStore.Save(ctx, data)
	return s.saveErr
}

// runBuild loads the manifest named by args[0] and writes the book to
// args[1], stdout, or a file named after the title.
func runBuild(ctx context.Context, args []string, flags *cliFlags, env *Environment, logger *slog.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing manifest argument", ErrUsage)
	}
	if len(args) > 2 {
		return fmt.Errorf("%w: expected at most 2 arguments, got %d", ErrUsage, len(args))
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	manifestArg := args[0]
	store, baseDir := manifestStore(manifestArg, env)

	fetcher, err := newFetcher(cfg, baseDir)
	if err != nil {
		return err
	}

	stylesheet, err := resolveStylesheet(cfg)
	if err != nil {
		return err
	}

	opts := []md2epub.Option{
		md2epub.WithFetcher(fetcher),
		md2epub.WithLogger(logger),
		md2epub.WithClock(env.Now),
	}
	if cfg.Fetch.Concurrency > 0 {
		opts = append(opts, md2epub.WithConcurrency(cfg.Fetch.Concurrency))
	}
	if stylesheet != "" {
		opts = append(opts, md2epub.WithStylesheet(stylesheet))
	}
	gen, err := md2epub.NewGenerator(opts...)
	if err != nil {
		return err
	}

	tracked := &savingStore{ManifestStore: store}
	m, err := gen.LoadManifest(ctx, tracked)
	if err != nil {
		return withHint(err, cfg)
	}
	if tracked.saved && errors.Is(tracked.saveErr, md2epub.ErrReadOnlyStore) && !flags.common.quiet {
		fmt.Fprintln(env.Stderr, strings.TrimSpace(hints.ForReadOnlyManifest()))
	}

	outputArg := ""
	if len(args) == 2 {
		outputArg = args[1]
	}

	if outputArg == stdioArg {
		if err := gen.Generate(ctx, m, env.Stdout); err != nil {
			return withHint(err, cfg)
		}
		return nil
	}

	outPath, err := resolveOutputPath(outputArg, m.Title, manifestArg, cfg)
	if err != nil {
		return err
	}
	if err := writeBook(ctx, gen, m, outPath); err != nil {
		return withHint(err, cfg)
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", outPath)
	}
	return nil
}

// loadConfig loads the config named by flag or environment, or returns the
// defaults when neither names one.
func loadConfig(flagName string, envCfg *envConfig) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configCandidates(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// configCandidates returns where a config name would be created.
func configCandidates(name string) []string {
	if fileutil.IsFilePath(name) {
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "md2epub", name+".yaml")}
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.assets.style != "" {
		cfg.Style.Path = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	if flags.fetch.remote != "" {
		cfg.Fetch.Remote = flags.fetch.remote
	}
	if flags.fetch.concurrency != 0 {
		cfg.Fetch.Concurrency = flags.fetch.concurrency
	}
	if flags.fetch.timeout != 0 {
		cfg.Fetch.Timeout = flags.fetch.timeout
	}
}

// manifestStore returns the store for the manifest argument and the
// directory book files are resolved against.
func manifestStore(arg string, env *Environment) (md2epub.ManifestStore, string) {
	if arg == stdioArg {
		return source.NewReader(env.Stdin), "."
	}
	f := source.NewFile(arg)
	return f, f.Dir()
}

// newFetcher reads book files from the configured remote, or from baseDir.
func newFetcher(cfg *config.Config, baseDir string) (md2epub.Fetcher, error) {
	if cfg.Fetch.Remote == "" {
		return source.NewDir(baseDir)
	}

	var opts []source.HTTPOption
	if cfg.Fetch.Timeout > 0 {
		opts = append(opts, source.WithTimeout(cfg.Fetch.Timeout))
	}
	h, err := source.NewHTTP(cfg.Fetch.Remote, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: --remote: %v", ErrUsage, err)
	}
	return h, nil
}

// resolveStylesheet returns the fixed stylesheet content, or "" for the
// library default. A value containing a path separator is read as a file;
// any other value names a style.
func resolveStylesheet(cfg *config.Config) (string, error) {
	style := cfg.Style.Path
	if style == "" {
		return "", nil
	}

	if fileutil.IsFilePath(style) {
		content, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadStyle, err)
		}
		return string(content), nil
	}

	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return "", fmt.Errorf("loading styles: %w", err)
	}
	css, err := resolver.LoadStyle(style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return "", fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.StyleNames()))
		}
		return "", err
	}
	return css, nil
}

// resolveOutputPath returns the EPUB path: output when given, otherwise
// the slugged title in the config's output directory or next to the
// manifest. The .epub extension is appended when missing.
func resolveOutputPath(output, title, manifestArg string, cfg *config.Config) (string, error) {
	if output == "" {
		dir := cfg.Output.DefaultDir
		if dir == "" && manifestArg != stdioArg {
			dir = filepath.Dir(manifestArg)
		}
		name := slug.Make(title)
		if name == "" {
			name = defaultBookName
		}
		output = filepath.Join(dir, name)
	}

	path, err := fileutil.EnsureExtension(output, "epub")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return path, nil
}

// writeBook generates the book into a temporary file next to path and
// renames it into place, so a failed build leaves no partial archive.
func writeBook(ctx context.Context, gen *md2epub.Generator, m *md2epub.Manifest, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %w", ErrWriteEPUB, err)
	}

	var genErr error
	err := fileutil.WriteAtomic(path, filePermissions, func(w io.Writer) error {
		genErr = gen.Generate(ctx, m, w)
		return genErr
	})
	if genErr != nil {
		return genErr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteEPUB, err)
	}
	return nil
}

// withHint appends the hint matching err, if any.
func withHint(err error, cfg *config.Config) error {
	hint := hintFor(err, cfg.Fetch.Remote != "")
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, remote bool) string {
	var verr *md2epub.ValidationError
	switch {
	case errors.As(err, &verr):
		return hints.ForInvalidManifest(verr.Field)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case remote && errors.Is(err, md2epub.ErrFetch):
		return hints.ForRemoteFetch()
	case errors.Is(err, md2epub.ErrFetch) && errors.Is(err, md2epub.ErrNotFound):
		return hints.ForMissingFile()
	case errors.Is(err, ErrWriteEPUB):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}
