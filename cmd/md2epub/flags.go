package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds output verbosity and config selection.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// fetchFlags holds flags controlling where book files are read from.
type fetchFlags struct {
	remote      string
	concurrency int
	timeout     time.Duration
}

// assetFlags holds stylesheet selection flags.
type assetFlags struct {
	style     string // Style name or CSS file path
	assetPath string // Directory of custom styles
}

// cliFlags holds every md2epub flag.
type cliFlags struct {
	common  commonFlags
	fetch   fetchFlags
	assets  assetFlags
	version bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addFetchFlags adds source flags to a FlagSet.
func addFetchFlags(fs *flag.FlagSet, f *fetchFlags) {
	fs.StringVar(&f.remote, "remote", "", "base URL to fetch book files from")
	fs.IntVarP(&f.concurrency, "concurrency", "j", 0, "parallel fetches (0 = default)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-request timeout for --remote (e.g. 30s)")
}

// addAssetFlags adds stylesheet flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "style name or CSS file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory of custom styles")
}

// parseFlags parses args (without the program name) and returns the
// positional arguments. -h and --help return flag.ErrHelp.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("md2epub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	f := &cliFlags{}
	addCommonFlags(fs, &f.common)
	addFetchFlags(fs, &f.fetch)
	addAssetFlags(fs, &f.assets)
	fs.BoolVar(&f.version, "version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
