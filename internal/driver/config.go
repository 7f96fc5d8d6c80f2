package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Options tunes a multi-invocation expansion run. Zero values mean
// "use the default".
type Options struct {
	// MaxDepth is the expansion recursion limit per invocation.
	MaxDepth int `toml:"max_depth"`
	// MaxDiagnostics caps each invocation's diagnostic bag.
	MaxDiagnostics int `toml:"max_diagnostics"`
	// Jobs bounds expansion concurrency; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// CacheDir enables the expansion disk cache when non-empty.
	CacheDir string `toml:"cache_dir"`
}

// DefaultOptions returns the options used when no mex.toml is present.
func DefaultOptions() Options {
	return Options{
		MaxDepth:       0, // engine default
		MaxDiagnostics: 64,
	}
}

type manifest struct {
	Expansion Options `toml:"expansion"`
}

// LoadOptions reads the [expansion] section of a mex.toml. Missing keys keep
// their defaults.
func LoadOptions(path string) (Options, error) {
	cfg := manifest{Expansion: DefaultOptions()}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Options{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Expansion.MaxDiagnostics <= 0 {
		cfg.Expansion.MaxDiagnostics = DefaultOptions().MaxDiagnostics
	}
	return cfg.Expansion, nil
}

// FindMexToml walks up from startDir to locate mex.toml.
func FindMexToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "mex.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
