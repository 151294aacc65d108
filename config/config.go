// Package config loads the linter's TOML configuration.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	coreerrors "trespass/internal/core/errors"
	"trespass/internal/util"
)

type Config struct {
	IncludePaths []string `toml:"include_paths"`
	Languages    []string `toml:"languages"` // empty means every supported language
	Exclude      Exclude  `toml:"exclude"`
	Report       Report   `toml:"report"`
	Watch        Watch    `toml:"watch"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Report struct {
	Format       string `toml:"format"` // markdown or tsv
	FailOnDenial bool   `toml:"fail_on_denial"`
}

type Watch struct {
	Debounce      time.Duration `toml:"debounce"`
	RelintsPerSec float64       `toml:"relints_per_second"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeValidationError, "invalid config")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.IncludePaths) == 0 {
		c.IncludePaths = []string{"."}
	}
	if c.Report.Format == "" {
		c.Report.Format = "markdown"
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.RelintsPerSec == 0 {
		c.Watch.RelintsPerSec = 4
	}
}

func (c *Config) validate() error {
	switch c.Report.Format {
	case "markdown", "tsv":
	default:
		return coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeValidationError, "unknown report format"),
			"format", c.Report.Format)
	}
	for _, pattern := range append(append([]string{}, c.Exclude.Dirs...), c.Exclude.Files...) {
		if _, err := glob.Compile(util.NormalizePatternPath(pattern)); err != nil {
			return coreerrors.AddContext(
				coreerrors.Wrap(err, coreerrors.CodeValidationError, "invalid exclude pattern"),
				coreerrors.CtxPattern, pattern)
		}
	}
	return nil
}

// ExcludeDirGlobs compiles the directory exclusion patterns. Load has
// already validated them, so compile errors are skipped.
func (c *Config) ExcludeDirGlobs() []glob.Glob {
	return compileAll(c.Exclude.Dirs)
}

// ExcludeFileGlobs compiles the file exclusion patterns.
func (c *Config) ExcludeFileGlobs() []glob.Glob {
	return compileAll(c.Exclude.Files)
}

func compileAll(patterns []string) []glob.Glob {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		// Users write patterns with ./ prefixes and backslashes; the
		// matcher sees forward-slash relative paths.
		normalized := util.NormalizePatternPath(p)
		if normalized == "" {
			continue
		}
		g, err := glob.Compile(normalized)
		if err != nil {
			continue
		}
		out = append(out, g)
	}
	return out
}
