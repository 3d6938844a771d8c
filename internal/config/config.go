package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oxhq/breadcrumbs/core"
	"github.com/oxhq/breadcrumbs/rules"
)

// DefaultFile is looked up in the working directory when no config file is
// named explicitly.
const DefaultFile = ".breadcrumbs.yml"

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	formats    = []string{"text", "json"}
	colorModes = []string{ColorAuto, ColorAlways, ColorNever}
	logLevels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
)

// Config holds the application's configuration.
type Config struct {
	Extensions     []string `yaml:"extensions"` // empty means the parser's own list
	Include        []string `yaml:"include"`
	Exclude        []string `yaml:"exclude"`
	MaxBytes       int64    `yaml:"max_bytes"`
	MaxDepth       int      `yaml:"max_depth"`
	FollowSymlinks bool     `yaml:"follow_symlinks"`
	NoGitignore    bool     `yaml:"no_gitignore"`

	Workers int `yaml:"workers"`

	Format  string `yaml:"format"`
	Color   string `yaml:"color"`
	Summary bool   `yaml:"summary"`

	EnableRules  []string `yaml:"enable_rules"`
	DisableRules []string `yaml:"disable_rules"`

	FailOnWarnings    bool `yaml:"fail_on_warnings"`
	FailOnParseErrors bool `yaml:"fail_on_parse_errors"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxBytes: 5 * 1024 * 1024,
		Workers:  0, // Default value: one per CPU
		Format:   "text",
		Color:    ColorAuto,
		LogLevel: "warn",
	}
}

// Load resolves configuration from defaults, the YAML file at path (or
// DefaultFile when path is empty and it exists) and BREADCRUMBS_*
// environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("BREADCRUMBS_CONFIG")
	}
	required := path != ""
	if path == "" {
		path = DefaultFile
	}
	if err := cfg.LoadFile(path, required); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile merges the YAML document at path into c. Keys absent from the
// file keep their current values. A missing file is only an error when
// required is set.
func (c *Config) LoadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return core.Wrap(core.ErrInvalidConfig, "cannot read config file", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return core.Wrap(core.ErrInvalidConfig, fmt.Sprintf("invalid config file %s", path), err)
	}
	return nil
}

// ApplyEnv overrides fields from BREADCRUMBS_* environment variables.
// Malformed numeric and boolean values are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("BREADCRUMBS_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("BREADCRUMBS_COLOR"); v != "" {
		c.Color = v
	}
	if v := os.Getenv("BREADCRUMBS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv("BREADCRUMBS_EXTENSIONS"); v != "" {
		c.Extensions = splitList(v)
	}
	if v := os.Getenv("BREADCRUMBS_INCLUDE"); v != "" {
		c.Include = splitList(v)
	}
	if v := os.Getenv("BREADCRUMBS_EXCLUDE"); v != "" {
		c.Exclude = splitList(v)
	}
	if v := os.Getenv("BREADCRUMBS_ENABLE_RULES"); v != "" {
		c.EnableRules = splitList(v)
	}
	if v := os.Getenv("BREADCRUMBS_DISABLE_RULES"); v != "" {
		c.DisableRules = splitList(v)
	}

	if v := os.Getenv("BREADCRUMBS_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil && workers >= 0 {
			c.Workers = workers
		}
	}
	if v := os.Getenv("BREADCRUMBS_MAX_BYTES"); v != "" {
		if maxBytes, err := strconv.ParseInt(v, 10, 64); err == nil && maxBytes >= 0 {
			c.MaxBytes = maxBytes
		}
	}

	envBool("BREADCRUMBS_NO_GITIGNORE", &c.NoGitignore)
	envBool("BREADCRUMBS_FOLLOW_SYMLINKS", &c.FollowSymlinks)
	envBool("BREADCRUMBS_FAIL_ON_WARNINGS", &c.FailOnWarnings)
	envBool("BREADCRUMBS_FAIL_ON_PARSE_ERRORS", &c.FailOnParseErrors)
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if !slices.Contains(formats, c.Format) {
		return invalid("format", c.Format, formats)
	}
	if !slices.Contains(colorModes, c.Color) {
		return invalid("color", c.Color, colorModes)
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return invalid("log level", c.LogLevel, logLevels)
	}
	if c.Workers < 0 {
		return core.Wrap(core.ErrInvalidConfig, "invalid workers", fmt.Errorf("must be >= 0, got %d", c.Workers))
	}
	if c.MaxBytes < 0 {
		return core.Wrap(core.ErrInvalidConfig, "invalid max bytes", fmt.Errorf("must be >= 0, got %d", c.MaxBytes))
	}
	_, err := rules.NewEngine(c.RuleFilter())
	return err
}

// Scope builds the discovery scope for paths. defaultExts is used when no
// extensions are configured.
func (c *Config) Scope(paths, defaultExts []string) core.FileScope {
	exts := c.Extensions
	if len(exts) == 0 {
		exts = slices.Clone(defaultExts)
	}
	return core.FileScope{
		Paths:          paths,
		Extensions:     exts,
		Include:        c.Include,
		Exclude:        c.Exclude,
		MaxDepth:       c.MaxDepth,
		MaxBytes:       c.MaxBytes,
		FollowSymlinks: c.FollowSymlinks,
		NoGitignore:    c.NoGitignore,
	}
}

// RuleFilter returns the rule selection.
func (c *Config) RuleFilter() rules.Filter {
	return rules.Filter{Enable: c.EnableRules, Disable: c.DisableRules}
}

// UseColor decides whether output should be colored; isTerminal reports
// whether stdout is a terminal.
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal && os.Getenv("NO_COLOR") == ""
	}
}

func invalid(field, value string, allowed []string) error {
	return core.Wrap(core.ErrInvalidConfig, "invalid "+field, fmt.Errorf("%q (want one of %v)", value, allowed))
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
