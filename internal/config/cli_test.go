package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("breadcrumbs", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	cfg := Default()
	cfg.Format = "json"
	cfg.Workers = 6

	require.NoError(t, cfg.ApplyFlags(newFlagSet(t)))
	assert.Equal(t, "json", cfg.Format, "unset flag keeps the file value")
	assert.Equal(t, 6, cfg.Workers)
}

func TestApplyFlags(t *testing.T) {
	fs := newFlagSet(t,
		"-f", "json",
		"--color", "always",
		"--summary",
		"--ext", ".rb,.erb",
		"--include", "app/**",
		"--exclude", "**/spec/**",
		"--no-gitignore",
		"--follow-symlinks",
		"--max-bytes", "2048",
		"--max-depth", "3",
		"-w", "2",
		"--enable", "dynamic-scoped-by",
		"--disable", "dynamic-find-all-by",
		"--fail-on-warnings",
		"--fail-on-parse-errors",
		"--log-level", "debug",
		"app", "lib",
	)

	cfg := Default()
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, ColorAlways, cfg.Color)
	assert.True(t, cfg.Summary)
	assert.Equal(t, []string{".rb", ".erb"}, cfg.Extensions)
	assert.Equal(t, []string{"app/**"}, cfg.Include)
	assert.Equal(t, []string{"**/spec/**"}, cfg.Exclude)
	assert.True(t, cfg.NoGitignore)
	assert.True(t, cfg.FollowSymlinks)
	assert.Equal(t, int64(2048), cfg.MaxBytes)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"dynamic-scoped-by"}, cfg.EnableRules)
	assert.Equal(t, []string{"dynamic-find-all-by"}, cfg.DisableRules)
	assert.True(t, cfg.FailOnWarnings)
	assert.True(t, cfg.FailOnParseErrors)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Equal(t, []string{"app", "lib"}, fs.Args())
}

func TestRegisterFlags_Defaults(t *testing.T) {
	fs := newFlagSet(t)
	def := Default()

	format, err := fs.GetString("format")
	require.NoError(t, err)
	assert.Equal(t, def.Format, format)

	ext, err := fs.GetStringSlice("ext")
	require.NoError(t, err)
	assert.Empty(t, ext)

	config, err := fs.GetString("config")
	require.NoError(t, err)
	assert.Empty(t, config)
}
