package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags defines the scan flags on fs. Defaults shown in help come
// from Default(); actual values are merged by ApplyFlags.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()

	fs.String("config", "", "Config file (default: "+DefaultFile+" when present).")
	fs.StringP("format", "f", def.Format, "Output format: text or json.")
	fs.String("color", def.Color, "Colorize output: auto, always or never.")
	fs.Bool("summary", false, "Print a totals line after the text report.")
	fs.StringSlice("ext", nil, "File extensions to scan (default: the parser's extensions, .rb and .rake).")
	fs.StringSlice("include", nil, "Include file patterns (glob).")
	fs.StringSlice("exclude", nil, "Exclude file patterns (glob).")
	fs.Bool("no-gitignore", false, "Disable .gitignore filtering.")
	fs.Bool("follow-symlinks", false, "Follow symbolic links during directory traversal.")
	fs.Int64("max-bytes", def.MaxBytes, "Maximum file size to scan in bytes.")
	fs.Int("max-depth", 0, "Maximum directory depth, 0 means unlimited.")
	fs.IntP("workers", "w", def.Workers, "Number of concurrent workers, 0 means use all available CPUs.")
	fs.StringSlice("enable", nil, "Only run these rules.")
	fs.StringSlice("disable", nil, "Skip these rules.")
	fs.Bool("fail-on-warnings", false, "Exit with status 1 when any warning is reported.")
	fs.Bool("fail-on-parse-errors", false, "Exit with status 3 when any file fails to parse.")
	fs.String("log-level", def.LogLevel, "Log level: trace, debug, info, warn, error or disabled.")
}

// ApplyFlags copies every flag the user set explicitly into c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	list := func(name string, dst *[]string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetStringSlice(name)
		}
	}
	flag := func(name string, dst *bool) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetBool(name)
		}
	}
	num := func(name string, dst *int) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetInt(name)
		}
	}

	str("format", &c.Format)
	str("color", &c.Color)
	str("log-level", &c.LogLevel)
	flag("summary", &c.Summary)
	list("ext", &c.Extensions)
	list("include", &c.Include)
	list("exclude", &c.Exclude)
	list("enable", &c.EnableRules)
	list("disable", &c.DisableRules)
	flag("no-gitignore", &c.NoGitignore)
	flag("follow-symlinks", &c.FollowSymlinks)
	flag("fail-on-warnings", &c.FailOnWarnings)
	flag("fail-on-parse-errors", &c.FailOnParseErrors)
	num("workers", &c.Workers)
	num("max-depth", &c.MaxDepth)
	if err == nil && fs.Changed("max-bytes") {
		c.MaxBytes, err = fs.GetInt64("max-bytes")
	}
	return err
}
