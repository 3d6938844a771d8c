package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oxhq/breadcrumbs/core"
	"github.com/oxhq/breadcrumbs/internal/config"
	"github.com/oxhq/breadcrumbs/internal/report"
	"github.com/oxhq/breadcrumbs/internal/scan"
	"github.com/oxhq/breadcrumbs/providers"
	"github.com/oxhq/breadcrumbs/providers/ruby"
	"github.com/oxhq/breadcrumbs/rules"
)

// Version is set at build time.
var Version = "dev"

// Exit codes
const (
	exitOK          = 0
	exitWarnings    = 1
	exitFatal       = 2
	exitParseErrors = 3
)

const (
	stdinPath = "-"
	stdinName = "<stdin>"
)

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// exitError carries a non-zero status that is not itself a failure to report
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func execute(args []string, s streams) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(s)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	printFatal(s.err, err)
	return exitFatal
}

func newRootCmd(s streams) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "breadcrumbs [paths...]",
		Short: "Find deprecated ActiveRecord idioms in Ruby code",
		Long: "breadcrumbs walks Ruby sources and reports dynamic finders (find_all_by_*, scoped_by_*, ...)\n" +
			"and attr_accessible/attr_protected declarations that need migrating.\n" +
			"Pass - to read a single file from stdin.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, s)
		},
	}
	config.RegisterFlags(rootCmd.Flags())
	rootCmd.SetIn(s.in)
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.err)

	scanCmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files or directories (default: current directory)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, s)
		},
	}
	config.RegisterFlags(scanCmd.Flags())

	checkCmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report every syntax error without running the rules",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, s)
		},
	}
	config.RegisterFlags(checkCmd.Flags())

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "List the detection rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(cmd.OutOrStdout())
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "breadcrumbs %s\n", Version)
		},
	}

	rootCmd.AddCommand(scanCmd, checkCmd, rulesCmd, versionCmd)
	return rootCmd
}

// loadConfig resolves defaults, file, env and the command's flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, core.Wrap(core.ErrInvalidConfig, "invalid flags", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// usesStdin reports whether args name stdin. "-" cannot be mixed with paths.
func usesStdin(args []string) (bool, error) {
	if !slices.Contains(args, stdinPath) {
		return false, nil
	}
	if len(args) > 1 {
		return false, core.Wrap(core.ErrInvalidConfig, "invalid arguments",
			errors.New(`"-" reads a single file from stdin and cannot be combined with other paths`))
	}
	return true, nil
}

// discover lists the files to scan; no args means the working directory
func discover(ctx context.Context, cfg *config.Config, provider providers.Provider, args []string, logger zerolog.Logger) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := core.NewFileWalker().Discover(ctx, cfg.Scope(args, provider.Extensions()))
	if err != nil {
		return nil, core.Wrap(core.ErrIO, "file discovery failed", err)
	}
	if len(files) == 0 {
		logger.Warn().Strs("paths", args).Msg("no files found")
	}
	logger.Info().
		Str("language", provider.Language()).
		Int("files", len(files)).
		Msg("files discovered")
	return files, nil
}

func runScan(cmd *cobra.Command, args []string, s streams) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	stdin, err := usesStdin(args)
	if err != nil {
		return err
	}

	logger := newLogger(s.err, cfg.LogLevel)

	engine, err := rules.NewEngine(cfg.RuleFilter())
	if err != nil {
		return err
	}
	reporter, err := report.New(cfg.Format, report.Options{
		Color:   cfg.UseColor(isTerminal(s.out)),
		Summary: cfg.Summary,
	})
	if err != nil {
		return err
	}

	var provider providers.Provider = ruby.New()
	scanner := scan.New(scan.Config{
		Parser:    provider,
		Evaluator: engine,
		Workers:   cfg.Workers,
		Logger:    logger,
	})

	ctx := cmd.Context()
	var results []scan.FileResult
	if stdin {
		source, err := io.ReadAll(s.in)
		if err != nil {
			return core.Wrap(core.ErrIO, "cannot read stdin", err)
		}
		results = []scan.FileResult{scanner.ScanSource(ctx, stdinName, source)}
	} else {
		files, err := discover(ctx, cfg, provider, args, logger)
		if err != nil {
			return err
		}
		results, err = scanner.ScanFiles(ctx, files)
		if err != nil {
			return err
		}
	}
	logPoolStats(logger, provider)

	summary := scan.Summarize(results)
	if err := reporter.Report(s.out, results, summary); err != nil {
		return core.Wrap(core.ErrIO, "cannot write report", err)
	}

	switch {
	case cfg.FailOnParseErrors && summary.ParseFailures > 0:
		return exitError{code: exitParseErrors}
	case cfg.FailOnWarnings && summary.TotalWarnings > 0:
		return exitError{code: exitWarnings}
	}
	return nil
}

// runCheck prints one line per syntax error and exits 3 when any file is
// invalid. Unreadable files are reported the same way.
func runCheck(cmd *cobra.Command, args []string, s streams) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	stdin, err := usesStdin(args)
	if err != nil {
		return err
	}

	logger := newLogger(s.err, cfg.LogLevel)
	var provider providers.Provider = ruby.New()

	invalid := 0
	check := func(name string, source []byte) {
		result := provider.Validate(source)
		if result.Valid {
			return
		}
		invalid++
		for _, msg := range result.Errors {
			fmt.Fprintf(s.out, "%s: %s\n", name, msg)
		}
	}

	if stdin {
		source, err := io.ReadAll(s.in)
		if err != nil {
			return core.Wrap(core.ErrIO, "cannot read stdin", err)
		}
		check(stdinName, source)
	} else {
		files, err := discover(cmd.Context(), cfg, provider, args, logger)
		if err != nil {
			return err
		}
		for _, path := range files {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				invalid++
				fmt.Fprintf(s.out, "%s: %v\n", path, err)
				continue
			}
			check(path, source)
		}
	}
	logPoolStats(logger, provider)

	if invalid > 0 {
		return exitError{code: exitParseErrors}
	}
	return nil
}

func logPoolStats(logger zerolog.Logger, provider providers.Provider) {
	stats := provider.Stats()
	logger.Debug().
		Str("language", provider.Language()).
		Int64("parsers_borrowed", stats.BorrowCount).
		Int64("parsers_returned", stats.ReturnCount).
		Int64("parsers_active", stats.Active).
		Msg("parser pool")
}

func listRules(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREPLACEMENT\tDESCRIPTION")
	for _, r := range rules.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Replacement, r.Description)
	}
	return tw.Flush()
}

// newLogger configures structured logging on w
func newLogger(w io.Writer, level string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}).Level(logLevel).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func printFatal(w io.Writer, err error) {
	var ce core.CLIError
	if errors.As(err, &ce) {
		fmt.Fprintf(w, "Error: %s [%s]\n", ce.Error(), ce.Code)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
