// Package scan runs the walker over a set of files. Files are scanned
// independently and may run in parallel; results always come back in the
// order the paths were given.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/oxhq/breadcrumbs/core"
)

// Parser turns source text into a syntax tree.
type Parser interface {
	Parse(ctx context.Context, source []byte) (*core.Node, error)
}

// FileResult is the outcome of scanning one file. Err is set when the file
// could not be read or parsed; Warnings is then empty.
type FileResult struct {
	Path     string
	Warnings []core.Warning
	Err      error
}

// Failed reports whether the file could not be scanned.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// HasWarnings reports whether the file produced any warning.
func (r FileResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Config configures a Scanner
type Config struct {
	Parser    Parser
	Evaluator core.Evaluator
	Workers   int // 0 means runtime.NumCPU()
	Logger    zerolog.Logger
}

// Scanner drives parse and walk for each file.
type Scanner struct {
	parser    Parser
	evaluator core.Evaluator
	workers   int
	logger    zerolog.Logger
}

// New creates a scanner.
func New(cfg Config) *Scanner {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scanner{
		parser:    cfg.Parser,
		evaluator: cfg.Evaluator,
		workers:   workers,
		logger:    cfg.Logger.With().Str("component", "scanner").Logger(),
	}
}

// ScanFiles scans every path and returns one result per path, in input
// order. Per-file failures are recorded in the result; only context
// cancellation aborts the run.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	start := time.Now()
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.ScanFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("files", len(paths)).
		Int("workers", s.workers).
		Dur("elapsed", time.Since(start)).
		Msg("scan completed")
	return results, nil
}

// ScanFile reads and scans a single file.
func (s *Scanner) ScanFile(ctx context.Context, path string) FileResult {
	source, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", path).Msg("read failed")
		return FileResult{Path: path, Err: core.Wrap(core.ErrIO, "cannot read file", err)}
	}
	return s.scan(ctx, path, source)
}

// ScanSource scans in-memory text under the given display name.
func (s *Scanner) ScanSource(ctx context.Context, name string, source []byte) FileResult {
	return s.scan(ctx, name, source)
}

func (s *Scanner) scan(ctx context.Context, path string, source []byte) FileResult {
	root, err := s.parser.Parse(ctx, source)
	if err != nil {
		var perr *core.ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		} else {
			err = core.Wrap(core.ErrParse, fmt.Sprintf("cannot parse %s", path), err)
		}
		s.logger.Warn().Err(err).Str("file", path).Msg("parse failed")
		return FileResult{Path: path, Err: err}
	}

	collector := core.Walk(root, s.evaluator)
	s.logger.Debug().
		Str("file", path).
		Int("warnings", collector.Len()).
		Msg("file scanned")

	return FileResult{Path: path, Warnings: collector.Warnings()}
}
