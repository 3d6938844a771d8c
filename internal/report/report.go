// Package report renders scan results for people and machines.
package report

import (
	"fmt"
	"io"

	"github.com/oxhq/breadcrumbs/core"
	"github.com/oxhq/breadcrumbs/internal/scan"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatJSON}

// Reporter writes the results of one run.
type Reporter interface {
	Report(w io.Writer, results []scan.FileResult, summary scan.Summary) error
}

// Options tune reporter output
type Options struct {
	Color   bool
	Summary bool // text only: print a trailing totals line
}

// New returns the reporter for format.
func New(format string, opts Options) (Reporter, error) {
	switch format {
	case FormatText, "":
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(), nil
	default:
		return nil, core.Wrap(core.ErrInvalidConfig, "unsupported format", fmt.Errorf("%q (want one of %v)", format, Formats))
	}
}
