package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/oxhq/breadcrumbs/core"
	"github.com/oxhq/breadcrumbs/internal/scan"
)

var separator = strings.Repeat("----", 40)

// TextReporter prints one section per file that has warnings and one line
// per file that failed.
type TextReporter struct {
	summary bool

	header  *color.Color
	warning *color.Color
	failure *color.Color
}

// NewTextReporter creates a console reporter.
func NewTextReporter(opts Options) *TextReporter {
	r := &TextReporter{
		summary: opts.Summary,
		header:  color.New(color.Bold, color.FgYellow),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{r.header, r.warning, r.failure} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Report implements Reporter.
func (r *TextReporter) Report(w io.Writer, results []scan.FileResult, summary scan.Summary) error {
	bw := bufio.NewWriter(w)

	for _, res := range results {
		switch {
		case res.Failed():
			r.failure.Fprintln(bw, failureLine(res))
		case res.HasWarnings():
			r.section(bw, res)
		}
	}

	if r.summary {
		fmt.Fprintf(bw, "%d files scanned, %d warnings in %d files, %d failures\n",
			summary.FilesScanned, summary.TotalWarnings, summary.FilesWithWarnings, summary.ParseFailures)
	}

	return bw.Flush()
}

// failureLine names the file once; parse errors already carry the path
func failureLine(res scan.FileResult) string {
	if core.IsParseError(res.Err) {
		return res.Err.Error()
	}
	return fmt.Sprintf("%s: %v", res.Path, res.Err)
}

func (r *TextReporter) section(w io.Writer, res scan.FileResult) {
	fmt.Fprintln(w, separator)
	r.header.Fprintf(w, "%s has %d warnings\n", res.Path, len(res.Warnings))
	fmt.Fprintln(w, separator)
	for _, warning := range res.Warnings {
		r.warning.Fprintln(w, warning.Message)
	}
	fmt.Fprintln(w)
}
