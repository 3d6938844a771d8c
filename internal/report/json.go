package report

import (
	"encoding/json"
	"io"

	"github.com/oxhq/breadcrumbs/core"
	"github.com/oxhq/breadcrumbs/internal/scan"
)

// JSONReporter writes a single JSON document describing the run.
type JSONReporter struct{}

// NewJSONReporter creates a JSON reporter.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

type jsonFile struct {
	Path     string         `json:"path"`
	Warnings []core.Warning `json:"warnings"`
	Error    string         `json:"error,omitempty"`
}

type jsonDocument struct {
	Files   []jsonFile   `json:"files"`
	Summary scan.Summary `json:"summary"`
}

// Report implements Reporter. Every scanned file is listed, including clean
// ones, so consumers can tell "no warnings" from "not scanned".
func (r *JSONReporter) Report(w io.Writer, results []scan.FileResult, summary scan.Summary) error {
	doc := jsonDocument{
		Files:   make([]jsonFile, 0, len(results)),
		Summary: summary,
	}
	for _, res := range results {
		file := jsonFile{Path: res.Path, Warnings: res.Warnings}
		if file.Warnings == nil {
			file.Warnings = []core.Warning{}
		}
		if res.Err != nil {
			file.Error = res.Err.Error()
		}
		doc.Files = append(doc.Files, file)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
