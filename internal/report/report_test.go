package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/breadcrumbs/core"
	"github.com/oxhq/breadcrumbs/internal/scan"
)

func fixture() []scan.FileResult {
	return []scan.FileResult{
		{Path: "app/models/user.rb", Warnings: []core.Warning{
			{Rule: "mass-assignment-accessible", Message: "Found attr_accessible with symbols a, b at line 2. Replace it with strong parameters instead.", Line: 2, Column: 3},
			{Rule: "dynamic-find-all-by", Message: "Found find_all_by_name at line 5. Replace it with where(...) instead.", Line: 5, Column: 5},
		}},
		{Path: "app/models/clean.rb"},
		{Path: "lib/broken.rb", Err: &core.ParseError{Path: "lib/broken.rb", Line: 2, Column: 11, Snippet: "("}},
	}
}

// assertText compares rendered output against want and prints a unified diff on mismatch
func assertText(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Errorf("text report mismatch:\n%s", diff)
}

func TestTextReporter(t *testing.T) {
	results := fixture()
	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(Options{}).Report(&buf, results, scan.Summarize(results)))

	sep := strings.Repeat("-", 160)
	want := sep + "\n" +
		"app/models/user.rb has 2 warnings\n" +
		sep + "\n" +
		"Found attr_accessible with symbols a, b at line 2. Replace it with strong parameters instead.\n" +
		"Found find_all_by_name at line 5. Replace it with where(...) instead.\n" +
		"\n" +
		`lib/broken.rb:2:11: syntax error near "("` + "\n"

	assertText(t, want, buf.String())
}

func TestTextReporter_Summary(t *testing.T) {
	results := fixture()
	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(Options{Summary: true}).Report(&buf, results, scan.Summarize(results)))

	assert.True(t, strings.HasSuffix(buf.String(), "3 files scanned, 2 warnings in 1 files, 1 failures\n"))
}

func TestTextReporter_NothingToReport(t *testing.T) {
	results := []scan.FileResult{{Path: "a.rb"}, {Path: "b.rb"}}
	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(Options{}).Report(&buf, results, scan.Summarize(results)))
	assert.Empty(t, buf.String())
}

func TestTextReporter_Color(t *testing.T) {
	results := fixture()
	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(Options{Color: true}).Report(&buf, results, scan.Summarize(results)))
	assert.Contains(t, buf.String(), "\x1b[")

	buf.Reset()
	require.NoError(t, NewTextReporter(Options{Color: false}).Report(&buf, results, scan.Summarize(results)))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestJSONReporter(t *testing.T) {
	results := fixture()
	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter().Report(&buf, results, scan.Summarize(results)))

	var doc struct {
		Files []struct {
			Path     string            `json:"path"`
			Warnings []json.RawMessage `json:"warnings"`
			Error    string            `json:"error"`
		} `json:"files"`
		Summary scan.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Files, 3)
	assert.Equal(t, "app/models/user.rb", doc.Files[0].Path)
	assert.Len(t, doc.Files[0].Warnings, 2)
	assert.NotNil(t, doc.Files[1].Warnings)
	assert.Empty(t, doc.Files[1].Warnings)
	assert.Equal(t, `lib/broken.rb:2:11: syntax error near "("`, doc.Files[2].Error)

	assert.Equal(t, 3, doc.Summary.FilesScanned)
	assert.Equal(t, 2, doc.Summary.TotalWarnings)
	assert.Equal(t, 1, doc.Summary.ParseFailures)

	assert.Contains(t, buf.String(), `"warnings": []`)
	assert.Contains(t, buf.String(), `"rule": "dynamic-find-all-by"`)
}

func TestNew(t *testing.T) {
	r, err := New(FormatText, Options{})
	require.NoError(t, err)
	assert.IsType(t, &TextReporter{}, r)

	r, err = New("", Options{})
	require.NoError(t, err)
	assert.IsType(t, &TextReporter{}, r)

	r, err = New(FormatJSON, Options{})
	require.NoError(t, err)
	assert.IsType(t, &JSONReporter{}, r)

	_, err = New("xml", Options{})
	require.Error(t, err)
	var ce core.CLIError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, core.ErrInvalidConfig, ce.Code)
}
