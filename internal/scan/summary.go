package scan

// Summary aggregates a run's results.
type Summary struct {
	FilesScanned      int            `json:"files_scanned"`
	FilesWithWarnings int            `json:"files_with_warnings"`
	TotalWarnings     int            `json:"total_warnings"`
	ParseFailures     int            `json:"parse_failures"` // unreadable or unparseable files
	ByRule            map[string]int `json:"by_rule,omitempty"`
}

// Summarize counts warnings and failures across results.
func Summarize(results []FileResult) Summary {
	sum := Summary{
		FilesScanned: len(results),
		ByRule:       make(map[string]int),
	}
	for _, r := range results {
		if r.Failed() {
			sum.ParseFailures++
			continue
		}
		if r.HasWarnings() {
			sum.FilesWithWarnings++
		}
		sum.TotalWarnings += len(r.Warnings)
		for _, w := range r.Warnings {
			sum.ByRule[w.Rule]++
		}
	}
	return sum
}
