// Package pipeline orchestrates the scrape path: fetch, extract, normalize,
// persist, validate, for every category of one season.
package pipeline

import (
	"fmt"

	"github.com/gridironlab/nflstats/internal/stats"
	"github.com/gridironlab/nflstats/internal/validate"
)

// Result tracks per-category outcomes of one scrape run. Category failures
// accumulate here instead of aborting the run; one failed category never
// prevents the others from being attempted.
type Result struct {
	Locations        map[stats.Category]string
	Reports          map[stats.Category]*validate.Report
	Categories       int
	RecordsSaved     int
	DataErrors       int
	ValidationErrors int
	Errors           []string
}

func newResult() *Result {
	return &Result{
		Locations: make(map[stats.Category]string),
		Reports:   make(map[stats.Category]*validate.Report),
	}
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Ok reports whether every category scraped cleanly and every artifact
// validated without findings.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0 && r.ValidationErrors == 0
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"categories=%d records=%d data_errors=%d validation_errors=%d errors=%d",
		r.Categories, r.RecordsSaved, r.DataErrors, r.ValidationErrors, len(r.Errors),
	)
}
