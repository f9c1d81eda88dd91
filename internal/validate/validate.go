// Package validate re-reads persisted artifacts and checks schema, type and
// range conformance. Validation is purely observational: it accumulates
// findings into a report and never mutates the artifact.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gridironlab/nflstats/internal/stats"
	"github.com/gridironlab/nflstats/internal/store"
)

// Report is the outcome of validating one artifact: a validity flag plus an
// ordered list of human-readable findings, one per violated rule.
type Report struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (r *Report) addf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

// Validate reads the artifact at path (classified against root) and checks
// that every schema field is present, every numeric field parses as numeric,
// and category range rules hold. Findings accumulate; validation never stops
// at the first problem.
func Validate(root, path string) (*Report, error) {
	ref := store.Classify(root, path)
	if ref.Kind == store.Unrecognized {
		return nil, fmt.Errorf("unrecognized artifact path: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &stats.FileNotFoundError{Path: path}
		}
		return nil, &stats.FileSystemError{Op: "read", Path: path, Err: err}
	}

	report := &Report{Path: path, Valid: true}
	cfg := stats.Registry[ref.Category]

	switch ref.Format {
	case store.FormatCSV:
		validateCSV(data, cfg, report)
	case store.FormatJSON:
		validateJSON(data, cfg, report)
	}

	return report, nil
}

func validateCSV(data []byte, cfg stats.CategoryConfig, report *Report) {
	header, rows, err := store.RawCSV(data)
	if err != nil {
		report.addf("unreadable row-oriented artifact: %v", err)
		return
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	for _, f := range cfg.Schema {
		if _, ok := columns[f.Name]; !ok {
			report.addf("missing schema column %q", f.Name)
		}
	}

	for n, row := range rows {
		line := n + 2
		if len(row) != len(header) {
			report.addf("line %d has %d fields, expected %d", line, len(row), len(header))
			continue
		}
		for _, f := range cfg.Schema {
			idx, ok := columns[f.Name]
			if !ok {
				continue
			}
			checkNumericText(row[idx], f, line, report)
		}
		checkRanges(cfg, line, func(name string) (float64, bool) {
			idx, ok := columns[name]
			if !ok {
				return 0, false
			}
			return parseNumericText(row[idx])
		}, report)
	}
}

func validateJSON(data []byte, cfg stats.CategoryConfig, report *Report) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		report.addf("unreadable structured artifact: %v", err)
		return
	}

	for n, obj := range objects {
		for _, f := range cfg.Schema {
			raw, ok := obj[f.Name]
			if !ok {
				report.addf("object %d missing schema key %q", n, f.Name)
				continue
			}
			checkNumericJSON(raw, f, n, report)
		}
		checkRanges(cfg, n, func(name string) (float64, bool) {
			return parseNumericJSON(obj[name])
		}, report)
	}
}

// checkNumericText flags a non-empty cell of a numeric field that does not
// parse as numeric. The on-disk textual representation is tolerated: "68"
// is a valid decimal, "68.0" a valid integer.
func checkNumericText(cell string, f stats.Field, line int, report *Report) {
	if f.Type == stats.FieldString {
		return
	}
	cleaned := stats.CleanNumeric(cell)
	if cleaned == "" {
		return
	}
	if _, err := stats.CoerceValue(cleaned, f.Type); err != nil {
		report.addf("line %d field %q: %v", line, f.Name, err)
	}
}

func checkNumericJSON(raw any, f stats.Field, n int, report *Report) {
	if f.Type == stats.FieldString || raw == nil {
		return
	}
	switch v := raw.(type) {
	case json.Number:
		if _, err := stats.CoerceValue(v.String(), f.Type); err != nil {
			report.addf("object %d key %q: %v", n, f.Name, err)
		}
	case string:
		checkNumericText(v, f, n, report)
	default:
		if f.Type != stats.FieldString {
			report.addf("object %d key %q: unexpected %T value", n, f.Name, raw)
		}
	}
}

// checkRanges applies the category's range rules to one row, reading values
// through the lookup function. Out-of-range values are reported, never
// corrected.
func checkRanges(cfg stats.CategoryConfig, row int, lookup func(string) (float64, bool), report *Report) {
	for _, rule := range cfg.Ranges {
		v, ok := lookup(rule.Field)
		if !ok {
			continue
		}
		if v < rule.Min || v > rule.Max {
			report.addf("row %d field %q: value %v outside range [%v, %v]",
				row, rule.Field, v, rule.Min, rule.Max)
		}
	}
}

func parseNumericText(cell string) (float64, bool) {
	cleaned := stats.CleanNumeric(cell)
	if cleaned == "" {
		return 0, false
	}
	v, err := stats.CoerceValue(cleaned, stats.FieldDecimal)
	if err != nil {
		return 0, false
	}
	return v.Float64(), true
}

func parseNumericJSON(raw any) (float64, bool) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		return parseNumericText(v)
	default:
		return 0, false
	}
}
