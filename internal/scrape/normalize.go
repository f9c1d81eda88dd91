package scrape

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gridironlab/nflstats/internal/stats"
)

// Normalize applies the category's cleaning rules to an extracted table and
// produces a typed record set. A cell that fails to coerce yields a DataError
// and a null value; the row survives unless its primary identifying field
// (Player) is empty, in which case the whole row is dropped. Only a schema
// field missing from the header aborts the batch.
func Normalize(table *Table, category stats.Category, period int, logger *slog.Logger) (*stats.RecordSet, []stats.DataError, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, ok := stats.Registry[category]
	if !ok {
		return nil, nil, fmt.Errorf("unknown category %q", category)
	}

	header := rewriteHeader(table.Header)

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, f := range cfg.Schema {
		if _, ok := columns[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &stats.SchemaError{Category: category, Missing: missing}
	}

	set := &stats.RecordSet{Category: category, Period: period}
	var dataErrs []stats.DataError

	for rowIdx, row := range table.Rows {
		record := make(stats.Record, len(cfg.Schema))

		for _, f := range cfg.Schema {
			cell := row[columns[f.Name]]
			value, err := coerceCell(cell, f.Type)
			if err != nil {
				de := stats.DataError{Row: rowIdx, Field: f.Name, Cell: cell, Err: err}
				dataErrs = append(dataErrs, de)
				logger.Warn("cell coercion failed",
					"category", category, "row", rowIdx, "field", f.Name, "cell", cell)
				value = stats.Null()
			}
			record[f.Name] = value
		}

		if primary := record[stats.PrimaryField]; primary.IsNull() || strings.TrimSpace(primary.Str()) == "" {
			dataErrs = append(dataErrs, stats.DataError{
				Row:   rowIdx,
				Field: stats.PrimaryField,
				Cell:  row[columns[stats.PrimaryField]],
				Err:   fmt.Errorf("empty primary field"),
			})
			logger.Warn("dropping row with empty primary field", "category", category, "row", rowIdx)
			continue
		}

		set.Records = append(set.Records, record)
	}

	return set, dataErrs, nil
}

// rewriteHeader disambiguates duplicate column names. RB tables carry a
// YACON column in both the rushing and receiving groups.
func rewriteHeader(header []string) []string {
	var yacon []int
	for i, name := range header {
		if name == "YACON" {
			yacon = append(yacon, i)
		}
	}
	if len(yacon) != 2 {
		return header
	}
	out := make([]string, len(header))
	copy(out, header)
	out[yacon[0]] = "YACON (Rushing)"
	out[yacon[1]] = "YACON (Receiving)"
	return out
}

// coerceCell cleans one cell per its declared type and converts it to a
// typed value. Numeric cells lose percent signs and thousands separators;
// string cells are trimmed but an empty string stays a string, since "no
// value" differs from "value is empty text".
func coerceCell(cell string, typ stats.FieldType) (stats.Value, error) {
	switch typ {
	case stats.FieldString:
		return stats.String(strings.TrimSpace(cell)), nil
	default:
		return stats.CoerceValue(stats.CleanNumeric(cell), typ)
	}
}
