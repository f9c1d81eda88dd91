package store

import (
	"fmt"
	"strings"

	"github.com/gridironlab/nflstats/internal/stats"
)

// Row-oriented codec. The wire shape is ordinary CSV (comma separators,
// double-quote escaping with internal quotes doubled) with one extra rule:
// a null value serializes as a bare empty field while a non-null empty
// string serializes as a quoted empty field. encoding/csv erases that
// distinction on both ends, so the codec is implemented here.

// EncodeCSV serializes a record set: one header line with the schema field
// names in declared order, then one line per record.
func EncodeCSV(set *stats.RecordSet) ([]byte, error) {
	cfg := set.Config()

	var b strings.Builder
	for i, f := range cfg.Schema {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSV(f.Name, false))
	}
	b.WriteByte('\n')

	for _, record := range set.Records {
		for i, f := range cfg.Schema {
			if i > 0 {
				b.WriteByte(',')
			}
			value, ok := record[f.Name]
			if !ok {
				return nil, &stats.SerializationError{
					Format: string(FormatCSV),
					Err:    fmt.Errorf("record missing schema field %q", f.Name),
				}
			}
			if value.IsNull() {
				continue // null renders as a bare empty field
			}
			forceQuote := value.Kind() == stats.KindString && value.Str() == ""
			b.WriteString(escapeCSV(value.Text(), forceQuote))
		}
		b.WriteByte('\n')
	}

	return []byte(b.String()), nil
}

// DecodeCSV parses a row-oriented artifact back into a record set, re-typing
// values per the category schema with the same coercion rules as the
// normalizer. Unparseable numeric cells become null; rows with an empty
// primary field are dropped.
func DecodeCSV(data []byte, category stats.Category, period int) (*stats.RecordSet, error) {
	cfg, ok := stats.Registry[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	lines := splitLines(string(data))
	if len(lines) == 0 {
		return nil, &stats.SerializationError{
			Format: string(FormatCSV),
			Err:    fmt.Errorf("empty artifact"),
		}
	}

	header, err := splitCSVLine(lines[0])
	if err != nil {
		return nil, &stats.SerializationError{Format: string(FormatCSV), Err: err}
	}
	columns := make(map[string]int, len(header))
	for i, f := range header {
		if _, seen := columns[f.text]; !seen {
			columns[f.text] = i
		}
	}
	for _, f := range cfg.Schema {
		if _, ok := columns[f.Name]; !ok {
			return nil, &stats.SerializationError{
				Format: string(FormatCSV),
				Err:    fmt.Errorf("header missing schema field %q", f.Name),
			}
		}
	}

	set := &stats.RecordSet{Category: category, Period: period}
	for n, line := range lines[1:] {
		fields, err := splitCSVLine(line)
		if err != nil {
			return nil, &stats.SerializationError{
				Format: string(FormatCSV),
				Err:    fmt.Errorf("line %d: %w", n+2, err),
			}
		}
		if len(fields) != len(header) {
			return nil, &stats.SerializationError{
				Format: string(FormatCSV),
				Err:    fmt.Errorf("line %d has %d fields, expected %d", n+2, len(fields), len(header)),
			}
		}

		record := make(stats.Record, len(cfg.Schema))
		for _, f := range cfg.Schema {
			record[f.Name] = decodeCSVField(fields[columns[f.Name]], f.Type)
		}
		if primary := record[stats.PrimaryField]; primary.IsNull() || primary.Str() == "" {
			continue
		}
		set.Records = append(set.Records, record)
	}

	return set, nil
}

// RawCSV parses a row-oriented artifact into its header and raw string
// cells without any typing. Used by the validator, which must see the
// on-disk textual representation rather than coerced values.
func RawCSV(data []byte) (header []string, rows [][]string, err error) {
	lines := splitLines(string(data))
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("empty artifact")
	}
	for n, line := range lines {
		fields, err := splitCSVLine(line)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		texts := make([]string, len(fields))
		for i, f := range fields {
			texts[i] = f.text
		}
		if n == 0 {
			header = texts
		} else {
			rows = append(rows, texts)
		}
	}
	return header, rows, nil
}

// csvField is one parsed field plus whether it was quoted on disk; a bare
// empty field means null, a quoted empty field means the empty string.
type csvField struct {
	text   string
	quoted bool
}

func decodeCSVField(f csvField, typ stats.FieldType) stats.Value {
	if typ == stats.FieldString {
		if f.text == "" && !f.quoted {
			return stats.Null()
		}
		return stats.String(f.text)
	}
	value, err := stats.CoerceValue(stats.CleanNumeric(f.text), typ)
	if err != nil {
		return stats.Null()
	}
	return value
}

func escapeCSV(s string, forceQuote bool) string {
	if !forceQuote && !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func splitLines(data string) []string {
	var lines []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitCSVLine splits one line on commas, honoring double-quote escaping.
func splitCSVLine(line string) ([]csvField, error) {
	var fields []csvField
	var cur strings.Builder
	quoted := false   // current field started with a quote
	inQuotes := false // currently inside a quoted section

	flush := func() {
		fields = append(fields, csvField{text: cur.String(), quoted: quoted})
		cur.Reset()
		quoted = false
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					cur.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				cur.WriteByte(c)
			}
		case c == '"':
			if cur.Len() != 0 {
				return nil, fmt.Errorf("unexpected quote mid-field at byte %d", i)
			}
			quoted = true
			inQuotes = true
		case c == ',':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quoted field")
	}
	flush()

	return fields, nil
}
