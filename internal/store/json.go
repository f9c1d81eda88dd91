package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gridironlab/nflstats/internal/stats"
)

// Structured codec. The artifact is a single top-level array of objects, one
// per record, keys in schema order, values typed per field — numbers as
// numbers, never quoted strings. encoding/json cannot order map keys, so the
// object bodies are emitted by hand; values reuse the canonical number
// formatting of the row-oriented codec so format conversion is byte-stable.

const jsonIndent = "    "

// EncodeJSON serializes a record set as an indented JSON array.
func EncodeJSON(set *stats.RecordSet) ([]byte, error) {
	cfg := set.Config()

	var b strings.Builder
	b.WriteString("[")
	for i, record := range set.Records {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n" + jsonIndent + "{")
		for j, f := range cfg.Schema {
			value, ok := record[f.Name]
			if !ok {
				return nil, &stats.SerializationError{
					Format: string(FormatJSON),
					Err:    fmt.Errorf("record missing schema field %q", f.Name),
				}
			}
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString("\n" + jsonIndent + jsonIndent)
			b.WriteString(quoteJSON(f.Name))
			b.WriteString(": ")
			b.WriteString(value.JSONText())
		}
		b.WriteString("\n" + jsonIndent + "}")
	}
	if len(set.Records) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("]\n")

	return []byte(b.String()), nil
}

// DecodeJSON parses a structured artifact back into a record set. Numeric
// values are already typed on disk; string-typed numerics from older tools
// are tolerated and re-coerced.
func DecodeJSON(data []byte, category stats.Category, period int) (*stats.RecordSet, error) {
	cfg, ok := stats.Registry[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, &stats.SerializationError{Format: string(FormatJSON), Err: err}
	}

	set := &stats.RecordSet{Category: category, Period: period}
	for n, obj := range objects {
		record := make(stats.Record, len(cfg.Schema))
		for _, f := range cfg.Schema {
			raw, ok := obj[f.Name]
			if !ok {
				return nil, &stats.SerializationError{
					Format: string(FormatJSON),
					Err:    fmt.Errorf("object %d missing schema field %q", n, f.Name),
				}
			}
			record[f.Name] = decodeJSONValue(raw, f.Type)
		}
		if primary := record[stats.PrimaryField]; primary.IsNull() || primary.Str() == "" {
			continue
		}
		set.Records = append(set.Records, record)
	}

	return set, nil
}

func decodeJSONValue(raw any, typ stats.FieldType) stats.Value {
	if raw == nil {
		return stats.Null()
	}

	switch v := raw.(type) {
	case string:
		if typ == stats.FieldString {
			return stats.String(v)
		}
		value, err := stats.CoerceValue(stats.CleanNumeric(v), typ)
		if err != nil {
			return stats.Null()
		}
		return value
	case json.Number:
		value, err := stats.CoerceValue(v.String(), typ)
		if err != nil {
			return stats.Null()
		}
		return value
	case bool:
		return stats.Null()
	default:
		return stats.Null()
	}
}

func quoteJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
