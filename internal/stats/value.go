package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the runtime type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindDecimal
)

// Value is one typed cell of a record: string, integer, decimal or null.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	i    int64
	d    float64
}

func Null() Value             { return Value{} }
func String(s string) Value   { return Value{kind: KindString, str: s} }
func Int(i int64) Value       { return Value{kind: KindInt, i: i} }
func Decimal(d float64) Value { return Value{kind: KindDecimal, d: d} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Str() string  { return v.str }
func (v Value) Int64() int64 { return v.i }
func (v Value) Float64() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.d
}

// Equal reports semantic equality. Used by go-cmp in tests.
func (v Value) Equal(o Value) bool { return v == o }

// Text renders the value for the row-oriented format. Null renders as the
// empty string; the serializer quotes non-null empty strings to keep the
// two distinguishable on disk.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDecimal:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	default:
		return ""
	}
}

// JSONText renders the value as a JSON token. Numbers use the same canonical
// formatting as Text so converting between formats is byte-stable.
func (v Value) JSONText() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.str)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDecimal:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	default:
		return "null"
	}
}

func (v Value) String() string {
	if v.kind == KindString {
		return v.str
	}
	return v.Text()
}

// CleanNumeric strips the decorations the source site adds to numeric cells:
// percent signs and thousands separators.
func CleanNumeric(cell string) string {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	return strings.ReplaceAll(cleaned, ",", "")
}

// CoerceValue converts a cleaned cell string into a Value of the declared
// field type. The cell must already be stripped of decorations.
func CoerceValue(cell string, typ FieldType) (Value, error) {
	switch typ {
	case FieldString:
		return String(cell), nil
	case FieldInt:
		if cell == "" {
			return Null(), nil
		}
		if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return Int(n), nil
		}
		// Tolerate integral decimals like "68.0" from older artifacts.
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil || f != math.Trunc(f) {
			return Null(), fmt.Errorf("not an integer: %q", cell)
		}
		return Int(int64(f)), nil
	case FieldDecimal:
		if cell == "" {
			return Null(), nil
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Null(), fmt.Errorf("not a decimal: %q", cell)
		}
		return Decimal(f), nil
	default:
		return Null(), fmt.Errorf("unknown field type %d", typ)
	}
}
