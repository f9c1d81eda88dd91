package store

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gridironlab/nflstats/internal/stats"
)

// qbSet builds a QB record set where unspecified schema fields are filled
// with zeros.
func qbSet(t *testing.T, period int, overrides ...map[string]stats.Value) *stats.RecordSet {
	t.Helper()
	cfg := stats.Registry[stats.QB]
	set := &stats.RecordSet{Category: stats.QB, Period: period}
	for _, o := range overrides {
		record := make(stats.Record, len(cfg.Schema))
		for _, f := range cfg.Schema {
			if v, ok := o[f.Name]; ok {
				record[f.Name] = v
				continue
			}
			switch f.Type {
			case stats.FieldString:
				record[f.Name] = stats.String("x")
			case stats.FieldDecimal:
				record[f.Name] = stats.Decimal(0)
			default:
				record[f.Name] = stats.Int(0)
			}
		}
		set.Records = append(set.Records, record)
	}
	return set
}

func TestCSVRoundTrip(t *testing.T) {
	set := qbSet(t, 2023,
		map[string]stats.Value{
			"Rank":   stats.Int(1),
			"Player": stats.String("Peyton Manning"),
			"Team":   stats.String("DEN"),
			"PCT":    stats.Decimal(68.3),
			"SACK":   stats.Null(),
		},
		map[string]stats.Value{
			"Rank":   stats.Int(2),
			"Player": stats.String(`Odell "OBJ" Beckham, Jr.`),
			"Team":   stats.String(""),
		},
	)

	data, err := EncodeCSV(set)
	require.NoError(t, err)

	got, err := DecodeCSV(data, stats.QB, 2023)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(set, got))
}

func TestCSVHeaderLine(t *testing.T) {
	set := qbSet(t, 2023, map[string]stats.Value{"Player": stats.String("A")})
	data, err := EncodeCSV(set)
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	require.Equal(t, strings.Join(stats.Registry[stats.QB].FieldNames(), ","), lines[0])
}

func TestCSVNullAndEmptyStringStayDistinct(t *testing.T) {
	set := qbSet(t, 2023, map[string]stats.Value{
		"Player": stats.String("A Player"),
		"Team":   stats.String(""),
		"SACK":   stats.Null(),
	})

	data, err := EncodeCSV(set)
	require.NoError(t, err)

	// The empty string is quoted on disk; the null integer is a bare empty
	// field.
	require.Contains(t, string(data), `A Player,""`)

	got, err := DecodeCSV(data, stats.QB, 2023)
	require.NoError(t, err)
	team := got.Records[0]["Team"]
	require.False(t, team.IsNull())
	require.Equal(t, "", team.Str())
	require.True(t, got.Records[0]["SACK"].IsNull())
}

func TestCSVEscaping(t *testing.T) {
	set := qbSet(t, 2023, map[string]stats.Value{
		"Player": stats.String(`Comma, and "quotes"`),
	})
	data, err := EncodeCSV(set)
	require.NoError(t, err)
	require.Contains(t, string(data), `"Comma, and ""quotes"""`)

	got, err := DecodeCSV(data, stats.QB, 2023)
	require.NoError(t, err)
	require.Equal(t, `Comma, and "quotes"`, got.Records[0]["Player"].Str())
}

func TestCSVMissingSchemaColumn(t *testing.T) {
	data := []byte("Rank,Player\n1,A Player\n")
	_, err := DecodeCSV(data, stats.QB, 2023)
	var serErr *stats.SerializationError
	require.ErrorAs(t, err, &serErr)
}

func TestJSONRoundTrip(t *testing.T) {
	set := qbSet(t, 2020,
		map[string]stats.Value{
			"Rank":   stats.Int(1),
			"Player": stats.String("Drew Brees"),
			"Team":   stats.String("NO"),
			"Y/A":    stats.Decimal(7.5),
			"KNCK":   stats.Null(),
		},
	)

	data, err := EncodeJSON(set)
	require.NoError(t, err)

	got, err := DecodeJSON(data, stats.QB, 2020)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(set, got))
}

func TestJSONNumbersAreNotQuoted(t *testing.T) {
	set := qbSet(t, 2023, map[string]stats.Value{
		"Rank":   stats.Int(1),
		"Player": stats.String("Peyton Manning"),
		"PCT":    stats.Decimal(68),
		"KNCK":   stats.Null(),
	})

	data, err := EncodeJSON(set)
	require.NoError(t, err)
	text := string(data)

	require.Contains(t, text, `"Rank": 1`)
	require.Contains(t, text, `"PCT": 68`)
	require.Contains(t, text, `"KNCK": null`)
	require.Contains(t, text, `"Player": "Peyton Manning"`)
	require.NotContains(t, text, `"Rank": "1"`)
}

func TestJSONKeysFollowSchemaOrder(t *testing.T) {
	set := qbSet(t, 2023, map[string]stats.Value{"Player": stats.String("A")})
	data, err := EncodeJSON(set)
	require.NoError(t, err)

	text := string(data)
	last := -1
	for _, f := range stats.Registry[stats.QB].Schema {
		idx := strings.Index(text, `"`+f.Name+`"`)
		require.Greater(t, idx, last, "field %q out of order", f.Name)
		last = idx
	}
}

func TestEncodeRejectsIncompleteRecord(t *testing.T) {
	set := &stats.RecordSet{
		Category: stats.QB,
		Period:   2023,
		Records:  []stats.Record{{"Player": stats.String("A")}},
	}

	_, err := EncodeCSV(set)
	var serErr *stats.SerializationError
	require.ErrorAs(t, err, &serErr)

	_, err = EncodeJSON(set)
	require.ErrorAs(t, err, &serErr)
}

func TestDecodeToleratesLegacyNumericStrings(t *testing.T) {
	// Older tools wrote numerics as strings and integers with a trailing .0.
	data := []byte(`[
    {` + allQBFieldsJSON(`"Rank": "4", "G": 16.0, "PCT": "61.2%"`) + `}
]`)
	got, err := DecodeJSON(data, stats.QB, 2023)
	require.NoError(t, err)
	require.Equal(t, stats.Int(4), got.Records[0]["Rank"])
	require.Equal(t, stats.Int(16), got.Records[0]["G"])
	require.Equal(t, stats.Decimal(61.2), got.Records[0]["PCT"])
}

// allQBFieldsJSON renders one JSON object body containing every QB schema
// field, with the given overrides taking precedence.
func allQBFieldsJSON(overrides string) string {
	cfg := stats.Registry[stats.QB]
	parts := []string{overrides}
	for _, f := range cfg.Schema {
		if strings.Contains(overrides, `"`+f.Name+`"`) {
			continue
		}
		switch {
		case f.Name == "Player":
			parts = append(parts, `"Player": "Some Player"`)
		case f.Type == stats.FieldString:
			parts = append(parts, `"`+f.Name+`": "x"`)
		default:
			parts = append(parts, `"`+f.Name+`": 0`)
		}
	}
	return strings.Join(parts, ", ")
}
