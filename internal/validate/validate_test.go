package validate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridironlab/nflstats/internal/stats"
	"github.com/gridironlab/nflstats/internal/store"
)

// persistQB writes a QB record set in the given format and returns its
// location.
func persistQB(t *testing.T, root string, format store.Format, overrides ...map[string]stats.Value) string {
	t.Helper()
	cfg := stats.Registry[stats.QB]
	set := &stats.RecordSet{Category: stats.QB, Period: 2023}
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
				record[f.Name] = stats.Decimal(1)
			default:
				record[f.Name] = stats.Int(1)
			}
		}
		set.Records = append(set.Records, record)
	}
	location, err := store.New(root).Persist(set, format)
	require.NoError(t, err)
	return location
}

func cleanOverrides() map[string]stats.Value {
	return map[string]stats.Value{
		"Rank":   stats.Int(1),
		"Player": stats.String("Peyton Manning"),
		"Team":   stats.String("DEN"),
		"G":      stats.Int(16),
		"PCT":    stats.Decimal(68.3),
	}
}

func TestValidateCleanArtifact(t *testing.T) {
	root := t.TempDir()
	for _, format := range []store.Format{store.FormatCSV, store.FormatJSON} {
		location := persistQB(t, root, format, cleanOverrides())
		report, err := Validate(root, location)
		require.NoError(t, err)
		require.True(t, report.Valid)
		require.Empty(t, report.Errors)
	}
}

func TestValidateRangeViolations(t *testing.T) {
	root := t.TempDir()
	bad := cleanOverrides()
	bad["Rank"] = stats.Int(0)        // rank must be positive
	bad["PCT"] = stats.Decimal(140.5) // percentage must lie in [0,100]
	bad["G"] = stats.Int(25)          // more games than a season has

	for _, format := range []store.Format{store.FormatCSV, store.FormatJSON} {
		location := persistQB(t, root, format, bad)
		report, err := Validate(root, location)
		require.NoError(t, err)
		require.False(t, report.Valid)
		require.Len(t, report.Errors, 3)
	}
}

func TestValidateMissingColumn(t *testing.T) {
	root := t.TempDir()
	location := store.Location(root, store.FormatCSV, 2023, stats.QB)
	require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))
	require.NoError(t, os.WriteFile(location, []byte("Rank,Player\n1,A Player\n"), 0o644))

	report, err := Validate(root, location)
	require.NoError(t, err)
	require.False(t, report.Valid)

	// One finding per missing schema column, none for the present ones.
	want := len(stats.Registry[stats.QB].Schema) - 2
	require.Len(t, report.Errors, want)
}

func TestValidateNonNumericCell(t *testing.T) {
	root := t.TempDir()
	location := persistQB(t, root, store.FormatCSV, cleanOverrides())

	// Overwrite the artifact with a row whose COMP cell is not numeric.
	header := stats.Registry[stats.QB].FieldNames()
	row := make([]string, len(header))
	for i, name := range header {
		switch name {
		case "Rank":
			row[i] = "1"
		case "Player":
			row[i] = "A Player"
		case "Team":
			row[i] = "DEN"
		case "COMP":
			row[i] = "N/A"
		case "G":
			row[i] = "16"
		default:
			row[i] = "1"
		}
	}
	content := joinCSV(header) + "\n" + joinCSV(row) + "\n"
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))

	report, err := Validate(root, location)
	require.NoError(t, err)
	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	require.Contains(t, report.Errors[0], "COMP")
}

func TestValidateMissingFile(t *testing.T) {
	root := t.TempDir()
	location := store.Location(root, store.FormatJSON, 2023, stats.WR)

	_, err := Validate(root, location)
	var notFound *stats.FileNotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestValidateUnrecognizedPath(t *testing.T) {
	root := t.TempDir()
	_, err := Validate(root, filepath.Join(root, "notes.txt"))
	require.Error(t, err)
}

func TestValidateLegacyArtifact(t *testing.T) {
	root := t.TempDir()
	location := store.LegacyLocation(root, 2023, stats.QB)
	require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))

	header := stats.Registry[stats.QB].FieldNames()
	row := make([]string, len(header))
	for i, name := range header {
		switch name {
		case "Player":
			row[i] = "A Player"
		case "Team":
			row[i] = "DEN"
		case "Rank", "G":
			row[i] = "1"
		default:
			row[i] = "2"
		}
	}
	content := joinCSV(header) + "\n" + joinCSV(row) + "\n"
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))

	report, err := Validate(root, location)
	require.NoError(t, err)
	require.True(t, report.Valid)
}

func joinCSV(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}
