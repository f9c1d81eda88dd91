// Package store owns artifact persistence: canonical path mapping, the two
// serialized formats (row-oriented CSV and structured JSON), atomic writes,
// and deserialization back into record sets.
package store

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gridironlab/nflstats/internal/stats"
)

// Format is one of the two interchangeable artifact formats.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected csv or json)", s)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string { return string(f) }

// Other returns the counterpart format.
func (f Format) Other() Format {
	if f == FormatCSV {
		return FormatJSON
	}
	return FormatCSV
}

// fileName is the canonical artifact file name for a category and format.
func fileName(category stats.Category, f Format) string {
	return fmt.Sprintf("%s_stats.%s", category, f.Ext())
}

// Location computes the single canonical on-disk path for an artifact:
// {root}/{format}/{period}/{category}_stats.{ext}.
func Location(root string, f Format, period int, category stats.Category) string {
	return filepath.Join(root, string(f), strconv.Itoa(period), fileName(category, f))
}

// LegacyLocation computes the older path convention lacking the format
// segment: {root}/{period}/{category}_stats.csv. Legacy artifacts are always
// row-oriented.
func LegacyLocation(root string, period int, category stats.Category) string {
	return filepath.Join(root, strconv.Itoa(period), fileName(category, FormatCSV))
}

// --------------------------------------------------------------------------
// Path classification
// --------------------------------------------------------------------------

// PathKind classifies a path under the artifact root.
type PathKind int

const (
	Unrecognized PathKind = iota
	Legacy
	Current
)

func (k PathKind) String() string {
	switch k {
	case Legacy:
		return "legacy"
	case Current:
		return "current"
	default:
		return "unrecognized"
	}
}

// ArtifactRef identifies one recognized artifact under a root.
type ArtifactRef struct {
	Kind     PathKind
	Format   Format
	Period   int
	Category stats.Category
	Path     string
}

// Classify decides whether a path names an artifact in the current layout
// ({root}/{format}/{period}/{category}_stats.{ext}), the legacy layout
// ({root}/{period}/{category}_stats.csv), or neither. It is a pure function
// of the path strings; it never touches the filesystem.
func Classify(root, path string) ArtifactRef {
	unrecognized := ArtifactRef{Kind: Unrecognized, Path: path}

	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return unrecognized
	}

	segments := strings.Split(filepath.ToSlash(rel), "/")
	switch len(segments) {
	case 2:
		period, ok := parsePeriodSegment(segments[0])
		if !ok {
			return unrecognized
		}
		category, format, ok := parseFileSegment(segments[1])
		if !ok || format != FormatCSV {
			return unrecognized
		}
		return ArtifactRef{Kind: Legacy, Format: FormatCSV, Period: period, Category: category, Path: path}
	case 3:
		format, err := ParseFormat(segments[0])
		if err != nil {
			return unrecognized
		}
		period, ok := parsePeriodSegment(segments[1])
		if !ok {
			return unrecognized
		}
		category, fileFormat, ok := parseFileSegment(segments[2])
		if !ok || fileFormat != format {
			return unrecognized
		}
		return ArtifactRef{Kind: Current, Format: format, Period: period, Category: category, Path: path}
	default:
		return unrecognized
	}
}

// TargetLocation maps a recognized artifact to its canonical counterpart
// location in the target format. Converting a legacy artifact migrates it
// into the current layout. Pure function of (ref, target).
func TargetLocation(root string, ref ArtifactRef, target Format) string {
	return Location(root, target, ref.Period, ref.Category)
}

func parsePeriodSegment(s string) (int, bool) {
	period, err := strconv.Atoi(s)
	if err != nil || period <= 0 {
		return 0, false
	}
	return period, true
}

func parseFileSegment(s string) (stats.Category, Format, bool) {
	base, ext, ok := strings.Cut(s, ".")
	if !ok {
		return "", "", false
	}
	format, err := ParseFormat(ext)
	if err != nil {
		return "", "", false
	}
	name, ok := strings.CutSuffix(base, "_stats")
	if !ok {
		return "", "", false
	}
	category, err := stats.ParseCategory(name)
	if err != nil {
		return "", "", false
	}
	return category, format, true
}
