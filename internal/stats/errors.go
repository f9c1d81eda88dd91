package stats

import (
	"fmt"
	"strings"
)

// InvalidPeriodError reports a season year outside the supported range.
// It is raised before any network activity.
type InvalidPeriodError struct {
	Period int
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("period %d outside valid range %d-%d", e.Period, MinPeriod, MaxPeriod)
}

// NetworkError wraps a connection or timeout failure from the fetch layer.
type NetworkError struct {
	Category Category
	Period   int
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s %d after %d attempt(s): %v",
		e.Category, e.Period, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response.
type HTTPError struct {
	Category   Category
	Period     int
	StatusCode int
	Attempts   int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s %d after %d attempt(s)",
		e.StatusCode, e.Category, e.Period, e.Attempts)
}

// ParseError reports absent or malformed table structure in fetched markup.
type ParseError struct {
	Category Category
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s table: %s", e.Category, e.Reason)
}

// SchemaError reports schema fields missing from an extracted header.
type SchemaError struct {
	Category Category
	Missing  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s header missing schema fields: %s",
		e.Category, strings.Join(e.Missing, ", "))
}

// DataError records a single cell that could not be coerced to its declared
// type. Data errors are accumulated per batch, never raised.
type DataError struct {
	Row   int
	Field string
	Cell  string
	Err   error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("row %d field %q: cannot coerce %q: %v", e.Row, e.Field, e.Cell, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// FileSystemError wraps a directory-creation or write failure.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// SerializationError reports a record set that could not be represented in
// the target format, or an artifact that could not be decoded from it.
type SerializationError struct {
	Format string
	Path   string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s serialization of %s: %v", e.Format, e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// FileNotFoundError reports a missing artifact.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("artifact not found: %s", e.Path)
}
