package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gridironlab/nflstats/internal/stats"
)

// Store reads and writes artifacts under one root directory.
type Store struct {
	Root string
}

func New(root string) *Store {
	return &Store{Root: root}
}

// Persist writes a record set to its canonical location in the given format
// and returns that location. The write is all-or-nothing: content goes to a
// temp file in the target directory which is then renamed over the canonical
// path, so a failed write never leaves a readable partial artifact.
func (s *Store) Persist(set *stats.RecordSet, format Format) (string, error) {
	data, err := Encode(set, format)
	if err != nil {
		return "", err
	}

	location := Location(s.Root, format, set.Period, set.Category)
	if err := writeAtomic(location, data); err != nil {
		return "", err
	}
	return location, nil
}

// Encode serializes a record set in the given format.
func Encode(set *stats.RecordSet, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return EncodeCSV(set)
	case FormatJSON:
		return EncodeJSON(set)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Decode deserializes artifact bytes in the given format.
func Decode(data []byte, format Format, category stats.Category, period int) (*stats.RecordSet, error) {
	switch format {
	case FormatCSV:
		return DecodeCSV(data, category, period)
	case FormatJSON:
		return DecodeJSON(data, category, period)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Read loads the artifact identified by ref back into a record set.
func (s *Store) Read(ref ArtifactRef) (*stats.RecordSet, error) {
	if ref.Kind == Unrecognized {
		return nil, fmt.Errorf("unrecognized artifact path: %s", ref.Path)
	}
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &stats.FileNotFoundError{Path: ref.Path}
		}
		return nil, &stats.FileSystemError{Op: "read", Path: ref.Path, Err: err}
	}
	return Decode(data, ref.Format, ref.Category, ref.Period)
}

func writeAtomic(location string, data []byte) error {
	dir := filepath.Dir(location)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &stats.FileSystemError{Op: "create directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &stats.FileSystemError{Op: "create temp file", Path: dir, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &stats.FileSystemError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &stats.FileSystemError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &stats.FileSystemError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, location); err != nil {
		return &stats.FileSystemError{Op: "rename", Path: location, Err: err}
	}
	return nil
}
