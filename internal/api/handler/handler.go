// Package handler provides HTTP handlers for the read-only artifact API.
// Handlers walk and read the artifact tree directly; nothing here mutates
// an artifact.
package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridironlab/nflstats/internal/api/respond"
	"github.com/gridironlab/nflstats/internal/config"
	"github.com/gridironlab/nflstats/internal/stats"
	"github.com/gridironlab/nflstats/internal/store"
	"github.com/gridironlab/nflstats/internal/validate"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store *store.Store
	cfg   *config.Config
}

// New creates a Handler with shared dependencies.
func New(st *store.Store, cfg *config.Config) *Handler {
	return &Handler{store: st, cfg: cfg}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "NFL Stats Artifact API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// artifactInfo is one listing entry.
type artifactInfo struct {
	Path     string `json:"path"`
	Layout   string `json:"layout"`
	Format   string `json:"format"`
	Period   int    `json:"period"`
	Category string `json:"category"`
}

// ListArtifacts walks the artifact tree and returns every recognized
// artifact, current and legacy layout alike.
func (h *Handler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	artifacts := []artifactInfo{}
	err := filepath.WalkDir(h.store.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ref := store.Classify(h.store.Root, path)
		if ref.Kind == store.Unrecognized {
			return nil
		}
		artifacts = append(artifacts, artifactInfo{
			Path:     path,
			Layout:   ref.Kind.String(),
			Format:   string(ref.Format),
			Period:   ref.Period,
			Category: string(ref.Category),
		})
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		respond.WriteError(w, http.StatusInternalServerError, "walk_failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"count":     len(artifacts),
		"artifacts": artifacts,
	})
}

// GetArtifact serves the raw artifact file.
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	location, ok := h.resolveLocation(w, r)
	if !ok {
		return
	}
	data, err := os.ReadFile(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respond.WriteError(w, http.StatusNotFound, "artifact_not_found", location)
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "read_failed", err.Error())
		return
	}
	if filepath.Ext(location) == ".json" {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/csv")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ValidateArtifact runs the validator against the artifact and returns the
// report.
func (h *Handler) ValidateArtifact(w http.ResponseWriter, r *http.Request) {
	location, ok := h.resolveLocation(w, r)
	if !ok {
		return
	}
	report, err := validate.Validate(h.store.Root, location)
	if err != nil {
		var notFound *stats.FileNotFoundError
		if errors.As(err, &notFound) {
			respond.WriteError(w, http.StatusNotFound, "artifact_not_found", location)
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "validation_failed", err.Error())
		return
	}
	if report.Errors == nil {
		report.Errors = []string{}
	}
	respond.WriteJSONObject(w, http.StatusOK, report)
}

// resolveLocation maps the {format}/{period}/{category} URL parameters to
// the canonical artifact location. Writes the error response itself when the
// parameters are invalid.
func (h *Handler) resolveLocation(w http.ResponseWriter, r *http.Request) (string, bool) {
	format, err := store.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "invalid_format", err.Error())
		return "", false
	}
	period, err := strconv.Atoi(chi.URLParam(r, "period"))
	if err != nil || period <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "invalid_period", chi.URLParam(r, "period"))
		return "", false
	}
	category, err := stats.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "invalid_category", err.Error())
		return "", false
	}
	return store.Location(h.store.Root, format, period, category), true
}
