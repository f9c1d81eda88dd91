// Package convert re-emits persisted artifacts in the counterpart format,
// walking a directory tree and remapping each recognized artifact to its
// canonical target location. Legacy-layout artifacts (no format segment) are
// migrated into the current layout.
package convert

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/gridironlab/nflstats/internal/store"
)

// Outcome records what happened to one discovered artifact. Each file is
// attempted exactly once per directory conversion; there is no retry state.
type Outcome struct {
	Path   string `json:"path"`
	Target string `json:"target,omitempty"`
	Status string `json:"status"` // converted, skipped, failed
	Reason string `json:"reason,omitempty"`
}

// Result is the ordered per-file summary of a directory conversion.
type Result struct {
	Outcomes  []Outcome
	Converted int
	Skipped   int
	Failed    int
}

// Summary returns a one-line human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("converted=%d skipped=%d failed=%d", r.Converted, r.Skipped, r.Failed)
}

// Ok reports whether no file failed.
func (r *Result) Ok() bool { return r.Failed == 0 }

// Converter reads artifacts from a source tree and persists them under the
// store root in the target format.
type Converter struct {
	store  *store.Store
	logger *slog.Logger
}

func New(st *store.Store, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{store: st, logger: logger}
}

// ConvertOne deserializes the source artifact into a fresh record set and
// persists it at the canonical location for the target format. The source
// file is never modified.
func (c *Converter) ConvertOne(ref store.ArtifactRef, target store.Format) (string, error) {
	set, err := c.store.Read(ref)
	if err != nil {
		return "", err
	}
	location, err := c.store.Persist(set, target)
	if err != nil {
		return "", err
	}
	return location, nil
}

// entry is one discovered file: either pre-resolved (skipped) or queued as a
// conversion job.
type entry struct {
	ref      store.ArtifactRef
	resolved *Outcome
	job      int
}

// ConvertDirectory walks sourceDir recursively, converting every recognized
// artifact to the target format. period filters to one season when non-zero.
// Files are converted by a bounded worker pool; conversion targets never
// collide (one canonical location per artifact), and a failure on one file
// never stops the rest. The returned summary lists every attempted file in
// discovery order.
func (c *Converter) ConvertDirectory(ctx context.Context, sourceDir string, target store.Format, period, workers int) (*Result, error) {
	var discovered []store.ArtifactRef

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ref := store.Classify(sourceDir, path)
		if ref.Kind == store.Unrecognized {
			c.logger.Debug("skipping unrecognized file", "path", path)
			return nil
		}
		if period != 0 && ref.Period != period {
			return nil
		}
		discovered = append(discovered, ref)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", sourceDir, err)
	}

	entries := c.planEntries(discovered, target)

	jobs := make([]store.ArtifactRef, 0, len(entries))
	for i := range entries {
		if entries[i].resolved == nil {
			entries[i].job = len(jobs)
			jobs = append(jobs, entries[i].ref)
		}
	}

	outcomes := c.runJobs(ctx, jobs, target, workers)

	result := &Result{}
	for _, e := range entries {
		var o Outcome
		if e.resolved != nil {
			o = *e.resolved
		} else {
			o = outcomes[e.job]
		}
		result.Outcomes = append(result.Outcomes, o)
		switch o.Status {
		case "converted":
			result.Converted++
		case "skipped":
			result.Skipped++
		case "failed":
			result.Failed++
		}
	}
	return result, nil
}

// planEntries resolves skips before any work runs: files already in the
// target format, and legacy artifacts shadowed by a current-layout artifact
// for the same (category, period). When both layouts map to the same target,
// the current layout wins.
func (c *Converter) planEntries(discovered []store.ArtifactRef, target store.Format) []entry {
	currentByTarget := make(map[string]bool)
	for _, ref := range discovered {
		if ref.Kind == store.Current && ref.Format != target {
			currentByTarget[store.TargetLocation(c.store.Root, ref, target)] = true
		}
	}

	entries := make([]entry, 0, len(discovered))
	for _, ref := range discovered {
		e := entry{ref: ref}
		targetLoc := store.TargetLocation(c.store.Root, ref, target)
		switch {
		case ref.Format == target:
			e.resolved = &Outcome{
				Path:   ref.Path,
				Status: "skipped",
				Reason: "already in target format",
			}
		case ref.Kind == store.Legacy && currentByTarget[targetLoc]:
			e.resolved = &Outcome{
				Path:   ref.Path,
				Status: "skipped",
				Reason: "shadowed by current-layout artifact",
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// runJobs converts jobs with a bounded worker pool. Each job writes its
// outcome to its own slot, so the summary order is deterministic.
func (c *Converter) runJobs(ctx context.Context, jobs []store.ArtifactRef, target store.Format, workers int) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	type work struct {
		idx int
		ref store.ArtifactRef
	}
	ch := make(chan work, len(jobs))
	for i, ref := range jobs {
		ch <- work{i, ref}
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range ch {
				if ctx.Err() != nil {
					outcomes[w.idx] = Outcome{Path: w.ref.Path, Status: "failed", Reason: ctx.Err().Error()}
					continue
				}
				location, err := c.ConvertOne(w.ref, target)
				if err != nil {
					c.logger.Warn("conversion failed", "path", w.ref.Path, "error", err)
					outcomes[w.idx] = Outcome{Path: w.ref.Path, Status: "failed", Reason: err.Error()}
					continue
				}
				c.logger.Info("converted artifact", "path", w.ref.Path, "target", location)
				outcomes[w.idx] = Outcome{Path: w.ref.Path, Target: location, Status: "converted"}
			}
		}()
	}
	wg.Wait()

	return outcomes
}
