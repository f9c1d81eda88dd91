package pipeline

import (
	"context"
	"log/slog"

	"github.com/gridironlab/nflstats/internal/config"
	"github.com/gridironlab/nflstats/internal/scrape"
	"github.com/gridironlab/nflstats/internal/stats"
	"github.com/gridironlab/nflstats/internal/store"
	"github.com/gridironlab/nflstats/internal/validate"
)

// Pipeline wires the fetcher and the store into the full scrape path.
type Pipeline struct {
	fetcher *scrape.Fetcher
	store   *store.Store
	logger  *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		fetcher: scrape.NewFetcher(cfg, logger),
		store:   store.New(cfg.OutputDir),
		logger:  logger,
	}
}

// Store exposes the underlying artifact store.
func (p *Pipeline) Store() *store.Store { return p.store }

// ScrapeAndSave fetches, normalizes and persists every category for one
// season in the given format, then validates each written artifact. The
// returned result maps categories to artifact locations and carries every
// per-category failure; the period is validated once up front since no
// category can succeed with an invalid season.
func (p *Pipeline) ScrapeAndSave(ctx context.Context, period int, format store.Format) (*Result, error) {
	if !stats.ValidPeriod(period) {
		return nil, &stats.InvalidPeriodError{Period: period}
	}

	result := newResult()
	for _, category := range stats.Categories {
		result.Categories++
		if err := p.scrapeCategory(ctx, category, period, format, result); err != nil {
			result.AddErrorf("%s %d: %v", category, period, err)
			p.logger.Error("category scrape failed", "category", category, "period", period, "error", err)
		}
	}

	return result, nil
}

func (p *Pipeline) scrapeCategory(ctx context.Context, category stats.Category, period int, format store.Format, result *Result) error {
	p.logger.Info("scraping category", "category", category, "period", period)

	markup, err := p.fetcher.Fetch(ctx, category, period)
	if err != nil {
		return err
	}

	table, err := scrape.Extract(markup, category)
	if err != nil {
		return err
	}

	set, dataErrs, err := scrape.Normalize(table, category, period, p.logger)
	if err != nil {
		return err
	}
	result.DataErrors += len(dataErrs)

	location, err := p.store.Persist(set, format)
	if err != nil {
		return err
	}
	result.Locations[category] = location
	result.RecordsSaved += set.Len()

	report, err := validate.Validate(p.store.Root, location)
	if err != nil {
		return err
	}
	result.Reports[category] = report
	result.ValidationErrors += len(report.Errors)

	p.logger.Info("category saved",
		"category", category, "period", period,
		"records", set.Len(), "location", location, "valid", report.Valid)
	return nil
}
