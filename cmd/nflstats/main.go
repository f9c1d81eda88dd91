// Command nflstats is the NFL advanced-stats scrape and conversion CLI.
//
// Usage:
//
//	nflstats scrape --year 2023 --format csv
//	nflstats convert --to json --year 2023
//	nflstats validate output/csv/2023/qb_stats.csv
//	nflstats serve
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gridironlab/nflstats/internal/api"
	"github.com/gridironlab/nflstats/internal/config"
	"github.com/gridironlab/nflstats/internal/convert"
	"github.com/gridironlab/nflstats/internal/pipeline"
	"github.com/gridironlab/nflstats/internal/stats"
	"github.com/gridironlab/nflstats/internal/store"
	"github.com/gridironlab/nflstats/internal/validate"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "nflstats",
		Short:         "NFL advanced-stats scraper and artifact converter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(scrapeCmd())
	root.AddCommand(convertCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// scrape command
// --------------------------------------------------------------------------

func scrapeCmd() *cobra.Command {
	var (
		year   int
		format string
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape all categories for a season and persist the artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				f, err := store.ParseFormat(format)
				if err != nil {
					return err
				}

				p := pipeline.New(cfg, logger)
				start := time.Now()
				result, err := p.ScrapeAndSave(ctx, year, f)
				if err != nil {
					return err
				}

				logger.Info("scrape finished",
					"year", year, "format", f,
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("scrape error", "error", e)
				}
				for category, report := range result.Reports {
					for _, finding := range report.Errors {
						logger.Error("validation finding", "category", category, "finding", finding)
					}
				}
				if !result.Ok() {
					return fmt.Errorf("scrape completed with errors: %s", result.Summary())
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", stats.MaxPeriod, "Season year")
	cmd.Flags().StringVar(&format, "format", "csv", "Artifact format (csv or json)")
	return cmd
}

// --------------------------------------------------------------------------
// convert command
// --------------------------------------------------------------------------

func convertCmd() *cobra.Command {
	var (
		to      string
		path    string
		year    int
		workers int
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert persisted artifacts to the other format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				target, err := store.ParseFormat(to)
				if err != nil {
					return err
				}
				sourceDir := path
				if sourceDir == "" {
					sourceDir = cfg.OutputDir
				}

				c := convert.New(store.New(cfg.OutputDir), logger)
				start := time.Now()
				result, err := c.ConvertDirectory(ctx, sourceDir, target, year, workers)
				if err != nil {
					return err
				}

				logger.Info("conversion finished",
					"source", sourceDir, "target", target,
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, o := range result.Outcomes {
					if o.Status == "failed" {
						logger.Error("conversion error", "path", o.Path, "reason", o.Reason)
					}
				}
				if !result.Ok() {
					return fmt.Errorf("conversion completed with failures: %s", result.Summary())
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target format (csv or json)")
	cmd.Flags().StringVar(&path, "path", "", "Source directory (defaults to OUTPUT_DIR)")
	cmd.Flags().IntVar(&year, "year", 0, "Only convert artifacts for this season (0 = all)")
	cmd.Flags().IntVar(&workers, "workers", 2, "Concurrent worker count")
	cmd.MarkFlagRequired("to")
	return cmd
}

// --------------------------------------------------------------------------
// validate command
// --------------------------------------------------------------------------

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <artifact path>",
		Short: "Validate a persisted artifact against its category schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				report, err := validate.Validate(cfg.OutputDir, args[0])
				if err != nil {
					return err
				}
				if report.Valid {
					logger.Info("artifact is valid", "path", report.Path)
					return nil
				}
				for _, finding := range report.Errors {
					logger.Error("validation finding", "path", report.Path, "finding", finding)
				}
				return fmt.Errorf("%d validation finding(s)", len(report.Errors))
			})
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// serve command
// --------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the artifact tree over a read-only HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				router := api.NewRouter(store.New(cfg.OutputDir), cfg)

				addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
				srv := &http.Server{
					Addr:         addr,
					Handler:      router,
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 30 * time.Second,
					IdleTimeout:  60 * time.Second,
				}

				errCh := make(chan error, 1)
				go func() {
					logger.Info("starting artifact API", "addr", addr, "output_dir", cfg.OutputDir)
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						errCh <- err
					}
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}
				logger.Info("shutting down...")

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				return srv.Shutdown(shutdownCtx)
			})
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	return fn(ctx, cfg)
}
