// Package runner orchestrates a harvest run: prepare the artifact sink,
// discover article URLs, then parse and persist each article in order.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"newsharvest/internal/config"
	"newsharvest/internal/metrics"
	"newsharvest/internal/scraper"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// Summary reports what a run accomplished.
type Summary struct {
	RunID      string
	Discovered int
	Parsed     int
	Failed     int
	Persisted  int
	Elapsed    time.Duration
}

// Runner executes one harvest run over a validated configuration.
type Runner struct {
	cfg     *config.RunConfig
	fetcher scraper.Fetcher
	site    scraper.SiteProfile
	sink    scraper.Sink
	clock   Clock
	logger  *zap.Logger
}

// New wires a runner from its collaborators.
func New(
	cfg *config.RunConfig,
	fetcher scraper.Fetcher,
	site scraper.SiteProfile,
	sink scraper.Sink,
	clock Clock,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		site:    site,
		sink:    sink,
		clock:   clock,
		logger:  logger,
	}
}

// Run performs the harvest. Discovery and parsing failures degrade the run
// but never abort it; persistence failures and cancellation do.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	log := r.logger.With(zap.String("run_id", runID))
	start := r.clock.Now()

	log.Info("Starting harvest",
		zap.Int("seeds", len(r.cfg.SeedURLs)),
		zap.Int("target", r.cfg.TotalArticles),
	)

	if err := r.sink.Prepare(ctx); err != nil {
		return nil, fmt.Errorf("prepare sink: %w", err)
	}

	crawler := scraper.NewCrawler(r.cfg, r.fetcher, r.site, log)
	urls, err := crawler.FindArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	log.Info("Discovered article URLs", zap.Int("count", len(urls)))

	summary := &Summary{RunID: runID, Discovered: len(urls)}
	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("harvest canceled: %w", err)
		}
		id := i + 1
		rec := scraper.NewArticleParser(rawURL, id, r.fetcher, r.site, log).Parse(ctx)
		if rec.Text == "" {
			summary.Failed++
		} else {
			summary.Parsed++
		}
		if err := r.sink.SaveRaw(ctx, rec); err != nil {
			return nil, fmt.Errorf("save raw artifact %d: %w", id, err)
		}
		if err := r.sink.SaveMeta(ctx, rec); err != nil {
			return nil, fmt.Errorf("save metadata %d: %w", id, err)
		}
		summary.Persisted++
	}
	summary.Elapsed = r.clock.Now().Sub(start)

	log.Info("Harvest complete",
		zap.Int("discovered", summary.Discovered),
		zap.Int("parsed", summary.Parsed),
		zap.Int("failed", summary.Failed),
		zap.Int("persisted", summary.Persisted),
		zap.Duration("elapsed", summary.Elapsed),
	)
	for name, value := range metrics.Snapshot() {
		log.Debug("Run metric", zap.String("name", name), zap.Float64("value", value))
	}

	return summary, nil
}
