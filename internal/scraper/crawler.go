package scraper

import (
	"bytes"
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"newsharvest/internal/config"
	"newsharvest/internal/metrics"
)

// Crawler walks the configured seed pages and collects article URLs until
// the configured total is reached. Discovery is sequential and ordered:
// seeds are visited in configuration order and links are kept in the order
// they first appear.
type Crawler struct {
	cfg     *config.RunConfig
	fetcher Fetcher
	site    SiteProfile
	logger  *zap.Logger
	links   *linkSet
}

// NewCrawler creates a crawler over the given seeds and site profile.
func NewCrawler(cfg *config.RunConfig, fetcher Fetcher, site SiteProfile, logger *zap.Logger) *Crawler {
	return &Crawler{
		cfg:     cfg,
		fetcher: fetcher,
		site:    site,
		logger:  logger,
		links:   newLinkSet(),
	}
}

// SearchURLs returns the configured seed URLs in configuration order.
func (c *Crawler) SearchURLs() []string {
	out := make([]string, len(c.cfg.SeedURLs))
	copy(out, c.cfg.SeedURLs)
	return out
}

// FindArticles visits each seed page and accumulates article URLs. Seeds
// that fail to fetch or parse are skipped; an article shortfall is not an
// error. The only error returned is context cancellation.
func (c *Crawler) FindArticles(ctx context.Context) ([]string, error) {
	for _, seed := range c.SearchURLs() {
		if err := ctx.Err(); err != nil {
			return c.links.URLs(), err
		}
		if c.links.Len() >= c.cfg.TotalArticles {
			break
		}
		c.collectFromSeed(ctx, seed)
	}
	return c.links.URLs(), ctx.Err()
}

func (c *Crawler) collectFromSeed(ctx context.Context, seed string) {
	res, err := c.fetcher.Fetch(ctx, seed)
	if err != nil {
		metrics.ObserveFetch(metrics.KindListing, metrics.OutcomeNetworkError, 0)
		c.logger.Warn("Seed fetch failed", zap.String("url", seed), zap.Error(err))
		return
	}
	if !res.OK() {
		metrics.ObserveFetch(metrics.KindListing, metrics.OutcomeHTTPError, len(res.Body))
		c.logger.Warn("Skipping seed",
			zap.String("url", seed),
			zap.Int("status_code", res.StatusCode),
		)
		return
	}
	metrics.ObserveFetch(metrics.KindListing, metrics.OutcomeOK, len(res.Body))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		c.logger.Warn("Seed page is not parseable HTML", zap.String("url", seed), zap.Error(err))
		return
	}
	base, err := url.Parse(res.URL)
	if err != nil {
		c.logger.Warn("Seed URL is not parseable", zap.String("url", seed), zap.Error(err))
		return
	}

	found := 0
	for _, link := range c.site.ExtractLinks(doc, base) {
		if c.links.Len() >= c.cfg.TotalArticles {
			break
		}
		if c.links.MarkIfNew(link) {
			found++
		}
	}
	c.logger.Debug("Collected article links",
		zap.String("url", seed),
		zap.Int("new", found),
		zap.Int("total", c.links.Len()),
	)
}
