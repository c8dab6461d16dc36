package scraper

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"newsharvest/internal/metrics"
)

// ArticleParser turns one article page into an ArticleRecord. A parser is
// bound to a single URL and its positional ID for the run.
type ArticleParser struct {
	url     string
	id      int
	fetcher Fetcher
	site    SiteProfile
	logger  *zap.Logger
}

// NewArticleParser creates a parser for the article at rawURL with the
// given 1-based ID.
func NewArticleParser(rawURL string, id int, fetcher Fetcher, site SiteProfile, logger *zap.Logger) *ArticleParser {
	return &ArticleParser{
		url:     rawURL,
		id:      id,
		fetcher: fetcher,
		site:    site,
		logger:  logger,
	}
}

// Parse fetches and extracts the article. It always returns a usable
// record: when the page cannot be fetched or read the record keeps its
// defaults, and missing fragments degrade the record instead of failing it.
func (p *ArticleParser) Parse(ctx context.Context) *ArticleRecord {
	rec := NewArticleRecord(p.id, p.url)

	doc, ok := p.fetchDocument(ctx)
	if !ok {
		metrics.ObserveArticle(metrics.ArticleEmpty)
		return rec
	}

	partial := false
	if !p.fillText(doc, rec) {
		partial = true
	}
	if !p.fillMeta(doc, rec) {
		partial = true
	}

	if partial {
		metrics.ObserveArticle(metrics.ArticlePartial)
	} else {
		metrics.ObserveArticle(metrics.ArticleParsed)
	}
	return rec
}

func (p *ArticleParser) fetchDocument(ctx context.Context) (*goquery.Document, bool) {
	res, err := p.fetcher.Fetch(ctx, p.url)
	if err != nil {
		metrics.ObserveFetch(metrics.KindArticle, metrics.OutcomeNetworkError, 0)
		p.logger.Warn("Article fetch failed", zap.String("url", p.url), zap.Error(err))
		return nil, false
	}
	if !res.OK() {
		metrics.ObserveFetch(metrics.KindArticle, metrics.OutcomeHTTPError, len(res.Body))
		p.logger.Warn("Skipping article body",
			zap.String("url", p.url),
			zap.Int("status_code", res.StatusCode),
		)
		return nil, false
	}
	metrics.ObserveFetch(metrics.KindArticle, metrics.OutcomeOK, len(res.Body))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		p.logger.Warn("Article page is not parseable HTML", zap.String("url", p.url), zap.Error(err))
		return nil, false
	}
	return doc, true
}

func (p *ArticleParser) fillText(doc *goquery.Document, rec *ArticleRecord) bool {
	paragraphs, err := p.site.ExtractText(doc)
	if err != nil || len(paragraphs) == 0 {
		metrics.ObserveAnomaly("text")
		p.logger.Warn("Article text missing", zap.String("url", p.url), zap.Error(err))
		return false
	}
	rec.Text = strings.Join(paragraphs, "\n")
	return true
}

func (p *ArticleParser) fillMeta(doc *goquery.Document, rec *ArticleRecord) bool {
	meta, err := p.site.ExtractMeta(doc)
	if err != nil {
		p.logger.Warn("Article metadata incomplete", zap.String("url", p.url), zap.Error(err))
	}

	complete := true
	rec.Title = meta.Title
	if meta.Title == "" {
		metrics.ObserveAnomaly("title")
		complete = false
	}
	if len(meta.Authors) > 0 {
		rec.Authors = meta.Authors
	}
	if len(meta.Topics) > 0 {
		rec.Topics = meta.Topics
	}

	if meta.RawDate == "" {
		metrics.ObserveAnomaly("date")
		return false
	}
	when, err := p.site.NormalizeDate(meta.RawDate)
	if err != nil {
		metrics.ObserveAnomaly("date")
		p.logger.Warn("Article date is not parseable",
			zap.String("url", p.url),
			zap.String("raw_date", meta.RawDate),
			zap.Error(err),
		)
		return false
	}
	rec.Date = NewDate(when)
	return complete
}
