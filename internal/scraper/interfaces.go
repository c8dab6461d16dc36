package scraper

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrElementMissing marks an extraction that expected markup the page did
// not have. Parsers recover it into a partial record and log the anomaly.
var ErrElementMissing = errors.New("expected element missing")

// Fetcher issues a single GET and returns status plus body unconditionally;
// only transport-level failures surface as errors.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (FetchResult, error)
}

// SiteProfile isolates everything that couples the pipeline to one target
// site: teaser-link extraction, text and metadata selectors, and the site's
// date format.
type SiteProfile interface {
	// ExtractLinks returns the absolute article URLs found on a listing
	// page, in page order. Unresolvable and off-site links are dropped.
	ExtractLinks(doc *goquery.Document, base *url.URL) []string
	// ExtractText returns the article body paragraphs in page order.
	ExtractText(doc *goquery.Document) ([]string, error)
	// ExtractMeta returns title, byline, topics, and the raw date text.
	// On missing required elements it returns the best-effort Meta along
	// with an ErrElementMissing wrap.
	ExtractMeta(doc *goquery.Document) (Meta, error)
	// NormalizeDate converts the site's date text to a calendar date.
	NormalizeDate(raw string) (time.Time, error)
}

// Sink persists article records. Prepare wipes and recreates the output
// area; SaveRaw and SaveMeta write the two per-article artifacts.
type Sink interface {
	Prepare(ctx context.Context) error
	SaveRaw(ctx context.Context, rec *ArticleRecord) error
	SaveMeta(ctx context.Context, rec *ArticleRecord) error
}
