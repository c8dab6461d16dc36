// Package scraper implements the sequential scraping core: the crawler that
// discovers article URLs from listing pages, the per-article parser that
// turns markup into typed records, and the interfaces its collaborators
// (fetchers, site profiles, sinks) implement.
package scraper
