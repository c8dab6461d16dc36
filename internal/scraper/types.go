package scraper

import (
	"encoding/json"
	"fmt"
	"time"
)

// AuthorUnknown is the byline sentinel persisted when a site exposes none.
const AuthorUnknown = "unknown"

// dateLayout is the calendar-date form used in persisted metadata.
const dateLayout = "2006-01-02"

// Date is a calendar date that marshals to "YYYY-MM-DD". The zero value
// marshals to an empty string, which is how unparsed articles persist.
type Date struct {
	time.Time
}

// NewDate builds a Date from any time, truncated to its calendar day.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as "YYYY-MM-DD", or "" when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" or the empty string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// ArticleRecord is the in-memory representation of one article. It is
// constructed empty, mutated by extraction, persisted, then discarded.
// Body text is persisted as the raw artifact and excluded from the
// metadata JSON.
type ArticleRecord struct {
	ID      int      `json:"id"`
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Text    string   `json:"-"`
	Authors []string `json:"authors"`
	Topics  []string `json:"topics"`
	Date    Date     `json:"date"`
}

// NewArticleRecord returns the empty-but-constructed record for url with the
// given 1-based id. Authors start at the sentinel so even unparsed records
// persist a well-formed byline list.
func NewArticleRecord(id int, url string) *ArticleRecord {
	return &ArticleRecord{
		ID:      id,
		URL:     url,
		Authors: []string{AuthorUnknown},
		Topics:  []string{},
	}
}

// Meta carries the metadata fields a site profile extracts from an article
// page. RawDate is the site's own date text, normalized separately.
type Meta struct {
	Title   string
	Authors []string
	Topics  []string
	RawDate string
}

// FetchResult is the outcome of one GET. Non-2xx responses are returned as
// data, not errors; OK tells the caller which case it holds.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       []byte
}

// OK reports whether the response carried a 2xx status.
func (r FetchResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
