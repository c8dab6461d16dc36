// Package sites holds per-site extraction profiles. A profile bundles the
// CSS selectors and date format that tie the generic pipeline to one news
// site, so supporting a new site means writing a profile, not code.
package sites

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsharvest/internal/scraper"
)

// Profile describes how to scrape one site. Profiles are declared in code
// for the built-in sites or loaded from YAML files.
type Profile struct {
	Name    string           `yaml:"name"`
	List    ListSelectors    `yaml:"list"`
	Article ArticleSelectors `yaml:"article"`
	Date    DateFormat       `yaml:"date"`

	dateOnce sync.Once
	dateRe   *regexp.Regexp
	dateErr  error
}

// ListSelectors defines the CSS selectors for listing page extraction.
type ListSelectors struct {
	// Teasers selects the article links on a listing page, either the
	// anchors themselves or elements containing one.
	Teasers string `yaml:"teasers"`
}

// ArticleSelectors defines the CSS selectors for article content.
type ArticleSelectors struct {
	// Title is the selector for the article title.
	Title string `yaml:"title"`
	// Paragraphs is the selector for the article body paragraphs.
	Paragraphs string `yaml:"paragraphs"`
	// Authors is the selector for the article byline entries.
	Authors string `yaml:"authors"`
	// Topics is the selector for the article topic labels.
	Topics string `yaml:"topics"`
	// Date is the selector for the publication date element.
	Date string `yaml:"date"`
	// DateAttr names an attribute to read the date from instead of the
	// element text, e.g. datetime on a time element.
	DateAttr string `yaml:"date_attr"`
}

// DateFormat describes how the site writes publication dates.
type DateFormat struct {
	// Pattern is a regular expression that isolates the date token from
	// the surrounding text, e.g. a weekday prefix.
	Pattern string `yaml:"pattern"`
	// Layout is the Go reference layout the isolated token parses with.
	Layout string `yaml:"layout"`
}

// Validate checks that the profile carries everything extraction needs.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	if p.List.Teasers == "" {
		return errors.New("teasers selector is required")
	}
	if p.Article.Title == "" {
		return errors.New("title selector is required")
	}
	if p.Article.Paragraphs == "" {
		return errors.New("paragraphs selector is required")
	}
	if p.Article.Date == "" {
		return errors.New("date selector is required")
	}
	if p.Date.Layout == "" {
		return errors.New("date layout is required")
	}
	if p.Date.Pattern == "" {
		return errors.New("date pattern is required")
	}
	if _, err := p.datePattern(); err != nil {
		return fmt.Errorf("date pattern: %w", err)
	}
	return nil
}

// ExtractLinks returns the absolute article URLs on a listing page in page
// order. Links that do not resolve, use another scheme, or leave the seed's
// host are dropped.
func (p *Profile) ExtractLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	doc.Find(p.List.Teasers).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			href, ok = sel.Find("a[href]").First().Attr("href")
		}
		if !ok {
			return
		}
		link, valid := resolveLink(base, href)
		if !valid {
			return
		}
		links = append(links, link)
	})
	return links
}

// ExtractText returns the article paragraphs in page order, whitespace
// trimmed and empty fragments dropped.
func (p *Profile) ExtractText(doc *goquery.Document) ([]string, error) {
	var paragraphs []string
	doc.Find(p.Article.Paragraphs).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		paragraphs = append(paragraphs, text)
	})
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("paragraphs %q: %w", p.Article.Paragraphs, scraper.ErrElementMissing)
	}
	return paragraphs, nil
}

// ExtractMeta returns the article metadata. It fills everything it can and
// reports the required fields it could not find.
func (p *Profile) ExtractMeta(doc *goquery.Document) (scraper.Meta, error) {
	meta := scraper.Meta{
		Title:   strings.TrimSpace(doc.Find(p.Article.Title).First().Text()),
		RawDate: p.rawDate(doc),
	}
	if meta.Title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			meta.Title = strings.TrimSpace(og)
		}
	}
	if p.Article.Authors != "" {
		doc.Find(p.Article.Authors).Each(func(_ int, sel *goquery.Selection) {
			if name := strings.TrimSpace(sel.Text()); name != "" {
				meta.Authors = append(meta.Authors, name)
			}
		})
	}
	if p.Article.Topics != "" {
		doc.Find(p.Article.Topics).Each(func(_ int, sel *goquery.Selection) {
			if topic := strings.TrimSpace(sel.Text()); topic != "" {
				meta.Topics = append(meta.Topics, topic)
			}
		})
	}

	var missing []string
	if meta.Title == "" {
		missing = append(missing, "title")
	}
	if meta.RawDate == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return meta, fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), scraper.ErrElementMissing)
	}
	return meta, nil
}

func (p *Profile) rawDate(doc *goquery.Document) string {
	sel := doc.Find(p.Article.Date).First()
	if p.Article.DateAttr != "" {
		raw, _ := sel.Attr(p.Article.DateAttr)
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(sel.Text())
}

// NormalizeDate isolates the date token from raw site text and parses it
// into a calendar date.
func (p *Profile) NormalizeDate(raw string) (time.Time, error) {
	re, err := p.datePattern()
	if err != nil {
		return time.Time{}, fmt.Errorf("date pattern: %w", err)
	}
	token := re.FindString(raw)
	if token == "" {
		return time.Time{}, fmt.Errorf("no date token in %q", raw)
	}
	when, err := time.Parse(p.Date.Layout, token)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", token, err)
	}
	return when, nil
}

func (p *Profile) datePattern() (*regexp.Regexp, error) {
	p.dateOnce.Do(func() {
		p.dateRe, p.dateErr = regexp.Compile(p.Date.Pattern)
	})
	return p.dateRe, p.dateErr
}

// resolveLink makes href absolute against base and keeps it only when it
// stays on the seed's host over HTTP(S).
func resolveLink(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if !sameHost(abs.Hostname(), base.Hostname()) {
		return "", false
	}
	abs.Fragment = ""
	return abs.String(), true
}

func sameHost(a, b string) bool {
	return strings.EqualFold(strings.TrimPrefix(a, "www."), strings.TrimPrefix(b, "www."))
}
