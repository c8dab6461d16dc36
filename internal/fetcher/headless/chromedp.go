// Package headless contains fetchers that render pages in a browser.
package headless

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"newsharvest/internal/scraper"
)

const defaultNavTimeout = 45 * time.Second

// Config controls the behavior of the headless fetcher.
type Config struct {
	// Headers are sent with every navigation. A User-Agent entry is
	// applied as a browser override rather than an extra header.
	Headers map[string]string
	// Timeout bounds each navigation end to end.
	Timeout time.Duration
	// MaxJitter adds a random pause of up to this duration before each
	// navigation.
	MaxJitter time.Duration
	// IgnoreCertErrors disables certificate verification in the browser.
	IgnoreCertErrors bool
}

// Fetcher implements scraper.Fetcher using chromedp and headless Chrome.
// Sites that assemble their markup with JavaScript fetch through here.
type Fetcher struct {
	cfg         Config
	allocator   context.Context
	allocCancel context.CancelFunc
}

// New creates a headless fetcher backed by chromedp. The caller owns the
// browser lifetime and must Close it.
func New(cfg Config) *Fetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	if cfg.IgnoreCertErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Fetcher{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}
}

// Close cancels the allocator context and shuts the browser down.
func (f *Fetcher) Close() {
	f.allocCancel()
}

// Fetch navigates with a headless browser and returns the fully rendered DOM.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (scraper.FetchResult, error) {
	if f.cfg.MaxJitter > 0 {
		scraper.Pause(ctx, time.Duration(rand.Int63n(int64(f.cfg.MaxJitter))))
	}
	if err := ctx.Err(); err != nil {
		return scraper.FetchResult{}, fmt.Errorf("fetch canceled: %w", err)
	}

	taskCtx, taskCancel := chromedp.NewContext(f.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, f.navTimeout())
	defer cancel()

	meta := newResponseMeta()
	chromedp.ListenTarget(taskCtx, meta.captureEvent)

	var (
		html     string
		finalURL string
	)
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(taskCtx,
			f.networkSetupAction(),
			chromedp.Navigate(rawURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(500*time.Millisecond),
			chromedp.Location(&finalURL),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
	}()

	select {
	case <-ctx.Done():
		return scraper.FetchResult{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return scraper.FetchResult{}, fmt.Errorf("chromedp run: %w", err)
		}
	}

	status, responseURL := meta.snapshotWithFallbacks(rawURL, finalURL)
	return scraper.FetchResult{
		URL:        responseURL,
		StatusCode: status,
		Body:       []byte(html),
	}, nil
}

func (f *Fetcher) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if ua, ok := headerValue(f.cfg.Headers, "User-Agent"); ok {
			if err := emulation.SetUserAgentOverride(ua).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		if extra := toNetworkHeaders(f.cfg.Headers); len(extra) > 0 {
			if err := network.SetExtraHTTPHeaders(extra).Do(ctx); err != nil {
				return fmt.Errorf("set extra headers: %w", err)
			}
		}
		return nil
	})
}

func (f *Fetcher) navTimeout() time.Duration {
	if f.cfg.Timeout > 0 {
		return f.cfg.Timeout
	}
	return defaultNavTimeout
}

// responseMeta records the document response seen on the CDP event stream.
type responseMeta struct {
	mu     sync.RWMutex
	status int
	url    string
}

func newResponseMeta() *responseMeta {
	return &responseMeta{}
}

func (m *responseMeta) captureEvent(ev any) {
	if resp, ok := ev.(*network.EventResponseReceived); ok {
		m.capture(resp)
	}
}

func (m *responseMeta) capture(event *network.EventResponseReceived) {
	if event.Type != network.ResourceTypeDocument || event.Response == nil {
		return
	}
	m.mu.Lock()
	m.status = int(event.Response.Status)
	m.url = event.Response.URL
	m.mu.Unlock()
}

func (m *responseMeta) snapshot() (int, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status, m.url
}

// snapshotWithFallbacks fills the gaps left when no document event arrived,
// which happens for cached or about: navigations.
func (m *responseMeta) snapshotWithFallbacks(requestURL, finalURL string) (int, string) {
	status, url := m.snapshot()
	switch {
	case url != "":
	case finalURL != "":
		url = finalURL
	default:
		url = requestURL
	}

	if status == 0 {
		status = http.StatusOK
	}
	return status, url
}

func headerValue(headers map[string]string, name string) (string, bool) {
	for key, value := range headers {
		if strings.EqualFold(key, name) && value != "" {
			return value, true
		}
	}
	return "", false
}

func toNetworkHeaders(headers map[string]string) network.Headers {
	extra := network.Headers{}
	for key, value := range headers {
		if strings.EqualFold(key, "User-Agent") {
			continue
		}
		extra[key] = value
	}
	return extra
}
