package scraper

import (
	"context"
	"time"
)

// Pause blocks for delay or until ctx is cancelled, whichever comes first.
func Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// linkSet tracks visited URLs while preserving first-seen order.
type linkSet struct {
	seen  map[string]struct{}
	order []string
}

func newLinkSet() *linkSet {
	return &linkSet{seen: make(map[string]struct{})}
}

// MarkIfNew stores the URL if it has not been seen before and returns true.
func (s *linkSet) MarkIfNew(url string) bool {
	if url == "" {
		return false
	}
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

// URLs returns the tracked URLs in first-seen order.
func (s *linkSet) URLs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports how many distinct URLs have been tracked.
func (s *linkSet) Len() int {
	return len(s.order)
}
