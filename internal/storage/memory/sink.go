// Package memory stores article artifacts in-memory. It backs tests and
// dry runs where nothing should touch the filesystem.
package memory

import (
	"context"
	"fmt"
	"sync"

	"newsharvest/internal/scraper"
)

// Sink keeps artifacts in memory and records the order of operations so
// callers can assert how persistence interleaved with the rest of a run.
type Sink struct {
	mu   sync.Mutex
	raw  map[int]string
	meta map[int]scraper.ArticleRecord
	ops  []string

	// PrepareErr and SaveErr, when set, are returned by the matching
	// operations to simulate storage failures.
	PrepareErr error
	SaveErr    error
}

// NewSink creates an empty in-memory sink.
func NewSink() *Sink {
	return &Sink{
		raw:  make(map[int]string),
		meta: make(map[int]scraper.ArticleRecord),
	}
}

// Prepare resets the sink to empty.
func (s *Sink) Prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PrepareErr != nil {
		return s.PrepareErr
	}
	s.raw = make(map[int]string)
	s.meta = make(map[int]scraper.ArticleRecord)
	s.ops = append(s.ops, "prepare")
	return nil
}

// SaveRaw stores the article text.
func (s *Sink) SaveRaw(ctx context.Context, rec *scraper.ArticleRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.raw[rec.ID] = rec.Text
	s.ops = append(s.ops, fmt.Sprintf("raw:%d", rec.ID))
	return nil
}

// SaveMeta stores the article metadata.
func (s *Sink) SaveMeta(ctx context.Context, rec *scraper.ArticleRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.meta[rec.ID] = *rec
	s.ops = append(s.ops, fmt.Sprintf("meta:%d", rec.ID))
	return nil
}

// Raw returns the stored text for id.
func (s *Sink) Raw(id int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.raw[id]
	return text, ok
}

// Meta returns the stored metadata for id.
func (s *Sink) Meta(id int) (scraper.ArticleRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.meta[id]
	return rec, ok
}

// Ops returns the operations applied so far, in order.
func (s *Sink) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

// Len reports how many articles have metadata stored.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.meta)
}
