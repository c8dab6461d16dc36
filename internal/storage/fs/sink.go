// Package fs persists article artifacts to the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"newsharvest/internal/metrics"
	"newsharvest/internal/scraper"
)

// Sink writes the two per-article artifacts, <id>_raw.txt and
// <id>_meta.json, into a flat directory.
type Sink struct {
	root   string
	logger *zap.Logger
}

// New returns a sink rooted at dir. Prepare must run before any save.
func New(root string, logger *zap.Logger) *Sink {
	return &Sink{root: root, logger: logger}
}

// Root returns the artifact directory.
func (s *Sink) Root() string {
	return s.root
}

// Prepare wipes and recreates the artifact directory so no artifact from a
// previous run survives into this one.
func (s *Sink) Prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("clear artifact dir %s: %w", s.root, err)
	}
	if err := os.MkdirAll(s.root, 0o750); err != nil {
		return fmt.Errorf("create artifact dir %s: %w", s.root, err)
	}
	s.logger.Debug("Prepared artifact directory", zap.String("path", s.root))
	return nil
}

// SaveRaw writes the article text artifact.
func (s *Sink) SaveRaw(ctx context.Context, rec *scraper.ArticleRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	target := filepath.Join(s.root, fmt.Sprintf("%d_raw.txt", rec.ID))
	if err := os.WriteFile(target, []byte(rec.Text), 0o600); err != nil {
		return fmt.Errorf("write raw artifact %s: %w", target, err)
	}
	metrics.ObserveArtifact(metrics.ArtifactRaw)
	return nil
}

// SaveMeta writes the article metadata artifact.
func (s *Sink) SaveMeta(ctx context.Context, rec *scraper.ArticleRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta for article %d: %w", rec.ID, err)
	}
	target := filepath.Join(s.root, fmt.Sprintf("%d_meta.json", rec.ID))
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		return fmt.Errorf("write metadata %s: %w", target, err)
	}
	metrics.ObserveArtifact(metrics.ArtifactMeta)
	return nil
}
