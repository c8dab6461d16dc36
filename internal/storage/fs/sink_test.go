package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"newsharvest/internal/scraper"
)

func TestSinkPrepareWipesStaleArtifacts(t *testing.T) {
	root := filepath.Join(t.TempDir(), "artifacts")
	require.NoError(t, os.MkdirAll(root, 0o750))
	stale := filepath.Join(root, "9_raw.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old run"), 0o600))

	sink := New(root, zap.NewNop())
	require.NoError(t, sink.Prepare(context.Background()))

	_, err := os.Stat(stale)
	require.True(t, os.IsNotExist(err), "stale artifact should be removed")
	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestSinkPrepareCreatesNestedRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b", "artifacts")

	sink := New(root, zap.NewNop())
	require.NoError(t, sink.Prepare(context.Background()))

	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestSinkSaveArtifacts(t *testing.T) {
	root := filepath.Join(t.TempDir(), "artifacts")
	sink := New(root, zap.NewNop())
	require.NoError(t, sink.Prepare(context.Background()))

	rec := scraper.NewArticleRecord(3, "https://example.com/news/3")
	rec.Title = "Заголовок"
	rec.Text = "Первый абзац.\nВторой абзац."
	rec.Authors = []string{"Иван Петров"}
	rec.Topics = []string{"Город"}
	rec.Date = scraper.NewDate(time.Date(2022, time.August, 12, 0, 0, 0, 0, time.UTC))

	require.NoError(t, sink.SaveRaw(context.Background(), rec))
	require.NoError(t, sink.SaveMeta(context.Background(), rec))

	raw, err := os.ReadFile(filepath.Join(root, "3_raw.txt"))
	require.NoError(t, err)
	require.Equal(t, rec.Text, string(raw))

	payload, err := os.ReadFile(filepath.Join(root, "3_meta.json"))
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(payload, &meta))
	require.Equal(t, float64(3), meta["id"])
	require.Equal(t, "https://example.com/news/3", meta["url"])
	require.Equal(t, "Заголовок", meta["title"])
	require.Equal(t, "2022-08-12", meta["date"])
	require.NotContains(t, meta, "text")
}

func TestSinkSaveEmptyRecord(t *testing.T) {
	root := filepath.Join(t.TempDir(), "artifacts")
	sink := New(root, zap.NewNop())
	require.NoError(t, sink.Prepare(context.Background()))

	rec := scraper.NewArticleRecord(1, "https://example.com/news/1")

	require.NoError(t, sink.SaveRaw(context.Background(), rec))
	require.NoError(t, sink.SaveMeta(context.Background(), rec))

	raw, err := os.ReadFile(filepath.Join(root, "1_raw.txt"))
	require.NoError(t, err)
	require.Empty(t, raw)

	payload, err := os.ReadFile(filepath.Join(root, "1_meta.json"))
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(payload, &meta))
	require.Equal(t, []any{"unknown"}, meta["authors"])
	require.Equal(t, "", meta["date"])
}

func TestSinkContextCanceled(t *testing.T) {
	sink := New(filepath.Join(t.TempDir(), "artifacts"), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := scraper.NewArticleRecord(1, "https://example.com/news/1")
	require.Error(t, sink.Prepare(ctx))
	require.Error(t, sink.SaveRaw(ctx, rec))
	require.Error(t, sink.SaveMeta(ctx, rec))
}
