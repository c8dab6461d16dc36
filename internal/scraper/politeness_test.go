package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLinkSetMarkIfNew(t *testing.T) {
	set := newLinkSet()
	require.True(t, set.MarkIfNew("https://example.org/first"))
	require.False(t, set.MarkIfNew("https://example.org/first"))
	require.True(t, set.MarkIfNew("https://example.org/second"))
	require.False(t, set.MarkIfNew(""))
	require.Equal(t, 2, set.Len())
}

func TestLinkSetKeepsOrder(t *testing.T) {
	set := newLinkSet()
	set.MarkIfNew("https://example.org/b")
	set.MarkIfNew("https://example.org/a")
	set.MarkIfNew("https://example.org/b")
	set.MarkIfNew("https://example.org/c")
	require.Equal(t, []string{
		"https://example.org/b",
		"https://example.org/a",
		"https://example.org/c",
	}, set.URLs())
}

func TestPauseHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	Pause(ctx, 5*time.Second)
	require.Less(t, time.Since(start), time.Second, "pause should exit immediately when context is done")
}

func TestPauseZeroDelayReturns(t *testing.T) {
	start := time.Now()
	Pause(context.Background(), 0)
	require.Less(t, time.Since(start), time.Second)
}
