package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/cybernews/internal/article"
)

func TestDedupFirstWins(t *testing.T) {
	articles := []article.Article{
		{Title: "Same Story", SourceURL: "https://example.com/a", Source: "first"},
		{Title: "same story", SourceURL: "https://example.com/a", Source: "second"},
		{Title: "Same Story", SourceURL: "https://example.com/other", Source: "third"},
	}

	out := Dedup(articles)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Source)
	assert.Equal(t, "third", out[1].Source, "same title under a different URL is a distinct article")
}

func TestDedupIdempotent(t *testing.T) {
	articles := []article.Article{
		{Title: "A", SourceURL: "https://example.com/a"},
		{Title: "a", SourceURL: "https://example.com/a"},
		{Title: "B", SourceURL: "https://example.com/b"},
	}

	once := Dedup(articles)
	twice := Dedup(once)
	assert.Equal(t, once, twice)
}

func TestDedupEmpty(t *testing.T) {
	assert.Empty(t, Dedup(nil))
}

func TestSortByRecencyDescending(t *testing.T) {
	base := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	articles := []article.Article{
		{Title: "old", PublishedAt: base.Add(-48 * time.Hour)},
		{Title: "newest", PublishedAt: base},
		{Title: "middle", PublishedAt: base.Add(-24 * time.Hour)},
	}

	SortByRecency(articles)
	assert.Equal(t, []string{"newest", "middle", "old"}, []string{articles[0].Title, articles[1].Title, articles[2].Title})
}

func TestSortByRecencyStableOnTies(t *testing.T) {
	ts := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	articles := []article.Article{
		{Title: "first", PublishedAt: ts},
		{Title: "second", PublishedAt: ts},
	}

	SortByRecency(articles)
	assert.Equal(t, "first", articles[0].Title)
	assert.Equal(t, "second", articles[1].Title)
}
