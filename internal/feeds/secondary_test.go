package feeds

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/cybernews/internal/article"
)

type stubReader struct {
	articles []article.Article
	err      error
}

func (s stubReader) RecentArticles(context.Context, article.Category, int) ([]article.Article, error) {
	return s.articles, s.err
}

func TestSecondaryReadsFromStorage(t *testing.T) {
	reader := stubReader{articles: []article.Article{{
		Title:       "Stored story",
		SourceURL:   "https://example.com/stored",
		Source:      "Example News",
		Summary:     "Previously ingested summary.",
		PublishedAt: time.Date(2025, 8, 19, 8, 0, 0, 0, time.UTC),
	}}}

	feed := NewSecondaryFeed(reader, 10, zerolog.Nop())
	raws := feed.Fetch(context.Background(), article.CategoryCybersecurity)

	require.Len(t, raws, 1)
	assert.Equal(t, "Stored story", raws[0].Title)
	assert.Equal(t, "https://example.com/stored", raws[0].Link)
	assert.Equal(t, "Previously ingested summary.", raws[0].Description)
}

func TestSecondaryCuratedOnStorageError(t *testing.T) {
	feed := NewSecondaryFeed(stubReader{err: errors.New("connection refused")}, 10, zerolog.Nop())
	raws := feed.Fetch(context.Background(), article.CategoryCybersecurity)
	assert.Equal(t, curatedArticles, raws)
}

func TestSecondaryCuratedOnEmptyStorage(t *testing.T) {
	feed := NewSecondaryFeed(stubReader{}, 10, zerolog.Nop())
	raws := feed.Fetch(context.Background(), article.CategoryCybersecurity)
	assert.Equal(t, curatedArticles, raws)
}

func TestSecondaryCuratedWithoutReader(t *testing.T) {
	feed := NewSecondaryFeed(nil, 10, zerolog.Nop())
	raws := feed.Fetch(context.Background(), article.CategoryCybersecurity)

	require.NotEmpty(t, raws)
	for _, raw := range raws {
		assert.NotEmpty(t, raw.Title)
		assert.NotEmpty(t, raw.Link)
		assert.NotEmpty(t, raw.Source)
	}
}
