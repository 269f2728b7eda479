package pipeline

import (
	"sort"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/metrics"
)

// Dedup collapses articles sharing a dedup key (lower-cased title + source
// URL). The first occurrence wins; later ones are dropped without merging.
// Idempotent: applying it to its own output changes nothing.
func Dedup(articles []article.Article) []article.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]article.Article, 0, len(articles))

	for _, a := range articles {
		key := a.DedupKey()
		if _, dup := seen[key]; dup {
			metrics.DuplicatesFiltered.Inc()
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// SortByRecency orders articles most-recent-first. Stable, so equal
// timestamps keep their adapter order.
func SortByRecency(articles []article.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}
