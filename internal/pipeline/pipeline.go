// Package pipeline orchestrates a full ingestion run: concurrent source
// fetches, normalization, rewriting, section generation, categorization,
// deduplication and ordering. Run always returns a non-empty, schema-valid
// list; every failure mode degrades toward that contract.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/categorize"
	"github.com/deusflow/cybernews/internal/feeds"
	"github.com/deusflow/cybernews/internal/metrics"
	"github.com/deusflow/cybernews/internal/normalize"
	"github.com/deusflow/cybernews/internal/rewrite"
)

type Orchestrator struct {
	adapters   []feeds.Adapter
	normalizer *normalize.Normalizer
	rewriter   *rewrite.Rewriter
	log        zerolog.Logger
	now        func() time.Time
}

// New wires the orchestrator from its collaborators. Adapters run in the
// given order; that order decides which duplicate survives.
func New(adapters []feeds.Adapter, normalizer *normalize.Normalizer, rewriter *rewrite.Rewriter, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		adapters:   adapters,
		normalizer: normalizer,
		rewriter:   rewriter,
		log:        log.With().Str("component", "pipeline").Logger(),
		now:        time.Now,
	}
}

// Run executes one full ingestion cycle for the category. All adapters run
// concurrently with isolated failure domains; an empty merged result
// switches to the deterministic fallback set so the caller never receives
// an empty list.
func (o *Orchestrator) Run(ctx context.Context, category article.Category) []article.Article {
	start := o.now()
	defer func() {
		metrics.PipelineRuns.Inc()
		metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	slots := make([][]article.Raw, len(o.adapters))

	var wg sync.WaitGroup
	for i, adapter := range o.adapters {
		wg.Add(1)
		go func(i int, adapter feeds.Adapter) {
			defer wg.Done()
			slots[i] = adapter.Fetch(ctx, category)
		}(i, adapter)
	}
	wg.Wait()

	var merged []article.Raw
	for _, slot := range slots {
		merged = append(merged, slot...)
	}

	if len(merged) == 0 {
		o.log.Warn().Msg("all sources empty, generating fallback set")
		metrics.FallbackRuns.Inc()
		return o.fallbackSet(ctx)
	}

	articles := make([]article.Article, 0, len(merged))
	for _, raw := range merged {
		articles = append(articles, o.assemble(ctx, raw))
	}

	articles = Dedup(articles)
	SortByRecency(articles)

	o.log.Info().
		Int("raw", len(merged)).
		Int("final", len(articles)).
		Str("category", string(category)).
		Dur("took", time.Since(start)).
		Msg("pipeline run complete")
	return articles
}

// assemble converts one raw record into the canonical article shape,
// honoring every schema invariant regardless of model availability.
func (o *Orchestrator) assemble(ctx context.Context, raw article.Raw) article.Article {
	title := normalize.CleanText(raw.Title)
	body := normalize.CleanText(raw.Body())

	summary := o.rewriter.Rewrite(ctx, title, body)
	if summary == "" {
		summary = title
	}
	sections := o.rewriter.GenerateSections(ctx, title, summary)

	author := o.normalizer.Author(ctx, raw)
	authorDisplay := author
	if authorDisplay == "" {
		authorDisplay = raw.Source
	}

	return article.Article{
		ID:             article.NewID(raw.Source),
		Title:          title,
		Summary:        summary,
		SourceURL:      strings.TrimSpace(raw.Link),
		Source:         raw.Source,
		Author:         author,
		AuthorDisplay:  authorDisplay,
		PublishedAt:    o.publishedAt(raw.Published),
		ImageURL:       o.normalizer.Image(raw),
		Category:       categorize.Categorize(title, body),
		What:           sections.What,
		Impact:         sections.Impact,
		Takeaways:      sections.Takeaways,
		WhyThisMatters: sections.WhyThisMatters,
	}
}

// publishedAt parses the source-native timestamp, defaulting to ingestion
// time so unparsable articles still sort instead of being excluded.
func (o *Orchestrator) publishedAt(published string) time.Time {
	published = strings.TrimSpace(published)
	if published == "" {
		return o.now()
	}
	t, err := dateparse.ParseAny(published)
	if err != nil {
		return o.now()
	}
	return t
}
