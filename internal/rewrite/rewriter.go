// Package rewrite turns dense technical article text into plain language
// and derives the fixed narrative sections, with deterministic fallbacks at
// the smallest possible granularity so a model outage never fails a run.
package rewrite

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/deusflow/cybernews/internal/cache"
	"github.com/deusflow/cybernews/internal/llm"
	"github.com/deusflow/cybernews/internal/metrics"
)

const rewriteSystemPrompt = "You rewrite cybersecurity news for a general audience. " +
	"Fully rewrite the given text in plain, simple language. Do not summarize or shorten it. " +
	"Preserve every name, date, number and figure exactly. " +
	"Never stop mid-sentence and never end with an ellipsis."

type Rewriter struct {
	llm     llm.Client
	cache   *cache.Cache
	budget  int
	timeout time.Duration
	log     zerolog.Logger
}

func NewRewriter(client llm.Client, responseCache *cache.Cache, chunkBudget int, timeout time.Duration, log zerolog.Logger) *Rewriter {
	return &Rewriter{
		llm:     client,
		cache:   responseCache,
		budget:  chunkBudget,
		timeout: timeout,
		log:     log.With().Str("component", "rewrite").Logger(),
	}
}

var trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)

// Rewrite splits the text into sentence-bounded chunks and folds them
// through the model one at a time, in order. A failed chunk keeps its
// original text verbatim, so the output is never empty and never ends
// mid-word. Results are joined with a blank line.
func (r *Rewriter) Rewrite(ctx context.Context, title, text string) string {
	chunks := splitChunks(text, r.budget)
	if len(chunks) == 0 {
		return ""
	}

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		parts = append(parts, r.rewriteChunk(ctx, title, chunk, i, len(chunks)))
	}

	out := strings.Join(parts, "\n\n")
	return strings.TrimSpace(trailingSpaceRe.ReplaceAllString(out, "\n"))
}

func (r *Rewriter) rewriteChunk(ctx context.Context, title, chunk string, idx, total int) string {
	key := cache.Key("rewrite", title, chunk)
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}

	user := fmt.Sprintf("Article title: %s\nPart %d of %d.\n\nText:\n%s", title, idx+1, total, chunk)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.llm.Complete(callCtx, rewriteSystemPrompt, user)
	if err != nil || strings.TrimSpace(out) == "" {
		metrics.LLMFailures.WithLabelValues("rewrite").Inc()
		r.log.Debug().Err(err).Int("chunk", idx+1).Str("title", title).Msg("chunk rewrite failed, keeping original text")
		return chunk
	}

	out = strings.TrimSpace(out)
	r.cache.Set(key, out)
	return out
}
