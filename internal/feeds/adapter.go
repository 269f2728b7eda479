// Package feeds contains the source adapters. Each adapter fetches and
// parses one source family into raw articles and never returns an error to
// the caller: every internal failure is logged and reduced to an empty
// result, so one broken source cannot take down a pipeline run.
package feeds

import (
	"context"

	"github.com/deusflow/cybernews/internal/article"
)

// Adapter is the common source contract. Fetch must not panic and must not
// error: failures yield an empty slice. Articles missing a title or link
// are dropped during parsing, not counted as adapter failures.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, category article.Category) []article.Raw
}
