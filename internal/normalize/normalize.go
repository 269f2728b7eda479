// Package normalize turns source-native article text into clean plain text
// and extracts best-effort author and image references.
package normalize

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/llm"
)

// llmBylineMinLen is the minimum stripped-content length before we spend a
// model call on byline extraction.
const llmBylineMinLen = 100

type Normalizer struct {
	llm llm.Client
	log zerolog.Logger
}

func New(client llm.Client, log zerolog.Logger) *Normalizer {
	return &Normalizer{llm: client, log: log.With().Str("component", "normalize").Logger()}
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// CleanText strips CDATA wrappers (plain and escaped), HTML tags and the
// five common entities, and collapses whitespace.
func CleanText(s string) string {
	for _, wrap := range []string{"<![CDATA[", "]]>", "&lt;![CDATA[", "]]&gt;"} {
		s = strings.ReplaceAll(s, wrap, "")
	}

	s = tagRe.ReplaceAllString(s, " ")

	// &amp; last so "&amp;lt;" does not turn into a strippable entity.
	replacer := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&amp;", "&",
	)
	s = replacer.Replace(s)

	return strings.Join(strings.Fields(s), " ")
}

var bylineRe = regexp.MustCompile(`(?:(?i:written by|author:?|by))\s+([A-Z][a-zA-Z.'-]+(?:\s+[A-Z][a-zA-Z.'-]+){0,3})`)

const bylineSystemPrompt = "You extract the byline author from news article text. " +
	"Reply with only the author's name, or NONE if no author is named."

// Author resolves the article author: explicit source metadata first, then a
// byline pattern in the text, then (for long enough content) a model call.
// Returns "" when nothing credible is found.
func (n *Normalizer) Author(ctx context.Context, raw article.Raw) string {
	if author := strings.TrimSpace(raw.Author); author != "" {
		return CleanText(author)
	}

	text := CleanText(raw.Content + " " + raw.Description)
	if m := bylineRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	if len(text) >= llmBylineMinLen && n.llm != nil {
		resp, err := n.llm.Complete(ctx, bylineSystemPrompt, "Title: "+raw.Title+"\n\n"+text)
		if err != nil {
			n.log.Debug().Err(err).Str("title", raw.Title).Msg("byline extraction failed")
			return ""
		}
		resp = strings.TrimSpace(resp)
		if resp != "" && !strings.EqualFold(resp, "none") &&
			len(resp) <= 60 && !strings.ContainsAny(resp, "\n.") {
			return resp
		}
	}

	return ""
}

var (
	enclosureRe    = regexp.MustCompile(`(?i)<enclosure[^>]*\burl\s*=\s*["']([^"']+)["']`)
	mediaContentRe = regexp.MustCompile(`(?i)<media:content[^>]*\burl\s*=\s*["']([^"']+)["']`)
)

// Image resolves the article image: explicit source field, then enclosure
// and media:content markup, then the first <img src> in the description.
// Whatever is found must pass ValidateImageURL or it is discarded.
func (n *Normalizer) Image(raw article.Raw) string {
	markup := raw.Content + "\n" + raw.Description

	candidates := make([]string, 0, 4)
	if raw.Image != "" {
		candidates = append(candidates, raw.Image)
	}
	if m := enclosureRe.FindStringSubmatch(markup); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := mediaContentRe.FindStringSubmatch(markup); m != nil {
		candidates = append(candidates, m[1])
	}
	if src := firstImgSrc(raw.Description); src != "" {
		candidates = append(candidates, src)
	}

	for _, c := range candidates {
		if u := ValidateImageURL(c); u != "" {
			return u
		}
	}
	return ""
}
