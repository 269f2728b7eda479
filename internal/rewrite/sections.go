package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/deusflow/cybernews/internal/metrics"
)

// Sections are the fixed narrative fields derived from a rewritten article.
// GenerateSections guarantees none of them is ever empty.
type Sections struct {
	Summary        string `json:"summary"`
	What           string `json:"what"`
	Impact         string `json:"impact"`
	Takeaways      string `json:"takeaways"`
	WhyThisMatters string `json:"whyThisMatters"`
}

const sectionsSystemPrompt = "You analyze cybersecurity news for a general audience. " +
	"Respond with a single JSON object with exactly these string fields: " +
	`"summary", "what", "impact", "takeaways", "whyThisMatters". ` +
	"Each field is 1-2 plain-language sentences. " +
	"Never leave a sentence unfinished and never use a trailing ellipsis. " +
	"Respond with the JSON object only, no markdown fences and no commentary."

// Deterministic templates, substituted per-field when parsing fails. Each
// names the field's intent so the output stays self-contained.
var sectionTemplates = Sections{
	What:           "What happened: Details not available.",
	Impact:         "Impact: The full impact of this incident is not yet known.",
	Takeaways:      "Takeaways: Follow trusted security sources for updates on this story.",
	WhyThisMatters: "Why this matters: Staying informed about security incidents helps you protect your own accounts and devices.",
}

// GenerateSections asks the model for all five fields in one call and runs
// the layered parse: strict JSON, then per-field regex over the raw text,
// then the deterministic templates. Summary falls back to the body itself.
func (r *Rewriter) GenerateSections(ctx context.Context, title, body string) Sections {
	fallback := sectionTemplates
	fallback.Summary = body

	user := fmt.Sprintf("Title: %s\n\nArticle:\n%s", title, body)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.llm.Complete(callCtx, sectionsSystemPrompt, user)
	if err != nil {
		metrics.LLMFailures.WithLabelValues("sections").Inc()
		r.log.Debug().Err(err).Str("title", title).Msg("section generation failed, using templates")
		return fallback
	}

	return parseSections(raw, fallback)
}

// parseSections decodes the model output, filling any still-missing field
// from the fallback set.
func parseSections(raw string, fallback Sections) Sections {
	var parsed Sections
	if block := extractJSONObject(raw); block != "" {
		_ = json.Unmarshal([]byte(block), &parsed)
	}

	result := Sections{
		Summary:        firstNonEmpty(parsed.Summary, extractField(raw, "summary"), fallback.Summary),
		What:           firstNonEmpty(parsed.What, extractField(raw, "what"), fallback.What),
		Impact:         firstNonEmpty(parsed.Impact, extractField(raw, "impact"), fallback.Impact),
		Takeaways:      firstNonEmpty(parsed.Takeaways, extractField(raw, "takeaways"), fallback.Takeaways),
		WhyThisMatters: firstNonEmpty(parsed.WhyThisMatters, extractField(raw, "whyThisMatters"), fallback.WhyThisMatters),
	}
	return result
}

// extractJSONObject returns the outermost {...} block of s, tolerating
// markdown fences and surrounding prose.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

var fieldRes = map[string]*regexp.Regexp{}

func init() {
	for _, field := range []string{"summary", "what", "impact", "takeaways", "whyThisMatters"} {
		fieldRes[field] = regexp.MustCompile(`(?i)"` + field + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	}
}

// extractField pulls one field value out of malformed model output.
func extractField(raw, field string) string {
	m := fieldRes[field].FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	value := strings.NewReplacer(`\"`, `"`, `\n`, " ", `\\`, `\`).Replace(m[1])
	return strings.TrimSpace(value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
