// Package categorize assigns one of the fixed article categories from
// keyword signals. Pure and deterministic so category values are comparable
// across sources.
package categorize

import (
	"regexp"
	"strings"

	"github.com/deusflow/cybernews/internal/article"
)

var hackingKeywords = []string{
	"hack",
	"attack",
	"malware",
	"ransomware",
	"phish",
	"exploit",
}

var cybersecurityKeywords = []string{
	"cybersecurity",
	"cyber security",
	"data breach",
	"vulnerability",
	"cve",
	"zero-day",
}

// Categorize matches case-insensitively over title and description. Hacking
// keywords win over cybersecurity ones; everything else is general.
func Categorize(title, description string) article.Category {
	text := strings.ToLower(title + " " + description)

	switch {
	case containsAny(text, hackingKeywords):
		return article.CategoryHacking
	case containsAny(text, cybersecurityKeywords):
		return article.CategoryCybersecurity
	default:
		return article.CategoryGeneral
	}
}

// containsAny does phrase matching for multi-word keywords, whole-word
// matching for short tokens (so "cve" does not match inside other words)
// and substring matching otherwise.
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}

		if strings.Contains(k, " ") {
			if strings.Contains(text, k) {
				return true
			}
			continue
		}

		if len(k) <= 3 {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
			if re.MatchString(text) {
				return true
			}
			continue
		}

		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
