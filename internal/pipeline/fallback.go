package pipeline

import (
	"context"

	"github.com/deusflow/cybernews/internal/article"
)

// fallbackTemplates is the deterministic article set produced when every
// live source comes back empty. Fixed size, distinct source attributions,
// and every link points at a real external resource. The set runs through
// the same rewrite and section steps as live articles for narrative
// consistency.
var fallbackTemplates = []article.Raw{
	{
		Title:       "How to recognize phishing attempts",
		Link:        "https://www.cisa.gov/secure-our-world/recognize-and-report-phishing",
		Description: "Phishing messages try to trick you into revealing passwords or installing malware. Check sender addresses carefully, hover over links before clicking, and report suspicious messages to your IT team.",
		Source:      "CISA",
	},
	{
		Title:       "Why software updates matter for your security",
		Link:        "https://www.cisa.gov/secure-our-world/update-software",
		Description: "Attackers exploit known vulnerabilities in outdated software. Turning on automatic updates closes those holes before criminals can use them against you.",
		Source:      "CISA",
	},
	{
		Title:       "Data breaches: what to do when your information leaks",
		Link:        "https://haveibeenpwned.com/",
		Description: "When a company suffers a data breach, your email addresses and passwords may circulate among criminals. Services like Have I Been Pwned let you check whether your accounts appeared in known breaches.",
		Source:      "Have I Been Pwned",
	},
	{
		Title:       "Ransomware prevention basics for small organizations",
		Link:        "https://www.cisa.gov/stopransomware",
		Description: "Ransomware encrypts your files and demands payment for their return. Offline backups, patched systems and multi-factor authentication are the most effective defenses.",
		Source:      "StopRansomware",
	},
	{
		Title:       "Multi-factor authentication stops most account takeovers",
		Link:        "https://www.cisa.gov/secure-our-world/turn-mfa",
		Description: "A stolen password alone is not enough when multi-factor authentication is enabled. Adding a second factor blocks the vast majority of automated account takeover attacks.",
		Source:      "CISA",
	},
}

// FallbackSize is the fixed number of articles the fallback path produces.
var FallbackSize = len(fallbackTemplates)

// fallbackSet assembles the template articles through the regular pipeline
// steps. Always returns exactly FallbackSize schema-valid articles.
func (o *Orchestrator) fallbackSet(ctx context.Context) []article.Article {
	out := make([]article.Article, 0, FallbackSize)
	for _, raw := range fallbackTemplates {
		raw.Published = o.now().Format("2006-01-02 15:04:05")
		out = append(out, o.assemble(ctx, raw))
	}
	SortByRecency(out)
	return out
}
