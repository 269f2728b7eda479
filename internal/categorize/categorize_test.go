package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deusflow/cybernews/internal/article"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        article.Category
	}{
		{"data breach", "Data Breach Hits Retailer", "", article.CategoryCybersecurity},
		{"case insensitive breach", "DATA BREACH hits retailer", "", article.CategoryCybersecurity},
		{"phishing kit", "New Phishing Kit Sold Online", "", article.CategoryHacking},
		{"ransomware", "Hospital paralyzed", "A ransomware gang encrypted patient records", article.CategoryHacking},
		{"malware in description", "Retailer incident", "Attackers used malware to breach systems.", article.CategoryHacking},
		{"vulnerability", "Critical vulnerability patched in router firmware", "", article.CategoryCybersecurity},
		{"cyber security spelled apart", "Experts debate cyber security budgets", "", article.CategoryCybersecurity},
		{"plain tech news", "Company releases quarterly earnings", "Revenue grew five percent", article.CategoryGeneral},
		{"empty input", "", "", article.CategoryGeneral},
		{"cve short token whole word", "CVE-2024-12345 under active scanning", "", article.CategoryCybersecurity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.title, tt.description)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid(), "category must stay within the closed set")
		})
	}
}

func TestCategorizeHackingWinsOverCybersecurity(t *testing.T) {
	got := Categorize("Hackers exploit data breach aftermath", "")
	assert.Equal(t, article.CategoryHacking, got)
}

func TestContainsAnyShortTokenNeedsWordBoundary(t *testing.T) {
	assert.False(t, containsAny("received a discovery", []string{"cve"}))
	assert.True(t, containsAny("tracking cve 2024", []string{"cve"}))
}
