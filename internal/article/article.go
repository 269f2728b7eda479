// Package article defines the canonical article types shared across the
// ingestion pipeline. Source adapters produce Raw records; the pipeline
// assembles them into Articles, which are immutable once returned.
package article

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of article categories. The categorizer never
// produces a value outside this enumeration.
type Category string

const (
	CategoryCybersecurity Category = "cybersecurity"
	CategoryHacking       Category = "hacking"
	CategoryGeneral       Category = "general"
)

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCybersecurity, CategoryHacking, CategoryGeneral:
		return true
	}
	return false
}

// Raw is a source-native article record as returned by a source adapter.
// Fields hold whatever the source provided; Published keeps the source's
// native timestamp format. Raw records are discarded after normalization.
type Raw struct {
	Title       string
	Link        string
	Image       string
	Published   string
	Author      string
	Description string
	Content     string
	Source      string
}

// Body returns the richer of the two text fields.
func (r Raw) Body() string {
	if len(strings.TrimSpace(r.Content)) > len(strings.TrimSpace(r.Description)) {
		return r.Content
	}
	return r.Description
}

// Article is the canonical, schema-complete output unit of the pipeline.
type Article struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	SourceURL      string    `json:"sourceUrl"`
	Source         string    `json:"source"`
	Author         string    `json:"author,omitempty"`
	AuthorDisplay  string    `json:"authorDisplay"`
	PublishedAt    time.Time `json:"publishedAt"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Category       Category  `json:"category"`
	What           string    `json:"what"`
	Impact         string    `json:"impact"`
	Takeaways      string    `json:"takeaways"`
	WhyThisMatters string    `json:"whyThisMatters"`
}

// DedupKey is the cross-source duplicate key: lower-cased title plus the
// source URL. First occurrence wins during deduplication.
func (a Article) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(a.Title)) + "|" + a.SourceURL
}

// NewID assigns a pipeline-unique identifier: source tag, ingestion
// timestamp and a random suffix. IDs are generated once and never reused.
func NewID(sourceTag string) string {
	tag := strings.ToLower(strings.TrimSpace(sourceTag))
	if tag == "" {
		tag = "news"
	}
	tag = strings.Join(strings.Fields(tag), "-")
	return fmt.Sprintf("%s-%d-%s", tag, time.Now().UnixNano(), uuid.NewString()[:8])
}
