package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/config"
	"github.com/deusflow/cybernews/internal/metrics"
)

// RSSFeed fetches N feed URLs concurrently. Each feed is downloaded through
// an ordered list of transports (direct first, then relay endpoints) with
// first-success-wins semantics, parsed strictly first and by tolerant
// pattern matching when strict parsing yields nothing.
type RSSFeed struct {
	urls   []string
	relays []string
	client *http.Client
	log    zerolog.Logger
}

func NewRSSFeed(urls []string, cfg *config.Config, log zerolog.Logger) *RSSFeed {
	return &RSSFeed{
		urls:   urls,
		relays: cfg.RelayEndpoints,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		log:    log.With().Str("adapter", "rss").Logger(),
	}
}

func (r *RSSFeed) Name() string { return "rss" }

// Fetch fans out over the configured feeds. Per-feed failures are isolated;
// results are merged in configuration order after all feeds resolve.
func (r *RSSFeed) Fetch(ctx context.Context, _ article.Category) []article.Raw {
	slots := make([][]article.Raw, len(r.urls))

	var wg sync.WaitGroup
	for i, feedURL := range r.urls {
		wg.Add(1)
		go func(i int, feedURL string) {
			defer wg.Done()
			slots[i] = r.fetchFeed(ctx, feedURL)
		}(i, feedURL)
	}
	wg.Wait()

	var raws []article.Raw
	okCount := 0
	for _, slot := range slots {
		if len(slot) > 0 {
			okCount++
		}
		raws = append(raws, slot...)
	}

	metrics.ArticlesIngested.WithLabelValues(r.Name()).Add(float64(len(raws)))
	if len(raws) == 0 {
		metrics.AdapterFailures.WithLabelValues(r.Name()).Inc()
	}
	r.log.Info().Int("articles", len(raws)).Int("feeds_ok", okCount).Int("feeds", len(r.urls)).Msg("rss feeds fetched")
	return raws
}

func (r *RSSFeed) fetchFeed(ctx context.Context, feedURL string) []article.Raw {
	payload, err := r.download(ctx, feedURL)
	if err != nil {
		r.log.Warn().Err(err).Str("feed", feedURL).Msg("feed unreachable")
		return nil
	}

	items := r.parsePayload(payload, feedURL)
	if len(items) == 0 && strings.Contains(payload, "<item") {
		// The payload clearly held items we could not parse; salvage
		// the first one before giving up on this feed.
		if raw, ok := degradedFirstItem(payload, feedURL); ok {
			r.log.Warn().Str("feed", feedURL).Msg("degraded extraction of first item")
			return []article.Raw{raw}
		}
	}
	return items
}

// download tries the direct URL, then each relay endpoint in order,
// stopping at the first success.
func (r *RSSFeed) download(ctx context.Context, feedURL string) (string, error) {
	attempts := make([]string, 0, len(r.relays)+1)
	attempts = append(attempts, feedURL)
	for _, relay := range r.relays {
		attempts = append(attempts, relay+url.QueryEscape(feedURL))
	}

	var lastErr error
	for _, target := range attempts {
		payload, err := r.get(ctx, target)
		if err == nil {
			return payload, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all transports failed: %w", lastErr)
}

func (r *RSSFeed) get(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "cybernews/1.0 (+https://github.com/deusflow/cybernews)")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d from %s", resp.StatusCode, target)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("empty body from %s", target)
	}
	return string(body), nil
}

// parsePayload runs the strict parser first and falls back to tolerant
// pattern matching, since real-world feeds are not schema-guaranteed.
func (r *RSSFeed) parsePayload(payload, feedURL string) []article.Raw {
	if feed, err := gofeed.NewParser().ParseString(payload); err == nil && len(feed.Items) > 0 {
		return mapGofeedItems(feed, feedURL)
	}
	return extractItems(payload, feedURL)
}

func mapGofeedItems(feed *gofeed.Feed, feedURL string) []article.Raw {
	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = hostOf(feedURL)
	}

	raws := make([]article.Raw, 0, len(feed.Items))
	for _, item := range feed.Items {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Link) == "" {
			continue
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		image := ""
		if item.Image != nil {
			image = item.Image.URL
		}
		for _, enc := range item.Enclosures {
			if image == "" && strings.HasPrefix(enc.Type, "image/") {
				image = enc.URL
			}
		}

		published := item.Published
		if published == "" {
			published = item.Updated
		}

		raws = append(raws, article.Raw{
			Title:       item.Title,
			Link:        item.Link,
			Image:       image,
			Published:   published,
			Author:      author,
			Description: item.Description,
			Content:     item.Content,
			Source:      source,
		})
	}
	return raws
}

var (
	itemRe        = regexp.MustCompile(`(?is)<item[\s>](.*?)</item>`)
	titleRe       = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	linkRe        = regexp.MustCompile(`(?is)<link[^>]*>(.*?)</link>`)
	linkHrefRe    = regexp.MustCompile(`(?i)<link[^>]*href\s*=\s*["']([^"']+)["']`)
	pubDateRe     = regexp.MustCompile(`(?is)<pubDate[^>]*>(.*?)</pubDate>`)
	creatorRe     = regexp.MustCompile(`(?is)<dc:creator[^>]*>(.*?)</dc:creator>`)
	descriptionRe = regexp.MustCompile(`(?is)<description[^>]*>(.*?)</description>`)
)

// extractItems is the tolerant extractor: it slices <item> blocks out of the
// raw payload and pattern-matches the fields it can find. Markup inside
// fields is left intact for the normalizer.
func extractItems(payload, feedURL string) []article.Raw {
	source := hostOf(feedURL)

	var raws []article.Raw
	for _, m := range itemRe.FindAllStringSubmatch(payload, -1) {
		block := m[1]

		title := matchFirst(titleRe, block)
		link := matchFirst(linkRe, block)
		if link == "" {
			link = matchFirst(linkHrefRe, block)
		}
		if title == "" || link == "" {
			continue
		}

		raws = append(raws, article.Raw{
			Title:       stripCDATA(title),
			Link:        stripCDATA(link),
			Published:   matchFirst(pubDateRe, block),
			Author:      stripCDATA(matchFirst(creatorRe, block)),
			Description: matchFirst(descriptionRe, block),
			Content:     block,
			Source:      source,
		})
	}
	return raws
}

// degradedFirstItem is the last resort for a feed whose payload contained
// item markers that neither parser could use: take everything from the
// first marker on and try to pull out one title and link.
func degradedFirstItem(payload, feedURL string) (article.Raw, bool) {
	idx := strings.Index(payload, "<item")
	if idx < 0 {
		return article.Raw{}, false
	}
	tail := payload[idx:]

	title := stripCDATA(matchFirst(titleRe, tail))
	link := stripCDATA(matchFirst(linkRe, tail))
	if link == "" {
		link = matchFirst(linkHrefRe, tail)
	}
	if title == "" || link == "" {
		return article.Raw{}, false
	}

	return article.Raw{
		Title:       title,
		Link:        link,
		Published:   matchFirst(pubDateRe, tail),
		Description: matchFirst(descriptionRe, tail),
		Source:      hostOf(feedURL),
	}, true
}

func matchFirst(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func stripCDATA(s string) string {
	s = strings.ReplaceAll(s, "<![CDATA[", "")
	s = strings.ReplaceAll(s, "]]>", "")
	return strings.TrimSpace(s)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "rss"
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
