package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/config"
	"github.com/deusflow/cybernews/internal/metrics"
	"github.com/deusflow/cybernews/internal/retry"
)

// categoryQueries maps a pipeline category to the search query sent to the
// structured feed endpoint.
var categoryQueries = map[article.Category]string{
	article.CategoryCybersecurity: `cybersecurity OR "data breach" OR vulnerability`,
	article.CategoryHacking:       "hacking OR malware OR ransomware",
	article.CategoryGeneral:       "technology security",
}

// StructuredFeed queries a search-style JSON news API (status + results[]).
// A non-success HTTP status is treated as a full-adapter failure.
type StructuredFeed struct {
	baseURL  string
	apiKey   string
	language string
	pageSize int
	client   *http.Client
	retry    retry.Config
	log      zerolog.Logger
}

func NewStructuredFeed(cfg *config.Config, log zerolog.Logger) *StructuredFeed {
	return &StructuredFeed{
		baseURL:  cfg.StructuredAPIURL,
		apiKey:   cfg.StructuredAPIKey,
		language: cfg.StructuredLanguage,
		pageSize: cfg.StructuredPageSize,
		client:   &http.Client{Timeout: cfg.RequestTimeout},
		retry:    retry.Config{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay},
		log:      log.With().Str("adapter", "structured").Logger(),
	}
}

func (s *StructuredFeed) Name() string { return "structured" }

type structuredResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string   `json:"title"`
		Link        string   `json:"link"`
		ImageURL    string   `json:"image_url"`
		PubDate     string   `json:"pubDate"`
		Creator     []string `json:"creator"`
		Description string   `json:"description"`
		Content     string   `json:"content"`
		SourceID    string   `json:"source_id"`
	} `json:"results"`
}

func (s *StructuredFeed) Fetch(ctx context.Context, category article.Category) []article.Raw {
	var resp structuredResponse
	err := retry.Do(ctx, s.retry, func() error {
		return s.query(ctx, category, &resp)
	})
	if err != nil {
		metrics.AdapterFailures.WithLabelValues(s.Name()).Inc()
		s.log.Warn().Err(err).Msg("structured feed unavailable")
		return nil
	}

	raws := make([]article.Raw, 0, len(resp.Results))
	for _, res := range resp.Results {
		if strings.TrimSpace(res.Title) == "" || strings.TrimSpace(res.Link) == "" {
			continue // malformed item, silently dropped
		}
		source := res.SourceID
		if source == "" {
			source = "NewsData"
		}
		author := ""
		if len(res.Creator) > 0 {
			author = res.Creator[0]
		}
		raws = append(raws, article.Raw{
			Title:       res.Title,
			Link:        res.Link,
			Image:       res.ImageURL,
			Published:   res.PubDate,
			Author:      author,
			Description: res.Description,
			Content:     res.Content,
			Source:      source,
		})
	}

	metrics.ArticlesIngested.WithLabelValues(s.Name()).Add(float64(len(raws)))
	s.log.Info().Int("articles", len(raws)).Str("category", string(category)).Msg("structured feed fetched")
	return raws
}

func (s *StructuredFeed) query(ctx context.Context, category article.Category, out *structuredResponse) error {
	query, ok := categoryQueries[category]
	if !ok {
		query = categoryQueries[article.CategoryGeneral]
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("q", query)
	params.Set("language", s.language)
	params.Set("size", strconv.Itoa(s.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	httpResp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !strings.EqualFold(out.Status, "success") && !strings.EqualFold(out.Status, "ok") {
		return fmt.Errorf("api status %q", out.Status)
	}
	return nil
}
