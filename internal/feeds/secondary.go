package feeds

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/metrics"
)

// ArticleReader is the narrow read surface of the persisted storage
// collaborator used by the secondary adapter.
type ArticleReader interface {
	RecentArticles(ctx context.Context, category article.Category, limit int) ([]article.Article, error)
}

// SecondaryFeed reads previously persisted articles first and falls back to
// a small hand-authored set on connectivity failure. Every fallback entry
// points at a real, working external resource.
type SecondaryFeed struct {
	reader ArticleReader
	limit  int
	log    zerolog.Logger
}

func NewSecondaryFeed(reader ArticleReader, limit int, log zerolog.Logger) *SecondaryFeed {
	return &SecondaryFeed{
		reader: reader,
		limit:  limit,
		log:    log.With().Str("adapter", "secondary").Logger(),
	}
}

func (s *SecondaryFeed) Name() string { return "secondary" }

func (s *SecondaryFeed) Fetch(ctx context.Context, category article.Category) []article.Raw {
	if s.reader != nil {
		stored, err := s.reader.RecentArticles(ctx, category, s.limit)
		if err == nil && len(stored) > 0 {
			raws := make([]article.Raw, 0, len(stored))
			for _, a := range stored {
				raws = append(raws, article.Raw{
					Title:       a.Title,
					Link:        a.SourceURL,
					Image:       a.ImageURL,
					Published:   a.PublishedAt.Format(time.RFC3339),
					Author:      a.Author,
					Description: a.Summary,
					Source:      a.Source,
				})
			}
			metrics.ArticlesIngested.WithLabelValues(s.Name()).Add(float64(len(raws)))
			s.log.Info().Int("articles", len(raws)).Msg("secondary feed read from storage")
			return raws
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("storage read failed, using curated set")
		}
	}

	metrics.AdapterFailures.WithLabelValues(s.Name()).Inc()
	metrics.ArticlesIngested.WithLabelValues(s.Name()).Add(float64(len(curatedArticles)))
	return append([]article.Raw(nil), curatedArticles...)
}

// curatedArticles is the hand-authored connectivity fallback. Links go to
// real security-news resources, never fabricated URLs.
var curatedArticles = []article.Raw{
	{
		Title:       "CISA publishes known exploited vulnerabilities catalog",
		Link:        "https://www.cisa.gov/known-exploited-vulnerabilities-catalog",
		Description: "The US cybersecurity agency CISA maintains a continuously updated catalog of vulnerabilities that attackers are actively exploiting, with remediation deadlines for federal agencies.",
		Source:      "CISA",
	},
	{
		Title:       "The Hacker News tracks daily cybersecurity developments",
		Link:        "https://thehackernews.com/",
		Description: "The Hacker News covers data breaches, malware campaigns and vulnerability disclosures across the industry with daily reporting.",
		Source:      "The Hacker News",
	},
	{
		Title:       "BleepingComputer reports on ransomware and malware outbreaks",
		Link:        "https://www.bleepingcomputer.com/",
		Description: "BleepingComputer publishes technical reporting on ransomware operations, malware analysis and security incident response.",
		Source:      "BleepingComputer",
	},
	{
		Title:       "Krebs on Security investigates cybercrime",
		Link:        "https://krebsonsecurity.com/",
		Description: "Independent journalist Brian Krebs investigates cybercrime networks, data breaches and the economics of the underground.",
		Source:      "Krebs on Security",
	},
}
