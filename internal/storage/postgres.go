// Package storage is the persisted storage collaborator: a Postgres sink
// and read surface for the canonical article shape. The pipeline itself is
// stateless; this layer only persists finished runs and serves filtered
// reads.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/retry"
)

type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// New connects, verifies the connection and initializes the schema.
func New(ctx context.Context, dsn string, retryCfg retry.Config, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := retry.Do(ctx, retryCfg, func() error { return db.PingContext(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, log: log.With().Str("component", "storage").Logger()}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT NOT NULL,
		source_url TEXT NOT NULL,
		source TEXT NOT NULL,
		author TEXT,
		author_display TEXT NOT NULL,
		published_at TIMESTAMPTZ NOT NULL,
		image_url TEXT,
		category VARCHAR(32) NOT NULL,
		what TEXT NOT NULL,
		impact TEXT NOT NULL,
		takeaways TEXT NOT NULL,
		why_this_matters TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_dedup ON articles (lower(title), source_url);
	CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles (published_at DESC);
	CREATE INDEX IF NOT EXISTS idx_articles_category ON articles (category);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// SaveArticles upserts a finished run. Re-ingested articles (same title and
// source URL) keep their stored row; new runs never mutate existing rows in
// place.
func (s *Store) SaveArticles(ctx context.Context, articles []article.Article) error {
	query := `
		INSERT INTO articles (
			id, title, summary, source_url, source, author, author_display,
			published_at, image_url, category, what, impact, takeaways, why_this_matters
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (lower(title), source_url) DO NOTHING
	`
	for _, a := range articles {
		_, err := s.db.ExecContext(ctx, query,
			a.ID, a.Title, a.Summary, a.SourceURL, a.Source,
			nullable(a.Author), a.AuthorDisplay, a.PublishedAt, nullable(a.ImageURL),
			string(a.Category), a.What, a.Impact, a.Takeaways, a.WhyThisMatters,
		)
		if err != nil {
			return fmt.Errorf("save article %s: %w", a.ID, err)
		}
	}
	s.log.Info().Int("articles", len(articles)).Msg("run persisted")
	return nil
}

// Filter is the read-side query surface.
type Filter struct {
	Category    article.Category
	Source      string
	DateFrom    time.Time
	DateTo      time.Time
	SearchQuery string
	Limit       int
	Offset      int
}

// Query returns stored articles matching the filter, most recent first.
func (s *Store) Query(ctx context.Context, f Filter) ([]article.Article, error) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Category != "" {
		conditions = append(conditions, "category = "+arg(string(f.Category)))
	}
	if f.Source != "" {
		conditions = append(conditions, "source = "+arg(f.Source))
	}
	if !f.DateFrom.IsZero() {
		conditions = append(conditions, "published_at >= "+arg(f.DateFrom))
	}
	if !f.DateTo.IsZero() {
		conditions = append(conditions, "published_at <= "+arg(f.DateTo))
	}
	if f.SearchQuery != "" {
		p := arg("%" + f.SearchQuery + "%")
		conditions = append(conditions, "(title ILIKE "+p+" OR summary ILIKE "+p+")")
	}

	query := `
		SELECT id, title, summary, source_url, source, COALESCE(author, ''),
		       author_display, published_at, COALESCE(image_url, ''), category,
		       what, impact, takeaways, why_this_matters
		FROM articles`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY published_at DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT " + arg(limit)
	if f.Offset > 0 {
		query += " OFFSET " + arg(f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var out []article.Article
	for rows.Next() {
		var a article.Article
		var category string
		err := rows.Scan(
			&a.ID, &a.Title, &a.Summary, &a.SourceURL, &a.Source, &a.Author,
			&a.AuthorDisplay, &a.PublishedAt, &a.ImageURL, &category,
			&a.What, &a.Impact, &a.Takeaways, &a.WhyThisMatters,
		)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Category = article.Category(category)
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecentArticles implements the secondary adapter's read surface.
func (s *Store) RecentArticles(ctx context.Context, category article.Category, limit int) ([]article.Article, error) {
	return s.Query(ctx, Filter{Category: category, Limit: limit})
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
