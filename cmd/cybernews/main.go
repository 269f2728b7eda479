package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/cache"
	"github.com/deusflow/cybernews/internal/config"
	"github.com/deusflow/cybernews/internal/feeds"
	"github.com/deusflow/cybernews/internal/llm"
	"github.com/deusflow/cybernews/internal/logger"
	"github.com/deusflow/cybernews/internal/normalize"
	"github.com/deusflow/cybernews/internal/pipeline"
	"github.com/deusflow/cybernews/internal/retry"
	"github.com/deusflow/cybernews/internal/rewrite"
	"github.com/deusflow/cybernews/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.AppEnv)

	if cfg.MonitoringEnabled {
		go startMonitoringServer(cfg.MonitoringPort, log)
	}

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	category := article.Category(cfg.Category)
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", cfg.Category)
	}

	llmClient, err := llm.New(cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("llm init failed, running on fallbacks")
		llmClient = llm.Disabled()
	}

	var store *storage.Store
	if cfg.PostgresDSN != "" {
		retryCfg := retry.Config{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay}
		store, err = storage.New(ctx, cfg.PostgresDSN, retryCfg, log)
		if err != nil {
			log.Warn().Err(err).Msg("storage unavailable, continuing without persistence")
			store = nil
		} else {
			defer store.Close()
		}
	}

	feedURLs, err := config.LoadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.FeedsConfigPath).Msg("feeds config missing, rss adapter runs empty")
	}

	// Adapter order decides which duplicate survives dedup.
	var reader feeds.ArticleReader
	if store != nil {
		reader = store
	}
	adapters := []feeds.Adapter{
		feeds.NewStructuredFeed(cfg, log),
		feeds.NewRSSFeed(feedURLs, cfg, log),
		feeds.NewSecondaryFeed(reader, cfg.SecondaryLimit, log),
	}

	normalizer := normalize.New(llmClient, log)
	rewriter := rewrite.NewRewriter(llmClient, cache.New(cfg.RewriteCacheTTL), cfg.ChunkBudget, cfg.LLMTimeout, log)

	orchestrator := pipeline.New(adapters, normalizer, rewriter, log)
	articles := orchestrator.Run(ctx, category)

	if store != nil {
		if err := store.SaveArticles(ctx, articles); err != nil {
			log.Error().Err(err).Msg("persisting run failed")
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(articles)
}

func startMonitoringServer(port int, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("monitoring server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("monitoring server stopped")
	}
}
