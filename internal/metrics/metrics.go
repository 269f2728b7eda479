// Package metrics exposes pipeline counters on the default prometheus
// registry; cmd/cybernews serves them on /metrics when monitoring is on.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ArticlesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cybernews_articles_ingested_total",
		Help: "Raw articles returned by each source adapter.",
	}, []string{"adapter"})

	AdapterFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cybernews_adapter_failures_total",
		Help: "Source adapter runs that reduced to an empty result.",
	}, []string{"adapter"})

	DuplicatesFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cybernews_duplicates_filtered_total",
		Help: "Articles dropped by cross-source deduplication.",
	})

	LLMFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cybernews_llm_failures_total",
		Help: "Model calls that fell back to deterministic output.",
	}, []string{"stage"})

	FallbackRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cybernews_fallback_runs_total",
		Help: "Pipeline runs that returned the deterministic fallback set.",
	})

	PipelineRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cybernews_pipeline_runs_total",
		Help: "Completed pipeline runs.",
	})

	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cybernews_pipeline_duration_seconds",
		Help:    "Wall time of a full pipeline run.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)
