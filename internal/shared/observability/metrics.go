package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ModelFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gradlens_model_fetch_seconds",
		Help:    "Time spent fetching one tooling model.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	ModelFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradlens_model_fetch_total",
		Help: "Total number of tooling model fetches by kind and outcome.",
	}, []string{"kind", "outcome"})

	ModulesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradlens_modules_resolved_total",
		Help: "Total number of modules processed by the orchestrator, by result.",
	}, []string{"result"})

	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gradlens_resolve_seconds",
		Help:    "End-to-end duration of one project resolve.",
		Buckets: prometheus.DefBuckets,
	})

	GraphItemsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradlens_graph_items_dropped_total",
		Help: "Dependency graph items dropped during decoding (unparseable or unmatched keys).",
	})

	DependenciesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradlens_dependencies_decoded_total",
		Help: "Typed dependency records emitted by the graph decoder.",
	}, []string{"kind"})
)
