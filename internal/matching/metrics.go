package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_likes_total",
			Help: "Total number of likes by outcome",
		},
		[]string{"outcome"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_connections_total",
			Help: "Total number of mutual connections created",
		},
	)

	unmatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_unmatches_total",
			Help: "Total number of connections dissolved",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of total compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	suggestionBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_suggestion_batch_size",
			Help:    "Number of results returned per suggestions request",
			Buckets: prometheus.LinearBuckets(0, 5, 9),
		},
	)
)

func RecordLike(outcome string) {
	likesTotal.WithLabelValues(outcome).Inc()
}

func RecordMatch() {
	matchesTotal.Inc()
}

func RecordUnmatch() {
	unmatchesTotal.Inc()
}

func RecordCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}

func RecordSuggestionBatch(size int) {
	suggestionBatchSize.Observe(float64(size))
}
