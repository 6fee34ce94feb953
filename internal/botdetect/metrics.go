package botdetect

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScoresComputedTotal tracks bot-score evaluations performed.
	ScoresComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_botdetect_scores_computed_total",
		Help: "Total number of bot-score evaluations performed",
	})

	// CompositeScore tracks the distribution of computed composite scores.
	CompositeScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "molbhav_botdetect_composite_score",
		Help:    "Distribution of computed composite bot scores",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	// BlocksTotal tracks sessions force-terminated for bot-like behavior.
	BlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_botdetect_blocks_total",
		Help: "Total number of sessions blocked for bot-like behavior",
	})

	// SuspectRoundsTotal tracks rounds flagged suspect (beta inflated).
	SuspectRoundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_botdetect_suspect_rounds_total",
		Help: "Total number of rounds flagged suspect with inflated beta",
	})
)
