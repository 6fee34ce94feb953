package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LockContentionTotal tracks failed lock acquisitions (already held).
	LockContentionTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_store_lock_contention_total",
		Help: "Total number of lock acquisition attempts that found the session already locked",
	})

	// DurableWritesTotal tracks durable-tier writes, by kind and outcome.
	DurableWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molbhav_store_durable_writes_total",
			Help: "Total number of durable-tier writes, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// RateLimitedTotal tracks session-start attempts rejected by rate limiting.
	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_store_rate_limited_total",
		Help: "Total number of session starts rejected by the per-IP rate limiter",
	})

	// WriteRetriesTotal tracks durable-write retry attempts, by operation.
	WriteRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molbhav_store_write_retries_total",
			Help: "Total number of durable-write retry attempts, by operation",
		},
		[]string{"op"},
	)

	// WriteExhaustedTotal tracks durable writes that exhausted all retry
	// attempts and surfaced an error to the caller.
	WriteExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molbhav_store_write_exhausted_total",
			Help: "Total number of durable writes that exhausted all retry attempts",
		},
		[]string{"op"},
	)
)
