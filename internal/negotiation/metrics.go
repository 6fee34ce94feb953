package negotiation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsStartedTotal counts negotiation sessions opened.
	SessionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_negotiation_sessions_started_total",
		Help: "Total negotiation sessions opened.",
	})

	// OffersProcessedTotal counts buyer offers processed to a terminal or
	// non-terminal outcome, labeled by the resulting state.
	OffersProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "molbhav_negotiation_offers_processed_total",
		Help: "Total buyer offers processed, labeled by resulting state.",
	}, []string{"state"})

	// QuotesIssuedTotal counts signed quotes built for agreed sessions.
	QuotesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_negotiation_quotes_issued_total",
		Help: "Total signed quotes issued on agreement.",
	})

	// QuoteVerificationFailuresTotal counts quote verification failures,
	// labeled by reason (expired, signature_mismatch).
	QuoteVerificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "molbhav_negotiation_quote_verification_failures_total",
		Help: "Total quote verification failures, labeled by reason.",
	}, []string{"reason"})
)
