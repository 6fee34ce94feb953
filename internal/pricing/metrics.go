package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CandidatesComputedTotal tracks counter-offer candidates computed.
	CandidatesComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_pricing_candidates_computed_total",
		Help: "Total number of counter-offer candidates computed",
	})

	// ZOPAAcceptedTotal tracks offers accepted via the ZOPA predicate.
	ZOPAAcceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_pricing_zopa_accepted_total",
		Help: "Total number of buyer offers accepted by the ZOPA predicate",
	})

	// ValidatorOverridesTotal tracks Validator clamp interventions by reason.
	ValidatorOverridesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molbhav_pricing_validator_overrides_total",
			Help: "Total number of Validator clamp interventions, by reason",
		},
		[]string{"reason"},
	)

	// ValidatorRejectedTotal tracks candidates rejected outright (non-finite).
	ValidatorRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_pricing_validator_rejected_total",
		Help: "Total number of candidate prices rejected as non-finite or non-positive",
	})
)
