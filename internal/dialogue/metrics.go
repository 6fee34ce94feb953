package dialogue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DialogueErrorsTotal tracks provider call failures.
	DialogueErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_dialogue_provider_errors_total",
		Help: "Total number of dialogue provider call errors",
	})

	// RegenerationsTotal tracks regeneration attempts triggered by a
	// price-contradicting model response.
	RegenerationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molbhav_dialogue_regenerations_total",
		Help: "Total number of dialogue regenerations triggered by price contradiction",
	})

	// FallbacksTotal tracks how often the deterministic template is used,
	// split by whether it was a genuine fallback.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molbhav_dialogue_fallbacks_total",
			Help: "Total number of dialogue generations, by whether the deterministic template fallback was used",
		},
		[]string{"fallback"},
	)
)
