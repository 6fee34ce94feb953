package statemachine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransitionsTotal tracks state transitions by resulting tactic.
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molbhav_statemachine_transitions_total",
			Help: "Total number of negotiation round transitions, by tactic",
		},
		[]string{"tactic"},
	)

	// TerminalsTotal tracks sessions reaching a terminal state, by state.
	TerminalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molbhav_statemachine_terminals_total",
			Help: "Total number of sessions reaching a terminal state",
		},
		[]string{"state"},
	)
)

// RecordTransition updates the transition and terminal counters for out.
func RecordTransition(out Output) {
	TransitionsTotal.WithLabelValues(string(out.Tactic)).Inc()
	if out.NextState.IsTerminal() {
		TerminalsTotal.WithLabelValues(string(out.NextState)).Inc()
	}
}
