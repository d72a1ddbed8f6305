package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	enqueue(
		eventsHandledTotal,
		checkoutsTotal,
	)
}

var (
	eventsHandledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_events_handled_total",
			Help: "Inbound events by resolved state and outcome (ok/dropped).",
		},
		[]string{"state", "outcome"},
	)

	checkoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_checkouts_total",
			Help: "Completed checkouts (customer record created).",
		},
	)
)

func IncEventHandled(state, outcome string) {
	eventsHandledTotal.WithLabelValues(state, outcome).Inc()
}

func IncCheckout() {
	checkoutsTotal.Inc()
}
