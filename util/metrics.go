package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	eventsReceivedCounter    prometheus.Counter
	eventsRejectedCounter    prometheus.Counter
	recommendationsCounter   prometheus.Counter
	solverErrorCounter       prometheus.Counter
	staleSolveDroppedCounter prometheus.Counter
	handsScoredCounter       prometheus.Counter
	tricksCompletedGauge     prometheus.Gauge
}

func (m *metrics) EventReceived() {
	m.eventsReceivedCounter.Inc()
}

func (m *metrics) EventRejected() {
	m.eventsRejectedCounter.Inc()
}

func (m *metrics) RecommendationServed() {
	m.recommendationsCounter.Inc()
}

func (m *metrics) SolverError() {
	m.solverErrorCounter.Inc()
}

func (m *metrics) StaleSolveDropped() {
	m.staleSolveDroppedCounter.Inc()
}

func (m *metrics) HandScored() {
	m.handsScoredCounter.Inc()
}

func (m *metrics) SetTricksCompleted(count int) {
	m.tricksCompletedGauge.Set(float64(count))
}

var Metrics = &metrics{
	eventsReceivedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_events_received_total",
		Help: "Total number of table events received",
	}),
	eventsRejectedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_events_rejected_total",
		Help: "Total number of table events rejected as illegal or ambiguous",
	}),
	recommendationsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "recommendations_served_total",
		Help: "Total number of card-play recommendations computed",
	}),
	solverErrorCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "solver_errors_total",
		Help: "Total number of double-dummy solver failures recovered by fallback",
	}),
	staleSolveDroppedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "stale_solver_results_dropped_total",
		Help: "Total number of solver results discarded because the deal advanced",
	}),
	handsScoredCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hands_scored_total",
		Help: "Total number of hand results applied to the rubber score",
	}),
	tricksCompletedGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "current_deal_tricks_completed",
		Help: "Number of completed tricks in the current deal",
	}),
}
