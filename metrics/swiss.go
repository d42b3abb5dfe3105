package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "swiss"

// SwissMetrics counts what the pairing service does. A nil *SwissMetrics is
// valid and records nothing.
type SwissMetrics struct {
	roundsPaired    prometheus.Counter
	pairingFailures *prometheus.CounterVec
	byesAssigned    prometheus.Counter
	matchesReported *prometheus.CounterVec
	boardsPerRound  prometheus.Histogram
}

func NewSwissMetrics(reg prometheus.Registerer) *SwissMetrics {
	factory := promauto.With(reg)
	return &SwissMetrics{
		roundsPaired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_paired_total",
			Help:      "Rounds for which pairings were generated.",
		}),
		pairingFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairing_failures_total",
			Help:      "Pairing requests that failed, by reason.",
		}, []string{"reason"}),
		byesAssigned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "byes_assigned_total",
			Help:      "Byes credited to players.",
		}),
		matchesReported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_reported_total",
			Help:      "Match results recorded, by outcome.",
		}, []string{"outcome"}),
		boardsPerRound: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "boards_per_round",
			Help:      "Number of pairings generated per round.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
		}),
	}
}

func (m *SwissMetrics) RoundPaired(boards int) {
	if m == nil {
		return
	}
	m.roundsPaired.Inc()
	m.boardsPerRound.Observe(float64(boards))
}

func (m *SwissMetrics) PairingFailed(reason string) {
	if m == nil {
		return
	}
	m.pairingFailures.WithLabelValues(reason).Inc()
}

func (m *SwissMetrics) ByeAssigned() {
	if m == nil {
		return
	}
	m.byesAssigned.Inc()
}

func (m *SwissMetrics) MatchReported(draw bool) {
	if m == nil {
		return
	}
	outcome := "decisive"
	if draw {
		outcome = "draw"
	}
	m.matchesReported.WithLabelValues(outcome).Inc()
}
