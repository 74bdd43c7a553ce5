package observability

import (
	"net/http"

	"prepwise-service/internal/call"
	xerrors "prepwise-service/internal/pkg/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ActiveCalls     prometheus.Gauge
	CallTransitions *prometheus.CounterVec
	CallNotices     *prometheus.CounterVec
	FeedbackResults *prometheus.CounterVec
	SignInsRejected prometheus.Counter

	namespace string
	factory   promauto.Factory
	gatherer  prometheus.Gatherer
}

// NewMetrics registers the instruments with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	factory := promauto.With(registerer)

	return &Metrics{
		ActiveCalls: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_calls",
			Help:      "Number of voice calls currently in the ACTIVE state.",
		}),
		CallTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "call_transitions_total",
			Help:      "Call status transitions by mode and target status.",
		}, []string{"mode", "from", "to"}),
		CallNotices: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "call_notices_total",
			Help:      "User-visible call notifications by mode and error kind.",
		}, []string{"mode", "kind"}),
		FeedbackResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_results_total",
			Help:      "Feedback submissions by outcome.",
		}, []string{"outcome"}),
		SignInsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signins_rejected_total",
			Help:      "Sign-in attempts rejected for bad credentials or rate limiting.",
		}),
		namespace: namespace,
		factory:   factory,
		gatherer:  gatherer,
	}
}

// CallTransition implements call.Observer.
func (m *Metrics) CallTransition(mode call.Mode, from, to call.Status) {
	m.CallTransitions.WithLabelValues(string(mode), string(from), string(to)).Inc()
	if to == call.StatusActive {
		m.ActiveCalls.Inc()
	}
	if from == call.StatusActive {
		m.ActiveCalls.Dec()
	}
}

// CallNotice implements call.Observer.
func (m *Metrics) CallNotice(mode call.Mode, kind xerrors.Kind) {
	m.CallNotices.WithLabelValues(string(mode), string(kind)).Inc()
}

// FeedbackResult implements feedback.Recorder.
func (m *Metrics) FeedbackResult(outcome string) {
	m.FeedbackResults.WithLabelValues(outcome).Inc()
}

// TrackConnections exposes a live connection count, e.g. the websocket hub's.
func (m *Metrics) TrackConnections(count func() int) {
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "ws_connections",
		Help:      "Open call relay websocket connections.",
	}, func() float64 { return float64(count()) })
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
