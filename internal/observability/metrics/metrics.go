package metrics

import "github.com/prometheus/client_golang/prometheus"

// AgentMetrics exposes counters for the message and booking flows.
type AgentMetrics struct {
	inboundTotal   *prometheus.CounterVec
	bookingsTotal  *prometheus.CounterVec
	retriesTotal   *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
}

func NewAgentMetrics(reg prometheus.Registerer) *AgentMetrics {
	m := &AgentMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookline",
			Subsystem: "messaging",
			Name:      "inbound_total",
			Help:      "Total inbound WhatsApp messages",
		}, []string{"kind", "language"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookline",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookline",
			Subsystem: "booking",
			Name:      "retries_total",
			Help:      "Total booking retries by reason",
		}, []string{"reason"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bookline",
			Subsystem: "messaging",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.bookingsTotal, m.retriesTotal, m.webhookLatency)
	return m
}

func (m *AgentMetrics) ObserveInbound(kind, language string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind, language).Inc()
}

func (m *AgentMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *AgentMetrics) ObserveRetry(reason string) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(reason).Inc()
}

func (m *AgentMetrics) ObserveWebhookLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(kind).Observe(seconds)
}
