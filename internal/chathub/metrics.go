package chathub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the realtime counters. A nil *Metrics records nothing.
type Metrics struct {
	messagesPersisted prometheus.Counter
	sendsDropped      prometheus.Counter
	pushFailures      prometheus.Counter
	connections       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		messagesPersisted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dmchat",
			Name:      "messages_persisted_total",
			Help:      "Direct messages durably stored by the router.",
		}),
		sendsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dmchat",
			Name:      "sends_dropped_total",
			Help:      "Realtime sends silently dropped for blank text or a bad recipient.",
		}),
		pushFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dmchat",
			Name:      "push_failures_total",
			Help:      "Pushes to a live handle that failed and were swallowed.",
		}),
		connections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "dmchat",
			Name:      "live_connections",
			Help:      "Authenticated websocket connections currently registered.",
		}),
	}
}

func (m *Metrics) persisted() {
	if m != nil {
		m.messagesPersisted.Inc()
	}
}

func (m *Metrics) dropped() {
	if m != nil {
		m.sendsDropped.Inc()
	}
}

func (m *Metrics) pushFailed() {
	if m != nil {
		m.pushFailures.Inc()
	}
}

func (m *Metrics) connected(delta float64) {
	if m != nil {
		m.connections.Add(delta)
	}
}
