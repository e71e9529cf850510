package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the publisher's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	ticks       prometheus.Counter
	status      *prometheus.GaugeVec
	subscribers prometheus.Gauge
	published   prometheus.Counter
	delivered   prometheus.Counter
	dropped     prometheus.Counter
}

// Statuses reported by the status gauge.
var statusLabels = []string{"RUN", "IDLE", "FAULT"}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "electrolyzer_sim_ticks_total",
			Help: "Simulation ticks executed.",
		}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "electrolyzer_sim_status",
			Help: "Current operating status (1 for the active status).",
		}, []string{"status"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "electrolyzer_stream_subscribers",
			Help: "Live stream subscribers.",
		}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "electrolyzer_stream_events_published_total",
			Help: "Events handed to the broadcaster.",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "electrolyzer_stream_deliveries_total",
			Help: "Events enqueued to subscriber queues.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "electrolyzer_stream_subscribers_dropped_total",
			Help: "Subscribers removed after a failed enqueue.",
		}),
	}
	reg.MustRegister(m.ticks, m.status, m.subscribers, m.published, m.delivered, m.dropped)
	return m
}

// Tick records one simulation tick ending in status.
func (m *Metrics) Tick(status string) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	for _, s := range statusLabels {
		v := 0.0
		if s == status {
			v = 1
		}
		m.status.WithLabelValues(s).Set(v)
	}
}

// SetSubscribers records the current subscriber count.
func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}

// Published records one fan-out pass that reached delivered subscribers.
func (m *Metrics) Published(delivered int) {
	if m == nil {
		return
	}
	m.published.Inc()
	m.delivered.Add(float64(delivered))
}

// Dropped records subscribers removed after a failed enqueue.
func (m *Metrics) Dropped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.dropped.Add(float64(n))
}
