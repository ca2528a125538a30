package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lunarwatch"

// outcomes of one upstream call
const (
	OutcomeOK             = "ok"
	OutcomeNotFound       = "not_found"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeMalformed      = "malformed"
	OutcomeTransportError = "transport_error"
)

// Metrics keeps its own registry so several instances can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	JournalDropped   prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "NASA API calls by route and outcome.",
		}, []string{"route", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "NASA API call latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		JournalDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_dropped_total",
			Help:      "Upstream call journal rows dropped because the queue was full.",
		}),
	}

	reg.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.JournalDropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Observe(route, outcome string, d time.Duration) {
	m.UpstreamRequests.WithLabelValues(route, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Handler serves the /metrics page.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
