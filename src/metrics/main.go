package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts what happens to uploads and reads.
type Metrics interface {
	ObserveRequest(method, route, status string, durationSeconds float64)
	IncAdmission(kind, outcome string)
	IncRetrieval(kind, outcome string)
	ObserveUploadSize(kind string, bytes int64)
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) ObserveRequest(string, string, string, float64) {}
func (Noop) IncAdmission(string, string)                    {}
func (Noop) IncRetrieval(string, string)                    {}
func (Noop) ObserveUploadSize(string, int64)                {}

// Prom implements Metrics backed by its own Prometheus registry, so more
// than one instance can live in a process.
type Prom struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	admissions      *prometheus.CounterVec
	retrievals      *prometheus.CounterVec
	uploadBytes     *prometheus.HistogramVec
}

func NewProm(namespace string) *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admissions_total",
			Help:      "Uploads by media type and outcome",
		}, []string{"kind", "outcome"}),
		retrievals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrievals_total",
			Help:      "Lookups by media type and outcome",
		}, []string{"kind", "outcome"}),
		uploadBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_size_bytes",
			Help:      "Size of stored artifacts",
			Buckets:   prometheus.ExponentialBuckets(64<<10, 4, 8),
		}, []string{"kind"}),
	}
	p.registry.MustRegister(
		p.requestDuration,
		p.admissions,
		p.retrievals,
		p.uploadBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prom) ObserveRequest(method, route, status string, durationSeconds float64) {
	p.requestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
}

func (p *Prom) IncAdmission(kind, outcome string) {
	p.admissions.WithLabelValues(kind, outcome).Inc()
}

func (p *Prom) IncRetrieval(kind, outcome string) {
	p.retrievals.WithLabelValues(kind, outcome).Inc()
}

func (p *Prom) ObserveUploadSize(kind string, bytes int64) {
	p.uploadBytes.WithLabelValues(kind).Observe(float64(bytes))
}

// Handler exposes the registry for scraping.
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
