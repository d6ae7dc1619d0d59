// README: Prometheus registry for HTTP and scoring metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"valora/internal/modules/scoring"
)

// Registry owns its own prometheus registry so tests can build many of them.
type Registry struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	scoringDuration *prometheus.HistogramVec
	unitsScored     *prometheus.CounterVec
	candidateSets   *prometheus.HistogramVec
}

func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valora_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "valora_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		scoringDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "valora_scoring_duration_seconds",
				Help:    "Time spent scoring one candidate set",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"variant"},
		),
		unitsScored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valora_units_scored_total",
				Help: "Candidate units scored",
			},
			[]string{"variant"},
		),
		candidateSets: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "valora_candidate_set_size",
				Help:    "Number of candidate units per scoring request",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
			},
			[]string{"variant"},
		),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requests,
		r.requestDuration,
		r.scoringDuration,
		r.unitsScored,
		r.candidateSets,
	)
	return r
}

// ObserveScoring implements scoring.Observer.
func (r *Registry) ObserveScoring(v scoring.Variant, units int, elapsed time.Duration) {
	variant := string(v)
	r.scoringDuration.WithLabelValues(variant).Observe(elapsed.Seconds())
	r.unitsScored.WithLabelValues(variant).Add(float64(units))
	r.candidateSets.WithLabelValues(variant).Observe(float64(units))
}

func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
