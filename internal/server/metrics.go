package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geokit_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geokit_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	RejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geokit_rejected_total",
		Help: "Total number of operations that returned no result for their input",
	}, []string{"op"})
	PreviewCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geokit_preview_cache_total",
		Help: "Shared preview cache lookups by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(RequestsTotal, RequestDurationMs, RejectedTotal, PreviewCacheTotal)
}

// MetricsHandler exposes registered metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
