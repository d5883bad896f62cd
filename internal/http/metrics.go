package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Dominio
	resolutionsTotal  *prometheus.CounterVec
	accessChecksTotal *prometheus.CounterVec
)

// RegisterMetrics inicializa las métricas y devuelve el handler para /metrics.
// Idempotente: registries de test pueden pasar uno propio.
func RegisterMetrics(reg prometheus.Registerer) http.Handler {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		resolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "groupgate_resolutions_total",
			Help: "Resoluciones de scope por tipo y path de entrada",
		}, []string{"kind", "path", "outcome"}) // kind: read|write; path: explicit|ambient; outcome: resolved|degraded

		accessChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "groupgate_access_checks_total",
			Help: "Chequeos de acceso del Controller por decisión",
		}, []string{"decision"}) // granted | denied | token_invalid | group_not_found

		reg.MustRegister(httpRequestsTotal, httpRequestDuration, resolutionsTotal, accessChecksTotal)
	})

	return promhttp.Handler()
}

// ObserveRequest registra una request completada.
func ObserveRequest(method, path string, status int, dur time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(dur.Seconds())
}

// CountResolution registra una resolución de scope.
func CountResolution(kind, path, outcome string) {
	if resolutionsTotal == nil {
		return
	}
	resolutionsTotal.WithLabelValues(kind, path, outcome).Inc()
}

// CountAccessCheck registra la decisión de un chequeo de acceso.
func CountAccessCheck(decision string) {
	if accessChecksTotal == nil {
		return
	}
	accessChecksTotal.WithLabelValues(decision).Inc()
}

func statusLabel(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
