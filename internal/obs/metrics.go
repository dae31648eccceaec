package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authd_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "authd_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	tokensIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authd_tokens_issued_total",
		Help: "Signed tokens handed out, by kind.",
	}, []string{"kind"})

	tokenRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authd_token_rejections_total",
		Help: "Token verifications that failed, by internal cause.",
	}, []string{"cause"})
)

func MetricsHandler() http.Handler { return promhttp.Handler() }

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func TokenIssued(kind string)    { tokensIssuedTotal.WithLabelValues(kind).Inc() }
func TokenRejected(cause string) { tokenRejectionsTotal.WithLabelValues(cause).Inc() }
