package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/vkarpenko/authd/internal/obs"
)

type RouterOpts struct {
	Logger      *zap.Logger
	CORSOrigins []string
	Health      func(context.Context) error
}

// NewRouter wires the API surface plus /healthz and /metrics, wrapped
// in logging, metrics, CORS and tracing middleware.
func NewRouter(s *Server, o RouterOpts) http.Handler {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/v1/users/me", s.handleMe)
	mux.HandleFunc("GET /api/v1/whoami", s.handleWhoami)
	mux.HandleFunc("GET /api/v1/admin/users/{id}", s.handleAdminGetUser)

	mux.Handle("GET /metrics", obs.MetricsHandler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if o.Health != nil {
			hctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			if err := o.Health(hctx); err != nil {
				http.Error(w, "unhealthy: db", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var handler http.Handler = mux
	handler = requestLogger(log)(handler)
	handler = cors(o.CORSOrigins)(handler)
	return otelhttp.NewHandler(handler, "authd.http")
}
