// Package httpapi assembles the HTTP surface: middleware chain, health and
// metrics endpoints, and the versioned API routes. Business logic stays in
// the module services; this package only wires them together.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityhandler "tatami/internal/identity/handler"
	participanthandler "tatami/internal/participant/handler"
	"tatami/internal/platform/metrics"
	"tatami/pkg/platform/httputil"
	"tatami/pkg/platform/middleware/auth"
	"tatami/pkg/platform/middleware/metadata"
	"tatami/pkg/platform/middleware/request"
	"tatami/pkg/platform/middleware/requesttime"
	"tatami/pkg/requestcontext"
)

// Deps carries everything the router mounts. A nil Validator leaves the API
// routes open, which the tests rely on.
type Deps struct {
	Identity    *identityhandler.Handler
	Participant *participanthandler.Handler
	Validator   auth.TokenValidator
	Logger      *slog.Logger
	HTTPMetrics *metrics.HTTP
}

// NewRouter builds the full router with the standard middleware chain.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware)
	}
	r.Use(accessLog(d.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if d.Validator != nil {
			r.Use(auth.RequireAuth(d.Validator, d.Logger))
		}
		d.Identity.Register(r)
		d.Participant.Register(r)
	})

	return r
}

// accessLog emits one structured line per request after it completes.
func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			ctx := r.Context()
			logger.InfoContext(ctx, "http request",
				"request_id", requestcontext.RequestID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", metadata.GetClientIP(ctx),
				"user_agent", metadata.GetUserAgent(ctx),
			)
		})
	}
}
