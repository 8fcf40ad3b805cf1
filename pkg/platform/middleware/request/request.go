// Package request assigns every inbound request a correlation ID. Handlers
// pull it from the context and include it in log lines so a single
// registration flow can be traced across services.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"tatami/pkg/requestcontext"
)

// HeaderName is the response header carrying the request ID back to clients.
const HeaderName = "X-Request-ID"

// Middleware honors an inbound X-Request-ID when present, otherwise mints a
// fresh UUID, and echoes the ID on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), id)
		w.Header().Set(HeaderName, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
