// Package auth guards organizer-only endpoints with bearer token checks.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "tatami/pkg/domain-errors"
	"tatami/pkg/platform/httputil"
	"tatami/pkg/requestcontext"
)

// TokenValidator validates a bearer token and yields the authenticated
// subject.
type TokenValidator interface {
	ValidateSubject(tokenString string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token. On success the
// authenticated subject is stored in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			subject, err := validator.ValidateSubject(tokenString)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = requestcontext.WithSubject(ctx, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
