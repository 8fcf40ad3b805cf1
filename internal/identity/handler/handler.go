package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tatami/internal/identity"
	"tatami/internal/identity/metrics"
	"tatami/pkg/platform/httputil"
	"tatami/pkg/requestcontext"
)

// Service defines the interface for identity resolution operations.
type Service interface {
	Resolve(ctx context.Context, registrant identity.Registrant) (*identity.Resolution, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
}

// Handler wires identity-resolution endpoints to the resolver service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs an identity handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts identity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/participants/check", h.HandleCheck)
	r.Post("/participants/check-email", h.HandleCheckEmail)
}

// HandleCheck handles POST /participants/check requests.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Resolve(ctx, req.Registrant())
	if err != nil {
		h.logger.ErrorContext(ctx, "registrant resolution failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveResolve(start)
	}
	h.logger.InfoContext(ctx, "registrant resolved",
		"request_id", requestID,
		"classification", res.Classification,
		"candidates", len(res.Candidates),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResolution(res))
}

// HandleCheckEmail handles POST /participants/check-email requests. A taken
// email answers 409 so callers can treat it as a conflict without inspecting
// the body.
func (h *Handler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CheckEmailRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	taken, err := h.service.IsEmailTaken(ctx, req.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "email availability check failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if taken {
		status = http.StatusConflict
	}
	httputil.WriteJSON(w, status, CheckEmailResponse{Available: !taken})
}
