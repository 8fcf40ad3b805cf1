package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tatami/internal/participant/models"
	"tatami/internal/participant/service"
	id "tatami/pkg/domain"
	"tatami/pkg/platform/httputil"
	"tatami/pkg/requestcontext"
)

// Service defines the interface for participant lifecycle operations.
type Service interface {
	Create(ctx context.Context, input service.CreateParticipant) (*models.Participant, error)
	Get(ctx context.Context, pid id.ParticipantID) (*models.Participant, error)
	List(ctx context.Context) ([]*models.Participant, error)
	Delete(ctx context.Context, pid id.ParticipantID) error
}

// Handler wires participant CRUD endpoints to the participant service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a participant handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts participant endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/participants", h.HandleCreate)
	r.Get("/participants", h.HandleList)
	r.Get("/participants/{participantID}", h.HandleGet)
	r.Delete("/participants/{participantID}", h.HandleDelete)
}

// HandleCreate handles POST /participants requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := h.service.Create(ctx, req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "participant creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "participant created",
		"request_id", requestID,
		"participant_id", p.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromParticipant(p))
}

// HandleGet handles GET /participants/{participantID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pid, err := id.ParseParticipantID(chi.URLParam(r, "participantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.service.Get(ctx, pid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromParticipant(p))
}

// HandleList handles GET /participants requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	participants, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromParticipants(participants))
}

// HandleDelete handles DELETE /participants/{participantID} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	pid, err := id.ParseParticipantID(chi.URLParam(r, "participantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, pid); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "participant deleted",
		"request_id", requestID,
		"participant_id", pid,
	)
	w.WriteHeader(http.StatusNoContent)
}
