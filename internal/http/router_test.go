package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tatami/internal/identity"
	identityhandler "tatami/internal/identity/handler"
	participanthandler "tatami/internal/participant/handler"
	participantservice "tatami/internal/participant/service"
	"tatami/internal/participant/store"
	"tatami/internal/platform/token"
)

func newTestRouter(t *testing.T, validator *token.Service) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	participants := store.NewInMemory()

	identitySvc := identity.NewService(participants)
	participantSvc := participantservice.New(participants)

	deps := Deps{
		Identity:    identityhandler.New(identitySvc, logger, nil),
		Participant: participanthandler.New(participantSvc, logger),
		Logger:      logger,
	}
	if validator != nil {
		deps.Validator = validator
	}
	return NewRouter(deps)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", rec.Code)
	}
}

func TestRequestIDEcho(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "trace-me")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "trace-me" {
		t.Fatalf("expected inbound request id echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id on response")
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	tokens := token.NewService("test-key", "tatami", "tatami-api")
	router := newTestRouter(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/participants", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "unauthorized") {
		t.Fatalf("expected unauthorized error envelope, got %s", body)
	}

	tok, err := tokens.GenerateAccessToken("organizer@club.fr", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/participants", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
}

func TestHealthzSkipsAuth(t *testing.T) {
	tokens := token.NewService("test-key", "tatami", "tatami-api")
	router := newTestRouter(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected healthz to bypass auth, got %d", rec.Code)
	}
}
