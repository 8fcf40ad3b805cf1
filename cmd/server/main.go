package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	httpapi "tatami/internal/http"
	"tatami/internal/identity"
	identityhandler "tatami/internal/identity/handler"
	identitymetrics "tatami/internal/identity/metrics"
	participanthandler "tatami/internal/participant/handler"
	participantmetrics "tatami/internal/participant/metrics"
	participantservice "tatami/internal/participant/service"
	"tatami/internal/participant/store"
	"tatami/internal/platform/config"
	"tatami/internal/platform/httpserver"
	"tatami/internal/platform/logger"
	"tatami/internal/platform/metrics"
	"tatami/internal/platform/token"
)

// participantStore is what both services need from the storage layer. The
// in-memory and Postgres backends satisfy it.
type participantStore interface {
	participantservice.Store
	identity.CandidateLookup
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	participants, cleanup, err := newParticipantStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	idMetrics := identitymetrics.New()
	identitySvc := identity.NewService(participants,
		identity.WithThreshold(cfg.MatchThreshold),
		identity.WithSingleMatchPolicy(cfg.SingleMatchPolicy),
		identity.WithMetrics(idMetrics),
	)
	participantSvc := participantservice.New(participants,
		participantservice.WithMetrics(participantmetrics.New()),
	)

	tokens := token.NewService(cfg.JWTSigningKey, "tatami", "tatami-api")
	router := httpapi.NewRouter(httpapi.Deps{
		Identity:    identityhandler.New(identitySvc, log, idMetrics),
		Participant: participanthandler.New(participantSvc, log),
		Validator:   tokens,
		Logger:      log,
		HTTPMetrics: metrics.NewHTTP(),
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting tatami server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newParticipantStore picks the storage backend. With no DATABASE_URL the
// server runs on the in-memory store, which suits local development and
// small events.
func newParticipantStore(ctx context.Context, cfg config.Server, log *slog.Logger) (participantStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory participant store")
		return store.NewInMemory(), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	log.Info("connected to postgres")
	return store.NewPostgres(db), func() { _ = db.Close() }, nil
}
