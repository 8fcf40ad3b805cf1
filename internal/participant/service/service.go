// Package service orchestrates participant lifecycle operations over the
// participant store.
package service

import (
	"context"

	"tatami/internal/identity/normalize"
	participantmetrics "tatami/internal/participant/metrics"
	"tatami/internal/participant/models"
	id "tatami/pkg/domain"
	dErrors "tatami/pkg/domain-errors"
	"tatami/pkg/platform/sentinel"
	"tatami/pkg/requestcontext"
)

// Store is the participant persistence the service depends on. Both the
// in-memory and PostgreSQL stores satisfy it.
type Store interface {
	Create(ctx context.Context, p *models.Participant) error
	FindByID(ctx context.Context, pid id.ParticipantID) (*models.Participant, error)
	CountByEmail(ctx context.Context, normalizedEmail string) (int, error)
	List(ctx context.Context) ([]*models.Participant, error)
	Delete(ctx context.Context, pid id.ParticipantID) error
}

// CreateParticipant carries the raw fields of a participant to create.
type CreateParticipant struct {
	FirstName string
	LastName  string
	BirthDate string
	Email     string
	Club      string
	Weight    float64
	Grade     string
}

// Service manages participant records.
type Service struct {
	store   Store
	metrics *participantmetrics.Metrics
}

// Option configures the participant service.
type Option func(*Service)

// WithMetrics attaches participant metrics.
func WithMetrics(m *participantmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the participant service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and inserts a new participant. The email must be free;
// duplicate submissions race against the store's uniqueness constraint, so a
// conflict can surface from either the pre-check or the insert.
func (s *Service) Create(ctx context.Context, input CreateParticipant) (*models.Participant, error) {
	count, err := s.store.CountByEmail(ctx, normalize.Email(input.Email))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "count participants by email")
	}
	if count > 0 {
		return nil, dErrors.New(dErrors.CodeConflict, "email already in use")
	}

	p, err := models.New(
		id.NewParticipantID(),
		input.FirstName, input.LastName, input.BirthDate, input.Email,
		input.Club, input.Weight, input.Grade,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, p); err != nil {
		if dErrors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create participant")
	}

	if s.metrics != nil {
		s.metrics.IncrementParticipantCreated()
	}
	return p, nil
}

// Get retrieves a participant by ID.
func (s *Service) Get(ctx context.Context, pid id.ParticipantID) (*models.Participant, error) {
	p, err := s.store.FindByID(ctx, pid)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "participant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load participant")
	}
	return p, nil
}

// List returns all participants ordered by last name.
func (s *Service) List(ctx context.Context) ([]*models.Participant, error) {
	participants, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list participants")
	}
	return participants, nil
}

// Delete removes a participant by ID.
func (s *Service) Delete(ctx context.Context, pid id.ParticipantID) error {
	if err := s.store.Delete(ctx, pid); err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "participant not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete participant")
	}
	return nil
}
