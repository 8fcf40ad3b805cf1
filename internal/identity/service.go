package identity

import (
	"context"
	"errors"

	identitymetrics "tatami/internal/identity/metrics"
	"tatami/internal/identity/normalize"
	"tatami/internal/identity/similarity"
	"tatami/internal/participant/models"
	dErrors "tatami/pkg/domain-errors"
	"tatami/pkg/platform/sentinel"
)

// CandidateLookup is the read-only slice of the participant store the
// resolver depends on. Implementations return sentinel.ErrNotFound from
// FindByEmail when no record matches; any other error is treated as a lookup
// failure and surfaced to the caller unchanged.
type CandidateLookup interface {
	FindByEmail(ctx context.Context, normalizedEmail string) (*models.Participant, error)
	ListByBirthDate(ctx context.Context, birthDate string) ([]*models.Participant, error)
	CountByEmail(ctx context.Context, normalizedEmail string) (int, error)
}

// SingleMatchPolicy decides what to do when exactly one fuzzy candidate
// clears the threshold.
type SingleMatchPolicy string

const (
	// SingleMatchAutoAccept treats a lone strong fuzzy match as confident
	// identity and resolves to it without human confirmation. This is the
	// original behavior.
	SingleMatchAutoAccept SingleMatchPolicy = "auto_accept"
	// SingleMatchAlwaysAsk routes even a lone fuzzy match through human
	// review as an ambiguous result.
	SingleMatchAlwaysAsk SingleMatchPolicy = "always_ask"
)

// Service resolves registrants against the participant store. It is
// stateless and read-only: concurrent resolutions need no coordination, and
// a failure at any stage leaves nothing to roll back.
type Service struct {
	lookup    CandidateLookup
	threshold float64
	policy    SingleMatchPolicy
	metrics   *identitymetrics.Metrics
}

type serviceConfig struct {
	threshold float64
	policy    SingleMatchPolicy
	metrics   *identitymetrics.Metrics
}

// Option configures the resolution service.
type Option func(*serviceConfig)

// WithThreshold overrides the name similarity acceptance threshold.
func WithThreshold(threshold float64) Option {
	return func(cfg *serviceConfig) { cfg.threshold = threshold }
}

// WithSingleMatchPolicy overrides the lone-fuzzy-candidate policy.
func WithSingleMatchPolicy(policy SingleMatchPolicy) Option {
	return func(cfg *serviceConfig) { cfg.policy = policy }
}

// WithMetrics attaches resolution metrics.
func WithMetrics(m *identitymetrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

// NewService constructs the resolver over a candidate lookup.
func NewService(lookup CandidateLookup, opts ...Option) *Service {
	cfg := &serviceConfig{
		threshold: similarity.DefaultNameMatchThreshold,
		policy:    SingleMatchAutoAccept,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Service{
		lookup:    lookup,
		threshold: cfg.threshold,
		policy:    cfg.policy,
		metrics:   cfg.metrics,
	}
}

// Resolve classifies a registrant against the participant store.
//
// Stages run in order and short-circuit: an exact-email hit is terminal
// (exact or email_conflict), otherwise the registrant is compared against
// all participants sharing its birth date, first for exact normalized-name
// equality, then for fuzzy name similarity above the threshold.
func (s *Service) Resolve(ctx context.Context, registrant Registrant) (*Resolution, error) {
	normEmail := normalize.Email(registrant.Email)
	normFirst := normalize.Name(registrant.FirstName)
	normLast := normalize.Name(registrant.LastName)

	stored, err := s.lookup.FindByEmail(ctx, normEmail)
	switch {
	case err == nil:
		return s.finish(s.classifyEmailHit(registrant, stored, normFirst, normLast)), nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "lookup participant by email")
	}

	peers, err := s.lookup.ListByBirthDate(ctx, registrant.BirthDate)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "lookup participants by birth date")
	}

	if match := findExactName(peers, normFirst, normLast); match != nil {
		return s.finish(&Resolution{
			Classification: ClassificationExact,
			ExistingID:     match.ID,
		}), nil
	}

	return s.finish(s.classifyFuzzy(peers, normFirst, normLast)), nil
}

// classifyEmailHit applies the identity check to an exact email match: same
// birth date and both names above the threshold confirm the registrant is
// the stored participant; anything else is an email conflict.
func (s *Service) classifyEmailHit(registrant Registrant, stored *models.Participant, normFirst, normLast string) *Resolution {
	sameBirth := stored.BirthDate == registrant.BirthDate
	firstScore := similarity.Score(normFirst, normalize.Name(stored.FirstName))
	lastScore := similarity.Score(normLast, normalize.Name(stored.LastName))

	if sameBirth && firstScore > s.threshold && lastScore > s.threshold {
		return &Resolution{
			Classification: ClassificationExact,
			ExistingID:     stored.ID,
		}
	}
	return &Resolution{
		Classification: ClassificationEmailConflict,
		Conflict:       stored,
	}
}

func findExactName(peers []*models.Participant, normFirst, normLast string) *models.Participant {
	for _, p := range peers {
		if normalize.Name(p.FirstName) == normFirst && normalize.Name(p.LastName) == normLast {
			return p
		}
	}
	return nil
}

func (s *Service) classifyFuzzy(peers []*models.Participant, normFirst, normLast string) *Resolution {
	var candidates []MatchCandidate
	for _, p := range peers {
		firstScore := similarity.Score(normFirst, normalize.Name(p.FirstName))
		lastScore := similarity.Score(normLast, normalize.Name(p.LastName))
		if firstScore > s.threshold && lastScore > s.threshold {
			candidates = append(candidates, MatchCandidate{
				Participant: p,
				FirstScore:  firstScore,
				LastScore:   lastScore,
			})
		}
	}

	switch {
	case len(candidates) == 0:
		return &Resolution{Classification: ClassificationNone}
	case len(candidates) == 1 && s.policy == SingleMatchAutoAccept:
		return &Resolution{
			Classification: ClassificationExact,
			ExistingID:     candidates[0].Participant.ID,
			Candidates:     candidates,
		}
	default:
		// Multiple plausible matches (or a lone one under always-ask) are
		// never auto-picked; a human decides.
		return &Resolution{
			Classification: ClassificationAmbiguous,
			Candidates:     candidates,
		}
	}
}

// IsEmailTaken reports whether any stored participant already uses the email.
// Email identity is exact-or-nothing; no fuzzy matching is involved.
func (s *Service) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	count, err := s.lookup.CountByEmail(ctx, normalize.Email(email))
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "count participants by email")
	}
	return count > 0, nil
}

func (s *Service) finish(res *Resolution) *Resolution {
	if s.metrics != nil {
		s.metrics.IncrementResolution(string(res.Classification))
	}
	return res
}
