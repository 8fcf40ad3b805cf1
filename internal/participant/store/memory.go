package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tatami/internal/participant/models"
	id "tatami/pkg/domain"
	"tatami/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded participant store for unit tests and local
// development. Emails are unique; lookups by email expect the normalized
// form, which is how records are stored.
type InMemory struct {
	mu           sync.RWMutex
	participants map[id.ParticipantID]models.Participant
	byEmail      map[string]id.ParticipantID
}

// NewInMemory creates an empty in-memory participant store.
func NewInMemory() *InMemory {
	return &InMemory{
		participants: make(map[id.ParticipantID]models.Participant),
		byEmail:      make(map[string]id.ParticipantID),
	}
}

// Create inserts a participant. Returns sentinel.ErrConflict when the email
// is already in use.
func (s *InMemory) Create(_ context.Context, p *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[p.Email]; taken {
		return sentinel.ErrConflict
	}
	s.participants[p.ID] = *p
	s.byEmail[p.Email] = p.ID
	return nil
}

// FindByID retrieves a participant by ID.
func (s *InMemory) FindByID(_ context.Context, pid id.ParticipantID) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[pid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

// FindByEmail retrieves the participant whose stored email exactly matches
// the normalized email. Returns sentinel.ErrNotFound when no record matches.
func (s *InMemory) FindByEmail(_ context.Context, normalizedEmail string) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, ok := s.byEmail[normalizedEmail]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	p := s.participants[pid]
	return &p, nil
}

// ListByBirthDate returns all participants sharing the exact birth date.
// Order is not significant to callers.
func (s *InMemory) ListByBirthDate(_ context.Context, birthDate string) ([]*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Participant
	for _, p := range s.participants {
		if p.BirthDate == birthDate {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

// CountByEmail returns how many participants use the normalized email.
// With the uniqueness constraint this is 0 or 1.
func (s *InMemory) CountByEmail(_ context.Context, normalizedEmail string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.byEmail[normalizedEmail]; ok {
		return 1, nil
	}
	return 0, nil
}

// List returns all participants ordered by last name, then first name.
func (s *InMemory) List(_ context.Context) ([]*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := strings.Compare(out[i].LastName, out[j].LastName); c != 0 {
			return c < 0
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

// Delete removes a participant by ID.
func (s *InMemory) Delete(_ context.Context, pid id.ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[pid]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byEmail, p.Email)
	delete(s.participants, pid)
	return nil
}
