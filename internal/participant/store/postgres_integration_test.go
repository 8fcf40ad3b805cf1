//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tatami/internal/participant/models"
	"tatami/internal/participant/store"
	id "tatami/pkg/domain"
	"tatami/pkg/platform/sentinel"
	"tatami/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	_, err := s.postgres.DB.ExecContext(context.Background(), store.Schema)
	s.Require().NoError(err)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "participants")
	s.Require().NoError(err)
}

func newTestParticipant(first, last, birthDate, email string) *models.Participant {
	return &models.Participant{
		ID:        id.NewParticipantID(),
		FirstName: first,
		LastName:  last,
		BirthDate: birthDate,
		Email:     email,
		Club:      "JC Lyon",
		Weight:    81,
		Grade:     "1st dan",
		CreatedAt: time.Now().UTC(),
	}
}

// TestRoundTrip verifies participants survive storage with the date-only
// birth date form intact.
func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	p := newTestParticipant("Élodie", "Martin", "1995-11-23", "elodie@x.com")
	s.Require().NoError(s.store.Create(ctx, p))

	found, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Élodie", found.FirstName)
	s.Equal("1995-11-23", found.BirthDate)

	byEmail, err := s.store.FindByEmail(ctx, "elodie@x.com")
	s.Require().NoError(err)
	s.Equal(p.ID, byEmail.ID)

	_, err = s.store.FindByEmail(ctx, "nobody@x.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestBirthDateScan verifies the birth-date listing the resolver depends on.
func (s *PostgresStoreSuite) TestBirthDateScan() {
	ctx := context.Background()
	a := newTestParticipant("Jean", "Dupont", "1990-05-01", "a@x.com")
	b := newTestParticipant("Jeanne", "Dupond", "1990-05-01", "b@x.com")
	c := newTestParticipant("Marc", "Lavoine", "1980-02-02", "c@x.com")
	for _, p := range []*models.Participant{a, b, c} {
		s.Require().NoError(s.store.Create(ctx, p))
	}

	peers, err := s.store.ListByBirthDate(ctx, "1990-05-01")
	s.Require().NoError(err)
	s.Len(peers, 2)

	count, err := s.store.CountByEmail(ctx, "a@x.com")
	s.Require().NoError(err)
	s.Equal(1, count)
}

// TestConcurrentEmailUniqueness verifies that concurrent creation attempts
// with the same email result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentEmailUniqueness() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			p := newTestParticipant("Jean", "Dupont", "1990-05-01", "race@x.com")
			err := s.store.Create(ctx, p)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

// TestDelete verifies removal semantics.
func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	p := newTestParticipant("Jean", "Dupont", "1990-05-01", "jean@x.com")
	s.Require().NoError(s.store.Create(ctx, p))

	s.Require().NoError(s.store.Delete(ctx, p.ID))
	s.Require().ErrorIs(s.store.Delete(ctx, p.ID), sentinel.ErrNotFound)
}
