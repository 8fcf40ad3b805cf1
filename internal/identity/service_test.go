package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tatami/internal/identity/similarity"
	"tatami/internal/participant/models"
	id "tatami/pkg/domain"
	dErrors "tatami/pkg/domain-errors"
	"tatami/pkg/platform/sentinel"
)

// stubLookup is a hand-rolled CandidateLookup so resolver tests run without
// a store and can simulate lookup failures per stage.
type stubLookup struct {
	byEmail     map[string]*models.Participant
	byBirthDate map[string][]*models.Participant
	emailErr    error
	birthErr    error
	countErr    error
}

func (s *stubLookup) FindByEmail(_ context.Context, email string) (*models.Participant, error) {
	if s.emailErr != nil {
		return nil, s.emailErr
	}
	if p, ok := s.byEmail[email]; ok {
		return p, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *stubLookup) ListByBirthDate(_ context.Context, birthDate string) ([]*models.Participant, error) {
	if s.birthErr != nil {
		return nil, s.birthErr
	}
	return s.byBirthDate[birthDate], nil
}

func (s *stubLookup) CountByEmail(_ context.Context, email string) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	if _, ok := s.byEmail[email]; ok {
		return 1, nil
	}
	return 0, nil
}

func newStored(first, last, birthDate, email string) *models.Participant {
	return &models.Participant{
		ID:        id.ParticipantID(uuid.New()),
		FirstName: first,
		LastName:  last,
		BirthDate: birthDate,
		Email:     email,
		Club:      "JC Test",
		Weight:    73,
		Grade:     "1st kyu",
		CreatedAt: time.Now(),
	}
}

func lookupWith(participants ...*models.Participant) *stubLookup {
	l := &stubLookup{
		byEmail:     make(map[string]*models.Participant),
		byBirthDate: make(map[string][]*models.Participant),
	}
	for _, p := range participants {
		l.byEmail[p.Email] = p
		l.byBirthDate[p.BirthDate] = append(l.byBirthDate[p.BirthDate], p)
	}
	return l
}

func TestResolveEmailStage(t *testing.T) {
	registrant := Registrant{
		FirstName: "Jean",
		LastName:  "Dupont",
		BirthDate: "1990-05-01",
		Email:     "jean@x.com",
	}

	t.Run("email, birth date, and names confirm identity", func(t *testing.T) {
		stored := newStored("Jéan", "Dupont", "1990-05-01", "jean@x.com")
		svc := NewService(lookupWith(stored))

		res, err := svc.Resolve(context.Background(), registrant)
		require.NoError(t, err)
		assert.Equal(t, ClassificationExact, res.Classification)
		assert.Equal(t, stored.ID, res.ExistingID)
	})

	t.Run("email is normalized before lookup", func(t *testing.T) {
		stored := newStored("Jean", "Dupont", "1990-05-01", "jean@x.com")
		svc := NewService(lookupWith(stored))

		shouted := registrant
		shouted.Email = "  JEAN@X.COM "
		res, err := svc.Resolve(context.Background(), shouted)
		require.NoError(t, err)
		assert.Equal(t, ClassificationExact, res.Classification)
	})

	t.Run("same email with different birth date is a conflict", func(t *testing.T) {
		stored := newStored("Jean", "Dupont", "1991-05-01", "jean@x.com")
		svc := NewService(lookupWith(stored))

		res, err := svc.Resolve(context.Background(), registrant)
		require.NoError(t, err)
		assert.Equal(t, ClassificationEmailConflict, res.Classification)
		require.NotNil(t, res.Conflict)
		assert.Equal(t, stored.ID, res.Conflict.ID)
		assert.True(t, res.ExistingID.IsNil())
	})

	t.Run("same email with a different name is a conflict", func(t *testing.T) {
		stored := newStored("Marc", "Lavoine", "1990-05-01", "jean@x.com")
		svc := NewService(lookupWith(stored))

		res, err := svc.Resolve(context.Background(), registrant)
		require.NoError(t, err)
		assert.Equal(t, ClassificationEmailConflict, res.Classification)
	})

	t.Run("email conflict is terminal even with an exact birth-date twin", func(t *testing.T) {
		conflicting := newStored("Marc", "Lavoine", "1985-01-01", "jean@x.com")
		twin := newStored("Jean", "Dupont", "1990-05-01", "other@x.com")
		svc := NewService(lookupWith(conflicting, twin))

		res, err := svc.Resolve(context.Background(), registrant)
		require.NoError(t, err)
		assert.Equal(t, ClassificationEmailConflict, res.Classification)
	})

	t.Run("email lookup failure propagates", func(t *testing.T) {
		svc := NewService(&stubLookup{emailErr: errors.New("connection refused")})

		_, err := svc.Resolve(context.Background(), registrant)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func TestResolveBirthDateStage(t *testing.T) {
	registrant := Registrant{
		FirstName: "Jean",
		LastName:  "Dupont",
		BirthDate: "1990-05-01",
		Email:     "jean@x.com",
	}

	t.Run("exact normalized names on shared birth date", func(t *testing.T) {
		// Stored email differs, so the email stage finds nothing and the
		// birth-date scan resolves on normalized name equality.
		stored := newStored("JÉAN", "dupont ", "1990-05-01", "old-address@x.com")
		svc := NewService(lookupWith(stored))

		res, err := svc.Resolve(context.Background(), registrant)
		require.NoError(t, err)
		assert.Equal(t, ClassificationExact, res.Classification)
		assert.Equal(t, stored.ID, res.ExistingID)
	})

	t.Run("no email or birth date match means none", func(t *testing.T) {
		stored := newStored("Jean", "Dupont", "1970-01-01", "elsewhere@x.com")
		svc := NewService(lookupWith(stored))

		res, err := svc.Resolve(context.Background(), registrant)
		require.NoError(t, err)
		assert.Equal(t, ClassificationNone, res.Classification)
		assert.Empty(t, res.Candidates)
	})

	t.Run("birth date lookup failure propagates", func(t *testing.T) {
		svc := NewService(&stubLookup{
			byEmail:  map[string]*models.Participant{},
			birthErr: errors.New("connection refused"),
		})

		_, err := svc.Resolve(context.Background(), registrant)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func TestResolveFuzzyStage(t *testing.T) {
	registrant := Registrant{
		FirstName: "Alexandre",
		LastName:  "Lefebvre",
		BirthDate: "1992-03-14",
		Email:     "alex@x.com",
	}

	t.Run("single fuzzy candidate is auto-accepted by default", func(t *testing.T) {
		// One rune off in nine on the last name: 0.889 > 0.85.
		stored := newStored("Alexandre", "Lefebvres", "1992-03-14", "a.lefebvres@x.com")
		svc := NewService(lookupWith(stored))

		res, err := svc.Resolve(context.Background(), registrant)
		require.NoError(t, err)
		assert.Equal(t, ClassificationExact, res.Classification)
		assert.Equal(t, stored.ID, res.ExistingID)
		require.Len(t, res.Candidates, 1)
	})

	t.Run("single fuzzy candidate under always-ask is ambiguous", func(t *testing.T) {
		stored := newStored("Alexandre", "Lefebvres", "1992-03-14", "a.lefebvres@x.com")
		svc := NewService(lookupWith(stored), WithSingleMatchPolicy(SingleMatchAlwaysAsk))

		res, err := svc.Resolve(context.Background(), registrant)
		require.NoError(t, err)
		assert.Equal(t, ClassificationAmbiguous, res.Classification)
		assert.True(t, res.ExistingID.IsNil())
		require.Len(t, res.Candidates, 1)
	})

	t.Run("two fuzzy candidates are ambiguous", func(t *testing.T) {
		a := newStored("Alexandre", "Lefebvres", "1992-03-14", "a@x.com")
		b := newStored("Alexandra", "Lefebvre", "1992-03-14", "b@x.com")
		svc := NewService(lookupWith(a, b))

		res, err := svc.Resolve(context.Background(), registrant)
		require.NoError(t, err)
		assert.Equal(t, ClassificationAmbiguous, res.Classification)
		assert.True(t, res.ExistingID.IsNil())
		require.Len(t, res.Candidates, 2)
		for _, c := range res.Candidates {
			assert.Greater(t, c.FirstScore, similarity.DefaultNameMatchThreshold)
			assert.Greater(t, c.LastScore, similarity.DefaultNameMatchThreshold)
		}
	})

	t.Run("weak matches below the threshold resolve to none", func(t *testing.T) {
		// "jan"/"jean" scores 0.75 and "dupond"/"dupont" 0.833; neither
		// clears 0.85.
		stored := newStored("Jan", "Dupond", "1992-03-14", "jan@x.com")
		svc := NewService(lookupWith(stored))

		weak := Registrant{FirstName: "Jean", LastName: "Dupont", BirthDate: "1992-03-14", Email: "jean@x.com"}
		res, err := svc.Resolve(context.Background(), weak)
		require.NoError(t, err)
		assert.Equal(t, ClassificationNone, res.Classification)
	})

	t.Run("a lowered threshold widens the net", func(t *testing.T) {
		stored := newStored("Jan", "Dupond", "1992-03-14", "jan@x.com")
		svc := NewService(lookupWith(stored), WithThreshold(0.7))

		near := Registrant{FirstName: "Jean", LastName: "Dupont", BirthDate: "1992-03-14", Email: "jean@x.com"}
		res, err := svc.Resolve(context.Background(), near)
		require.NoError(t, err)
		assert.Equal(t, ClassificationExact, res.Classification)
		assert.Equal(t, stored.ID, res.ExistingID)
	})
}

func TestIsEmailTaken(t *testing.T) {
	t.Run("taken email reports true", func(t *testing.T) {
		stored := newStored("Jean", "Dupont", "1990-05-01", "jean@x.com")
		svc := NewService(lookupWith(stored))

		taken, err := svc.IsEmailTaken(context.Background(), " JEAN@X.COM ")
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("free email reports false", func(t *testing.T) {
		svc := NewService(lookupWith())

		taken, err := svc.IsEmailTaken(context.Background(), "new@x.com")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("count failure propagates", func(t *testing.T) {
		svc := NewService(&stubLookup{countErr: errors.New("connection refused")})

		_, err := svc.IsEmailTaken(context.Background(), "jean@x.com")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func TestRegistrantValidate(t *testing.T) {
	valid := Registrant{FirstName: "Jean", LastName: "Dupont", BirthDate: "1990-05-01", Email: "jean@x.com"}
	require.NoError(t, valid.Validate())

	cases := map[string]Registrant{
		"missing first name": {LastName: "Dupont", BirthDate: "1990-05-01", Email: "jean@x.com"},
		"missing last name":  {FirstName: "Jean", BirthDate: "1990-05-01", Email: "jean@x.com"},
		"missing email":      {FirstName: "Jean", LastName: "Dupont", BirthDate: "1990-05-01"},
		"bad birth date":     {FirstName: "Jean", LastName: "Dupont", BirthDate: "01/05/1990", Email: "jean@x.com"},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}
