// Package identity implements participant identity resolution: deciding
// whether a newly submitted registrant already exists in the participant
// store, flagging true duplicates, surfacing ambiguous near-duplicates for
// human review, and rejecting hard email collisions.
package identity

import (
	"strings"
	"time"

	"tatami/internal/participant/models"
	id "tatami/pkg/domain"
	dErrors "tatami/pkg/domain-errors"
)

// Registrant is the untrusted input to a resolution: the four identity fields
// as typed by the user. All four are mandatory; missing fields are the
// caller's validation failure, not a resolver error.
type Registrant struct {
	FirstName string
	LastName  string
	BirthDate string // date-only, models.BirthDateLayout
	Email     string
}

// Validate checks that all registrant fields are present and the birth date
// is well-formed. The resolver assumes this has been run at the boundary.
func (r Registrant) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return dErrors.New(dErrors.CodeValidation, "first_name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return dErrors.New(dErrors.CodeValidation, "last_name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if _, err := time.Parse(models.BirthDateLayout, r.BirthDate); err != nil {
		return dErrors.New(dErrors.CodeValidation, "birth_date must be YYYY-MM-DD")
	}
	return nil
}

// Classification is the resolver's terminal decision for a registration
// attempt.
type Classification string

const (
	// ClassificationExact means the registrant is a known participant; the
	// existing record should be reused instead of creating a new one.
	ClassificationExact Classification = "exact"
	// ClassificationEmailConflict means the email belongs to a different
	// identity. Terminal; registration must not proceed with this email.
	ClassificationEmailConflict Classification = "email_conflict"
	// ClassificationAmbiguous means one or more plausible-but-uncertain
	// matches need human confirmation. Not an error.
	ClassificationAmbiguous Classification = "ambiguous"
	// ClassificationNone means no match was found; creating a new
	// participant is safe.
	ClassificationNone Classification = "none"
)

// MatchCandidate is a stored participant enriched with its name similarity
// against the registrant. Ephemeral, produced per resolution; the scores are
// never serialized to clients.
type MatchCandidate struct {
	Participant *models.Participant
	FirstScore  float64
	LastScore   float64
}

// Resolution is the outcome of resolving a registrant.
//
// ExistingID is set only for ClassificationExact. Conflict carries the stored
// record whose email collided, only for ClassificationEmailConflict.
// Candidates lists the fuzzy matches for ClassificationAmbiguous (and, under
// the always-ask policy, a single candidate as well).
type Resolution struct {
	Classification Classification
	ExistingID     id.ParticipantID
	Conflict       *models.Participant
	Candidates     []MatchCandidate
}
