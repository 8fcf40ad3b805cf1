// Package models defines the participant entities owned by the participant
// store.
package models

import (
	"strings"
	"time"

	id "tatami/pkg/domain"
	dErrors "tatami/pkg/domain-errors"

	"tatami/internal/identity/normalize"
)

// BirthDateLayout is the canonical date-only form used for storage and
// comparison. Birth dates carry no time component.
const BirthDateLayout = "2006-01-02"

// Participant is a stored participant record. Emails are normalized
// (lower-cased, trimmed) before storage so lookups stay byte-exact; names are
// stored as typed by the user.
type Participant struct {
	ID        id.ParticipantID
	FirstName string
	LastName  string
	BirthDate string // date-only, BirthDateLayout
	Email     string
	Club      string
	Weight    float64
	Grade     string
	CreatedAt time.Time
}

// New validates raw participant fields and builds a record ready for storage.
func New(pid id.ParticipantID, firstName, lastName, birthDate, email, club string, weight float64, grade string, now time.Time) (*Participant, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "first and last name are required")
	}
	if _, err := time.Parse(BirthDateLayout, birthDate); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "birth date must be YYYY-MM-DD")
	}
	email = normalize.Email(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	return &Participant{
		ID:        pid,
		FirstName: firstName,
		LastName:  lastName,
		BirthDate: birthDate,
		Email:     email,
		Club:      strings.TrimSpace(club),
		Weight:    weight,
		Grade:     strings.TrimSpace(grade),
		CreatedAt: now,
	}, nil
}
