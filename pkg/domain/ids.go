// Package domain defines typed identifiers shared across modules.
//
// IDs wrap uuid.UUID so the compiler keeps identifier kinds distinct; a
// ParticipantID can never be passed where another ID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "tatami/pkg/domain-errors"
)

// ParticipantID identifies a stored participant.
type ParticipantID uuid.UUID

// NewParticipantID generates a fresh random participant ID.
func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.New())
}

// ParseParticipantID parses and validates a participant ID from its string
// form. IDs must be valid, non-nil UUIDs.
func ParseParticipantID(s string) (ParticipantID, error) {
	if s == "" {
		return ParticipantID{}, dErrors.New(dErrors.CodeValidation, "participant id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ParticipantID{}, dErrors.New(dErrors.CodeValidation, "participant id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return ParticipantID{}, dErrors.New(dErrors.CodeValidation, "participant id must not be nil")
	}
	return ParticipantID(parsed), nil
}

func (id ParticipantID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id ParticipantID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
