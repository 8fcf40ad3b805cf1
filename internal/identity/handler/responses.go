package handler

import (
	"tatami/internal/identity"
	"tatami/internal/participant/models"
)

// CheckResponse is the HTTP response for POST /participants/check. Exactly
// one payload field is populated per classification: existing_id for exact,
// existing_participant for email_conflict, matches for ambiguous.
type CheckResponse struct {
	Status              string             `json:"status"`
	ExistingID          string             `json:"existing_id,omitempty"`
	ExistingParticipant *ConflictPayload   `json:"existing_participant,omitempty"`
	Matches             []CandidatePayload `json:"matches,omitempty"`
}

// ConflictPayload is the public-safe view of the stored record whose email
// collided with the registrant.
type ConflictPayload struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BirthDate string  `json:"birth_date"`
	Email     string  `json:"email"`
	Club      string  `json:"club"`
	Weight    float64 `json:"weight"`
	Grade     string  `json:"grade"`
}

// CandidatePayload is one ambiguous match awaiting human disambiguation.
// Emails are withheld; the reviewer confirms identity on name, birth date,
// and club.
type CandidatePayload struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BirthDate string  `json:"birth_date"`
	Club      string  `json:"club"`
	Weight    float64 `json:"weight"`
	Grade     string  `json:"grade"`
}

// CheckEmailResponse is the HTTP response for POST /participants/check-email.
type CheckEmailResponse struct {
	Available bool `json:"available"`
}

// FromResolution converts a resolver outcome to an HTTP response.
func FromResolution(res *identity.Resolution) *CheckResponse {
	out := &CheckResponse{Status: string(res.Classification)}

	switch res.Classification {
	case identity.ClassificationExact:
		out.ExistingID = res.ExistingID.String()
	case identity.ClassificationEmailConflict:
		out.ExistingParticipant = toConflictPayload(res.Conflict)
	case identity.ClassificationAmbiguous:
		out.Matches = make([]CandidatePayload, 0, len(res.Candidates))
		for _, c := range res.Candidates {
			out.Matches = append(out.Matches, toCandidatePayload(c.Participant))
		}
	}
	return out
}

func toConflictPayload(p *models.Participant) *ConflictPayload {
	return &ConflictPayload{
		ID:        p.ID.String(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: p.BirthDate,
		Email:     p.Email,
		Club:      p.Club,
		Weight:    p.Weight,
		Grade:     p.Grade,
	}
}

func toCandidatePayload(p *models.Participant) CandidatePayload {
	return CandidatePayload{
		ID:        p.ID.String(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: p.BirthDate,
		Club:      p.Club,
		Weight:    p.Weight,
		Grade:     p.Grade,
	}
}
