package handler

import (
	"time"

	"tatami/internal/participant/models"
)

// ParticipantResponse is the public view of a participant record.
type ParticipantResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate string    `json:"birth_date"`
	Email     string    `json:"email"`
	Club      string    `json:"club"`
	Weight    float64   `json:"weight"`
	Grade     string    `json:"grade"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResponse is the HTTP response for GET /participants.
type ListResponse struct {
	Participants []ParticipantResponse `json:"participants"`
}

// FromParticipant converts a domain participant to its HTTP view.
func FromParticipant(p *models.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:        p.ID.String(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: p.BirthDate,
		Email:     p.Email,
		Club:      p.Club,
		Weight:    p.Weight,
		Grade:     p.Grade,
		CreatedAt: p.CreatedAt,
	}
}

// FromParticipants converts a list of participants, preserving order.
func FromParticipants(participants []*models.Participant) ListResponse {
	out := ListResponse{Participants: make([]ParticipantResponse, 0, len(participants))}
	for _, p := range participants {
		out.Participants = append(out.Participants, FromParticipant(p))
	}
	return out
}
