package handler

import (
	"strings"

	"tatami/internal/participant/service"
	dErrors "tatami/pkg/domain-errors"
)

// CreateRequest is the HTTP request body for POST /participants.
type CreateRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BirthDate string  `json:"birth_date"`
	Email     string  `json:"email"`
	Club      string  `json:"club"`
	Weight    float64 `json:"weight"`
	Grade     string  `json:"grade"`
}

// Validate checks required fields. Field formats are validated by the
// domain model on creation.
func (r *CreateRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	r.Email = strings.TrimSpace(r.Email)

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"birth_date", r.BirthDate},
		{"email", r.Email},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeValidation, "missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

// Input converts the request into the service's input type.
func (r *CreateRequest) Input() service.CreateParticipant {
	return service.CreateParticipant{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: r.BirthDate,
		Email:     r.Email,
		Club:      r.Club,
		Weight:    r.Weight,
		Grade:     r.Grade,
	}
}
