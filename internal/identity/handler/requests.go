package handler

import (
	"strings"

	"tatami/internal/identity"
	dErrors "tatami/pkg/domain-errors"
)

// CheckRequest is the HTTP request body for POST /participants/check.
type CheckRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
	Email     string `json:"email"`
}

// Validate validates the request. Missing registrant fields are rejected
// here, at the boundary; the resolver never sees an incomplete registrant.
// Implements the Validatable contract for httputil.DecodeAndPrepare.
func (r *CheckRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	r.Email = strings.TrimSpace(r.Email)
	return r.Registrant().Validate()
}

// Registrant converts the request into the resolver's input type.
func (r *CheckRequest) Registrant() identity.Registrant {
	return identity.Registrant{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: r.BirthDate,
		Email:     r.Email,
	}
}

// CheckEmailRequest is the HTTP request body for POST /participants/check-email.
type CheckEmailRequest struct {
	Email string `json:"email"`
}

// Validate validates the request.
func (r *CheckEmailRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return nil
}
