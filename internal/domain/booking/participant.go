package booking

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/errs"
)

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`
}

type Participant struct {
	Name           string     `json:"name"`
	DocumentType   string     `json:"document_type"`
	DocumentNumber string     `json:"document_number,omitempty"`
	BirthDate      civil.Date `json:"birth_date"`
}

// validate requires a name and at least one way to reach the person; strict
// additionally requires a phone, which is what emergency contacts need.
func (c Contact) validate(v *errs.ValidationError, field string, strict bool) {
	if strings.TrimSpace(c.Name) == "" {
		v.Add(field+".name", "Name is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			v.Add(field+".email", "Email is not valid")
		}
	}
	phone := strings.TrimSpace(c.Phone)
	switch {
	case strict && phone == "":
		v.Add(field+".phone", "Phone is required")
	case !strict && phone == "" && c.Email == "":
		v.Add(field, "An email or phone is required")
	}
}

// validateParticipants checks supplied details: one entry per participant with
// a name, an allowed document type and a birth date that is not in the future.
func validateParticipants(v *errs.ValidationError, details []Participant, count int, allowedDocs []string, today civil.Date) {
	if len(details) == 0 {
		return
	}
	if len(details) != count {
		v.Add("participant_details",
			fmt.Sprintf("Expected details for %d participants, got %d", count, len(details)))
		return
	}
	for i, p := range details {
		prefix := fmt.Sprintf("participant_details.%d", i)
		if strings.TrimSpace(p.Name) == "" {
			v.Add(prefix+".name", "Participant name is required")
		}
		if !slices.Contains(allowedDocs, p.DocumentType) {
			v.Add(prefix+".document_type",
				fmt.Sprintf("Document type must be one of: %s", strings.Join(allowedDocs, ", ")))
		}
		if p.BirthDate.IsZero() {
			v.Add(prefix+".birth_date", "Birth date is required")
		} else if p.BirthDate.After(today) {
			v.Add(prefix+".birth_date", "Birth date cannot be in the future")
		}
	}
}
