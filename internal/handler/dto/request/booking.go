package request

import (
	"tour-booking/internal/domain/booking"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ParticipantRequest struct {
	Name           string     `json:"name"`
	DocumentType   string     `json:"document_type"`
	DocumentNumber string     `json:"document_number"`
	BirthDate      civil.Date `json:"birth_date"`
}

// Field rules live in the domain; binding only checks the JSON shape.
type CreateBookingRequest struct {
	ScheduleID         uuid.UUID            `json:"tour_schedule_id"`
	ParticipantsCount  int                  `json:"participants_count"`
	Contact            *ContactRequest      `json:"contact"`
	EmergencyContact   *ContactRequest      `json:"emergency_contact"`
	ParticipantDetails []ParticipantRequest `json:"participant_details"`
	SpecialRequests    string               `json:"special_requests"`
	CommissionRate     *float64             `json:"commission_rate"`
}

type UpdateBookingRequest struct {
	ParticipantsCount  *int                  `json:"participants_count"`
	Contact            *ContactRequest       `json:"contact"`
	EmergencyContact   *ContactRequest       `json:"emergency_contact"`
	ParticipantDetails *[]ParticipantRequest `json:"participant_details"`
	SpecialRequests    *string               `json:"special_requests"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (r *CreateBookingRequest) ToInput(idempotencyKey *uuid.UUID) (commands.CreateBookingInput, error) {
	in := commands.CreateBookingInput{
		ScheduleID:        r.ScheduleID,
		ParticipantsCount: r.ParticipantsCount,
		Contact:           toContact(r.Contact),
		EmergencyContact:  toContact(r.EmergencyContact),
		SpecialRequests:   r.SpecialRequests,
		CommissionRate:    r.CommissionRate,
		IdempotencyKey:    idempotencyKey,
	}
	if len(r.ParticipantDetails) > 0 {
		if err := copier.Copy(&in.Participants, &r.ParticipantDetails); err != nil {
			return commands.CreateBookingInput{}, err
		}
	}
	return in, nil
}

func (r *UpdateBookingRequest) ToInput() (commands.UpdateBookingInput, error) {
	in := commands.UpdateBookingInput{
		ParticipantsCount: r.ParticipantsCount,
		Contact:           toContact(r.Contact),
		EmergencyContact:  toContact(r.EmergencyContact),
		SpecialRequests:   r.SpecialRequests,
	}
	if r.ParticipantDetails != nil {
		participants := make([]booking.Participant, 0, len(*r.ParticipantDetails))
		if err := copier.Copy(&participants, r.ParticipantDetails); err != nil {
			return commands.UpdateBookingInput{}, err
		}
		in.Participants = &participants
	}
	return in, nil
}

func toContact(c *ContactRequest) *booking.Contact {
	if c == nil {
		return nil
	}
	return &booking.Contact{Name: c.Name, Email: c.Email, Phone: c.Phone}
}
