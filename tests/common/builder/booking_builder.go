//go:build unit || e2e

package builder

import (
	"fmt"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/money"
	reqdto "tour-booking/internal/handler/dto/request"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	Tour              *TourBuilder
	Schedule          *ScheduleBuilder
	UserID            uuid.UUID
	ParticipantsCount int
	Contact           booking.Contact
	EmergencyContact  *booking.Contact
	Participants      []booking.Participant
	SpecialRequests   string
	CommissionRate    *float64
	Reference         string
	Policy            booking.Policy
	Now               time.Time
}

func NewBookingBuilder() *BookingBuilder {
	t := NewTourBuilder()
	b := &BookingBuilder{
		Tour:     t,
		Schedule: NewScheduleBuilder(t.ID),
		UserID:   uuid.New(),
		Contact: booking.Contact{
			Name:  "Ana Quispe",
			Email: "ana@example.com",
			Phone: "+51 987 654 321",
		},
		SpecialRequests: "Vegetarian lunch",
		Reference:       "TB-TEST000001",
		Policy:          booking.DefaultPolicy(),
		Now:             Now,
	}
	return b.WithParticipants(2)
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// WithParticipants sets the count and generates matching details.
func (b *BookingBuilder) WithParticipants(n int) *BookingBuilder {
	b.ParticipantsCount = n
	b.Participants = Participants(n)
	return b
}

func (b *BookingBuilder) WithUserID(id uuid.UUID) *BookingBuilder {
	b.UserID = id
	return b
}

func (b *BookingBuilder) WithEmergencyContact() *BookingBuilder {
	b.EmergencyContact = &booking.Contact{Name: "Luis Quispe", Phone: "+51 999 111 222"}
	return b
}

func (b *BookingBuilder) WithCommissionRate(rate float64) *BookingBuilder {
	b.CommissionRate = &rate
	return b
}

func (b *BookingBuilder) BuildDraft() booking.Draft {
	return booking.Draft{
		UserID:            b.UserID,
		Tour:              b.Tour.BuildDomain(),
		Schedule:          b.Schedule.BuildDomain(),
		ParticipantsCount: b.ParticipantsCount,
		Contact:           b.Contact,
		EmergencyContact:  b.EmergencyContact,
		Participants:      b.Participants,
		SpecialRequests:   b.SpecialRequests,
		CommissionRate:    b.CommissionRate,
	}
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewBooking(b.BuildDraft(), b.Policy, booking.NewDefaultPriceCalculator(), b.Reference, b.Now)
}

// BuildState returns a valid persisted booking in the given status without
// going through the creation checks.
func (b *BookingBuilder) BuildState(status booking.Status) booking.State {
	price := b.Tour.PricePerPerson
	if b.Schedule.PriceOverride != nil {
		price = *b.Schedule.PriceOverride
	}
	rate := b.Policy.DefaultCommission
	if b.CommissionRate != nil {
		rate, _ = money.NewRate(*b.CommissionRate)
	}
	q := booking.QuoteFor(price, b.ParticipantsCount, rate)
	scheduleID := b.Schedule.ID

	s := booking.State{
		ID:                uuid.New(),
		Reference:         b.Reference,
		UserID:            b.UserID,
		TourID:            b.Tour.ID,
		ScheduleID:        &scheduleID,
		ParticipantsCount: b.ParticipantsCount,
		PricePerPerson:    q.PricePerPerson,
		TotalAmount:       q.TotalAmount,
		CommissionRate:    q.CommissionRate,
		CommissionAmount:  q.CommissionAmount,
		Currency:          b.Tour.Currency,
		Status:            status,
		PaymentStatus:     booking.PaymentPending,
		Contact:           b.Contact,
		EmergencyContact:  b.EmergencyContact,
		Participants:      b.Participants,
		SpecialRequests:   b.SpecialRequests,
		CreatedAt:         b.Now.Add(-time.Hour),
		UpdatedAt:         b.Now.Add(-time.Hour),
	}
	if status != booking.StatusPending && status != booking.StatusCancelled {
		confirmedAt := b.Now.Add(-30 * time.Minute)
		s.ConfirmedAt = &confirmedAt
	}
	if status == booking.StatusPaid || status == booking.StatusCompleted {
		s.PaymentStatus = booking.PaymentPaid
	}
	return s
}

func (b *BookingBuilder) BuildReconstructed(status booking.Status) *booking.Booking {
	return booking.Reconstruct(b.BuildState(status))
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	req := reqdto.CreateBookingRequest{
		ScheduleID:        b.Schedule.ID,
		ParticipantsCount: b.ParticipantsCount,
		Contact: &reqdto.ContactRequest{
			Name:  b.Contact.Name,
			Email: b.Contact.Email,
			Phone: b.Contact.Phone,
		},
		SpecialRequests: b.SpecialRequests,
		CommissionRate:  b.CommissionRate,
	}
	for _, p := range b.Participants {
		req.ParticipantDetails = append(req.ParticipantDetails, reqdto.ParticipantRequest{
			Name:           p.Name,
			DocumentType:   p.DocumentType,
			DocumentNumber: p.DocumentNumber,
			BirthDate:      p.BirthDate,
		})
	}
	if b.EmergencyContact != nil {
		req.EmergencyContact = &reqdto.ContactRequest{Name: b.EmergencyContact.Name, Phone: b.EmergencyContact.Phone}
	}
	return req
}

// BuildView returns the read model of a booking in the given status.
func (b *BookingBuilder) BuildView(status booking.Status) *queries.BookingView {
	s := b.BuildState(status)
	date := b.Schedule.Date
	start := b.Schedule.StartTime
	return &queries.BookingView{
		ID:                s.ID,
		Reference:         s.Reference,
		UserID:            s.UserID,
		TourID:            s.TourID,
		TourName:          b.Tour.Name,
		ScheduleID:        s.ScheduleID,
		ScheduleDate:      &date,
		StartTime:         &start,
		ParticipantsCount: s.ParticipantsCount,
		PricePerPerson:    s.PricePerPerson,
		TotalAmount:       s.TotalAmount,
		CommissionRate:    s.CommissionRate,
		CommissionAmount:  s.CommissionAmount,
		Currency:          s.Currency,
		Status:            s.Status,
		PaymentStatus:     s.PaymentStatus,
		Contact:           s.Contact,
		EmergencyContact:  s.EmergencyContact,
		Participants:      s.Participants,
		SpecialRequests:   s.SpecialRequests,
		ConfirmedAt:       s.ConfirmedAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildListItem(status booking.Status) *queries.BookingListItem {
	v := b.BuildView(status)
	return &queries.BookingListItem{
		ID:                v.ID,
		Reference:         v.Reference,
		TourID:            v.TourID,
		TourName:          v.TourName,
		ScheduleDate:      v.ScheduleDate,
		ParticipantsCount: v.ParticipantsCount,
		TotalAmount:       v.TotalAmount,
		Currency:          v.Currency,
		Status:            v.Status,
		PaymentStatus:     v.PaymentStatus,
		CreatedAt:         v.CreatedAt,
	}
}

func Participants(n int) []booking.Participant {
	out := make([]booking.Participant, n)
	for i := range out {
		out[i] = booking.Participant{
			Name:           fmt.Sprintf("Traveller %d", i+1),
			DocumentType:   "dni",
			DocumentNumber: fmt.Sprintf("4%07d", i+1),
			BirthDate:      civil.NewDate(1990, time.January, 1+i%28),
		}
	}
	return out
}
