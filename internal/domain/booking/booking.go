package booking

import (
	"fmt"
	"strings"
	"time"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const MaxSpecialRequestsLength = 1000

// State is the persisted shape of a booking.
type State struct {
	ID                 uuid.UUID
	Reference          string
	UserID             uuid.UUID
	TourID             uuid.UUID
	ScheduleID         *uuid.UUID
	ParticipantsCount  int
	PricePerPerson     money.Money
	TotalAmount        money.Money
	CommissionRate     money.Rate
	CommissionAmount   money.Money
	Currency           string
	Status             Status
	PaymentStatus      PaymentStatus
	Contact            Contact
	EmergencyContact   *Contact
	Participants       []Participant
	SpecialRequests    string
	CancellationReason string
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Booking struct {
	s State
}

// Draft is everything a customer submits to create a booking, already joined
// with the catalog entries it refers to.
type Draft struct {
	UserID            uuid.UUID
	Tour              *tour.Tour
	Schedule          *tour.Schedule
	ParticipantsCount int
	Contact           Contact
	EmergencyContact  *Contact
	Participants      []Participant
	SpecialRequests   string
	CommissionRate    *float64
}

// NewBooking validates a draft against the catalog and the policy and returns
// a pending booking. Field problems are reported together as one validation
// error; a group that does not fit the remaining spots is a capacity error.
func NewBooking(d Draft, policy Policy, calc PriceCalculator, reference string, now time.Time) (*Booking, error) {
	today := civil.Today(now, policy.Location)
	v := errs.NewValidationError()

	switch {
	case !d.Tour.IsActive():
		v.Add("tour_schedule_id", "Tour is not available for booking")
	case d.Schedule.TourID() != d.Tour.ID():
		v.Add("tour_schedule_id", "Schedule does not belong to the tour")
	case !d.Schedule.Status().IsOpen():
		v.Add("tour_schedule_id", fmt.Sprintf("Schedule is %s", d.Schedule.Status()))
	case !d.Schedule.Date().After(today):
		v.Add("tour_schedule_id", "Schedule date must be in the future")
	}

	if err := d.Tour.CheckGroupSize(d.ParticipantsCount); err != nil {
		v.Add("participants_count", errs.Message(err))
	}

	d.Contact.validate(v, "contact", false)
	validateParticipants(v, d.Participants, d.ParticipantsCount, policy.DocumentTypes, today)

	if d.ParticipantsCount > policy.LargeGroupThreshold {
		if d.EmergencyContact == nil {
			v.Add("emergency_contact",
				fmt.Sprintf("Emergency contact is required for groups larger than %d", policy.LargeGroupThreshold))
		} else {
			d.EmergencyContact.validate(v, "emergency_contact", true)
		}
	} else if d.EmergencyContact != nil {
		d.EmergencyContact.validate(v, "emergency_contact", true)
	}

	if len(d.SpecialRequests) > MaxSpecialRequestsLength {
		v.Add("special_requests", fmt.Sprintf("Special requests cannot exceed %d characters", MaxSpecialRequestsLength))
	}

	rate := policy.DefaultCommission
	if d.CommissionRate != nil {
		r, err := money.NewRate(*d.CommissionRate)
		if err != nil {
			v.Add("commission_rate", "Commission rate must be between 0 and 100")
		}
		rate = r
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	// Soft check only; the ledger decides at confirmation time.
	if remaining := d.Schedule.Remaining(); d.ParticipantsCount > remaining {
		return nil, errs.Capacity(d.ParticipantsCount, remaining)
	}

	quote := calc.Quote(d.Tour, d.Schedule, d.ParticipantsCount, rate)
	scheduleID := d.Schedule.ID()

	return &Booking{s: State{
		ID:                uuid.New(),
		Reference:         reference,
		UserID:            d.UserID,
		TourID:            d.Tour.ID(),
		ScheduleID:        &scheduleID,
		ParticipantsCount: d.ParticipantsCount,
		PricePerPerson:    quote.PricePerPerson,
		TotalAmount:       quote.TotalAmount,
		CommissionRate:    quote.CommissionRate,
		CommissionAmount:  quote.CommissionAmount,
		Currency:          d.Tour.Currency(),
		Status:            StatusPending,
		PaymentStatus:     PaymentPending,
		Contact:           d.Contact,
		EmergencyContact:  d.EmergencyContact,
		Participants:      d.Participants,
		SpecialRequests:   strings.TrimSpace(d.SpecialRequests),
		CreatedAt:         now,
		UpdatedAt:         now,
	}}, nil
}

func Reconstruct(s State) *Booking {
	return &Booking{s: s}
}

// State returns a copy safe to hand to persistence.
func (b *Booking) State() State {
	s := b.s
	s.Participants = append([]Participant(nil), b.s.Participants...)
	if b.s.EmergencyContact != nil {
		ec := *b.s.EmergencyContact
		s.EmergencyContact = &ec
	}
	return s
}

func (b *Booking) ID() uuid.UUID                { return b.s.ID }
func (b *Booking) Reference() string            { return b.s.Reference }
func (b *Booking) UserID() uuid.UUID            { return b.s.UserID }
func (b *Booking) TourID() uuid.UUID            { return b.s.TourID }
func (b *Booking) ScheduleID() *uuid.UUID       { return b.s.ScheduleID }
func (b *Booking) ParticipantsCount() int       { return b.s.ParticipantsCount }
func (b *Booking) TotalAmount() money.Money     { return b.s.TotalAmount }
func (b *Booking) CommissionRate() money.Rate   { return b.s.CommissionRate }
func (b *Booking) CommissionAmount() money.Money { return b.s.CommissionAmount }
func (b *Booking) Currency() string             { return b.s.Currency }
func (b *Booking) Status() Status               { return b.s.Status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.s.PaymentStatus }

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.s.UserID == userID
}

// RequireSchedule guards every transition that touches capacity.
func (b *Booking) RequireSchedule() (uuid.UUID, error) {
	if b.s.ScheduleID == nil {
		return uuid.Nil, errs.Statef("booking %s has no schedule", b.s.Reference)
	}
	return *b.s.ScheduleID, nil
}

func (b *Booking) transition(next Status, now time.Time) error {
	if !b.s.Status.CanTransitionTo(next) {
		return errs.Statef("booking cannot move from %s to %s", b.s.Status, next)
	}
	b.s.Status = next
	b.s.UpdatedAt = now
	return nil
}

func (b *Booking) Confirm(now time.Time) error {
	if _, err := b.RequireSchedule(); err != nil {
		return err
	}
	if err := b.transition(StatusConfirmed, now); err != nil {
		return err
	}
	b.s.ConfirmedAt = &now
	return nil
}

// Cancel applies the cutoff unless override is set. It reports whether the
// booking held spots that must go back to the ledger.
func (b *Booking) Cancel(reason string, policy Policy, startsAt, now time.Time, override bool) (bool, error) {
	switch b.s.Status {
	case StatusPaid:
		return false, errs.Statef("paid bookings cannot be cancelled, request a refund instead")
	case StatusCompleted, StatusCancelled:
		return false, errs.Statef("booking is already %s", b.s.Status)
	}
	if !override && policy.WithinCutoff(now, startsAt) {
		return false, errs.Statef("bookings can only be cancelled more than %s before departure", formatCutoff(policy.CancellationCutoff))
	}
	held := b.s.Status.HoldsSpots()
	if err := b.transition(StatusCancelled, now); err != nil {
		return false, err
	}
	b.s.CancellationReason = strings.TrimSpace(reason)
	b.s.CancelledAt = &now
	return held, nil
}

// Changes carries the fields a customer may edit; nil means unchanged.
type Changes struct {
	ParticipantsCount *int
	Contact           *Contact
	EmergencyContact  *Contact
	Participants      *[]Participant
	SpecialRequests   *string
}

// Update edits a pending or confirmed booking before the cutoff. Changing the
// group size is only possible while pending and reprices with the rate that
// was fixed at creation.
func (b *Booking) Update(c Changes, t *tour.Tour, s *tour.Schedule, policy Policy, calc PriceCalculator, now time.Time) error {
	switch b.s.Status {
	case StatusPaid, StatusCompleted, StatusCancelled:
		return errs.Statef("booking cannot be modified when %s", b.s.Status)
	}
	if policy.WithinCutoff(now, s.StartsAt(policy.Location)) {
		return errs.Statef("bookings can only be modified more than %s before departure", formatCutoff(policy.CancellationCutoff))
	}

	count := b.s.ParticipantsCount
	if c.ParticipantsCount != nil && *c.ParticipantsCount != count {
		if b.s.Status != StatusPending {
			return errs.Statef("participants can only be changed while the booking is pending")
		}
		count = *c.ParticipantsCount
	}

	next := b.s
	next.ParticipantsCount = count
	if c.Contact != nil {
		next.Contact = *c.Contact
	}
	if c.EmergencyContact != nil {
		next.EmergencyContact = c.EmergencyContact
	}
	if c.Participants != nil {
		next.Participants = *c.Participants
	}
	if c.SpecialRequests != nil {
		next.SpecialRequests = strings.TrimSpace(*c.SpecialRequests)
	}

	today := civil.Today(now, policy.Location)
	v := errs.NewValidationError()
	if err := t.CheckGroupSize(count); err != nil {
		v.Add("participants_count", errs.Message(err))
	}
	next.Contact.validate(v, "contact", false)
	validateParticipants(v, next.Participants, count, policy.DocumentTypes, today)
	if count > policy.LargeGroupThreshold && next.EmergencyContact == nil {
		v.Add("emergency_contact",
			fmt.Sprintf("Emergency contact is required for groups larger than %d", policy.LargeGroupThreshold))
	}
	if next.EmergencyContact != nil {
		next.EmergencyContact.validate(v, "emergency_contact", true)
	}
	if len(next.SpecialRequests) > MaxSpecialRequestsLength {
		v.Add("special_requests", fmt.Sprintf("Special requests cannot exceed %d characters", MaxSpecialRequestsLength))
	}
	if err := v.Err(); err != nil {
		return err
	}

	if count != b.s.ParticipantsCount {
		if remaining := s.Remaining(); count > remaining {
			return errs.Capacity(count, remaining)
		}
		q := calc.Quote(t, s, count, b.s.CommissionRate)
		next.PricePerPerson = q.PricePerPerson
		next.TotalAmount = q.TotalAmount
		next.CommissionAmount = q.CommissionAmount
	}

	next.UpdatedAt = now
	b.s = next
	return nil
}

func (b *Booking) MarkPaid(now time.Time) error {
	if b.s.Status != StatusConfirmed {
		return errs.Statef("only confirmed bookings can be paid, booking is %s", b.s.Status)
	}
	if b.s.PaymentStatus == PaymentPaid {
		return errs.Statef("booking is already paid")
	}
	if err := b.transition(StatusPaid, now); err != nil {
		return err
	}
	b.s.PaymentStatus = PaymentPaid
	return nil
}

// MarkRefunded only touches the payment status; the booking status is kept.
func (b *Booking) MarkRefunded(now time.Time) error {
	if b.s.PaymentStatus != PaymentPaid {
		return errs.Statef("booking payment is %s, not paid", b.s.PaymentStatus)
	}
	b.s.PaymentStatus = PaymentRefunded
	b.s.UpdatedAt = now
	return nil
}

func (b *Booking) Complete(endsAt, now time.Time) error {
	if b.s.Status != StatusPaid {
		return errs.Statef("only paid bookings can be completed, booking is %s", b.s.Status)
	}
	if now.Before(endsAt) {
		return errs.Statef("booking cannot be completed before the tour has ended")
	}
	if err := b.transition(StatusCompleted, now); err != nil {
		return err
	}
	b.s.CompletedAt = &now
	return nil
}

func formatCutoff(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	return d.String()
}
