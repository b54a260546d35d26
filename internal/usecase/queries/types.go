package queries

import (
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/pkg/civil"

	"github.com/google/uuid"
)

type SlotView struct {
	ScheduleID     uuid.UUID
	StartTime      civil.TimeOfDay
	EndTime        civil.TimeOfDay
	AvailableSpots int
	PricePerPerson money.Money
}

type DateAvailability struct {
	TourID              uuid.UUID
	Date                civil.Date
	IsAvailable         bool
	Schedules           []SlotView
	TotalAvailableSpots int
}

type RangeSummary struct {
	TotalDays     int
	AvailableDays int
	TotalSpots    int
}

type RangeAvailability struct {
	TourID  uuid.UUID
	From    civil.Date
	To      civil.Date
	Days    []DateAvailability
	Summary RangeSummary
}

type TourAvailability struct {
	TourID              uuid.UUID
	TourName            string
	IsAvailable         bool
	SchedulesCount      int
	TotalAvailableSpots int
}

type MultiTourSummary struct {
	TotalTours          int
	AvailableTours      int
	TotalAvailableSpots int
}

type MultiTourAvailability struct {
	Date    civil.Date
	Tours   []TourAvailability
	Summary MultiTourSummary
}

type NextDateView struct {
	Date              civil.Date
	SchedulesCount    int
	TotalSpots        int
	MinPrice          money.Money
	EarliestStartTime civil.TimeOfDay
}

type NextAvailability struct {
	TourID uuid.UUID
	Dates  []NextDateView
}

type SpotsCheck struct {
	TourID         uuid.UUID
	ScheduleID     uuid.UUID
	SpotsNeeded    int
	CanBook        bool
	AvailableSpots int
	PricePerPerson money.Money
	TotalPrice     money.Money
}

type CalendarDayView struct {
	Date           civil.Date
	IsAvailable    bool
	SchedulesCount int
	TotalSpots     int
	IsWeekend      bool
	IsToday        bool
	IsPast         bool
}

type CalendarView struct {
	TourID uuid.UUID
	Year   int
	Month  int
	Days   []CalendarDayView
}

// BookingView is the detail read model joined with tour and schedule facts.
type BookingView struct {
	ID                 uuid.UUID
	Reference          string
	UserID             uuid.UUID
	TourID             uuid.UUID
	TourName           string
	ScheduleID         *uuid.UUID
	ScheduleDate       *civil.Date
	StartTime          *civil.TimeOfDay
	ParticipantsCount  int
	PricePerPerson     money.Money
	TotalAmount        money.Money
	CommissionRate     money.Rate
	CommissionAmount   money.Money
	Currency           string
	Status             booking.Status
	PaymentStatus      booking.PaymentStatus
	Contact            booking.Contact
	EmergencyContact   *booking.Contact
	Participants       []booking.Participant
	SpecialRequests    string
	CancellationReason string
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type BookingListItem struct {
	ID                uuid.UUID
	Reference         string
	TourID            uuid.UUID
	TourName          string
	ScheduleDate      *civil.Date
	ParticipantsCount int
	TotalAmount       money.Money
	Currency          string
	Status            booking.Status
	PaymentStatus     booking.PaymentStatus
	CreatedAt         time.Time
}

type BookingFilter struct {
	UserID *uuid.UUID
	Status *booking.Status
}

type BookingSummary struct {
	Total        int
	ByStatus     map[booking.Status]int
	Upcoming     int
	Participants int
	TotalSpent   money.Money
}

type PaymentView struct {
	ID               uuid.UUID
	BookingID        uuid.UUID
	BookingReference string
	UserID           uuid.UUID
	Method           payment.Method
	Status           payment.Status
	TransactionID    string
	Amount           money.Money
	Currency         string
	Details          payment.Details
	FailureReason    string
	RefundReason     string
	ProcessedAt      *time.Time
	RefundedAt       *time.Time
	CreatedAt        time.Time
}
