package response

import (
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/money"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                 uuid.UUID             `json:"id"`
	Reference          string                `json:"reference"`
	UserID             uuid.UUID             `json:"user_id"`
	TourID             uuid.UUID             `json:"tour_id"`
	TourName           string                `json:"tour_name"`
	ScheduleID         *uuid.UUID            `json:"tour_schedule_id"`
	ScheduleDate       *civil.Date           `json:"date,omitempty"`
	StartTime          *civil.TimeOfDay      `json:"start_time,omitempty"`
	ParticipantsCount  int                   `json:"participants_count"`
	PricePerPerson     money.Money           `json:"price_per_person"`
	TotalAmount        money.Money           `json:"total_amount"`
	CommissionPercent  float64               `json:"commission_rate"`
	CommissionAmount   money.Money           `json:"commission_amount"`
	Currency           string                `json:"currency"`
	Status             string                `json:"status"`
	PaymentStatus      string                `json:"payment_status"`
	Contact            booking.Contact       `json:"contact"`
	EmergencyContact   *booking.Contact      `json:"emergency_contact,omitempty"`
	Participants       []booking.Participant `json:"participant_details"`
	SpecialRequests    string                `json:"special_requests,omitempty"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	ConfirmedAt        *time.Time            `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time            `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time            `json:"completed_at,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type BookingListItemResponse struct {
	ID                uuid.UUID   `json:"id"`
	Reference         string      `json:"reference"`
	TourID            uuid.UUID   `json:"tour_id"`
	TourName          string      `json:"tour_name"`
	ScheduleDate      *civil.Date `json:"date,omitempty"`
	ParticipantsCount int         `json:"participants_count"`
	TotalAmount       money.Money `json:"total_amount"`
	Currency          string      `json:"currency"`
	Status            string      `json:"status"`
	PaymentStatus     string      `json:"payment_status"`
	CreatedAt         time.Time   `json:"created_at"`
}

type BookingListResponse struct {
	Bookings   []*BookingListItemResponse `json:"bookings"`
	NextCursor string                     `json:"next_cursor,omitempty"`
}

type BookingSummaryResponse struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	Upcoming     int            `json:"upcoming"`
	Participants int            `json:"participants"`
	TotalSpent   money.Money    `json:"total_spent"`
}

type BookingCreatedResponse struct {
	ID        uuid.UUID `json:"id"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	resp := &BookingResponse{}
	if err := copier.Copy(resp, v); err != nil {
		return nil, err
	}
	resp.CommissionPercent = v.CommissionRate.Percent()
	if resp.Participants == nil {
		resp.Participants = []booking.Participant{}
	}
	return resp, nil
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) (*BookingListResponse, error) {
	resp := &BookingListResponse{Bookings: make([]*BookingListItemResponse, 0, len(items))}
	if err := copier.Copy(&resp.Bookings, &items); err != nil {
		return nil, err
	}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp, nil
}

func FromBookingSummary(s *queries.BookingSummary) *BookingSummaryResponse {
	byStatus := make(map[string]int, len(s.ByStatus))
	for st, n := range s.ByStatus {
		byStatus[string(st)] = n
	}
	return &BookingSummaryResponse{
		Total:        s.Total,
		ByStatus:     byStatus,
		Upcoming:     s.Upcoming,
		Participants: s.Participants,
		TotalSpent:   s.TotalSpent,
	}
}

func FromBookingResult(r *commands.BookingResult) *BookingCreatedResponse {
	return &BookingCreatedResponse{ID: r.ID, Reference: r.Reference, Status: string(r.Status)}
}
