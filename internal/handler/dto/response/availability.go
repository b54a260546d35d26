package response

import (
	"tour-booking/internal/domain/money"
	"tour-booking/internal/pkg/civil"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SlotResponse struct {
	ScheduleID     uuid.UUID       `json:"schedule_id"`
	StartTime      civil.TimeOfDay `json:"start_time"`
	EndTime        civil.TimeOfDay `json:"end_time"`
	AvailableSpots int             `json:"available_spots"`
	PricePerPerson money.Money     `json:"price_per_person"`
}

type DateAvailabilityResponse struct {
	TourID              uuid.UUID      `json:"tour_id"`
	Date                civil.Date     `json:"date"`
	IsAvailable         bool           `json:"is_available"`
	Schedules           []SlotResponse `json:"schedules"`
	TotalAvailableSpots int            `json:"total_available_spots"`
}

type RangeSummaryResponse struct {
	TotalDays     int `json:"total_days"`
	AvailableDays int `json:"available_days"`
	TotalSpots    int `json:"total_spots"`
}

type RangeAvailabilityResponse struct {
	TourID  uuid.UUID                  `json:"tour_id"`
	From    civil.Date                 `json:"from"`
	To      civil.Date                 `json:"to"`
	Days    []DateAvailabilityResponse `json:"availability"`
	Summary RangeSummaryResponse       `json:"summary"`
}

type TourAvailabilityResponse struct {
	TourID              uuid.UUID `json:"tour_id"`
	TourName            string    `json:"tour_name"`
	IsAvailable         bool      `json:"is_available"`
	SchedulesCount      int       `json:"schedules_count"`
	TotalAvailableSpots int       `json:"total_available_spots"`
}

type MultiTourSummaryResponse struct {
	TotalTours          int `json:"total_tours"`
	AvailableTours      int `json:"available_tours"`
	TotalAvailableSpots int `json:"total_available_spots"`
}

type MultiTourAvailabilityResponse struct {
	Date    civil.Date                 `json:"date"`
	Tours   []TourAvailabilityResponse `json:"tours"`
	Summary MultiTourSummaryResponse   `json:"summary"`
}

type NextDateResponse struct {
	Date              civil.Date      `json:"date"`
	SchedulesCount    int             `json:"schedules_count"`
	TotalSpots        int             `json:"total_spots"`
	MinPrice          money.Money     `json:"min_price"`
	EarliestStartTime civil.TimeOfDay `json:"earliest_start_time"`
}

type NextAvailabilityResponse struct {
	TourID uuid.UUID          `json:"tour_id"`
	Dates  []NextDateResponse `json:"available_dates"`
}

type SpotsCheckResponse struct {
	TourID         uuid.UUID   `json:"tour_id"`
	ScheduleID     uuid.UUID   `json:"schedule_id"`
	SpotsNeeded    int         `json:"spots_needed"`
	CanBook        bool        `json:"can_book"`
	AvailableSpots int         `json:"available_spots"`
	PricePerPerson money.Money `json:"price_per_person"`
	TotalPrice     money.Money `json:"total_price"`
}

type CalendarDayResponse struct {
	Date           civil.Date `json:"date"`
	IsAvailable    bool       `json:"is_available"`
	SchedulesCount int        `json:"schedules_count"`
	TotalSpots     int        `json:"total_spots"`
	IsWeekend      bool       `json:"is_weekend"`
	IsToday        bool       `json:"is_today"`
	IsPast         bool       `json:"is_past"`
}

type CalendarResponse struct {
	TourID uuid.UUID             `json:"tour_id"`
	Year   int                   `json:"year"`
	Month  int                   `json:"month"`
	Days   []CalendarDayResponse `json:"calendar"`
}

// FromAvailability copies any availability read model into its response
// shape. Field names match one to one.
func FromAvailability[T any](v any) (*T, error) {
	resp := new(T)
	if err := copier.Copy(resp, v); err != nil {
		return nil, err
	}
	return resp, nil
}
