package response

import "github.com/google/uuid"

type ScheduleCompletionResponse struct {
	ScheduleID        uuid.UUID `json:"schedule_id"`
	CompletedBookings int       `json:"completed_bookings"`
}
