package tour

import (
	"sort"
	"time"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/pkg/civil"

	"github.com/google/uuid"
)

// Slot is one open departure as shown to customers.
type Slot struct {
	ScheduleID     uuid.UUID
	StartTime      civil.TimeOfDay
	EndTime        civil.TimeOfDay
	AvailableSpots int
	Price          money.Money
}

type DayAvailability struct {
	Date                civil.Date
	IsAvailable         bool
	Slots               []Slot
	TotalAvailableSpots int
}

type NextDate struct {
	Date              civil.Date
	SchedulesCount    int
	TotalSpots        int
	MinPrice          money.Money
	EarliestStartTime civil.TimeOfDay
}

type CalendarDay struct {
	Date           civil.Date
	IsAvailable    bool
	SchedulesCount int
	TotalSpots     int
	IsWeekend      bool
	IsToday        bool
	IsPast         bool
}

// OpenSlots keeps the schedules a customer could book today: the tour is
// active, the date lies after today and the schedule is available with spots
// left. The result is ordered by start time.
func OpenSlots(t *Tour, schedules []*Schedule, today civil.Date) []Slot {
	if !t.IsActive() {
		return nil
	}
	slots := make([]Slot, 0, len(schedules))
	for _, s := range schedules {
		if s.TourID() != t.ID() || !s.IsBookable(today) {
			continue
		}
		slots = append(slots, Slot{
			ScheduleID:     s.ID(),
			StartTime:      s.StartTime(),
			EndTime:        s.EndTime(),
			AvailableSpots: s.Remaining(),
			Price:          s.EffectivePrice(t.PricePerPerson()),
		})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	return slots
}

func SummarizeDay(t *Tour, date civil.Date, schedules []*Schedule, today civil.Date) DayAvailability {
	onDate := make([]*Schedule, 0, len(schedules))
	for _, s := range schedules {
		if s.Date() == date {
			onDate = append(onDate, s)
		}
	}
	slots := OpenSlots(t, onDate, today)
	total := 0
	for _, sl := range slots {
		total += sl.AvailableSpots
	}
	return DayAvailability{
		Date:                date,
		IsAvailable:         len(slots) > 0,
		Slots:               slots,
		TotalAvailableSpots: total,
	}
}

// SummarizeRange yields one entry per day in [from, to], including days
// without any open schedule.
func SummarizeRange(t *Tour, from, to civil.Date, schedules []*Schedule, today civil.Date) []DayAvailability {
	byDate := GroupByDate(schedules)
	days := make([]DayAvailability, 0, to.DaysSince(from)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, SummarizeDay(t, d, byDate[d], today))
	}
	return days
}

func GroupByDate(schedules []*Schedule) map[civil.Date][]*Schedule {
	out := make(map[civil.Date][]*Schedule)
	for _, s := range schedules {
		out[s.Date()] = append(out[s.Date()], s)
	}
	return out
}

// NextAvailableDates returns up to limit dates in ascending order that have
// at least one open schedule.
func NextAvailableDates(t *Tour, schedules []*Schedule, today civil.Date, limit int) []NextDate {
	byDate := GroupByDate(schedules)
	dates := make([]civil.Date, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]NextDate, 0, limit)
	for _, d := range dates {
		if len(out) >= limit {
			break
		}
		slots := OpenSlots(t, byDate[d], today)
		if len(slots) == 0 {
			continue
		}
		nd := NextDate{
			Date:              d,
			SchedulesCount:    len(slots),
			MinPrice:          slots[0].Price,
			EarliestStartTime: slots[0].StartTime,
		}
		for _, sl := range slots {
			nd.TotalSpots += sl.AvailableSpots
			if sl.Price.Less(nd.MinPrice) {
				nd.MinPrice = sl.Price
			}
		}
		out = append(out, nd)
	}
	return out
}

func BuildCalendar(t *Tour, year int, month time.Month, schedules []*Schedule, today civil.Date) []CalendarDay {
	byDate := GroupByDate(schedules)
	n := civil.DaysInMonth(year, month)
	days := make([]CalendarDay, 0, n)
	for i := 1; i <= n; i++ {
		d := civil.NewDate(year, month, i)
		slots := OpenSlots(t, byDate[d], today)
		total := 0
		for _, sl := range slots {
			total += sl.AvailableSpots
		}
		days = append(days, CalendarDay{
			Date:           d,
			IsAvailable:    len(slots) > 0,
			SchedulesCount: len(slots),
			TotalSpots:     total,
			IsWeekend:      d.IsWeekend(),
			IsToday:        d == today,
			IsPast:         d.Before(today),
		})
	}
	return days
}
