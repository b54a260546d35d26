//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type TourRow struct {
	ID              uuid.UUID
	Name            string
	MinParticipants int
	MaxParticipants int
	PriceCents      int64
	IsActive        bool
}

type ScheduleRow struct {
	ID             uuid.UUID
	TourID         uuid.UUID
	Date           time.Time
	StartTime      string
	EndTime        string
	AvailableSpots int
	BookedSpots    int
	Status         string
}

func CreateTour(t *testing.T, db DBLike, row TourRow) uuid.UUID {
	t.Helper()

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Name == "" {
		row.Name = "Sacred Valley Tour"
	}
	if row.MinParticipants == 0 {
		row.MinParticipants = 1
	}
	if row.MaxParticipants == 0 {
		row.MaxParticipants = 20
	}
	if row.PriceCents == 0 {
		row.PriceCents = 15000
	}

	_, err := db.Exec(context.Background(),
		`INSERT INTO tours (id, name, min_participants, max_participants, price_per_person_cents, currency, is_active)
		 VALUES ($1, $2, $3, $4, $5, 'PEN', $6)`,
		row.ID, row.Name, row.MinParticipants, row.MaxParticipants, row.PriceCents, row.IsActive)
	require.NoError(t, err)
	return row.ID
}

// CreateSchedule defaults to a 09:00-13:00 departure one week from today
// with ten spots.
func CreateSchedule(t *testing.T, db DBLike, row ScheduleRow) uuid.UUID {
	t.Helper()

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Date.IsZero() {
		row.Date = time.Now().UTC().AddDate(0, 0, 7)
	}
	if row.StartTime == "" {
		row.StartTime = "09:00"
	}
	if row.EndTime == "" {
		row.EndTime = "13:00"
	}
	if row.AvailableSpots == 0 {
		row.AvailableSpots = 10
	}
	if row.Status == "" {
		row.Status = "available"
	}

	_, err := db.Exec(context.Background(),
		`INSERT INTO tour_schedules (id, tour_id, date, start_time, end_time, available_spots, booked_spots, status)
		 VALUES ($1, $2, $3::date, $4::time, $5::time, $6, $7, $8)`,
		row.ID, row.TourID, row.Date.Format(time.DateOnly), row.StartTime, row.EndTime,
		row.AvailableSpots, row.BookedSpots, row.Status)
	require.NoError(t, err)
	return row.ID
}

// ScheduleCounts returns booked spots and status as stored.
func ScheduleCounts(t *testing.T, db DBLike, scheduleID uuid.UUID) (int, string) {
	t.Helper()

	var booked int
	var status string
	err := db.QueryRow(context.Background(),
		"SELECT booked_spots, status FROM tour_schedules WHERE id = $1", scheduleID).Scan(&booked, &status)
	require.NoError(t, err)
	return booked, status
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
