package readstore

import (
	"context"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/money"
	"tour-booking/internal/infra"
	"tour-booking/internal/infra/db"
	"tour-booking/internal/infra/repository/converter"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/pgconv"
	"tour-booking/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const bookingViewSQL = `SELECT ` + converter.BookingColumns + `, t.name, s.date, s.start_time
FROM bookings b
JOIN tours t ON t.id = b.tour_id
LEFT JOIN tour_schedules s ON s.id = b.tour_schedule_id
WHERE b.id = $1`

var bookingListColumns = []string{
	"b.id", "b.reference", "b.tour_id", "t.name", "s.date", "b.participants_count",
	"b.total_amount_cents", "b.currency", "b.status", "b.payment_status", "b.created_at",
}

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

var _ queries.BookingReadStore = (*BookingReadStore)(nil)

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		tourName string
		date     pgtype.Date
		start    pgtype.Time
	)
	st, err := converter.ScanBooking(s.db.QueryRow(ctx, bookingViewSQL, id), &tourName, &date, &start)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	view := &queries.BookingView{
		ID:                 st.ID,
		Reference:          st.Reference,
		UserID:             st.UserID,
		TourID:             st.TourID,
		TourName:           tourName,
		ScheduleID:         st.ScheduleID,
		ParticipantsCount:  st.ParticipantsCount,
		PricePerPerson:     st.PricePerPerson,
		TotalAmount:        st.TotalAmount,
		CommissionRate:     st.CommissionRate,
		CommissionAmount:   st.CommissionAmount,
		Currency:           st.Currency,
		Status:             st.Status,
		PaymentStatus:      st.PaymentStatus,
		Contact:            st.Contact,
		EmergencyContact:   st.EmergencyContact,
		Participants:       st.Participants,
		SpecialRequests:    st.SpecialRequests,
		CancellationReason: st.CancellationReason,
		ConfirmedAt:        st.ConfirmedAt,
		CancelledAt:        st.CancelledAt,
		CompletedAt:        st.CompletedAt,
		CreatedAt:          st.CreatedAt,
		UpdatedAt:          st.UpdatedAt,
	}
	if date.Valid {
		d := pgconv.DateFromPgtype(date)
		view.ScheduleDate = &d
	}
	if start.Valid {
		t := pgconv.TimeOfDayFromPgtype(start)
		view.StartTime = &t
	}
	return view, nil
}

// FindFirstPage lists newest bookings first.
func (s *BookingReadStore) FindFirstPage(ctx context.Context, filter queries.BookingFilter, limit int) ([]*queries.BookingListItem, error) {
	return s.list(ctx, listQuery(filter, limit))
}

func (s *BookingReadStore) FindKeyset(ctx context.Context, filter queries.BookingFilter, lastCreatedAt time.Time, lastID uuid.UUID, limit int) ([]*queries.BookingListItem, error) {
	q := listQuery(filter, limit).
		Where(squirrel.Expr("(b.created_at, b.id) < (?, ?)", lastCreatedAt, lastID))
	return s.list(ctx, q)
}

func listQuery(filter queries.BookingFilter, limit int) squirrel.SelectBuilder {
	q := psql.Select(bookingListColumns...).
		From("bookings b").
		Join("tours t ON t.id = b.tour_id").
		LeftJoin("tour_schedules s ON s.id = b.tour_schedule_id").
		OrderBy("b.created_at DESC", "b.id DESC").
		Limit(uint64(max(limit, 1)))
	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"b.user_id": *filter.UserID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"b.status": string(*filter.Status)})
	}
	return q
}

func (s *BookingReadStore) list(ctx context.Context, q squirrel.SelectBuilder) ([]*queries.BookingListItem, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, errs.Wrap(err, "build booking list query")
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	items := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var (
			item                  queries.BookingListItem
			date                  pgtype.Date
			count                 int32
			total                 int64
			status, paymentStatus string
		)
		if err := rows.Scan(&item.ID, &item.Reference, &item.TourID, &item.TourName, &date, &count,
			&total, &item.Currency, &status, &paymentStatus, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		if date.Valid {
			d := pgconv.DateFromPgtype(date)
			item.ScheduleDate = &d
		}
		item.ParticipantsCount = int(count)
		item.TotalAmount = money.FromCents(total)
		item.Status = booking.Status(status)
		item.PaymentStatus = booking.PaymentStatus(paymentStatus)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return items, nil
}

// Summarize aggregates per status. Upcoming counts live bookings whose
// departure is today or later; spent only counts paid bookings.
func (s *BookingReadStore) Summarize(ctx context.Context, userID *uuid.UUID, today civil.Date) (*queries.BookingSummary, error) {
	q := psql.Select(
		"b.status",
		"count(*)",
		"COALESCE(sum(b.participants_count), 0)::bigint",
		"COALESCE(sum(b.total_amount_cents) FILTER (WHERE b.payment_status = 'paid'), 0)::bigint",
	).
		Column(squirrel.Expr("count(*) FILTER (WHERE b.status IN ('pending', 'confirmed', 'paid') AND s.date >= ?)", pgconv.DateToPgtype(today))).
		From("bookings b").
		LeftJoin("tour_schedules s ON s.id = b.tour_schedule_id").
		GroupBy("b.status")
	if userID != nil {
		q = q.Where(squirrel.Eq{"b.user_id": *userID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, errs.Wrap(err, "build booking summary query")
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to summarize bookings", err)
	}
	defer rows.Close()

	summary := &queries.BookingSummary{ByStatus: map[booking.Status]int{}, TotalSpent: money.FromCents(0)}
	for rows.Next() {
		var (
			status                               string
			count, participants, spent, upcoming int64
		)
		if err := rows.Scan(&status, &count, &participants, &spent, &upcoming); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking summary", err)
		}
		st := booking.Status(status)
		summary.ByStatus[st] = int(count)
		summary.Total += int(count)
		summary.Upcoming += int(upcoming)
		if st != booking.StatusCancelled {
			summary.Participants += int(participants)
		}
		summary.TotalSpent = summary.TotalSpent.Add(money.FromCents(spent))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking summary", err)
	}
	return summary, nil
}
