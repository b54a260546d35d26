//go:build unit

// Package memstore is an in-memory unit of work for use case tests.
// Transactions are serialized and work on a copy that is swapped in on
// success, so a failed callback leaves no trace.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type Job struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type data struct {
	tours     map[uuid.UUID]*tour.Tour
	schedules map[uuid.UUID]*tour.Schedule
	bookings  map[uuid.UUID]booking.State
	payments  map[uuid.UUID]payment.State
	keys      map[idemKey]shared.IdempotencyRecord
	jobs      []Job
}

type idemKey struct{ key, userID uuid.UUID }

func (d *data) clone() *data {
	return &data{
		tours:     maps.Clone(d.tours),
		schedules: maps.Clone(d.schedules),
		bookings:  maps.Clone(d.bookings),
		payments:  maps.Clone(d.payments),
		keys:      maps.Clone(d.keys),
		jobs:      slices.Clone(d.jobs),
	}
}

type Store struct {
	mu   sync.Mutex
	data *data

	// NotificationErr makes every outbox write fail.
	NotificationErr error
}

func New() *Store {
	return &Store{data: &data{
		tours:     map[uuid.UUID]*tour.Tour{},
		schedules: map[uuid.UUID]*tour.Schedule{},
		bookings:  map[uuid.UUID]booking.State{},
		payments:  map[uuid.UUID]payment.State{},
		keys:      map[idemKey]shared.IdempotencyRecord{},
	}}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{data: s.data.clone(), store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &lockedReads{store: s}
}

// Seeding and inspection helpers.

func (s *Store) AddTour(t *tour.Tour) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.tours[t.ID()] = t
}

func (s *Store) AddSchedule(sc *tour.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.schedules[sc.ID()] = sc
}

func (s *Store) AddBooking(st booking.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.bookings[st.ID] = st
}

func (s *Store) AddPayment(st payment.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.payments[st.ID] = st
}

func (s *Store) Schedule(id uuid.UUID) *tour.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.schedules[id]
}

func (s *Store) Booking(id uuid.UUID) booking.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.bookings[id]
}

func (s *Store) Bookings() []booking.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(maps.Values(s.data.bookings))
}

func (s *Store) Payments() []payment.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(maps.Values(s.data.payments))
}

func (s *Store) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.jobs)
}

type memTx struct {
	data  *data
	store *Store
}

func (t *memTx) Bookings() shared.BookingRepository          { return &bookingRepo{d: t.data} }
func (t *memTx) Ledger() shared.SpotLedger                   { return &ledger{d: t.data} }
func (t *memTx) Payments() shared.PaymentRepository          { return &paymentRepo{d: t.data} }
func (t *memTx) Notifications() shared.NotificationRepository { return &outbox{d: t.data, err: t.store.NotificationErr} }
func (t *memTx) Idempotency() shared.IdempotencyRepository    { return &idempotency{d: t.data} }
func (t *memTx) Reads() shared.CommandReads                  { return &reads{d: t.data} }

type bookingRepo struct{ d *data }

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	st := b.State()
	for _, existing := range r.d.bookings {
		if existing.Reference == st.Reference {
			return errs.Newf("duplicate booking reference %s", st.Reference)
		}
	}
	r.d.bookings[st.ID] = st
	return nil
}

func (r *bookingRepo) Save(_ context.Context, b *booking.Booking, guard shared.BookingGuard) error {
	stored, ok := r.d.bookings[b.ID()]
	if !ok {
		return errs.NotFoundf("booking %s not found", b.ID())
	}
	if stored.Status != guard.Status || stored.PaymentStatus != guard.PaymentStatus {
		return errs.Statef("booking %s was modified concurrently", stored.Reference)
	}
	r.d.bookings[b.ID()] = b.State()
	return nil
}

type ledger struct{ d *data }

func (l *ledger) Reserve(_ context.Context, scheduleID uuid.UUID, n int) (shared.SpotCounts, error) {
	s, ok := l.d.schedules[scheduleID]
	if !ok {
		return shared.SpotCounts{}, errs.NotFoundf("schedule %s not found", scheduleID)
	}
	if s.Status().IsSticky() {
		return shared.SpotCounts{}, errs.Statef("schedule is %s", s.Status())
	}
	if s.BookedSpots()+n > s.AvailableSpots() {
		return shared.SpotCounts{}, errs.Capacity(n, s.Remaining())
	}
	return l.write(s, s.BookedSpots()+n, s.Status()), nil
}

func (l *ledger) Release(_ context.Context, scheduleID uuid.UUID, n int) (shared.SpotCounts, error) {
	s, ok := l.d.schedules[scheduleID]
	if !ok {
		return shared.SpotCounts{}, errs.NotFoundf("schedule %s not found", scheduleID)
	}
	return l.write(s, max(s.BookedSpots()-n, 0), s.Status()), nil
}

func (l *ledger) Complete(_ context.Context, scheduleID uuid.UUID) (shared.SpotCounts, error) {
	s, ok := l.d.schedules[scheduleID]
	if !ok {
		return shared.SpotCounts{}, errs.NotFoundf("schedule %s not found", scheduleID)
	}
	if s.Status() == tour.ScheduleCancelled {
		return shared.SpotCounts{}, errs.Statef("schedule is cancelled")
	}
	return l.write(s, s.BookedSpots(), tour.ScheduleCompleted), nil
}

func (l *ledger) write(s *tour.Schedule, booked int, status tour.ScheduleStatus) shared.SpotCounts {
	status = tour.DeriveStatus(status, s.AvailableSpots(), booked)
	l.d.schedules[s.ID()] = tour.ReconstructSchedule(s.ID(), s.TourID(), s.Date(), s.StartTime(), s.EndTime(),
		s.AvailableSpots(), booked, status, s.PriceOverride())
	return shared.SpotCounts{AvailableSpots: s.AvailableSpots(), BookedSpots: booked, Status: status}
}

type paymentRepo struct{ d *data }

func (r *paymentRepo) Create(_ context.Context, p *payment.Payment) error {
	r.d.payments[p.ID()] = p.State()
	return nil
}

func (r *paymentRepo) Save(_ context.Context, p *payment.Payment, from payment.Status) error {
	stored, ok := r.d.payments[p.ID()]
	if !ok {
		return errs.NotFoundf("payment %s not found", p.ID())
	}
	if stored.Status != from {
		return errs.Statef("payment %s was modified concurrently", p.ID())
	}
	r.d.payments[p.ID()] = p.State()
	return nil
}

type outbox struct {
	d   *data
	err error
}

func (o *outbox) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	if o.err != nil {
		return o.err
	}
	o.d.jobs = append(o.d.jobs, Job{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}

type idempotency struct{ d *data }

func (r *idempotency) Claim(_ context.Context, rec shared.IdempotencyRecord, now time.Time) (bool, error) {
	k := idemKey{rec.Key, rec.UserID}
	if existing, ok := r.d.keys[k]; ok && !existing.ExpiresAt.Before(now) {
		return false, nil
	}
	r.d.keys[k] = rec
	return true, nil
}

func (r *idempotency) Get(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.d.keys[idemKey{key, userID}]
	if !ok {
		return nil, errs.NotFoundf("idempotency key %s not found", key)
	}
	return &rec, nil
}

func (r *idempotency) Complete(_ context.Context, key, userID, resultID uuid.UUID) error {
	k := idemKey{key, userID}
	rec, ok := r.d.keys[k]
	if !ok {
		return errs.NotFoundf("idempotency key %s not found", key)
	}
	rec.Status = shared.IdempotencyCompleted
	rec.ResultID = &resultID
	r.d.keys[k] = rec
	return nil
}

type reads struct{ d *data }

func (r *reads) TourByID(_ context.Context, id uuid.UUID) (*tour.Tour, error) {
	t, ok := r.d.tours[id]
	if !ok {
		return nil, errs.NotFoundf("tour %s not found", id)
	}
	return t, nil
}

func (r *reads) ScheduleByID(_ context.Context, id uuid.UUID) (*tour.Schedule, error) {
	s, ok := r.d.schedules[id]
	if !ok {
		return nil, errs.NotFoundf("schedule %s not found", id)
	}
	return s, nil
}

func (r *reads) BookingByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	st, ok := r.d.bookings[id]
	if !ok {
		return nil, errs.NotFoundf("booking %s not found", id)
	}
	return booking.Reconstruct(st), nil
}

func (r *reads) BookingsBySchedule(_ context.Context, scheduleID uuid.UUID, status booking.Status) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, st := range r.d.bookings {
		if st.ScheduleID != nil && *st.ScheduleID == scheduleID && st.Status == status {
			out = append(out, booking.Reconstruct(st))
		}
	}
	return out, nil
}

func (r *reads) PaymentByID(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	st, ok := r.d.payments[id]
	if !ok {
		return nil, errs.NotFoundf("payment %s not found", id)
	}
	return payment.Reconstruct(st), nil
}

// lockedReads serves reads made outside a transaction.
type lockedReads struct{ store *Store }

func (r *lockedReads) with() *reads {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return &reads{d: r.store.data.clone()}
}

func (r *lockedReads) TourByID(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	return r.with().TourByID(ctx, id)
}

func (r *lockedReads) ScheduleByID(ctx context.Context, id uuid.UUID) (*tour.Schedule, error) {
	return r.with().ScheduleByID(ctx, id)
}

func (r *lockedReads) BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.with().BookingByID(ctx, id)
}

func (r *lockedReads) BookingsBySchedule(ctx context.Context, scheduleID uuid.UUID, status booking.Status) ([]*booking.Booking, error) {
	return r.with().BookingsBySchedule(ctx, scheduleID, status)
}

func (r *lockedReads) PaymentByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return r.with().PaymentByID(ctx, id)
}

// Catalog reads for availability queries.

func (s *Store) FindTour(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	return s.CommandReads().TourByID(ctx, id)
}

func (s *Store) FindTours(_ context.Context, ids []uuid.UUID) ([]*tour.Tour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*tour.Tour
	for _, id := range ids {
		if t, ok := s.data.tours[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) FindSchedule(ctx context.Context, id uuid.UUID) (*tour.Schedule, error) {
	return s.CommandReads().ScheduleByID(ctx, id)
}

func (s *Store) FindSchedules(_ context.Context, tourIDs []uuid.UUID, from, to civil.Date) ([]*tour.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*tour.Schedule
	for _, sc := range s.data.schedules {
		if !slices.Contains(tourIDs, sc.TourID()) || sc.Date().Before(from) || sc.Date().After(to) {
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}
