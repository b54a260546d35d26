//go:build unit

package messaging_test

import (
	"context"
	"testing"
	"time"

	"tour-booking/internal/infra/messaging"
	"tour-booking/internal/infra/repository"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/metrics"
	"tour-booking/internal/usecase/shared"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeOutbox struct {
	jobs   []repository.NotificationJob
	sent   []uuid.UUID
	failed map[uuid.UUID]time.Time
	errs   map[uuid.UUID]string
}

func newFakeOutbox(jobs ...repository.NotificationJob) *fakeOutbox {
	return &fakeOutbox{jobs: jobs, failed: map[uuid.UUID]time.Time{}, errs: map[uuid.UUID]string{}}
}

func (o *fakeOutbox) InBatch(ctx context.Context, fn func(ctx context.Context, batch messaging.OutboxBatch) error) error {
	return fn(ctx, o)
}

func (o *fakeOutbox) ClaimDue(_ context.Context, now time.Time, limit int) ([]repository.NotificationJob, error) {
	var due []repository.NotificationJob
	for _, j := range o.jobs {
		if !j.RunAt.After(now) && len(due) < limit {
			due = append(due, j)
		}
	}
	return due, nil
}

func (o *fakeOutbox) MarkSent(_ context.Context, id uuid.UUID) error {
	o.sent = append(o.sent, id)
	return nil
}

func (o *fakeOutbox) MarkFailed(_ context.Context, id uuid.UUID, lastError string, _ int, retryAt time.Time) error {
	o.failed[id] = retryAt
	o.errs[id] = lastError
	return nil
}

type rejectingPublisher struct{}

func (rejectingPublisher) Publish(string, ...*message.Message) error {
	return errs.New("broker unavailable")
}

func (rejectingPublisher) Close() error { return nil }

type RelayTestSuite struct {
	suite.Suite
	now     time.Time
	cfg     config.OutboxConfig
	metrics *metrics.Metrics
}

func (s *RelayTestSuite) SetupTest() {
	s.now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.cfg = config.OutboxConfig{PollInterval: time.Second, BatchSize: 10, MaxAttempts: 3}
	s.metrics = metrics.New("relay_test")
}

func (s *RelayTestSuite) job(kind, topic string, runAt time.Time, attempts int) repository.NotificationJob {
	return repository.NotificationJob{
		ID:       uuid.New(),
		Kind:     kind,
		Topic:    topic,
		Payload:  []byte(`{"reference":"TB-1"}`),
		Attempts: attempts,
		RunAt:    runAt,
	}
}

func (s *RelayTestSuite) TestPublishesDueJobs() {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, messaging.NewSlogAdapter(nil))
	defer pubSub.Close()

	ctx := context.Background()
	msgs, err := pubSub.Subscribe(ctx, shared.TopicBookings)
	require.NoError(s.T(), err)

	due := s.job(shared.EventBookingConfirmed, shared.TopicBookings, s.now.Add(-time.Minute), 0)
	later := s.job(shared.EventBookingCancelled, shared.TopicBookings, s.now.Add(time.Hour), 0)
	outbox := newFakeOutbox(due, later)

	relay := messaging.NewRelay(outbox, pubSub, clock.NewMockClock(s.now), s.metrics, s.cfg)
	sent, err := relay.RunOnce(ctx)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, sent)
	assert.Equal(s.T(), []uuid.UUID{due.ID}, outbox.sent)
	assert.Empty(s.T(), outbox.failed)

	select {
	case msg := <-msgs:
		assert.Equal(s.T(), shared.EventBookingConfirmed, msg.Metadata.Get("type"))
		assert.Equal(s.T(), due.ID.String(), msg.Metadata.Get("job_id"))
		assert.JSONEq(s.T(), `{"reference":"TB-1"}`, string(msg.Payload))
		msg.Ack()
	case <-time.After(2 * time.Second):
		s.T().Fatal("message was not delivered")
	}
}

func (s *RelayTestSuite) TestFailedPublishIsRescheduled() {
	first := s.job(shared.EventPaymentCompleted, shared.TopicPayments, s.now, 0)
	third := s.job(shared.EventPaymentRefunded, shared.TopicPayments, s.now, 2)
	outbox := newFakeOutbox(first, third)

	relay := messaging.NewRelay(outbox, rejectingPublisher{}, clock.NewMockClock(s.now), s.metrics, s.cfg)
	sent, err := relay.RunOnce(context.Background())

	require.NoError(s.T(), err)
	assert.Zero(s.T(), sent)
	assert.Empty(s.T(), outbox.sent)
	assert.Equal(s.T(), s.now.Add(time.Second), outbox.failed[first.ID])
	assert.Equal(s.T(), s.now.Add(4*time.Second), outbox.failed[third.ID])
	assert.Equal(s.T(), "broker unavailable", outbox.errs[first.ID])
}

func (s *RelayTestSuite) TestBackoffIsCapped() {
	old := s.job(shared.EventBookingConfirmed, shared.TopicBookings, s.now, 40)
	outbox := newFakeOutbox(old)

	relay := messaging.NewRelay(outbox, rejectingPublisher{}, clock.NewMockClock(s.now), s.metrics, s.cfg)
	_, err := relay.RunOnce(context.Background())

	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.now.Add(time.Hour), outbox.failed[old.ID])
}

func (s *RelayTestSuite) TestRunStopsOnCancel() {
	relay := messaging.NewRelay(newFakeOutbox(), rejectingPublisher{}, clock.NewMockClock(s.now), s.metrics, s.cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(s.T(), err)
	case <-time.After(2 * time.Second):
		s.T().Fatal("relay did not stop")
	}
}

func TestRelayTestSuite(t *testing.T) {
	suite.Run(t, new(RelayTestSuite))
}
