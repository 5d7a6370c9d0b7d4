package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/roomwarden/internal/dependencies/mocks"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/testutil"
)

// scriptedSink fails with the queued errors, then succeeds
type scriptedSink struct {
	mu       sync.Mutex
	failures []error
	sent     []model.Notification
	attempts int
}

func (s *scriptedSink) Name() string { return "scripted" }

func (s *scriptedSink) Send(_ context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		return err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *scriptedSink) snapshot() (int, []model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts, append([]model.Notification(nil), s.sent...)
}

func newClock() *mocks.MockClock {
	return mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
}

func TestQueuePublishFillsIDAndTimestamp(t *testing.T) {
	clk := newClock()
	q := NewQueue(4, clk, testutil.NopLogger())

	q.Publish(model.Notification{Title: "hello"})

	require.Equal(t, 1, q.Len())
	n := <-q.C()
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, clk.Now(), n.Timestamp)
}

func TestQueueKeepsExistingID(t *testing.T) {
	q := NewQueue(1, newClock(), testutil.NopLogger())
	q.Publish(model.Notification{ID: "fixed"})
	assert.Equal(t, "fixed", (<-q.C()).ID)
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2, newClock(), testutil.NopLogger())

	for range 5 {
		q.Publish(model.Notification{Title: "x"})
	}

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, int64(3), q.Dropped())
}

func TestFanoutPublishesToEveryQueue(t *testing.T) {
	a := NewQueue(1, newClock(), testutil.NopLogger())
	b := NewQueue(1, newClock(), testutil.NopLogger())

	Fanout{a, b}.Publish(model.Notification{ID: "n1"})
	// a full queue only drops its own copy
	Fanout{a, b}.Publish(model.Notification{ID: "n2"})

	assert.Equal(t, "n1", (<-a.C()).ID)
	assert.Equal(t, "n1", (<-b.C()).ID)
	assert.Equal(t, int64(1), a.Dropped())
	assert.Equal(t, int64(1), b.Dropped())
}

func TestFanoutSharesGeneratedID(t *testing.T) {
	a := NewQueue(1, newClock(), testutil.NopLogger())
	b := NewQueue(1, newClock(), testutil.NopLogger())

	Fanout{a, b}.Publish(model.Notification{Title: "x"})

	first, second := <-a.C(), <-b.C()
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, second.ID)
}

func TestLogSinkNeverFails(t *testing.T) {
	sink := NewLogSink(testutil.NopLogger())
	assert.Equal(t, "log", sink.Name())
	assert.NoError(t, sink.Send(context.Background(), model.Notification{
		Title:  "x",
		Fields: []model.NotificationField{{Name: "a", Value: "b"}},
	}))
}

func TestKindFilter(t *testing.T) {
	inner := &scriptedSink{}
	f := KindFilter{Sink: inner, Kinds: map[model.NotificationKind]bool{model.KindModeration: true}}

	require.NoError(t, f.Send(context.Background(), model.Notification{Kind: model.KindChat}))
	require.NoError(t, f.Send(context.Background(), model.Notification{Kind: model.KindModeration}))

	_, sent := inner.snapshot()
	require.Len(t, sent, 1)
	assert.Equal(t, model.KindModeration, sent[0].Kind)
}

func runWorker(t *testing.T, sink Sink, cfg WorkerConfig, notifications ...model.Notification) func() {
	t.Helper()
	q := NewQueue(8, newClock(), testutil.NopLogger())
	for _, n := range notifications {
		q.Publish(n)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewWorker(q, sink, cfg, testutil.NopLogger()).Run(ctx)
		close(done)
	}()
	return func() {
		cancel()
		<-done
	}
}

func fastConfig() WorkerConfig {
	return WorkerConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, SendTimeout: time.Second}
}

func TestWorkerRetriesTransientFailures(t *testing.T) {
	sink := &scriptedSink{failures: []error{errors.New("503"), errors.New("503")}}
	stop := runWorker(t, sink, fastConfig(), model.Notification{Title: "goal"})
	defer stop()

	assert.Eventually(t, func() bool {
		_, sent := sink.snapshot()
		return len(sent) == 1
	}, 2*time.Second, time.Millisecond)
	attempts, _ := sink.snapshot()
	assert.Equal(t, 3, attempts)
}

func TestWorkerGivesUpAfterMaxAttempts(t *testing.T) {
	fail := errors.New("down")
	sink := &scriptedSink{failures: []error{fail, fail, fail, fail}}
	stop := runWorker(t, sink, fastConfig(),
		model.Notification{Title: "first"},
		model.Notification{Title: "second"})
	defer stop()

	// the second notification gets the remaining failure, then succeeds
	assert.Eventually(t, func() bool {
		_, sent := sink.snapshot()
		return len(sent) == 1
	}, 2*time.Second, time.Millisecond)
	attempts, sent := sink.snapshot()
	assert.Equal(t, 5, attempts)
	assert.Equal(t, "second", sent[0].Title)
}

func TestWorkerStopsOnPermanentError(t *testing.T) {
	sink := &scriptedSink{failures: []error{backoff.Permanent(errors.New("400"))}}
	stop := runWorker(t, sink, fastConfig(),
		model.Notification{Title: "rejected"},
		model.Notification{Title: "next"})
	defer stop()

	assert.Eventually(t, func() bool {
		_, sent := sink.snapshot()
		return len(sent) == 1
	}, 2*time.Second, time.Millisecond)
	attempts, sent := sink.snapshot()
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "next", sent[0].Title)
}
