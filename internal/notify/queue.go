package notify

import (
	"log/slog"
	"sync/atomic"

	"github.com/samborkent/uuidv7"

	"github.com/mcoot/roomwarden/internal/dependencies/clock"
	"github.com/mcoot/roomwarden/internal/model"
)

// DefaultQueueSize is the default capacity of the outbound queue
const DefaultQueueSize = 256

// Queue is a bounded outbound notification buffer. Publish never blocks:
// when the buffer is full the notification is dropped and a warning logged.
type Queue struct {
	ch      chan model.Notification
	clock   clock.Clock
	logger  *slog.Logger
	dropped atomic.Int64
}

// Ensure Queue implements Publisher
var _ Publisher = (*Queue)(nil)

// NewQueue creates a Queue holding at most size pending notifications
func NewQueue(size int, clk clock.Clock, logger *slog.Logger) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		ch:     make(chan model.Notification, size),
		clock:  clk,
		logger: logger.With(slog.String("component", "notify")),
	}
}

// Publish assigns an ID and timestamp if missing and enqueues n
func (q *Queue) Publish(n model.Notification) {
	if n.ID == "" {
		n.ID = uuidv7.New().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = q.clock.Now()
	}
	select {
	case q.ch <- n:
	default:
		q.dropped.Add(1)
		q.logger.Warn("notification dropped - queue full",
			slog.String("title", n.Title),
			slog.String("kind", string(n.Kind)))
	}
}

// Len returns the number of pending notifications
func (q *Queue) Len() int {
	return len(q.ch)
}

// Dropped returns how many notifications were discarded because the queue was full
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}

// C exposes the pending notifications to a worker
func (q *Queue) C() <-chan model.Notification {
	return q.ch
}
