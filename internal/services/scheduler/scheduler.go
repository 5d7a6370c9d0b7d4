// Package scheduler runs periodic room tasks. Tickers live on their own
// goroutines but only submit EventTaskDue; task bodies run on the session loop
// through Fire.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/roomwarden/internal/dependencies/clock"
	"github.com/mcoot/roomwarden/internal/model"
)

// Task is a periodic job
type Task interface {
	Name() string
	Interval() time.Duration
	Run(now time.Time)
}

// SubmitFunc hands an event to the session loop
type SubmitFunc func(ctx context.Context, ev model.Event) error

// Scheduler owns a set of tasks
type Scheduler struct {
	clock  clock.Clock
	logger *slog.Logger
	tasks  map[string]Task
	order  []string
}

// New creates an empty Scheduler
func New(clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		clock:  clk,
		logger: logger.With(slog.String("component", "scheduler")),
		tasks:  make(map[string]Task),
	}
}

// Add registers t. Tasks with a non-positive interval are ignored.
func (s *Scheduler) Add(t Task) {
	if t.Interval() <= 0 {
		s.logger.Warn("task disabled", slog.String("task", t.Name()))
		return
	}
	if _, dup := s.tasks[t.Name()]; !dup {
		s.order = append(s.order, t.Name())
	}
	s.tasks[t.Name()] = t
}

// Names returns the registered task names in insertion order
func (s *Scheduler) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Run ticks every task until ctx is done
func (s *Scheduler) Run(ctx context.Context, submit SubmitFunc) {
	var wg sync.WaitGroup
	for _, name := range s.order {
		t := s.tasks[name]
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.tick(ctx, t, submit)
		}()
	}
	s.logger.Info("scheduler started", slog.Int("tasks", len(s.order)))
	wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context, t Task, submit SubmitFunc) {
	ticker := s.clock.NewTicker(t.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			ev := model.Event{
				Type:    model.EventTaskDue,
				At:      now,
				Payload: model.TaskDuePayload{Task: t.Name()},
			}
			if err := submit(ctx, ev); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("task submit failed",
					slog.String("task", t.Name()),
					slog.Any("error", err))
			}
		}
	}
}

// Fire runs the named task. It must be called from the session loop.
func (s *Scheduler) Fire(name string, now time.Time) bool {
	t, ok := s.tasks[name]
	if !ok {
		s.logger.Warn("unknown task due", slog.String("task", name))
		return false
	}
	t.Run(now)
	return true
}
