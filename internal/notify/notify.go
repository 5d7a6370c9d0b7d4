// Package notify delivers outbound notifications to external sinks without
// ever blocking the session loop.
package notify

import (
	"context"
	"log/slog"

	"github.com/samborkent/uuidv7"

	"github.com/mcoot/roomwarden/internal/model"
)

// Publisher accepts notifications for asynchronous delivery
type Publisher interface {
	Publish(n model.Notification)
}

// Sink delivers a single notification to an external system
type Sink interface {
	Name() string
	Send(ctx context.Context, n model.Notification) error
}

// Fanout publishes every notification to each publisher, so every sink keeps
// its own queue and a slow sink never delays the others
type Fanout []Publisher

// Publish hands n to every publisher. All copies share one ID.
func (f Fanout) Publish(n model.Notification) {
	if n.ID == "" {
		n.ID = uuidv7.New().String()
	}
	for _, p := range f {
		p.Publish(n)
	}
}

// LogSink writes notifications to a structured logger
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With(slog.String("sink", "log"))}
}

// Name returns "log"
func (s *LogSink) Name() string { return "log" }

// Send logs the notification at info level
func (s *LogSink) Send(ctx context.Context, n model.Notification) error {
	attrs := []any{
		slog.String("id", n.ID),
		slog.String("kind", string(n.Kind)),
		slog.String("title", n.Title),
		slog.String("description", n.Description),
	}
	for _, f := range n.Fields {
		attrs = append(attrs, slog.String("field."+f.Name, f.Value))
	}
	s.logger.InfoContext(ctx, "notification", attrs...)
	return nil
}

// KindFilter passes through only notifications of the listed kinds
type KindFilter struct {
	Sink  Sink
	Kinds map[model.NotificationKind]bool
}

// Name returns the wrapped sink's name
func (f KindFilter) Name() string { return f.Sink.Name() }

// Send forwards matching notifications and silently skips the rest
func (f KindFilter) Send(ctx context.Context, n model.Notification) error {
	if !f.Kinds[n.Kind] {
		return nil
	}
	return f.Sink.Send(ctx, n)
}

var (
	_ Publisher = Fanout(nil)
	_ Sink      = (*LogSink)(nil)
	_ Sink      = KindFilter{}
)
