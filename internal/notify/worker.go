package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/mcoot/roomwarden/internal/model"
)

// WorkerConfig holds delivery settings
type WorkerConfig struct {
	// Cooldown is the minimum spacing between deliveries
	Cooldown time.Duration
	// MaxAttempts bounds delivery attempts per notification
	MaxAttempts int
	// InitialBackoff is the first retry delay
	InitialBackoff time.Duration
	// SendTimeout bounds a single delivery attempt
	SendTimeout time.Duration
}

// DefaultWorkerConfig returns default delivery settings
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Cooldown:       time.Second,
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		SendTimeout:    10 * time.Second,
	}
}

// Worker drains a Queue into a Sink, one notification at a time
type Worker struct {
	queue   *Queue
	sink    Sink
	cfg     WorkerConfig
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewWorker creates a Worker
func NewWorker(queue *Queue, sink Sink, cfg WorkerConfig, logger *slog.Logger) *Worker {
	def := DefaultWorkerConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = def.SendTimeout
	}
	limit := rate.Inf
	if cfg.Cooldown > 0 {
		limit = rate.Every(cfg.Cooldown)
	}
	return &Worker{
		queue:   queue,
		sink:    sink,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With(slog.String("component", "notify-worker"), slog.String("sink", sink.Name())),
	}
}

// Run delivers notifications until ctx is cancelled
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopped", slog.Int("pending", w.queue.Len()))
			return
		case n := <-w.queue.C():
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			w.deliver(ctx, n)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, n model.Notification) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.cfg.InitialBackoff

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		sendCtx, cancel := context.WithTimeout(ctx, w.cfg.SendTimeout)
		defer cancel()
		return struct{}{}, w.sink.Send(sendCtx, n)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(w.cfg.MaxAttempts)),
	)
	if err != nil {
		w.logger.Error("notification delivery failed",
			slog.String("id", n.ID),
			slog.String("title", n.Title),
			slog.Int("attempts", attempts),
			slog.Any("error", err))
		return
	}
	w.logger.Debug("notification delivered",
		slog.String("id", n.ID),
		slog.Int("attempts", attempts))
}
