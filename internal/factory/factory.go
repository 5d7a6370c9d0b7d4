package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/roomwarden/internal/config"
	"github.com/mcoot/roomwarden/internal/dependencies/clock"
	"github.com/mcoot/roomwarden/internal/dependencies/random"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
	"github.com/mcoot/roomwarden/internal/notify/email"
	redisnotify "github.com/mcoot/roomwarden/internal/notify/redis"
	"github.com/mcoot/roomwarden/internal/notify/stream"
	"github.com/mcoot/roomwarden/internal/notify/webhook"
	"github.com/mcoot/roomwarden/internal/room/simroom"
	"github.com/mcoot/roomwarden/internal/services/authority"
	"github.com/mcoot/roomwarden/internal/services/clubs"
	"github.com/mcoot/roomwarden/internal/services/commands"
	"github.com/mcoot/roomwarden/internal/services/lineup"
	"github.com/mcoot/roomwarden/internal/services/match"
	"github.com/mcoot/roomwarden/internal/services/roles"
	"github.com/mcoot/roomwarden/internal/services/scheduler"
	"github.com/mcoot/roomwarden/internal/services/stats"
	"github.com/mcoot/roomwarden/internal/services/touches"
	"github.com/mcoot/roomwarden/internal/session"
)

// Version is reported by the status endpoints and !info
const Version = "1.0.0"

// ErrRoomUnresponsive is returned by Run when the liveness check fails
var ErrRoomUnresponsive = errors.New("room is unresponsive")

// App contains all wired application components
type App struct {
	Config config.Config

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Platform
	Room *simroom.Room

	// Moderator
	State *session.State
	Loop  *session.Loop

	// Notifications
	Publisher notify.Publisher
	Workers   []*notify.Worker
	// Stream serves notifications to /api/v1/events subscribers
	Stream *stream.Hub

	StartedAt time.Time

	logger   *slog.Logger
	closers  []io.Closer
	failed   chan struct{}
	failOnce sync.Once
}

type dependencies struct {
	clock      clock.Clock
	random     random.Random
	publisher  notify.Publisher
	bcryptCost int
}

// New creates a new application with all dependencies wired
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	hub := stream.NewHub(clk, logger)
	publisher, workers, closers, err := buildNotifications(cfg, clk, hub, logger)
	if err != nil {
		return nil, err
	}

	app, err := newWithDependencies(cfg, dependencies{
		clock:      clk,
		random:     rnd,
		publisher:  publisher,
		bcryptCost: bcrypt.DefaultCost,
	}, logger)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	app.Workers = workers
	app.Stream = hub
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(cfg config.Config, deps dependencies, logger *slog.Logger) (*App, error) {
	hash, err := authority.HashPassword(cfg.OwnerPassword, deps.bcryptCost)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Clock:     deps.clock,
		Random:    deps.random,
		Publisher: deps.publisher,
		StartedAt: deps.clock.Now(),
		logger:    logger.With(slog.String("component", "app")),
		failed:    make(chan struct{}),
	}

	app.Room = simroom.New(simroom.Config{
		Name:       cfg.RoomName,
		MaxPlayers: cfg.MaxPlayers,
		ScoreLimit: cfg.ScoreLimit,
		TimeLimit:  time.Duration(cfg.TimeLimit) * time.Minute,
	}, deps.clock, logger)

	auth := authority.New(authority.Config{OwnerPasswordHash: hash}, app.Room, deps.publisher, logger)
	registry := clubs.New(auth, app.Room, deps.publisher, logger)
	tracker := touches.New(touches.Config{
		Capacity: cfg.TouchCapacity,
		Window:   cfg.TouchWindow,
	}, deps.clock)
	book := stats.New()
	engine := match.New(match.Config{
		ResetTouchesOnGameStart: cfg.ResetTouchesOnGameStart,
	}, app.Room, tracker, book, deps.publisher, logger)
	moves := lineup.New()
	labeler := roles.New(auth, registry)

	geo := commands.Geo{Code: cfg.GeoCode, Lat: cfg.GeoLat, Lon: cfg.GeoLon}
	info := commands.Info{
		RoomName:      cfg.RoomName,
		HostName:      cfg.PlayerName,
		Public:        cfg.Public,
		Geo:           geo,
		DiscordInvite: cfg.DiscordInvite,
		Version:       Version,
		ReadyDelay:    commands.DefaultReadyDelay,
	}
	env := &commands.Env{
		Room:      app.Room,
		Authority: auth,
		Clubs:     registry,
		Stats:     book,
		Match:     engine,
		Lineup:    moves,
		Roles:     labeler,
		Random:    deps.random,
		Publisher: deps.publisher,
		Info:      info,
	}

	sched := scheduler.New(deps.clock, logger)
	sched.Add(scheduler.NewReminder(app.Room, cfg.DiscordInvite, cfg.DiscordReminderInterval))
	sched.Add(scheduler.NewAutoJoinGuard(app.Room, auth, moves, cfg.AutoJoinPreventionInterval, logger))
	sched.Add(scheduler.NewLiveness(app.Room, deps.publisher, cfg.HealthCheckInterval, app.markFailed, logger))

	app.State = &session.State{
		Room:       app.Room,
		Authority:  auth,
		Clubs:      registry,
		Touches:    tracker,
		Stats:      book,
		Match:      engine,
		Lineup:     moves,
		Roles:      labeler,
		Dispatcher: commands.NewDispatcher(commands.NewDefaultRegistry(), env, cfg.CommandPrefix, logger),
		Scheduler:  sched,
		Publisher:  deps.publisher,
		Info:       info,
		LogChat:    cfg.LogChat,
	}
	app.Loop = session.NewLoop(app.State, deps.clock, session.DefaultEventBuffer, logger)
	env.Deferrer = app.Loop

	return app, nil
}

// buildNotifications gives every configured sink its own queue and worker.
// The event stream hub is always a sink.
func buildNotifications(cfg config.Config, clk clock.Clock, hub *stream.Hub, logger *slog.Logger) (notify.Publisher, []*notify.Worker, []io.Closer, error) {
	var (
		fanout  notify.Fanout
		workers []*notify.Worker
		closers []io.Closer
	)
	add := func(sink notify.Sink, wcfg notify.WorkerConfig) {
		q := notify.NewQueue(cfg.NotifyQueueSize, clk, logger)
		fanout = append(fanout, q)
		workers = append(workers, notify.NewWorker(q, sink, wcfg, logger))
	}
	add(hub, notify.WorkerConfig{})

	for _, name := range cfg.NotifySinks {
		switch name {
		case config.SinkLog:
			add(notify.NewLogSink(logger), notify.WorkerConfig{})

		case config.SinkWebhook:
			wcfg := webhook.DefaultConfig()
			wcfg.URL = cfg.DiscordWebhook
			sink, err := webhook.New(wcfg)
			if err != nil {
				logger.Warn("webhook sink disabled", slog.String("error", err.Error()))
				continue
			}
			add(sink, notify.WorkerConfig{
				Cooldown:    cfg.WebhookCooldown,
				MaxAttempts: cfg.WebhookMaxAttempts,
			})

		case config.SinkRedis:
			rcfg := redisnotify.DefaultConfig()
			rcfg.URL = cfg.RedisURL
			rcfg.Channel = cfg.RedisChannel
			sink, err := redisnotify.New(rcfg)
			if err != nil {
				closeAll(closers)
				return nil, nil, nil, fmt.Errorf("redis sink: %w", err)
			}
			closers = append(closers, sink)
			add(sink, notify.WorkerConfig{})

		case config.SinkEmail:
			sink, err := email.New(email.Config{
				APIKey: cfg.ResendAPIKey,
				From:   cfg.EmailFrom,
				To:     cfg.EmailTo,
			})
			if err != nil {
				logger.Warn("email sink disabled", slog.String("error", err.Error()))
				continue
			}
			kinds := make(map[model.NotificationKind]bool, len(cfg.EmailKinds))
			for _, k := range cfg.EmailKinds {
				kinds[model.NotificationKind(k)] = true
			}
			add(notify.KindFilter{Sink: sink, Kinds: kinds}, notify.WorkerConfig{})
		}
	}

	return fanout, workers, closers, nil
}

// Run starts every goroutine and blocks until ctx is cancelled or the room
// stops responding
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	spawn := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	spawn(func() { _ = a.Loop.Run(ctx) })
	spawn(func() { _ = a.Room.ForwardEvents(ctx, a.Loop.Submit) })
	spawn(func() { a.State.Scheduler.Run(ctx, a.Loop.Submit) })
	if a.Stream != nil {
		spawn(func() { a.Stream.Run(ctx) })
	}
	for _, w := range a.Workers {
		spawn(func() { w.Run(ctx) })
	}

	a.logger.Info("moderator running",
		slog.String("room", a.Config.RoomName),
		slog.Any("tasks", a.State.Scheduler.Names()),
		slog.Int("sinks", len(a.Workers)),
	)

	var err error
	select {
	case <-ctx.Done():
	case <-a.failed:
		err = ErrRoomUnresponsive
	}
	cancel()
	wg.Wait()
	return err
}

// Close releases external connections
func (a *App) Close() error {
	a.Room.Close()
	return closeAll(a.closers)
}

func (a *App) markFailed() {
	a.failOnce.Do(func() {
		a.logger.Error("room failed its liveness check")
		close(a.failed)
	})
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
