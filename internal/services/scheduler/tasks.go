package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
	"github.com/mcoot/roomwarden/internal/room"
)

// Task names
const (
	TaskDiscordReminder = "discord-reminder"
	TaskAutoJoinGuard   = "auto-join-guard"
	TaskLivenessCheck   = "liveness-check"
)

// Reminder periodically advertises the Discord invite
type Reminder struct {
	announcer room.Announcer
	invite    string
	interval  time.Duration
}

// NewReminder creates a Reminder. An empty invite disables it.
func NewReminder(announcer room.Announcer, invite string, interval time.Duration) *Reminder {
	if invite == "" {
		interval = 0
	}
	return &Reminder{announcer: announcer, invite: invite, interval: interval}
}

func (r *Reminder) Name() string            { return TaskDiscordReminder }
func (r *Reminder) Interval() time.Duration { return r.interval }

func (r *Reminder) Run(time.Time) {
	r.announcer.Announce(model.Broadcast(
		fmt.Sprintf("💬 Join our Discord server: %s", r.invite),
		model.ColorInfo, model.StyleBold))
}

// AdminChecker reports whether a session has staff rights
type AdminChecker interface {
	IsAdmin(s model.Session) bool
}

// MoveTracker reports whether staff placed a session on its team
type MoveTracker interface {
	WasMoved(id model.SessionID) bool
}

// AutoJoinGuard sends players who put themselves on a team back to the
// spectators. Staff and anyone placed by staff are left alone.
type AutoJoinGuard struct {
	room     room.Room
	admins   AdminChecker
	moves    MoveTracker
	interval time.Duration
	logger   *slog.Logger
}

// NewAutoJoinGuard creates an AutoJoinGuard
func NewAutoJoinGuard(r room.Room, admins AdminChecker, moves MoveTracker, interval time.Duration, logger *slog.Logger) *AutoJoinGuard {
	return &AutoJoinGuard{
		room:     r,
		admins:   admins,
		moves:    moves,
		interval: interval,
		logger:   logger.With(slog.String("task", TaskAutoJoinGuard)),
	}
}

func (g *AutoJoinGuard) Name() string            { return TaskAutoJoinGuard }
func (g *AutoJoinGuard) Interval() time.Duration { return g.interval }

func (g *AutoJoinGuard) Run(time.Time) {
	for _, s := range room.Participants(g.room) {
		if g.admins.IsAdmin(s) || g.moves.WasMoved(s.ID) {
			continue
		}
		g.room.SetTeam(s.ID, model.TeamSpectator)
		g.room.Announce(model.Private(s.ID, "⚠️ Only admins can move players to teams. Ask an admin!", model.ColorWarning))
		g.logger.Info("self-join reverted",
			slog.String("name", s.Name),
			slog.String("team", s.Team.String()))
	}
}

// Liveness checks the platform is still reachable and reports failures
type Liveness struct {
	room      room.Room
	publisher notify.Publisher
	interval  time.Duration
	onFailure func()
	logger    *slog.Logger

	failing bool
}

// NewLiveness creates a Liveness check. onFailure may be nil.
func NewLiveness(r room.Room, publisher notify.Publisher, interval time.Duration, onFailure func(), logger *slog.Logger) *Liveness {
	return &Liveness{
		room:      r,
		publisher: publisher,
		interval:  interval,
		onFailure: onFailure,
		logger:    logger.With(slog.String("task", TaskLivenessCheck)),
	}
}

func (l *Liveness) Name() string            { return TaskLivenessCheck }
func (l *Liveness) Interval() time.Duration { return l.interval }

func (l *Liveness) Run(now time.Time) {
	if l.room.Alive() {
		if l.failing {
			l.logger.Info("room recovered")
		}
		l.failing = false
		return
	}

	l.logger.Error("room is not responding")
	// only notify on the transition
	if !l.failing {
		l.publisher.Publish(model.Notification{
			Kind:        model.KindSystem,
			Title:       "🚨 Room Unresponsive",
			Description: fmt.Sprintf("Liveness check failed at %s", now.UTC().Format(time.RFC3339)),
			Color:       model.ColorError,
		})
	}
	l.failing = true
	if l.onFailure != nil {
		l.onFailure()
	}
}

var (
	_ Task = (*Reminder)(nil)
	_ Task = (*AutoJoinGuard)(nil)
	_ Task = (*Liveness)(nil)
)
