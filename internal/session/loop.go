package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/mcoot/roomwarden/internal/dependencies/clock"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/services/authority"
	"github.com/mcoot/roomwarden/internal/services/commands"
	"github.com/mcoot/roomwarden/internal/services/match"
)

// ErrStopped is returned when submitting to a loop that has exited
var ErrStopped = errors.New("session loop stopped")

// DefaultEventBuffer bounds the inbound event channel
const DefaultEventBuffer = 256

type call struct {
	fn   func(*State)
	done chan struct{}
}

// Loop applies events to State one at a time
type Loop struct {
	state  *State
	clock  clock.Clock
	logger *slog.Logger

	events chan model.Event
	calls  chan call
	done   chan struct{}
}

// Ensure Loop can schedule deferred command actions
var _ commands.Deferrer = (*Loop)(nil)

// NewLoop creates a Loop over state
func NewLoop(state *State, clk clock.Clock, buffer int, logger *slog.Logger) *Loop {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Loop{
		state:  state,
		clock:  clk,
		logger: logger.With(slog.String("component", "session")),
		events: make(chan model.Event, buffer),
		calls:  make(chan call),
		done:   make(chan struct{}),
	}
}

// Submit queues ev, blocking until there is room, ctx ends or the loop exits
func (l *Loop) Submit(ctx context.Context, ev model.Event) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Do runs fn on the loop goroutine and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func(*State)) error {
	c := call{fn: fn, done: make(chan struct{})}
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.calls <- c:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// After schedules fn to run on the loop once d has elapsed
func (l *Loop) After(d time.Duration, name string, fn func()) {
	l.clock.AfterFunc(d, func() {
		ev := model.Event{
			Type:    model.EventDeferred,
			At:      l.clock.Now(),
			Payload: model.DeferredPayload{Name: name, Run: fn},
		}
		if err := l.Submit(context.Background(), ev); err != nil {
			l.logger.Warn("deferred action dropped", slog.String("name", name), slog.Any("error", err))
		}
	})
}

// Run processes events until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("session loop started")
	defer close(l.done)
	for {
		select {
		case ev := <-l.events:
			l.safely(string(ev.Type), func() { l.handle(ev) })
		case c := <-l.calls:
			l.safely("call", func() { c.fn(l.state) })
			close(c.done)
		case <-ctx.Done():
			l.logger.Info("session loop stopped", slog.Int("pending_events", len(l.events)))
			return ctx.Err()
		}
	}
}

// safely keeps the loop alive when a handler panics
func (l *Loop) safely(what string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.Error("event handler panicked",
				slog.String("event", what),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
		}
	}()
	fn()
}

func (l *Loop) handle(ev model.Event) {
	st := l.state
	switch p := ev.Payload.(type) {
	case model.PlayerJoinedPayload:
		l.onJoin(p.Session)
	case model.PlayerLeftPayload:
		l.onLeave(p.Session)
	case model.PlayerChatPayload:
		l.onChat(p.Session, p.Message)
	case model.TeamChangedPayload:
		l.onTeamChanged(p)
	case model.AdminChangedPayload:
		l.logger.Debug("platform admin flag changed",
			slog.String("name", p.Session.Name),
			slog.Bool("admin", p.Session.Admin))
	case model.BallTouchedPayload:
		st.Match.RecordTouch(p.Session)
	case model.TeamGoalPayload:
		if st.Match.State() != match.StateInProgress {
			l.logger.Warn("goal outside a match ignored", slog.String("team", p.Team.String()))
			return
		}
		st.Match.OnGoal(p.Team)
	case model.GameLifecyclePayload:
		l.onLifecycle(ev.Type, p.By)
	case model.TaskDuePayload:
		st.Scheduler.Fire(p.Task, ev.At)
	case model.DeferredPayload:
		l.logger.Debug("running deferred action", slog.String("name", p.Name))
		p.Run()
	default:
		l.logger.Warn("unhandled event",
			slog.String("type", string(ev.Type)),
			slog.String("payload", fmt.Sprintf("%T", ev.Payload)))
	}
}

func (l *Loop) onJoin(s model.Session) {
	st := l.state
	st.Stats.Ensure(s.Name)

	switch st.Authority.TryRestore(s) {
	case authority.RestoredOwner:
		st.Room.Announce(model.Broadcast(fmt.Sprintf("👑 Welcome back, Owner %s!", s.Name), model.ColorGold, model.StyleBold))
	case authority.RestoredAdmin:
		st.Room.Announce(model.Broadcast(fmt.Sprintf("🛡️ Welcome back, Admin %s!", s.Name), model.ColorSuccess, model.StyleBold))
	default:
		welcome := fmt.Sprintf("👋 Welcome to %s, %s! Type !help for commands.", st.Info.RoomName, s.Name)
		if st.Info.DiscordInvite != "" {
			welcome += " 💬 Discord: " + st.Info.DiscordInvite
		}
		st.Room.Announce(model.Private(s.ID, welcome, model.ColorInfo))
	}

	l.logger.Info("player joined",
		slog.String("name", s.Name),
		slog.Int("session_id", int(s.ID)))
	st.Publisher.Publish(model.Notification{
		Kind:        model.KindSession,
		Title:       "➕ Player Joined",
		Description: fmt.Sprintf("%s joined the room", s.Name),
		Color:       model.ColorSuccess,
		Fields: []model.NotificationField{
			{Name: "Role", Value: st.Roles.Label(s), Inline: true},
			{Name: "Players", Value: fmt.Sprintf("%d/%d", len(st.Room.Sessions()), st.Room.MaxPlayers()), Inline: true},
		},
	})
}

func (l *Loop) onLeave(s model.Session) {
	st := l.state
	role := st.Roles.Label(s)
	display := st.Roles.Display(s)
	st.Authority.Forget(s)
	st.Lineup.Forget(s.ID)
	st.Room.Announce(model.Broadcast(fmt.Sprintf("👋 %s left the room", display), model.ColorSilver, model.StyleNormal))

	l.logger.Info("player left",
		slog.String("name", s.Name),
		slog.Int("session_id", int(s.ID)))
	st.Publisher.Publish(model.Notification{
		Kind:        model.KindSession,
		Title:       "➖ Player Left",
		Description: fmt.Sprintf("%s left the room", s.Name),
		Color:       model.ColorMuted,
		Fields: []model.NotificationField{
			{Name: "Role", Value: role, Inline: true},
			{Name: "Players", Value: fmt.Sprintf("%d/%d", len(st.Room.Sessions()), st.Room.MaxPlayers()), Inline: true},
		},
	})
}

func (l *Loop) onChat(s model.Session, text string) {
	st := l.state
	if st.Dispatcher.Dispatch(s, text) {
		return
	}
	if !st.LogChat {
		return
	}
	st.Publisher.Publish(model.Notification{
		Kind:        model.KindChat,
		Title:       "💬 " + st.Roles.Display(s),
		Description: text,
		Color:       model.ColorMuted,
	})
}

// onTeamChanged marks players that staff dragged onto a team through the
// platform UI, so the auto-join guard leaves them there
func (l *Loop) onTeamChanged(p model.TeamChangedPayload) {
	st := l.state
	if p.By == nil || !st.Authority.IsAdmin(*p.By) {
		return
	}
	if p.Session.Team.Playing() {
		st.Lineup.MarkMoved(p.Session.ID)
	} else {
		st.Lineup.Unmark(p.Session.ID)
	}
}

func (l *Loop) onLifecycle(t model.EventType, by *model.Session) {
	m := l.state.Match
	switch t {
	case model.EventGameStarted:
		m.OnGameStart(by)
	case model.EventGameStopped:
		if m.State() != match.StateInProgress {
			l.logger.Warn("stop without a running match ignored")
			return
		}
		m.OnGameStop(by)
	case model.EventGamePaused:
		m.OnPause(by)
	case model.EventGameUnpaused:
		m.OnUnpause(by)
	}
}
