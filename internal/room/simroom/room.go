// Package simroom is an in-memory stand-in for the game host platform.
// It keeps the room state the moderator reads and reports changes back as
// platform events, the same way the hosted room does.
package simroom

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/roomwarden/internal/dependencies/clock"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/room"
)

// Errors
var (
	ErrRoomFull = errors.New("room is full")
	ErrBanned   = errors.New("connection is banned")
	ErrNoGame   = errors.New("no game in progress")
	ErrClosed   = errors.New("room is closed")
)

// announcementHistory bounds how many announcements are retained
const announcementHistory = 200

// Config holds room settings
type Config struct {
	Name        string
	MaxPlayers  int
	EventBuffer int
	// ScoreLimit ends the game once either team reaches it; zero disables it
	ScoreLimit int
	TimeLimit  time.Duration
}

// DefaultConfig returns default room settings
func DefaultConfig() Config {
	return Config{
		Name:        "RHL TOURNAMENT",
		MaxPlayers:  16,
		EventBuffer: 256,
	}
}

// Room is a simulated room. All methods are safe for concurrent use.
type Room struct {
	mu sync.RWMutex

	cfg    Config
	clock  clock.Clock
	logger *slog.Logger

	nextID        model.SessionID
	sessions      []model.Session
	bans          map[string]string // fingerprint -> name
	running       bool
	paused        bool
	played        bool
	scores        room.Scores
	announcements []model.Announcement
	closed        bool

	events chan model.Event
}

// Ensure Room implements the platform interface
var _ room.Room = (*Room)(nil)

// New creates an empty room
func New(cfg Config, clk clock.Clock, logger *slog.Logger) *Room {
	def := DefaultConfig()
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = def.MaxPlayers
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = def.EventBuffer
	}
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	return &Room{
		cfg:    cfg,
		clock:  clk,
		logger: logger.With(slog.String("component", "simroom")),
		nextID: 1,
		bans:   make(map[string]string),
		events: make(chan model.Event, cfg.EventBuffer),
	}
}

// Name returns the room name
func (r *Room) Name() string {
	return r.cfg.Name
}

// Platform surface

func (r *Room) Sessions() []model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.sessions)
}

func (r *Room) Session(id model.SessionID) (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.Session{}, false
	}
	return r.sessions[i], true
}

func (r *Room) SetAdmin(id model.SessionID, admin bool) {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 || r.sessions[i].Admin == admin {
		r.mu.Unlock()
		return
	}
	r.sessions[i].Admin = admin
	s := r.sessions[i]
	r.mu.Unlock()

	r.emit(model.EventAdminChanged, model.AdminChangedPayload{Session: s})
}

func (r *Room) Announce(a model.Announcement) {
	r.mu.Lock()
	r.announcements = append(r.announcements, a)
	if over := len(r.announcements) - announcementHistory; over > 0 {
		r.announcements = slices.Delete(r.announcements, 0, over)
	}
	r.mu.Unlock()

	r.logger.Info("announcement",
		slog.String("text", a.Text),
		slog.Int("target", int(a.Target)))
}

func (r *Room) SetTeam(id model.SessionID, team model.Team) {
	r.move(id, team, nil)
}

func (r *Room) Kick(id model.SessionID, reason string, ban bool) {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return
	}
	s := r.sessions[i]
	r.sessions = slices.Delete(r.sessions, i, i+1)
	if ban {
		r.bans[s.Fingerprint] = s.Name
	}
	r.mu.Unlock()

	r.logger.Info("session kicked",
		slog.String("name", s.Name),
		slog.String("reason", reason),
		slog.Bool("ban", ban))
	r.emit(model.EventPlayerLeft, model.PlayerLeftPayload{Session: s})
}

func (r *Room) ClearBans() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.bans)
}

func (r *Room) StartGame() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.paused = false
	r.played = true
	r.scores = room.Scores{
		ScoreLimit: r.cfg.ScoreLimit,
		TimeLimit:  r.cfg.TimeLimit.Seconds(),
	}
	r.mu.Unlock()

	r.emit(model.EventGameStarted, model.GameLifecyclePayload{})
}

func (r *Room) StopGame() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.paused = false
	r.mu.Unlock()

	r.emit(model.EventGameStopped, model.GameLifecyclePayload{})
}

func (r *Room) PauseGame(paused bool) {
	r.mu.Lock()
	if !r.running || r.paused == paused {
		r.mu.Unlock()
		return
	}
	r.paused = paused
	r.mu.Unlock()

	if paused {
		r.emit(model.EventGamePaused, model.GameLifecyclePayload{})
	} else {
		r.emit(model.EventGameUnpaused, model.GameLifecyclePayload{})
	}
}

func (r *Room) Scores() (room.Scores, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scores, r.played
}

func (r *Room) MaxPlayers() int {
	return r.cfg.MaxPlayers
}

func (r *Room) Alive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.closed
}

// Close marks the room as gone; Alive reports false afterwards
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// Running reports whether a game is in progress
func (r *Room) Running() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// Announcements returns the retained announcements, oldest first
func (r *Room) Announcements() []model.Announcement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.announcements)
}

// Simulation surface

// Connect adds a participant, as if they joined through the game client
func (r *Room) Connect(name, fingerprint string) (model.Session, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return model.Session{}, ErrClosed
	}
	if _, banned := r.bans[fingerprint]; banned {
		r.mu.Unlock()
		return model.Session{}, ErrBanned
	}
	if len(r.sessions) >= r.cfg.MaxPlayers {
		r.mu.Unlock()
		return model.Session{}, ErrRoomFull
	}
	s := model.Session{
		ID:          r.nextID,
		Fingerprint: fingerprint,
		Name:        name,
		Team:        model.TeamSpectator,
	}
	r.nextID++
	r.sessions = append(r.sessions, s)
	r.mu.Unlock()

	r.emit(model.EventPlayerJoined, model.PlayerJoinedPayload{Session: s})
	return s, nil
}

// Disconnect removes a participant
func (r *Room) Disconnect(id model.SessionID) (model.Session, error) {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return model.Session{}, model.ErrPlayerNotFound
	}
	s := r.sessions[i]
	r.sessions = slices.Delete(r.sessions, i, i+1)
	r.mu.Unlock()

	r.emit(model.EventPlayerLeft, model.PlayerLeftPayload{Session: s})
	return s, nil
}

// Say posts a chat line from a participant
func (r *Room) Say(id model.SessionID, message string) error {
	s, ok := r.Session(id)
	if !ok {
		return model.ErrPlayerNotFound
	}
	r.emit(model.EventPlayerChat, model.PlayerChatPayload{Session: s, Message: message})
	return nil
}

// Touch reports a participant touching the ball
func (r *Room) Touch(id model.SessionID) error {
	s, ok := r.Session(id)
	if !ok {
		return model.ErrPlayerNotFound
	}
	r.emit(model.EventBallTouched, model.BallTouchedPayload{Session: s})
	return nil
}

// Goal credits a goal to team in the running game. A goal that reaches the
// score limit also ends the game.
func (r *Room) Goal(team model.Team) error {
	if !team.Playing() {
		return model.ErrInvalidArguments
	}
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNoGame
	}
	if team == model.TeamRed {
		r.scores.Red++
	} else {
		r.scores.Blue++
	}
	limit := r.cfg.ScoreLimit
	won := limit > 0 && (r.scores.Red >= limit || r.scores.Blue >= limit)
	if won {
		r.running = false
		r.paused = false
	}
	r.mu.Unlock()

	r.emit(model.EventTeamGoal, model.TeamGoalPayload{Team: team})
	if won {
		r.logger.Info("score limit reached", slog.Int("limit", limit))
		r.emit(model.EventGameStopped, model.GameLifecyclePayload{})
	}
	return nil
}

// MoveBy changes a participant's team on behalf of another participant.
// A zero by means the host moved them.
func (r *Room) MoveBy(id model.SessionID, team model.Team, by model.SessionID) error {
	var actor *model.Session
	if by != 0 {
		s, ok := r.Session(by)
		if !ok {
			return model.ErrPlayerNotFound
		}
		actor = &s
	}
	if _, ok := r.Session(id); !ok {
		return model.ErrPlayerNotFound
	}
	r.move(id, team, actor)
	return nil
}

// Events returns the channel of platform events produced by this room
func (r *Room) Events() <-chan model.Event {
	return r.events
}

// ForwardEvents delivers produced events to submit until ctx is done
func (r *Room) ForwardEvents(ctx context.Context, submit func(context.Context, model.Event) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			if err := submit(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func (r *Room) move(id model.SessionID, team model.Team, by *model.Session) {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 || r.sessions[i].Team == team {
		r.mu.Unlock()
		return
	}
	r.sessions[i].Team = team
	s := r.sessions[i]
	r.mu.Unlock()

	r.emit(model.EventTeamChanged, model.TeamChangedPayload{Session: s, By: by})
}

// emit queues an event without blocking the caller
func (r *Room) emit(t model.EventType, payload any) {
	ev := model.Event{Type: t, At: r.clock.Now(), Payload: payload}
	select {
	case r.events <- ev:
	default:
		r.logger.Warn("room event dropped - buffer full", slog.String("type", string(t)))
	}
}

// indexOf must be called with mu held
func (r *Room) indexOf(id model.SessionID) int {
	return slices.IndexFunc(r.sessions, func(s model.Session) bool { return s.ID == id })
}
