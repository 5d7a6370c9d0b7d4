// Package room defines the narrow surface the moderator needs from the game
// host platform.
package room

import (
	"strings"

	"github.com/mcoot/roomwarden/internal/model"
)

// Scores is the platform's live scoreboard
type Scores struct {
	Red  int
	Blue int
	Time float64 // seconds elapsed
	// ScoreLimit and TimeLimit are zero when the room has none
	ScoreLimit int
	TimeLimit  float64 // seconds
}

// Room is the game host platform as seen by the moderator.
// Implementations must be safe to call from the session loop goroutine.
type Room interface {
	SessionLister
	AdminFlagger
	Announcer

	SetTeam(id model.SessionID, team model.Team)
	Kick(id model.SessionID, reason string, ban bool)
	ClearBans()

	StartGame()
	StopGame()
	PauseGame(paused bool)
	// Scores reports the live or most recently finished game; false if none
	Scores() (Scores, bool)

	MaxPlayers() int
	Alive() bool
}

// SessionLister exposes the connected sessions
type SessionLister interface {
	Sessions() []model.Session
	Session(id model.SessionID) (model.Session, bool)
}

// AdminFlagger toggles the platform-level admin flag
type AdminFlagger interface {
	SetAdmin(id model.SessionID, admin bool)
}

// Announcer posts in-room messages
type Announcer interface {
	Announce(a model.Announcement)
}

// FindByName returns the first connected session with exactly this display name
func FindByName(l SessionLister, name string) (model.Session, bool) {
	for _, s := range l.Sessions() {
		if s.Name == name {
			return s, true
		}
	}
	return model.Session{}, false
}

// OnTeam returns the connected sessions playing for team, in platform order
func OnTeam(l SessionLister, team model.Team) []model.Session {
	var out []model.Session
	for _, s := range l.Sessions() {
		if s.Team == team {
			out = append(out, s)
		}
	}
	return out
}

// Participants returns every session on red or blue
func Participants(l SessionLister) []model.Session {
	var out []model.Session
	for _, s := range l.Sessions() {
		if s.Team.Playing() {
			out = append(out, s)
		}
	}
	return out
}

// Names joins the display names of sessions with ", "
func Names(sessions []model.Session) string {
	names := make([]string, len(sessions))
	for i, s := range sessions {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
