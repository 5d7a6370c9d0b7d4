package model

// SessionID is the volatile per-connection identifier assigned by the platform
type SessionID int

// Team is the side a session is currently playing on
type Team int

const (
	TeamSpectator Team = 0
	TeamRed       Team = 1
	TeamBlue      Team = 2
)

// String returns the lower-case team name
func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return "spectators"
	}
}

// Playing reports whether the team is red or blue
func (t Team) Playing() bool {
	return t == TeamRed || t == TeamBlue
}

// Opponent returns the other playing team, or spectators for spectators
func (t Team) Opponent() Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	default:
		return TeamSpectator
	}
}

// ParseTeam accepts "red", "blue", "spec"/"spectators" or the numeric form
func ParseTeam(s string) (Team, bool) {
	switch s {
	case "red", "1":
		return TeamRed, true
	case "blue", "2":
		return TeamBlue, true
	case "spec", "spectator", "spectators", "0":
		return TeamSpectator, true
	}
	return TeamSpectator, false
}

// Session is one connected participant as reported by the platform.
// Display names are not unique; ID is only valid while connected.
type Session struct {
	ID          SessionID
	Fingerprint string // stable connection identifier, survives reconnects
	Name        string
	Team        Team
	Admin       bool // platform admin flag, mirrored read-only
}
