// Package roles renders the role tag shown next to a player's name.
package roles

import (
	"fmt"

	"github.com/mcoot/roomwarden/internal/model"
)

// Authority answers role questions about a session
type Authority interface {
	IsOwner(s model.Session) bool
	IsAdmin(s model.Session) bool
}

// ClubFinder looks up club membership by display name
type ClubFinder interface {
	FindClubOf(name string) (model.Club, bool)
}

// Labeler builds role labels from authority and club state
type Labeler struct {
	authority Authority
	clubs     ClubFinder
}

// New creates a Labeler
func New(authority Authority, clubs ClubFinder) *Labeler {
	return &Labeler{authority: authority, clubs: clubs}
}

// Label returns the role tag for s: OWNER, ADMIN, CAPTAIN, a club member
// marker, or PLAYER. Club names are appended where the player has one.
func (l *Labeler) Label(s model.Session) string {
	club, inClub := l.clubs.FindClubOf(s.Name)
	suffix := ""
	if inClub {
		suffix = fmt.Sprintf(" [%s]", club.Name)
	}

	switch {
	case l.authority.IsOwner(s):
		return "👑 OWNER" + suffix
	case l.authority.IsAdmin(s):
		return "🛡️ ADMIN" + suffix
	case inClub && club.Captain == s.Name:
		return "©️ CAPTAIN" + suffix
	case inClub:
		return "⚽" + suffix
	default:
		return "PLAYER"
	}
}

// Display returns "label name"
func (l *Labeler) Display(s model.Session) string {
	return fmt.Sprintf("%s %s", l.Label(s), s.Name)
}
