// Package session holds the moderator's state aggregate and the single
// goroutine that applies platform events to it.
package session

import (
	"github.com/mcoot/roomwarden/internal/notify"
	"github.com/mcoot/roomwarden/internal/room"
	"github.com/mcoot/roomwarden/internal/services/authority"
	"github.com/mcoot/roomwarden/internal/services/clubs"
	"github.com/mcoot/roomwarden/internal/services/commands"
	"github.com/mcoot/roomwarden/internal/services/lineup"
	"github.com/mcoot/roomwarden/internal/services/match"
	"github.com/mcoot/roomwarden/internal/services/roles"
	"github.com/mcoot/roomwarden/internal/services/scheduler"
	"github.com/mcoot/roomwarden/internal/services/stats"
	"github.com/mcoot/roomwarden/internal/services/touches"
)

// State is every store the moderator keeps. It is only touched from the
// Loop goroutine; other goroutines reach it through Loop.Do.
type State struct {
	Room       room.Room
	Authority  *authority.Store
	Clubs      *clubs.Registry
	Touches    *touches.Tracker
	Stats      *stats.Book
	Match      *match.Engine
	Lineup     *lineup.Lineup
	Roles      *roles.Labeler
	Dispatcher *commands.Dispatcher
	Scheduler  *scheduler.Scheduler
	Publisher  notify.Publisher
	Info       commands.Info

	// LogChat forwards ordinary chat lines as notifications
	LogChat bool
}
