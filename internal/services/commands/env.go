package commands

import (
	"strings"
	"time"

	"github.com/mcoot/roomwarden/internal/dependencies/random"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
	"github.com/mcoot/roomwarden/internal/room"
	"github.com/mcoot/roomwarden/internal/services/authority"
	"github.com/mcoot/roomwarden/internal/services/clubs"
	"github.com/mcoot/roomwarden/internal/services/lineup"
	"github.com/mcoot/roomwarden/internal/services/match"
	"github.com/mcoot/roomwarden/internal/services/roles"
	"github.com/mcoot/roomwarden/internal/services/stats"
)

// Deferrer runs fn on the session loop after d
type Deferrer interface {
	After(d time.Duration, name string, fn func())
}

// Info is static room information shown by informational commands
type Info struct {
	RoomName      string
	HostName      string
	Public        bool
	Geo           Geo
	DiscordInvite string
	Version       string
	// ReadyDelay is the countdown between everyone being ready and kick-off
	ReadyDelay time.Duration
}

// Geo is where the room is listed in the public room list
type Geo struct {
	Code string
	Lat  float64
	Lon  float64
}

// Env is everything a handler may read or mutate
type Env struct {
	Room      room.Room
	Authority *authority.Store
	Clubs     *clubs.Registry
	Stats     *stats.Book
	Match     *match.Engine
	Lineup    *lineup.Lineup
	Roles     *roles.Labeler
	Random    random.Random
	Publisher notify.Publisher
	Deferrer  Deferrer
	Info      Info
}

// Call is a single command invocation
type Call struct {
	*Env
	Actor   model.Session
	Command *Command
	Args    []string

	prefix     string
	dispatcher *Dispatcher
}

// Reply sends a private message to the caller
func (c *Call) Reply(text string, color int) {
	c.Room.Announce(model.Private(c.Actor.ID, text, color))
}

// Broadcast sends a message to the whole room
func (c *Call) Broadcast(text string, color int, style model.AnnouncementStyle) {
	c.Room.Announce(model.Broadcast(text, color, style))
}

// Rest joins the arguments from index i onwards, for names containing spaces
func (c *Call) Rest(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[i:], " ")
}

// UsageLine returns the full usage string, e.g. "!kick <player> [reason]"
func (c *Call) UsageLine() string {
	return usageLine(c.prefix, c.Command)
}

// Target resolves a connected session by exact display name
func (c *Call) Target(name string) (model.Session, error) {
	s, ok := room.FindByName(c.Room, name)
	if !ok {
		return model.Session{}, model.ErrPlayerNotFound
	}
	return s, nil
}

func usageLine(prefix string, cmd *Command) string {
	if cmd.Usage == "" {
		return prefix + cmd.Name
	}
	return prefix + cmd.Name + " " + cmd.Usage
}
