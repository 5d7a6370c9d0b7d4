// Package clubs keeps the club rosters. A display name belongs to at most one
// club, and every club's captain stays on its roster.
package clubs

import (
	"fmt"
	"log/slog"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
	"github.com/mcoot/roomwarden/internal/room"
)

// Club name limits
const (
	MinNameLength = 2
	MaxNameLength = 20
)

// OwnerChecker answers whether a session holds the owner role
type OwnerChecker interface {
	IsOwner(s model.Session) bool
}

// RosterEntry is one member line in a roster listing
type RosterEntry struct {
	Name    string
	Captain bool
	Online  bool
}

// Roster is a club's membership with presence information
type Roster struct {
	Club    string
	Captain string
	Members []RosterEntry
}

// Registry holds all clubs in creation order. It is owned by the session loop
// and is not safe for concurrent use.
type Registry struct {
	owners    OwnerChecker
	sessions  room.SessionLister
	publisher notify.Publisher
	logger    *slog.Logger

	clubs map[string]*model.Club
	order []string
}

// New creates an empty Registry
func New(owners OwnerChecker, sessions room.SessionLister, publisher notify.Publisher, logger *slog.Logger) *Registry {
	return &Registry{
		owners:    owners,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "clubs")),
		clubs:     make(map[string]*model.Club),
	}
}

// ValidName reports whether name is an acceptable club name: ASCII letters,
// digits and spaces only
func ValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return false
	}
	for _, r := range name {
		if r > unicode.MaxASCII || (!unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ') {
			return false
		}
	}
	return true
}

// CreateClub registers a club led by captainName. Owner only.
func (r *Registry) CreateClub(actor model.Session, name, captainName string) (model.Club, error) {
	if !r.owners.IsOwner(actor) {
		return model.Club{}, model.ErrPermissionDenied
	}
	if !ValidName(name) {
		return model.Club{}, model.ErrInvalidClubName
	}
	if _, exists := r.clubs[name]; exists {
		return model.Club{}, model.ErrClubAlreadyExists
	}
	if _, member := r.FindClubOf(captainName); member {
		return model.Club{}, model.ErrPlayerAlreadyInClub
	}

	club := &model.Club{
		Name:    name,
		Captain: captainName,
		Members: []string{captainName},
	}
	r.clubs[name] = club
	r.order = append(r.order, name)

	r.logger.Info("club created", slog.String("club", name), slog.String("captain", captainName))
	r.publisher.Publish(model.Notification{
		Kind:        model.KindClub,
		Title:       "🏆 New Club Created",
		Description: fmt.Sprintf("Club **%s** was created", name),
		Color:       model.ColorSuccess,
		Fields: []model.NotificationField{
			{Name: "Captain", Value: captainName, Inline: true},
			{Name: "Created by", Value: actor.Name, Inline: true},
		},
	})
	return club.Clone(), nil
}

// AddMember puts playerName on clubName's roster. Owner only; the player
// does not need to be connected.
func (r *Registry) AddMember(actor model.Session, clubName, playerName string) error {
	if !r.owners.IsOwner(actor) {
		return model.ErrPermissionDenied
	}
	club, ok := r.clubs[clubName]
	if !ok {
		return model.ErrClubNotFound
	}
	if club.HasMember(playerName) {
		return model.ErrAlreadyMember
	}
	if _, member := r.FindClubOf(playerName); member {
		return model.ErrPlayerAlreadyInClub
	}

	club.Members = append(club.Members, playerName)
	r.logger.Info("club member added", slog.String("club", clubName), slog.String("player", playerName))
	return nil
}

// SignPlayer lets a captain add a connected, clubless player to their club
func (r *Registry) SignPlayer(captain model.Session, targetName string) (model.Club, error) {
	club, err := r.ledBy(captain)
	if err != nil {
		return model.Club{}, err
	}
	if _, online := room.FindByName(r.sessions, targetName); !online {
		return model.Club{}, model.ErrPlayerNotFound
	}
	if _, member := r.FindClubOf(targetName); member {
		return model.Club{}, model.ErrPlayerAlreadyInClub
	}

	club.Members = append(club.Members, targetName)

	r.logger.Info("player signed", slog.String("club", club.Name), slog.String("player", targetName))
	r.publisher.Publish(model.Notification{
		Kind:        model.KindClub,
		Title:       "✍️ Player Signed",
		Description: fmt.Sprintf("%s signed for **%s**", targetName, club.Name),
		Color:       model.ColorSuccess,
		Fields: []model.NotificationField{
			{Name: "Captain", Value: captain.Name, Inline: true},
			{Name: "Squad size", Value: fmt.Sprintf("%d", len(club.Members)), Inline: true},
		},
	})
	return club.Clone(), nil
}

// RemoveMember lets a captain drop a member. The captain can never be removed.
func (r *Registry) RemoveMember(captain model.Session, targetName string) (model.Club, error) {
	club, err := r.ledBy(captain)
	if err != nil {
		return model.Club{}, err
	}
	if targetName == club.Captain {
		return model.Club{}, model.ErrCannotRemoveCaptain
	}
	i := slices.Index(club.Members, targetName)
	if i < 0 {
		return model.Club{}, model.ErrNotInClub
	}

	club.Members = slices.Delete(club.Members, i, i+1)

	r.logger.Info("player released", slog.String("club", club.Name), slog.String("player", targetName))
	r.publisher.Publish(model.Notification{
		Kind:        model.KindClub,
		Title:       "👋 Player Released",
		Description: fmt.Sprintf("%s left **%s**", targetName, club.Name),
		Color:       model.ColorOrange,
		Fields: []model.NotificationField{
			{Name: "Captain", Value: captain.Name, Inline: true},
		},
	})
	return club.Clone(), nil
}

// FindClubOf returns the club whose roster contains name
func (r *Registry) FindClubOf(name string) (model.Club, bool) {
	for _, clubName := range r.order {
		if c := r.clubs[clubName]; c.HasMember(name) {
			return c.Clone(), true
		}
	}
	return model.Club{}, false
}

// CaptainOf returns the club that name captains
func (r *Registry) CaptainOf(name string) (model.Club, bool) {
	c, ok := r.FindClubOf(name)
	if !ok || c.Captain != name {
		return model.Club{}, false
	}
	return c, true
}

// IsCaptain reports whether name captains any club
func (r *Registry) IsCaptain(name string) bool {
	_, ok := r.CaptainOf(name)
	return ok
}

// Roster lists clubName's members with their connection status
func (r *Registry) Roster(clubName string) (Roster, error) {
	club, ok := r.clubs[clubName]
	if !ok {
		return Roster{}, model.ErrClubNotFound
	}
	online := make(map[string]bool)
	for _, s := range r.sessions.Sessions() {
		online[s.Name] = true
	}

	roster := Roster{Club: club.Name, Captain: club.Captain}
	for _, m := range club.Members {
		roster.Members = append(roster.Members, RosterEntry{
			Name:    m,
			Captain: m == club.Captain,
			Online:  online[m],
		})
	}
	return roster, nil
}

// Clubs returns every club in creation order
func (r *Registry) Clubs() []model.Club {
	out := make([]model.Club, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.clubs[name].Clone())
	}
	return out
}

// ledBy returns the live club record that captain leads
func (r *Registry) ledBy(captain model.Session) (*model.Club, error) {
	c, ok := r.CaptainOf(captain.Name)
	if !ok {
		return nil, model.ErrNotCaptain
	}
	return r.clubs[c.Name], nil
}
