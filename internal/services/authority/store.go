// Package authority tracks who owns and administers the room, and restores
// those roles when a known connection comes back.
package authority

import (
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
	"github.com/mcoot/roomwarden/internal/room"
)

// Restored reports which role, if any, TryRestore gave back
type Restored int

const (
	RestoredNone Restored = iota
	RestoredOwner
	RestoredAdmin
)

// Platform is the part of the room the store needs
type Platform interface {
	room.SessionLister
	room.AdminFlagger
}

// Config holds the owner secret
type Config struct {
	// OwnerPasswordHash is a bcrypt hash of the owner password
	OwnerPasswordHash []byte
}

// HashPassword hashes a plain-text owner password for Config
func HashPassword(password string, cost int) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash owner password: %w", err)
	}
	return hash, nil
}

// Store is the identity and role store. It is owned by the session loop and
// is not safe for concurrent use.
type Store struct {
	cfg       Config
	platform  Platform
	publisher notify.Publisher
	logger    *slog.Logger

	// active owner; zero ID when nobody holds the role
	owner            model.SessionID
	ownerName        string
	ownerFingerprint string

	admins map[model.SessionID]struct{}
	// name -> fingerprint; "" means any connection with that name
	savedAdmins map[string]string
}

// Snapshot is a read-only view of the authority state
type Snapshot struct {
	OwnerName   string
	OwnerOnline bool
	OwnerID     model.SessionID
	AdminIDs    []model.SessionID
	SavedAdmins []string
}

// New creates an empty Store
func New(cfg Config, platform Platform, publisher notify.Publisher, logger *slog.Logger) *Store {
	return &Store{
		cfg:         cfg,
		platform:    platform,
		publisher:   publisher,
		logger:      logger.With(slog.String("component", "authority")),
		admins:      make(map[model.SessionID]struct{}),
		savedAdmins: make(map[string]string),
	}
}

// ClaimOwner makes s the owner when password matches the owner secret.
// A later successful claim replaces the current owner, who loses the
// platform admin flag unless they were granted admin separately.
func (a *Store) ClaimOwner(s model.Session, password string) error {
	if err := bcrypt.CompareHashAndPassword(a.cfg.OwnerPasswordHash, []byte(password)); err != nil {
		a.logger.Warn("owner claim rejected", slog.String("name", s.Name))
		return model.ErrWrongPassword
	}

	a.setOwner(s)

	a.logger.Info("owner claimed", slog.String("name", s.Name), slog.Int("session_id", int(s.ID)))
	a.publisher.Publish(model.Notification{
		Kind:        model.KindAuthority,
		Title:       "👑 Owner Login",
		Description: fmt.Sprintf("%s logged in as room owner", s.Name),
		Color:       model.ColorGold,
		Fields:      identityFields(s),
	})
	return nil
}

// GrantAdmin gives targetName admin rights. Only the owner may do this.
func (a *Store) GrantAdmin(actor model.Session, targetName string) (model.Session, error) {
	target, err := a.resolveTarget(actor, targetName)
	if err != nil {
		return model.Session{}, err
	}

	a.admins[target.ID] = struct{}{}
	a.savedAdmins[target.Name] = target.Fingerprint
	a.platform.SetAdmin(target.ID, true)

	a.logger.Info("admin granted", slog.String("name", target.Name), slog.String("by", actor.Name))
	a.publisher.Publish(model.Notification{
		Kind:        model.KindAuthority,
		Title:       "🛡️ Admin Granted",
		Description: fmt.Sprintf("%s was made admin by %s", target.Name, actor.Name),
		Color:       model.ColorSuccess,
		Fields:      identityFields(target),
	})
	return target, nil
}

// RevokeAdmin removes targetName's admin rights. Only the owner may do this.
func (a *Store) RevokeAdmin(actor model.Session, targetName string) (model.Session, error) {
	target, err := a.resolveTarget(actor, targetName)
	if err != nil {
		return model.Session{}, err
	}
	if a.IsOwner(target) {
		return model.Session{}, model.ErrTargetIsOwner
	}

	delete(a.admins, target.ID)
	delete(a.savedAdmins, target.Name)
	a.platform.SetAdmin(target.ID, false)

	a.logger.Info("admin revoked", slog.String("name", target.Name), slog.String("by", actor.Name))
	a.publisher.Publish(model.Notification{
		Kind:        model.KindAuthority,
		Title:       "⚠️ Admin Revoked",
		Description: fmt.Sprintf("%s is no longer admin (by %s)", target.Name, actor.Name),
		Color:       model.ColorWarning,
		Fields:      identityFields(target),
	})
	return target, nil
}

// IsOwner reports whether s is the active owner
func (a *Store) IsOwner(s model.Session) bool {
	return a.owner != 0 && a.owner == s.ID
}

// IsAdmin reports whether s has admin rights. The owner is always an admin.
func (a *Store) IsAdmin(s model.Session) bool {
	if a.IsOwner(s) {
		return true
	}
	_, ok := a.admins[s.ID]
	return ok
}

// TryRestore gives a reconnecting session back the role it held before.
// Owner matches by fingerprint or name and takes priority over admin.
func (a *Store) TryRestore(s model.Session) Restored {
	if a.matchesSavedOwner(s) {
		a.setOwner(s)

		a.logger.Info("owner restored", slog.String("name", s.Name))
		a.publisher.Publish(model.Notification{
			Kind:        model.KindAuthority,
			Title:       "🔄 Owner Auto-Login",
			Description: fmt.Sprintf("%s reconnected and was restored as owner", s.Name),
			Color:       model.ColorGold,
			Fields:      identityFields(s),
		})
		return RestoredOwner
	}

	if fp, ok := a.savedAdmins[s.Name]; ok && (fp == "" || fp == s.Fingerprint) {
		a.admins[s.ID] = struct{}{}
		a.savedAdmins[s.Name] = s.Fingerprint
		a.platform.SetAdmin(s.ID, true)

		a.logger.Info("admin restored", slog.String("name", s.Name))
		a.publisher.Publish(model.Notification{
			Kind:        model.KindAuthority,
			Title:       "🔄 Admin Auto-Login",
			Description: fmt.Sprintf("%s reconnected and was restored as admin", s.Name),
			Color:       model.ColorSuccess,
			Fields:      identityFields(s),
		})
		return RestoredAdmin
	}

	return RestoredNone
}

// Forget drops connection-scoped roles when s leaves. Saved owner and admin
// records are kept for TryRestore.
func (a *Store) Forget(s model.Session) {
	delete(a.admins, s.ID)
	if a.owner == s.ID {
		a.owner = 0
		a.logger.Info("owner disconnected", slog.String("name", s.Name))
	}
}

// Snapshot returns a copy of the authority state
func (a *Store) Snapshot() Snapshot {
	snap := Snapshot{
		OwnerName:   a.ownerName,
		OwnerOnline: a.owner != 0,
		OwnerID:     a.owner,
	}
	for id := range a.admins {
		snap.AdminIDs = append(snap.AdminIDs, id)
	}
	sort.Slice(snap.AdminIDs, func(i, j int) bool { return snap.AdminIDs[i] < snap.AdminIDs[j] })
	for name := range a.savedAdmins {
		snap.SavedAdmins = append(snap.SavedAdmins, name)
	}
	sort.Strings(snap.SavedAdmins)
	return snap
}

func (a *Store) matchesSavedOwner(s model.Session) bool {
	if a.ownerFingerprint != "" && s.Fingerprint == a.ownerFingerprint {
		return true
	}
	return a.ownerName != "" && s.Name == a.ownerName
}

func (a *Store) setOwner(s model.Session) {
	prev := a.owner
	a.owner = s.ID
	a.ownerName = s.Name
	a.ownerFingerprint = s.Fingerprint
	a.platform.SetAdmin(s.ID, true)

	if _, admin := a.admins[prev]; prev != 0 && prev != s.ID && !admin {
		a.platform.SetAdmin(prev, false)
	}
}

func (a *Store) resolveTarget(actor model.Session, name string) (model.Session, error) {
	if !a.IsOwner(actor) {
		return model.Session{}, model.ErrPermissionDenied
	}
	target, ok := room.FindByName(a.platform, name)
	if !ok {
		return model.Session{}, model.ErrPlayerNotFound
	}
	return target, nil
}

func identityFields(s model.Session) []model.NotificationField {
	return []model.NotificationField{
		{Name: "Player", Value: s.Name, Inline: true},
		{Name: "Session", Value: fmt.Sprintf("%d", s.ID), Inline: true},
	}
}
