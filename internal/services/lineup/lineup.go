// Package lineup tracks per-connection team bookkeeping: who an admin placed
// on a team, and who has declared themselves ready.
package lineup

import "github.com/mcoot/roomwarden/internal/model"

// Lineup is owned by the session loop and is not safe for concurrent use
type Lineup struct {
	moved map[model.SessionID]struct{}
	ready map[model.SessionID]struct{}
}

// New creates an empty Lineup
func New() *Lineup {
	return &Lineup{
		moved: make(map[model.SessionID]struct{}),
		ready: make(map[model.SessionID]struct{}),
	}
}

// MarkMoved records that an admin put id on its current team
func (l *Lineup) MarkMoved(id model.SessionID) {
	l.moved[id] = struct{}{}
}

// Unmark clears the admin placement for id
func (l *Lineup) Unmark(id model.SessionID) {
	delete(l.moved, id)
}

// WasMoved reports whether an admin placed id on its team
func (l *Lineup) WasMoved(id model.SessionID) bool {
	_, ok := l.moved[id]
	return ok
}

// ToggleReady flips id's ready flag and returns the new value
func (l *Lineup) ToggleReady(id model.SessionID) bool {
	if _, ok := l.ready[id]; ok {
		delete(l.ready, id)
		return false
	}
	l.ready[id] = struct{}{}
	return true
}

// IsReady reports whether id declared ready
func (l *Lineup) IsReady(id model.SessionID) bool {
	_, ok := l.ready[id]
	return ok
}

// ClearReady resets every ready flag
func (l *Lineup) ClearReady() {
	clear(l.ready)
}

// Forget drops all bookkeeping for a departed connection
func (l *Lineup) Forget(id model.SessionID) {
	delete(l.moved, id)
	delete(l.ready, id)
}
