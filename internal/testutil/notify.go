package testutil

import (
	"slices"
	"sync"

	"github.com/mcoot/roomwarden/internal/model"
)

// Recorder is a notify.Publisher that keeps everything published.
// Use this in tests to assert on outbound notifications.
type Recorder struct {
	mu            sync.Mutex
	notifications []model.Notification
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish records n
func (r *Recorder) Publish(n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// All returns every recorded notification in publish order
func (r *Recorder) All() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.notifications)
}

// Titles returns the titles of every recorded notification
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, len(r.notifications))
	for i, n := range r.notifications {
		titles[i] = n.Title
	}
	return titles
}

// OfKind returns the recorded notifications of one kind
func (r *Recorder) OfKind(kind model.NotificationKind) []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notifications {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Reset discards everything recorded so far
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}
