// Package touches keeps a short, bounded history of who touched the ball.
package touches

import (
	"time"

	"github.com/mcoot/roomwarden/internal/dependencies/clock"
	"github.com/mcoot/roomwarden/internal/model"
)

// Config holds tracker settings
type Config struct {
	// Capacity is the number of touches retained
	Capacity int
	// Window is how far back Recent looks
	Window time.Duration
}

// DefaultConfig returns the default tracker settings
func DefaultConfig() Config {
	return Config{
		Capacity: 10,
		Window:   5 * time.Second,
	}
}

// Tracker is a fixed-size ring of touches. Oldest entries are overwritten.
// It is owned by the session loop and is not safe for concurrent use.
type Tracker struct {
	clock  clock.Clock
	window time.Duration
	ring   []model.Touch
	next   int // index the next touch is written to
	size   int
}

// New creates a Tracker
func New(cfg Config, clk clock.Clock) *Tracker {
	def := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	return &Tracker{
		clock:  clk,
		window: cfg.Window,
		ring:   make([]model.Touch, cfg.Capacity),
	}
}

// Record stores a touch by s at the current time
func (t *Tracker) Record(s model.Session) {
	t.ring[t.next] = model.Touch{Session: s, At: t.clock.Now()}
	t.next = (t.next + 1) % len(t.ring)
	if t.size < len(t.ring) {
		t.size++
	}
}

// Recent returns touches younger than the window, most recent first
func (t *Tracker) Recent() []model.Touch {
	now := t.clock.Now()
	var out []model.Touch
	for i := 1; i <= t.size; i++ {
		touch := t.ring[(t.next-i+len(t.ring))%len(t.ring)]
		if now.Sub(touch.At) >= t.window {
			break
		}
		out = append(out, touch)
	}
	return out
}

// All returns every retained touch, oldest first
func (t *Tracker) All() []model.Touch {
	out := make([]model.Touch, 0, t.size)
	start := t.next - t.size
	for i := range t.size {
		out = append(out, t.ring[(start+i+len(t.ring))%len(t.ring)])
	}
	return out
}

// Len returns the number of retained touches
func (t *Tracker) Len() int {
	return t.size
}

// Reset discards all touches
func (t *Tracker) Reset() {
	clear(t.ring)
	t.next = 0
	t.size = 0
}
