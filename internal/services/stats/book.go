// Package stats keeps lifetime per-name statistics for the process lifetime.
package stats

import (
	"sort"

	"github.com/mcoot/roomwarden/internal/model"
)

// Metric selects a PlayerStats counter for rankings
type Metric string

const (
	MetricGoals   Metric = "goals"
	MetricAssists Metric = "assists"
	MetricWins    Metric = "wins"
	MetricMVPs    Metric = "mvps"
)

// Value extracts the metric from p
func (m Metric) Value(p model.PlayerStats) int {
	switch m {
	case MetricAssists:
		return p.Assists
	case MetricWins:
		return p.Wins
	case MetricMVPs:
		return p.MVPs
	default:
		return p.Goals
	}
}

// Book holds PlayerStats keyed by display name. Entries are created lazily.
// It is owned by the session loop and is not safe for concurrent use.
type Book struct {
	players map[string]*model.PlayerStats
	order   []string
}

// New creates an empty Book
func New() *Book {
	return &Book{players: make(map[string]*model.PlayerStats)}
}

// Ensure creates an entry for name if none exists
func (b *Book) Ensure(name string) {
	b.entry(name)
}

// Update applies fn to name's entry, creating it if needed
func (b *Book) Update(name string, fn func(p *model.PlayerStats)) {
	fn(b.entry(name))
}

// Get returns a copy of name's stats
func (b *Book) Get(name string) (model.PlayerStats, bool) {
	p, ok := b.players[name]
	if !ok {
		return model.PlayerStats{}, false
	}
	return *p, true
}

// All returns every entry in first-seen order
func (b *Book) All() []model.PlayerStats {
	out := make([]model.PlayerStats, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, *b.players[name])
	}
	return out
}

// Top returns up to limit entries with a positive metric, highest first.
// Ties keep first-seen order.
func (b *Book) Top(metric Metric, limit int) []model.PlayerStats {
	var out []model.PlayerStats
	for _, p := range b.All() {
		if metric.Value(p) > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return metric.Value(out[i]) > metric.Value(out[j])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (b *Book) entry(name string) *model.PlayerStats {
	p, ok := b.players[name]
	if !ok {
		p = &model.PlayerStats{Name: name}
		b.players[name] = p
		b.order = append(b.order, name)
	}
	return p
}
