package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/roomwarden/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case response.Player:
		o.printPlayer(v)
	case response.Status:
		o.printStatus(v)
	case response.Stats:
		o.printStats(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Fprintf(o.w, "Player: %s (#%d)\n", p.Name, p.ID)
	fmt.Fprintf(o.w, "Team: %s\n", p.Team)
	if p.Fingerprint != "" {
		fmt.Fprintf(o.w, "Fingerprint: %s\n", p.Fingerprint)
	}
}

func (o *Output) printStatus(s response.Status) {
	fmt.Fprintf(o.w, "Room: %s\n", s.Room)
	fmt.Fprintf(o.w, "Players: %d/%d\n", s.Players, s.MaxPlayers)
	match := s.Match.State
	if s.Match.Paused {
		match += " (paused)"
	}
	fmt.Fprintf(o.w, "Match: %s\n", match)
	for _, p := range s.PlayerList {
		marker := ""
		if p.Admin {
			marker = " [admin]"
		}
		fmt.Fprintf(o.w, "  #%d %s - %s%s\n", p.ID, p.Name, p.Team, marker)
	}
}

func (o *Output) printStats(s response.Stats) {
	if s.Owner != "" {
		fmt.Fprintf(o.w, "Owner: %s\n", s.Owner)
	}
	fmt.Fprintf(o.w, "Saved admins: %d\n", s.SavedAdmins)

	fmt.Fprintf(o.w, "Clubs (%d):\n", len(s.Clubs))
	for _, c := range s.Clubs {
		fmt.Fprintf(o.w, "  %s - captain %s: %s\n", c.Name, c.Captain, strings.Join(c.Members, ", "))
	}

	fmt.Fprintf(o.w, "Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		fmt.Fprintf(o.w, "  %s: %dG %dA %dOG %dW %dL %dMVP (%d%%)\n",
			p.Name, p.Goals, p.Assists, p.OwnGoals, p.Wins, p.Losses, p.MVPs, p.WinRate)
	}

	if m := s.CurrentMatch; m != nil {
		fmt.Fprintf(o.w, "Current match: red %d - %d blue\n", m.RedGoals, m.BlueGoals)
		if len(m.GoalScorers) > 0 {
			fmt.Fprintf(o.w, "  Scorers: %s\n", strings.Join(m.GoalScorers, ", "))
		}
	}
}
