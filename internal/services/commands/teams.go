package commands

import (
	"fmt"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/room"
)

// teamCommand serves !red, !blue and !spec
func teamCommand(c *Call) error {
	team, ok := model.ParseTeam(c.Command.Name)
	if !ok {
		return fmt.Errorf("%w: no team for %q", model.ErrHandlerFault, c.Command.Name)
	}
	target, err := c.Target(c.Rest(0))
	if err != nil {
		return err
	}
	c.moveTo(target, team)
	c.Broadcast(fmt.Sprintf("↔️ %s moved to %s", target.Name, teamLabel(team)), teamColor(team), model.StyleNormal)
	return nil
}

func clearCommand(c *Call) error {
	for _, s := range room.Participants(c.Room) {
		c.moveTo(s, model.TeamSpectator)
	}
	c.Lineup.ClearReady()
	c.Broadcast("🧹 Teams cleared", model.ColorInfo, model.StyleNormal)
	return nil
}

func chooseCommand(c *Call) error {
	picked := make([]model.Session, 0, len(c.Args))
	for _, name := range c.Args {
		s, err := c.Target(name)
		if err != nil {
			return fmt.Errorf("%w: %s", err, name)
		}
		picked = append(picked, s)
	}
	c.Random.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })

	var red, blue []model.Session
	for i, s := range picked {
		if i%2 == 0 {
			red = append(red, s)
			c.moveTo(s, model.TeamRed)
		} else {
			blue = append(blue, s)
			c.moveTo(s, model.TeamBlue)
		}
	}
	c.Broadcast(fmt.Sprintf("🎲 Teams drawn! 🔴 %s vs 🔵 %s", orDash(room.Names(red)), orDash(room.Names(blue))), model.ColorGold, model.StyleBold)
	return nil
}

func subCommand(c *Call) error {
	out, err := c.Target(c.Args[0])
	if err != nil {
		return err
	}
	in, err := c.Target(c.Rest(1))
	if err != nil {
		return err
	}
	if !out.Team.Playing() {
		return model.ErrNotOnTeam
	}
	team := out.Team
	c.moveTo(out, model.TeamSpectator)
	c.moveTo(in, team)
	c.Broadcast(fmt.Sprintf("🔁 %s replaces %s for %s", in.Name, out.Name, teamLabel(team)), teamColor(team), model.StyleNormal)
	return nil
}

func afkCommand(c *Call) error {
	if c.Actor.Team.Playing() {
		c.moveTo(c.Actor, model.TeamSpectator)
	}
	c.Lineup.Forget(c.Actor.ID)
	c.Broadcast(fmt.Sprintf("💤 %s is AFK", c.Actor.Name), model.ColorMuted, model.StyleItalic)
	return nil
}

// moveTo sets the team and keeps the lineup marks consistent: players put on a
// team by staff are marked, spectators are not
func (c *Call) moveTo(s model.Session, team model.Team) {
	c.Room.SetTeam(s.ID, team)
	if team.Playing() {
		c.Lineup.MarkMoved(s.ID)
		return
	}
	c.Lineup.Unmark(s.ID)
}

func teamLabel(t model.Team) string {
	switch t {
	case model.TeamRed:
		return "🔴 Red"
	case model.TeamBlue:
		return "🔵 Blue"
	default:
		return "👀 Spectators"
	}
}

func teamColor(t model.Team) int {
	switch t {
	case model.TeamRed:
		return model.ColorError
	case model.TeamBlue:
		return model.ColorInfo
	default:
		return model.ColorMuted
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
