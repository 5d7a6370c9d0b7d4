package commands

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/room"
	"github.com/mcoot/roomwarden/internal/services/match"
	"github.com/mcoot/roomwarden/internal/services/stats"
)

const (
	rankingSize = 5
	defaultRoll = 100
	maxRoll     = 1000
)

var (
	printer = message.NewPrinter(language.English)
	medals  = []string{"🥇", "🥈", "🥉", "4.", "5."}
)

func statsCommand(c *Call) error {
	name := c.Rest(0)
	if name == "" {
		name = c.Actor.Name
	}
	p, ok := c.Stats.Get(name)
	if !ok {
		return model.ErrPlayerNotFound
	}
	c.Reply(printer.Sprintf("📊 %s | ⚽ Goals: %d | 🅰️ Assists: %d | 🏆 Wins: %d | ❌ Losses: %d | ⭐ MVPs: %d | 🎮 Games: %d | 📈 Win rate: %d%%",
		p.Name, p.Goals, p.Assists, p.Wins, p.Losses, p.MVPs, p.GamesPlayed, p.WinRate()), model.ColorInfo)
	return nil
}

func rankingCommand(c *Call) error {
	top := c.Stats.Top(stats.MetricGoals, rankingSize)
	if len(top) == 0 {
		c.Reply("📊 No goals scored yet.", model.ColorInfo)
		return nil
	}
	var b strings.Builder
	b.WriteString("🏆 TOP SCORERS")
	for i, p := range top {
		b.WriteString(printer.Sprintf("\n%s %s - %d goals", medals[i], p.Name, p.Goals))
	}
	c.Reply(b.String(), model.ColorGold)
	return nil
}

func coinCommand(c *Call) error {
	side := "Heads"
	if c.Random.Intn(2) == 1 {
		side = "Tails"
	}
	c.Broadcast(fmt.Sprintf("🪙 %s flipped a coin: %s!", c.Actor.Name, side), model.ColorGold, model.StyleNormal)
	return nil
}

func rollCommand(c *Call) error {
	limit := defaultRoll
	if len(c.Args) > 0 {
		n, err := strconv.Atoi(c.Args[0])
		if err != nil || n < 1 || n > maxRoll {
			c.Reply("❌ Roll between 1-1000", model.ColorError)
			return nil
		}
		limit = n
	}
	c.Broadcast(fmt.Sprintf("🎲 %s rolled %d (1-%d)", c.Actor.Name, c.Random.Intn(limit)+1, limit), model.ColorInfo, model.StyleNormal)
	return nil
}

// helpCommand lists only the commands the caller may run, grouped by tier
func helpCommand(c *Call) error {
	groups := make(map[Tier][]string)
	for _, cmd := range c.dispatcher.registry.Commands() {
		if !c.dispatcher.Allowed(cmd.Tier, c.Actor) {
			continue
		}
		groups[cmd.Tier] = append(groups[cmd.Tier], c.prefix+cmd.Name)
	}

	var b strings.Builder
	b.WriteString("📋 COMMANDS")
	for _, t := range []Tier{TierPlayer, TierCaptain, TierAdmin, TierOwner} {
		if len(groups[t]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s: %s", strings.ToUpper(t.String()), strings.Join(groups[t], " "))
	}
	c.Reply(b.String(), model.ColorInfo)
	return nil
}

func discordCommand(c *Call) error {
	if c.Info.DiscordInvite == "" {
		c.Reply("❌ No Discord server configured.", model.ColorError)
		return nil
	}
	c.Reply("💬 Join our Discord: "+c.Info.DiscordInvite, model.ColorInfo)
	return nil
}

func pingCommand(c *Call) error {
	c.Reply("🏓 Pong!", model.ColorSuccess)
	return nil
}

func infoCommand(c *Call) error {
	state := "⏹️ Stopped"
	if c.Match.State() == match.StateInProgress {
		state = "▶️ In progress"
		if c.Match.Paused() {
			state = "⏸️ Paused"
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ℹ️ %s v%s", c.Info.RoomName, c.Info.Version)
	fmt.Fprintf(&b, "\n🤖 Host: %s", c.Info.HostName)
	visibility := "🔒 Private"
	if c.Info.Public {
		visibility = "🌍 Public"
	}
	if c.Info.Geo.Code != "" {
		visibility += " (" + strings.ToUpper(c.Info.Geo.Code) + ")"
	}
	fmt.Fprintf(&b, "\n%s", visibility)
	fmt.Fprintf(&b, "\n👥 Players: %d/%d", len(c.Room.Sessions()), c.Room.MaxPlayers())
	fmt.Fprintf(&b, "\n🎮 Game: %s", state)
	if scores, ok := c.Room.Scores(); ok && scores.ScoreLimit > 0 {
		fmt.Fprintf(&b, " | first to %d", scores.ScoreLimit)
	}
	fmt.Fprintf(&b, "\n🏆 Clubs: %d", len(c.Clubs.Clubs()))
	if c.Info.DiscordInvite != "" {
		fmt.Fprintf(&b, "\n💬 Discord: %s", c.Info.DiscordInvite)
	}
	c.Reply(b.String(), model.ColorInfo)
	return nil
}

func listCommand(c *Call) error {
	var b strings.Builder
	b.WriteString("👥 PLAYERS")
	for _, team := range []model.Team{model.TeamRed, model.TeamBlue, model.TeamSpectator} {
		members := room.OnTeam(c.Room, team)
		labels := make([]string, len(members))
		for i, s := range members {
			labels[i] = c.Roles.Display(s)
		}
		fmt.Fprintf(&b, "\n%s (%d): %s", teamLabel(team), len(members), orDash(strings.Join(labels, ", ")))
	}
	c.Reply(b.String(), model.ColorInfo)
	return nil
}
