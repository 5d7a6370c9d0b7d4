package commands

import (
	"fmt"
	"time"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/room"
	"github.com/mcoot/roomwarden/internal/services/match"
)

// DefaultReadyDelay is the countdown once every participant is ready
const DefaultReadyDelay = 3 * time.Second

func startCommand(c *Call) error {
	if c.Match.State() == match.StateInProgress {
		c.Reply("❌ A game is already in progress.", model.ColorError)
		return nil
	}
	c.Room.StartGame()
	c.Lineup.ClearReady()
	return nil
}

func stopCommand(c *Call) error {
	if c.Match.State() != match.StateInProgress {
		c.Reply("❌ No game is in progress.", model.ColorError)
		return nil
	}
	c.Room.StopGame()
	return nil
}

func pauseCommand(c *Call) error {
	if c.Match.State() != match.StateInProgress || c.Match.Paused() {
		c.Reply("❌ Nothing to pause.", model.ColorError)
		return nil
	}
	c.Room.PauseGame(true)
	return nil
}

func unpauseCommand(c *Call) error {
	if !c.Match.Paused() {
		c.Reply("❌ The game is not paused.", model.ColorError)
		return nil
	}
	c.Room.PauseGame(false)
	return nil
}

func readyCommand(c *Call) error {
	if !c.Actor.Team.Playing() {
		c.Reply("❌ Join a team before readying up.", model.ColorError)
		return nil
	}
	if !c.Lineup.ToggleReady(c.Actor.ID) {
		c.Broadcast(fmt.Sprintf("⏸️ %s is no longer ready", c.Actor.Name), model.ColorMuted, model.StyleSmall)
		return nil
	}
	c.Broadcast(fmt.Sprintf("✅ %s is ready", c.Actor.Name), model.ColorSuccess, model.StyleSmall)

	players := room.Participants(c.Room)
	if len(players) < 2 || c.Match.State() != match.StateIdle {
		return nil
	}
	for _, p := range players {
		if !c.Lineup.IsReady(p.ID) {
			return nil
		}
	}

	delay := c.Info.ReadyDelay
	c.Broadcast(fmt.Sprintf("🚦 Everyone is ready! Kick-off in %d seconds...", int(delay.Seconds())), model.ColorGold, model.StyleBold)
	c.Deferrer.After(delay, "ready-kickoff", func() {
		if c.Match.State() != match.StateIdle {
			return
		}
		c.Room.StartGame()
		c.Lineup.ClearReady()
	})
	return nil
}
