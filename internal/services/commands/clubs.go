package commands

import (
	"fmt"
	"strings"

	"github.com/mcoot/roomwarden/internal/model"
)

func newClubCommand(c *Call) error {
	clubName, captain := c.Args[0], c.Rest(1)
	if err := validPlayerName(captain); err != nil {
		return err
	}
	club, err := c.Clubs.CreateClub(c.Actor, clubName, captain)
	if err != nil {
		return err
	}
	c.Broadcast(fmt.Sprintf("🏆 Club %s created! Captain: %s", club.Name, club.Captain), model.ColorGold, model.StyleBold)
	return nil
}

func addPlayerCommand(c *Call) error {
	clubName, player := c.Args[0], c.Rest(1)
	if err := validPlayerName(player); err != nil {
		return err
	}
	if err := c.Clubs.AddMember(c.Actor, clubName, player); err != nil {
		return err
	}
	c.Broadcast(fmt.Sprintf("✅ %s added to %s", player, clubName), model.ColorSuccess, model.StyleNormal)
	return nil
}

func clubsCommand(c *Call) error {
	all := c.Clubs.Clubs()
	if len(all) == 0 {
		c.Reply("🏆 No clubs created yet.", model.ColorInfo)
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 CLUBS (%d):", len(all))
	for _, club := range all {
		fmt.Fprintf(&b, "\n%s - Captain: %s (%d members)", club.Name, club.Captain, len(club.Members))
	}
	c.Reply(b.String(), model.ColorGold)
	return nil
}

func signCommand(c *Call) error {
	target := c.Rest(0)
	club, err := c.Clubs.SignPlayer(c.Actor, target)
	if err != nil {
		return err
	}
	c.Broadcast(fmt.Sprintf("✍️ %s signed for %s!", target, club.Name), model.ColorSuccess, model.StyleBold)
	return nil
}

func removeCommand(c *Call) error {
	target := c.Rest(0)
	club, err := c.Clubs.RemoveMember(c.Actor, target)
	if err != nil {
		return err
	}
	c.Broadcast(fmt.Sprintf("👋 %s was released from %s", target, club.Name), model.ColorOrange, model.StyleNormal)
	return nil
}

func rosterCommand(c *Call) error {
	clubName := c.Rest(0)
	if clubName == "" {
		own, ok := c.Clubs.FindClubOf(c.Actor.Name)
		if !ok {
			c.Reply("❌ You are not in a club. Usage: "+c.UsageLine(), model.ColorError)
			return nil
		}
		clubName = own.Name
	}
	roster, err := c.Clubs.Roster(clubName)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s ROSTER (%d):", roster.Club, len(roster.Members))
	for _, m := range roster.Members {
		status := "⚫"
		if m.Online {
			status = "🟢"
		}
		role := ""
		if m.Captain {
			role = "©️ "
		}
		fmt.Fprintf(&b, "\n%s %s%s", status, role, m.Name)
	}
	c.Reply(b.String(), model.ColorInfo)
	return nil
}
