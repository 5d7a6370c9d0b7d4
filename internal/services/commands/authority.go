package commands

import (
	"fmt"
	"unicode/utf8"

	"github.com/mcoot/roomwarden/internal/model"
)

// MaxPlayerNameLength bounds names accepted as command arguments
const MaxPlayerNameLength = 25

func validPlayerName(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxPlayerNameLength {
		return model.ErrInvalidPlayerName
	}
	return nil
}

func ownerCommand(c *Call) error {
	if err := c.Authority.ClaimOwner(c.Actor, c.Args[0]); err != nil {
		return err
	}
	c.Broadcast(fmt.Sprintf("👑 %s is now the Owner!", c.Actor.Name), model.ColorGold, model.StyleBold)
	return nil
}

func adminCommand(c *Call) error {
	name := c.Rest(0)
	if err := validPlayerName(name); err != nil {
		return err
	}
	target, err := c.Authority.GrantAdmin(c.Actor, name)
	if err != nil {
		return err
	}
	c.Broadcast(fmt.Sprintf("🛡️ %s is now an admin!", target.Name), model.ColorSuccess, model.StyleBold)
	return nil
}

func unadminCommand(c *Call) error {
	target, err := c.Authority.RevokeAdmin(c.Actor, c.Rest(0))
	if err != nil {
		return err
	}
	c.Broadcast(fmt.Sprintf("⚠️ %s is no longer an admin.", target.Name), model.ColorWarning, model.StyleNormal)
	return nil
}
