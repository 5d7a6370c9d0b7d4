package commands

import (
	"fmt"

	"github.com/mcoot/roomwarden/internal/model"
)

func kickCommand(c *Call) error {
	target, err := c.Target(c.Args[0])
	if err != nil {
		return err
	}
	if c.Authority.IsOwner(target) && !c.Authority.IsOwner(c.Actor) {
		return fmt.Errorf("%w: cannot kick the owner", model.ErrPermissionDenied)
	}
	reason := c.Rest(1)
	if reason == "" {
		reason = "Kicked by admin"
	}
	c.Room.Kick(target.ID, reason, false)
	c.Broadcast(fmt.Sprintf("👢 %s was kicked: %s", target.Name, reason), model.ColorOrange, model.StyleNormal)
	c.publishModeration("👢 Player Kicked", target, reason)
	return nil
}

func banCommand(c *Call) error {
	target, err := c.Target(c.Rest(0))
	if err != nil {
		return err
	}
	if c.Authority.IsOwner(target) {
		return fmt.Errorf("%w: cannot ban the owner", model.ErrPermissionDenied)
	}
	c.Room.Kick(target.ID, "Banned by owner", true)
	c.Broadcast(fmt.Sprintf("🔨 %s was banned", target.Name), model.ColorError, model.StyleBold)
	c.publishModeration("🔨 Player Banned", target, "Banned by owner")
	return nil
}

func clearBansCommand(c *Call) error {
	c.Room.ClearBans()
	c.Reply("✅ All bans cleared.", model.ColorSuccess)
	c.Publisher.Publish(model.Notification{
		Kind:        model.KindModeration,
		Title:       "🧹 Bans Cleared",
		Description: fmt.Sprintf("%s cleared all bans", c.Actor.Name),
		Color:       model.ColorInfo,
	})
	return nil
}

func (c *Call) publishModeration(title string, target model.Session, reason string) {
	c.Publisher.Publish(model.Notification{
		Kind:        model.KindModeration,
		Title:       title,
		Description: fmt.Sprintf("**%s** was removed by **%s**", target.Name, c.Actor.Name),
		Color:       model.ColorOrange,
		Fields: []model.NotificationField{
			{Name: "Reason", Value: reason},
			{Name: "Fingerprint", Value: target.Fingerprint, Inline: true},
		},
	})
}
