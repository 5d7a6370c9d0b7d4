package commands

// NewDefaultRegistry returns a Registry with every built-in command
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	// Authority
	r.Register(Command{Name: "owner", Tier: TierPlayer, MinArgs: 1, Usage: "<password>", Summary: "Log in as room owner", Sensitive: true, Handler: ownerCommand})
	r.Register(Command{Name: "admin", Tier: TierOwner, MinArgs: 1, Usage: "<player>", Summary: "Give admin privileges", Handler: adminCommand})
	r.Register(Command{Name: "unadmin", Tier: TierOwner, MinArgs: 1, Usage: "<player>", Summary: "Remove admin privileges", Handler: unadminCommand})

	// Clubs
	r.Register(Command{Name: "newclub", Tier: TierOwner, MinArgs: 2, Usage: "<club> <captain>", Summary: "Create a club", Handler: newClubCommand})
	r.Register(Command{Name: "addplayer", Tier: TierOwner, MinArgs: 2, Usage: "<club> <player>", Summary: "Add a player to a club", Handler: addPlayerCommand})
	r.Register(Command{Name: "clubs", Tier: TierPlayer, Summary: "List all clubs", Handler: clubsCommand})
	r.Register(Command{Name: "sign", Tier: TierCaptain, MinArgs: 1, Usage: "<player>", Summary: "Sign a player to your club", Handler: signCommand})
	r.Register(Command{Name: "remove", Tier: TierCaptain, MinArgs: 1, Usage: "<player>", Summary: "Remove a player from your club", Handler: removeCommand})
	r.Register(Command{Name: "roster", Tier: TierPlayer, Usage: "[club]", Summary: "Show a club roster", Handler: rosterCommand})

	// Stats
	r.Register(Command{Name: "stats", Tier: TierPlayer, Usage: "[player]", Summary: "View player statistics", Handler: statsCommand})
	r.Register(Command{Name: "ranking", Tier: TierPlayer, Summary: "View top scorers", Handler: rankingCommand})

	// Game control
	r.Register(Command{Name: "start", Tier: TierAdmin, Summary: "Start the game", Handler: startCommand})
	r.Register(Command{Name: "stop", Tier: TierAdmin, Summary: "Stop the game", Handler: stopCommand})
	r.Register(Command{Name: "pause", Tier: TierAdmin, Summary: "Pause the game", Handler: pauseCommand})
	r.Register(Command{Name: "unpause", Tier: TierAdmin, Summary: "Resume the game", Handler: unpauseCommand})

	// Teams
	r.Register(Command{Name: "red", Tier: TierAdmin, MinArgs: 1, Usage: "<player>", Summary: "Move a player to red", Handler: teamCommand})
	r.Register(Command{Name: "blue", Tier: TierAdmin, MinArgs: 1, Usage: "<player>", Summary: "Move a player to blue", Handler: teamCommand})
	r.Register(Command{Name: "spec", Tier: TierAdmin, MinArgs: 1, Usage: "<player>", Summary: "Move a player to spectators", Handler: teamCommand})
	r.Register(Command{Name: "clear", Tier: TierAdmin, Summary: "Move everyone to spectators", Handler: clearCommand})
	r.Register(Command{Name: "choose", Tier: TierAdmin, MinArgs: 1, Usage: "<player> <player>...", Summary: "Randomly split players into teams", Handler: chooseCommand})
	r.Register(Command{Name: "sub", Tier: TierAdmin, MinArgs: 2, Usage: "<out> <in>", Summary: "Substitute a player", Handler: subCommand})
	r.Register(Command{Name: "ready", Tier: TierPlayer, Summary: "Toggle your ready status", Handler: readyCommand})
	r.Register(Command{Name: "afk", Tier: TierPlayer, Summary: "Move yourself to spectators", Handler: afkCommand})

	// Moderation
	r.Register(Command{Name: "kick", Tier: TierAdmin, MinArgs: 1, Usage: "<player> [reason]", Summary: "Kick a player", Handler: kickCommand})
	r.Register(Command{Name: "ban", Tier: TierOwner, MinArgs: 1, Usage: "<player>", Summary: "Ban a player", Handler: banCommand})
	r.Register(Command{Name: "clearbans", Tier: TierOwner, Summary: "Clear all bans", Handler: clearBansCommand})

	// Fun
	r.Register(Command{Name: "coin", Tier: TierPlayer, Summary: "Flip a coin", Handler: coinCommand})
	r.Register(Command{Name: "roll", Tier: TierPlayer, Usage: "[max]", Summary: "Roll 1 to max (default 100)", Handler: rollCommand})

	// Utility
	r.Register(Command{Name: "help", Tier: TierPlayer, Summary: "Show available commands", Handler: helpCommand})
	r.Register(Command{Name: "discord", Tier: TierPlayer, Summary: "Get the Discord invite", Handler: discordCommand})
	r.Register(Command{Name: "ping", Tier: TierPlayer, Summary: "Check the bot responds", Handler: pingCommand})
	r.Register(Command{Name: "info", Tier: TierPlayer, Summary: "Show room information", Handler: infoCommand})
	r.Register(Command{Name: "list", Tier: TierPlayer, Summary: "List players by team", Handler: listCommand})

	return r
}
