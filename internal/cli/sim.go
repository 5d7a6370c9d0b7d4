package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/roomwarden/internal/api/request"
	"github.com/mcoot/roomwarden/internal/api/response"
)

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Drive the simulated room",
	}

	cmd.AddCommand(newSimJoinCmd())
	cmd.AddCommand(newSimSessionCmd("leave", "Disconnect a player"))
	cmd.AddCommand(newSimChatCmd())
	cmd.AddCommand(newSimSessionCmd("touch", "Touch the ball as a player"))
	cmd.AddCommand(newSimGoalCmd())
	cmd.AddCommand(newSimTeamCmd())
	cmd.AddCommand(newSimLifecycleCmd("start", "Start a game"))
	cmd.AddCommand(newSimLifecycleCmd("stop", "Stop the running game"))

	return cmd
}

func newSimJoinCmd() *cobra.Command {
	var fingerprint string

	cmd := &cobra.Command{
		Use:   "join <name>",
		Short: "Connect a player",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.JoinRequest{
				Name:        strings.Join(args, " "),
				Fingerprint: fingerprint,
			}

			var result response.Player
			if err := client.Post("/api/v1/sim/join", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Connection fingerprint (default: derived from the name)")

	return cmd
}

// newSimSessionCmd builds the commands that only name a player
func newSimSessionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := client.Post("/api/v1/sim/"+action, request.SessionRequest{ID: id}, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("%s #%d: ok", action, id))
			return nil
		},
	}
}

func newSimChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <id> <message>",
		Short: "Send a chat line (commands included) as a player",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			req := request.ChatRequest{ID: id, Message: strings.Join(args[1:], " ")}
			if err := client.Post("/api/v1/sim/chat", req, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("#%d: %s", id, req.Message))
			return nil
		},
	}
}

func newSimGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "goal <red|blue>",
		Short:     "Score a goal for a team",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"red", "blue"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/sim/goal", request.GoalRequest{Team: args[0]}, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Goal for " + args[0])
			return nil
		},
	}
}

func newSimTeamCmd() *cobra.Command {
	var by int

	cmd := &cobra.Command{
		Use:   "team <id> <red|blue|spec>",
		Short: "Move a player to a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			req := request.TeamRequest{ID: id, Team: args[1], By: by}
			if err := client.Post("/api/v1/sim/team", req, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("#%d moved to %s", id, args[1]))
			return nil
		},
	}

	cmd.Flags().IntVar(&by, "by", 0, "Player who made the move (default: the player themselves)")

	return cmd
}

func newSimLifecycleCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/sim/"+action, nil, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Game " + action + " requested")
			return nil
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid player id %q", s)
	}
	return id, nil
}
