package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/mcoot/roomwarden/internal/model"
)

// DefaultPrefix starts every command
const DefaultPrefix = "!"

const genericFailure = "❌ Error executing command. Please try again."

// Dispatcher routes chat text to registered commands
type Dispatcher struct {
	registry *Registry
	env      *Env
	prefix   string
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(registry *Registry, env *Env, prefix string, logger *slog.Logger) *Dispatcher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Dispatcher{
		registry: registry,
		env:      env,
		prefix:   prefix,
		logger:   logger.With(slog.String("component", "commands")),
	}
}

// Registry returns the command registry
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch handles text typed by actor. It returns false for ordinary chat and
// true for anything that starts with the command prefix, whatever the outcome.
func (d *Dispatcher) Dispatch(actor model.Session, text string) bool {
	if !strings.HasPrefix(text, d.prefix) {
		return false
	}

	fields := strings.Fields(strings.TrimPrefix(text, d.prefix))
	name := ""
	var args []string
	if len(fields) > 0 {
		name = strings.ToLower(fields[0])
		args = fields[1:]
	}

	cmd, ok := d.registry.Lookup(name)
	if !ok {
		d.env.Room.Announce(model.Private(actor.ID,
			fmt.Sprintf("❌ Unknown command: %s%s. Type %shelp for available commands.", d.prefix, name, d.prefix),
			model.ColorError))
		return true
	}

	call := &Call{Env: d.env, Actor: actor, Command: cmd, Args: args, prefix: d.prefix, dispatcher: d}
	logger := d.logger.With(
		slog.String("command", cmd.Name),
		slog.String("actor", actor.Name),
		slog.Int("actor_id", int(actor.ID)))

	if !d.Allowed(cmd.Tier, actor) {
		logger.Info("command denied", slog.String("tier", cmd.Tier.String()))
		call.Reply(denialNotice(cmd.Tier), model.ColorError)
		return true
	}
	if len(args) < cmd.MinArgs {
		call.Reply("❌ Usage: "+call.UsageLine(), model.ColorError)
		return true
	}

	if err := d.run(call, logger); err != nil {
		d.replyError(call, logger, err)
		return true
	}
	logger.Info("command executed", slog.String("args", d.loggableArgs(call)))
	return true
}

// Allowed reports whether actor meets tier
func (d *Dispatcher) Allowed(tier Tier, actor model.Session) bool {
	switch tier {
	case TierOwner:
		return d.env.Authority.IsOwner(actor)
	case TierAdmin:
		return d.env.Authority.IsAdmin(actor)
	case TierCaptain:
		return d.env.Clubs.IsCaptain(actor.Name)
	default:
		return true
	}
}

// run invokes the handler, turning a panic into ErrHandlerFault
func (d *Dispatcher) run(c *Call, logger *slog.Logger) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("command panicked",
				slog.String("args", d.loggableArgs(c)),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("%w: %v", model.ErrHandlerFault, rec)
		}
	}()
	return c.Command.Handler(c)
}

func (d *Dispatcher) replyError(c *Call, logger *slog.Logger, err error) {
	if errors.Is(err, model.ErrInvalidArguments) && !hasNotice(err) {
		c.Reply("❌ Usage: "+c.UsageLine(), model.ColorError)
		return
	}
	if msg, ok := noticeFor(err); ok {
		logger.Info("command rejected", slog.Any("error", err))
		c.Reply(msg, model.ColorError)
		return
	}
	if !errors.Is(err, model.ErrHandlerFault) {
		logger.Error("command failed",
			slog.String("args", d.loggableArgs(c)),
			slog.Any("error", err))
	}
	c.Reply(genericFailure, model.ColorError)
}

func (d *Dispatcher) loggableArgs(c *Call) string {
	if c.Command.Sensitive {
		return "[redacted]"
	}
	return strings.Join(c.Args, " ")
}

func denialNotice(t Tier) string {
	switch t {
	case TierOwner:
		return "❌ Only the room owner can use this command."
	case TierCaptain:
		return "❌ Only club captains can use this command."
	default:
		return "❌ You don't have permission to use this command."
	}
}

// notices maps domain errors to the private message shown to the caller.
// Specific errors come before the categories they wrap.
var notices = []struct {
	err error
	msg string
}{
	{model.ErrWrongPassword, "❌ Wrong password!"},
	{model.ErrNotCaptain, "❌ You must be a club captain to do that."},
	{model.ErrPermissionDenied, "❌ You don't have permission to do that."},
	{model.ErrTargetIsOwner, "❌ The room owner cannot be demoted."},
	{model.ErrCannotRemoveCaptain, "❌ The captain cannot be removed from their own club."},
	{model.ErrPlayerNotFound, "❌ Player not found."},
	{model.ErrClubNotFound, "❌ Club not found."},
	{model.ErrNotInClub, "❌ That player is not in the club."},
	{model.ErrClubAlreadyExists, "❌ A club with that name already exists."},
	{model.ErrAlreadyMember, "❌ That player is already in this club."},
	{model.ErrPlayerAlreadyInClub, "❌ That player already belongs to a club."},
	{model.ErrInvalidClubName, "❌ Club name must be 2-20 letters, digits or spaces."},
	{model.ErrInvalidPlayerName, "❌ Player name must be 1-25 characters."},
	{model.ErrNotOnTeam, "❌ That player is not on a team."},
}

func noticeFor(err error) (string, bool) {
	for _, n := range notices {
		if errors.Is(err, n.err) {
			return n.msg, true
		}
	}
	return "", false
}

func hasNotice(err error) bool {
	_, ok := noticeFor(err)
	return ok
}
