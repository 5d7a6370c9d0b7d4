// Package commands parses chat commands and routes them to handlers after
// checking the caller's permission tier and argument count.
package commands

import (
	"fmt"
	"slices"
)

// Tier is the minimum role required to run a command
type Tier int

const (
	TierPlayer Tier = iota
	TierCaptain
	TierAdmin
	TierOwner
)

// String returns the tier heading used in help output
func (t Tier) String() string {
	switch t {
	case TierCaptain:
		return "captain"
	case TierAdmin:
		return "admin"
	case TierOwner:
		return "owner"
	default:
		return "player"
	}
}

// HandlerFunc executes a command. Returned errors become private notices.
type HandlerFunc func(c *Call) error

// Command describes one chat command
type Command struct {
	Name    string
	Tier    Tier
	MinArgs int
	// Usage lists the arguments, e.g. "<player> [reason]"
	Usage   string
	Summary string
	// Sensitive commands never have their arguments logged
	Sensitive bool
	Handler   HandlerFunc
}

// Registry holds commands in registration order
type Registry struct {
	commands map[string]*Command
	order    []string
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds cmd. Registering the same name twice is a programming error.
func (r *Registry) Register(cmd Command) {
	if cmd.Handler == nil {
		panic(fmt.Sprintf("commands: %q has no handler", cmd.Name))
	}
	if _, dup := r.commands[cmd.Name]; dup {
		panic(fmt.Sprintf("commands: %q registered twice", cmd.Name))
	}
	r.commands[cmd.Name] = &cmd
	r.order = append(r.order, cmd.Name)
}

// Lookup finds a command by lower-case name
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns every command name in registration order
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Commands returns every command in registration order
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.commands[name])
	}
	return out
}
