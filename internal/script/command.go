package script

import (
	"context"
	"fmt"
	"strings"
)

// RunFunc executes a mutating command and returns the next World. The
// dispatcher checks that exactly one action log entry was appended.
type RunFunc func(ctx context.Context, w *World, from string, args Args) (*World, error)

// ViewFunc executes a read-only command. Views return a value and cannot
// touch the World; the type makes appending to the action log impossible.
type ViewFunc func(ctx context.Context, w *World, from string, args Args) (Value, error)

// Command is one registered script command: a name, a docstring, the arg
// declarations the binder works from, and exactly one handler.
type Command struct {
	Name string
	Doc  string
	Args []Arg

	Run  RunFunc
	View ViewFunc
}

// Usage renders the positional shape of the command for help listings.
// Implicit args are injected, not written, so they do not appear.
func (c *Command) Usage() string {
	parts := []string{c.Name}
	for _, a := range c.Args {
		switch {
		case a.Implicit:
		case a.Variadic:
			parts = append(parts, "<"+a.Name+">...")
		case a.Default != nil || a.Nullable:
			parts = append(parts, "["+a.Name+"]")
		default:
			parts = append(parts, "<"+a.Name+">")
		}
	}
	return strings.Join(parts, " ")
}

// Registry is one subsystem's command table. Lookup is case-insensitive;
// shape problems in a declaration are caught at registration, not at
// dispatch.
type Registry struct {
	commands []*Command
}

// NewRegistry returns an empty command table.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register validates and adds a command.
func (r *Registry) Register(cmd *Command) error {
	if cmd.Name == "" {
		return fmt.Errorf("register command: empty name")
	}
	if _, ok := r.Lookup(cmd.Name); ok {
		return fmt.Errorf("register command %s: already registered", cmd.Name)
	}
	if (cmd.Run == nil) == (cmd.View == nil) {
		return fmt.Errorf("register command %s: want exactly one of Run or View", cmd.Name)
	}
	seen := make(map[string]bool, len(cmd.Args))
	for i, a := range cmd.Args {
		if a.Name == "" {
			return fmt.Errorf("register command %s: arg %d has no name", cmd.Name, i)
		}
		if a.Coerce == nil {
			return fmt.Errorf("register command %s: arg %s has no coercion", cmd.Name, a.Name)
		}
		if seen[strings.ToLower(a.Name)] {
			return fmt.Errorf("register command %s: duplicate arg %s", cmd.Name, a.Name)
		}
		seen[strings.ToLower(a.Name)] = true
		if a.Variadic && a.Implicit {
			return fmt.Errorf("register command %s: arg %s is both variadic and implicit", cmd.Name, a.Name)
		}
		if a.Variadic && i != len(cmd.Args)-1 {
			return fmt.Errorf("register command %s: variadic arg %s must be last", cmd.Name, a.Name)
		}
	}
	r.commands = append(r.commands, cmd)
	return nil
}

// MustRegister is Register for static command tables; a bad declaration is
// a programmer error.
func (r *Registry) MustRegister(cmd *Command) {
	if err := r.Register(cmd); err != nil {
		panic(err)
	}
}

// Lookup finds a command by name, case-insensitively.
func (r *Registry) Lookup(name string) (*Command, bool) {
	for _, cmd := range r.commands {
		if strings.EqualFold(cmd.Name, name) {
			return cmd, true
		}
	}
	return nil, false
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}
