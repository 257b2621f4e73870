package script

import (
	"context"
	"fmt"
	"strings"
)

// Processor is the top-level routing table from subsystem name to command
// table. A script line reads "<Subsystem> <Command> <args>..."; the
// processor peels the first token and delegates the rest to the subsystem's
// registry.
type Processor struct {
	subsystems []subsystem
}

type subsystem struct {
	name     string
	registry *Registry
}

// NewProcessor returns a processor with no subsystems mounted.
func NewProcessor() *Processor {
	return &Processor{}
}

// Mount adds a subsystem's command table under the given name.
func (p *Processor) Mount(name string, r *Registry) error {
	if name == "" {
		return fmt.Errorf("mount subsystem: empty name")
	}
	if r == nil {
		return fmt.Errorf("mount subsystem %s: nil registry", name)
	}
	if _, ok := p.Registry(name); ok {
		return fmt.Errorf("mount subsystem %s: already mounted", name)
	}
	p.subsystems = append(p.subsystems, subsystem{name: name, registry: r})
	return nil
}

// MustMount is Mount for static routing tables.
func (p *Processor) MustMount(name string, r *Registry) {
	if err := p.Mount(name, r); err != nil {
		panic(err)
	}
}

// Registry finds a mounted subsystem's command table, case-insensitively.
func (p *Processor) Registry(name string) (*Registry, bool) {
	s, ok := p.lookup(name)
	return s.registry, ok
}

// Subsystems returns the mounted subsystem names in mount order.
func (p *Processor) Subsystems() []string {
	out := make([]string, len(p.subsystems))
	for i, s := range p.subsystems {
		out[i] = s.name
	}
	return out
}

// Process routes one parsed line: the head atom names the subsystem, the
// remainder is the command event. An empty event is a no-op that returns
// the World unchanged. Failures leave the World untouched.
func (p *Processor) Process(ctx context.Context, w *World, from string, ev Event) (*World, Value, error) {
	if !ev.IsAtom() && len(ev.Items) == 0 {
		return w, Value{}, nil
	}
	name, rest, err := splitCommand(ev)
	if err != nil {
		return w, Value{}, err
	}
	entry, ok := p.lookup(name)
	if !ok {
		unknownErr := newError(CodeUnknownSubsystem, "no such subsystem %q", name)
		unknownErr.Subsystem = name
		return w, Value{}, unknownErr
	}
	next, out, err := entry.registry.Dispatch(ctx, w, from, List(rest...))
	if err != nil {
		return w, out, withSubsystem(err, entry.name)
	}
	return next, out, nil
}

// ProcessLine parses and processes one line of script text. Blank and
// comment-only lines are no-ops.
func (p *Processor) ProcessLine(ctx context.Context, w *World, from, line string) (*World, Value, error) {
	ev, err := Parse(line)
	if err != nil {
		return w, Value{}, err
	}
	return p.Process(ctx, w, from, ev)
}

func (p *Processor) lookup(name string) (subsystem, bool) {
	for _, s := range p.subsystems {
		if strings.EqualFold(s.name, name) {
			return s, true
		}
	}
	return subsystem{}, false
}
