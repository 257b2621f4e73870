// Package script implements the scenario scripting engine: a token-tree
// parser, a typed value model, a declarative argument binder, and a
// case-insensitive command dispatcher that threads an immutable World
// through every command.
package script

import "strings"

// EventKind discriminates the two event shapes.
type EventKind int

const (
	// AtomEvent is a single token.
	AtomEvent EventKind = iota
	// ListEvent is an ordered sequence of sub-events.
	ListEvent
)

// Event is one parsed script expression: either an atomic token or an
// ordered list of sub-events. Events are built once per parse and read many
// times during binding; they are never mutated after construction.
type Event struct {
	Kind  EventKind
	Token string
	Items []Event
}

// Atom returns an atomic token event.
func Atom(token string) Event {
	return Event{Kind: AtomEvent, Token: token}
}

// List returns a list event over the given sub-events.
func List(items ...Event) Event {
	return Event{Kind: ListEvent, Items: items}
}

// IsAtom reports whether the event is a single token.
func (e Event) IsAtom() bool {
	return e.Kind == AtomEvent
}

// Equal reports structural equality between two event trees.
func (e Event) Equal(other Event) bool {
	if e.Kind != other.Kind {
		return false
	}
	if e.Kind == AtomEvent {
		return e.Token == other.Token
	}
	if len(e.Items) != len(other.Items) {
		return false
	}
	for i := range e.Items {
		if !e.Items[i].Equal(other.Items[i]) {
			return false
		}
	}
	return true
}

// String re-renders the event as script text. Atoms that contain whitespace
// or delimiters are quoted so the output parses back to the same tree.
func (e Event) String() string {
	if e.Kind == AtomEvent {
		return renderToken(e.Token)
	}
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// render writes the event without the outermost parentheses, the form a
// top-level script line has.
func (e Event) render() string {
	if e.Kind == AtomEvent {
		return e.String()
	}
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

func renderToken(token string) string {
	if token == "" {
		return `""`
	}
	if strings.ContainsAny(token, " \t\n\"()[]") {
		escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`).Replace(token)
		return `"` + escaped + `"`
	}
	return token
}
