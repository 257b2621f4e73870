package script

import "fmt"

// Arg declares one argument of a command: its name, the coercion that types
// it, and the binding modifiers.
//
// Implicit args resolve from the World alone and never consume script
// input. A trailing Variadic arg absorbs every remaining sub-event as one
// list. Default supplies a value when input is exhausted; Nullable lets the
// arg go unbound instead of failing.
type Arg struct {
	Name     string
	Coerce   CoerceFunc
	Variadic bool
	Implicit bool
	Nullable bool
	Default  *Value
}

// DefaultValue adapts a value for use in an Arg declaration.
func DefaultValue(v Value) *Value {
	return &v
}

// Args is a bound argument set, name to coerced value. Nullable args that
// received no input are absent.
type Args map[string]Value

// Has reports whether the named arg was bound.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Value returns the named value when bound.
func (a Args) Value(name string) (Value, bool) {
	v, ok := a[name]
	return v, ok
}

// Address returns the named address arg. Like the Value kind accessors it
// panics when the arg is unbound or of another kind; command declarations
// guarantee both.
func (a Args) Address(name string) string {
	return a.get(name).Address()
}

// Number returns the named number arg.
func (a Args) Number(name string) *Number {
	return a.get(name).Number()
}

// Text returns the named string arg.
func (a Args) Text(name string) string {
	return a.get(name).Text()
}

// Bool returns the named bool arg.
func (a Args) Bool(name string) bool {
	return a.get(name).Bool()
}

// List returns the items of the named list arg.
func (a Args) List(name string) []Value {
	return a.get(name).Items()
}

// Map returns the entries of the named map arg.
func (a Args) Map(name string) map[string]Value {
	return a.get(name).Entries()
}

// Raw returns the unparsed event of the named raw arg.
func (a Args) Raw(name string) Event {
	return a.get(name).Raw()
}

func (a Args) get(name string) Value {
	v, ok := a[name]
	if !ok {
		panic(fmt.Sprintf("script: no bound argument %q", name))
	}
	return v
}
