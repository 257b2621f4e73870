package script

import (
	"fmt"
	"sort"
	"strings"
)

// ValueKind discriminates the coerced value types. The zero kind is
// invalid, so a zero Value is distinguishable from every coerced one.
type ValueKind int

const (
	InvalidValue ValueKind = iota
	AddressValue
	NumberValue
	StringValue
	BoolValue
	ListValue
	MapValue
	RawValue
)

func (k ValueKind) String() string {
	switch k {
	case AddressValue:
		return "address"
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	case BoolValue:
		return "bool"
	case ListValue:
		return "list"
	case MapValue:
		return "map"
	case RawValue:
		return "raw"
	}
	return "invalid"
}

// Value is the typed result of coercing an event. Values are immutable once
// constructed; list and map payloads are copied in and never handed back by
// reference to the constructor's argument.
type Value struct {
	Kind ValueKind

	addr  string
	num   *Number
	str   string
	truth bool
	items []Value
	entry map[string]Value
	raw   Event
}

// NewAddress wraps a canonical lower-case hex address.
func NewAddress(hex string) Value {
	return Value{Kind: AddressValue, addr: hex}
}

// NewNumber wraps a decimal number.
func NewNumber(n *Number) Value {
	return Value{Kind: NumberValue, num: n}
}

// NewString wraps a string.
func NewString(s string) Value {
	return Value{Kind: StringValue, str: s}
}

// NewBool wraps a bool.
func NewBool(b bool) Value {
	return Value{Kind: BoolValue, truth: b}
}

// NewList wraps an ordered sequence of values.
func NewList(items ...Value) Value {
	copied := make([]Value, len(items))
	copy(copied, items)
	return Value{Kind: ListValue, items: copied}
}

// NewMap wraps a string-keyed record.
func NewMap(entries map[string]Value) Value {
	copied := make(map[string]Value, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return Value{Kind: MapValue, entry: copied}
}

// NewRaw wraps an unparsed event for commands that consume script text
// verbatim.
func NewRaw(ev Event) Value {
	return Value{Kind: RawValue, raw: ev}
}

// IsValid reports whether the value carries a coerced payload.
func (v Value) IsValid() bool {
	return v.Kind != InvalidValue
}

// Address returns the hex address. It panics on any other kind; binding
// guarantees the kind a command declares.
func (v Value) Address() string {
	v.mustBe(AddressValue)
	return v.addr
}

// Number returns the decimal payload.
func (v Value) Number() *Number {
	v.mustBe(NumberValue)
	return v.num
}

// Text returns the string payload.
func (v Value) Text() string {
	v.mustBe(StringValue)
	return v.str
}

// Bool returns the bool payload.
func (v Value) Bool() bool {
	v.mustBe(BoolValue)
	return v.truth
}

// Items returns the list payload as a fresh slice.
func (v Value) Items() []Value {
	v.mustBe(ListValue)
	out := make([]Value, len(v.items))
	copy(out, v.items)
	return out
}

// Entries returns the map payload as a fresh map.
func (v Value) Entries() map[string]Value {
	v.mustBe(MapValue)
	out := make(map[string]Value, len(v.entry))
	for k, val := range v.entry {
		out[k] = val
	}
	return out
}

// At returns the map entry under key.
func (v Value) At(key string) (Value, bool) {
	v.mustBe(MapValue)
	val, ok := v.entry[key]
	return val, ok
}

// Raw returns the wrapped event.
func (v Value) Raw() Event {
	v.mustBe(RawValue)
	return v.raw
}

func (v Value) mustBe(kind ValueKind) {
	if v.Kind != kind {
		panic(fmt.Sprintf("script: %s access of %s value", kind, v.Kind))
	}
}

// Equal reports deep equality. Numbers compare by value regardless of scale.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case AddressValue:
		return v.addr == other.addr
	case NumberValue:
		return v.num.Cmp(other.num) == 0
	case StringValue:
		return v.str == other.str
	case BoolValue:
		return v.truth == other.truth
	case ListValue:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case MapValue:
		if len(v.entry) != len(other.entry) {
			return false
		}
		for k, val := range v.entry {
			o, ok := other.entry[k]
			if !ok || !val.Equal(o) {
				return false
			}
		}
		return true
	case RawValue:
		return v.raw.Equal(other.raw)
	}
	return false
}

// Show renders a stable human-readable form for logs and assertions. Map
// keys render sorted so the output is deterministic.
func (v Value) Show() string {
	switch v.Kind {
	case AddressValue:
		return v.addr
	case NumberValue:
		return v.num.Show()
	case StringValue:
		return v.str
	case BoolValue:
		if v.truth {
			return "true"
		}
		return "false"
	case ListValue:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.Show()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case MapValue:
		keys := make([]string, 0, len(v.entry))
		for k := range v.entry {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.entry[k].Show()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case RawValue:
		return v.raw.render()
	}
	return "<invalid>"
}

// Encode converts to the representation the invocation layer sends on the
// wire: numbers become their fixed-point mantissa, raw events their script
// text, containers encode element-wise.
func (v Value) Encode() any {
	switch v.Kind {
	case AddressValue:
		return v.addr
	case NumberValue:
		return v.num.Mantissa()
	case StringValue:
		return v.str
	case BoolValue:
		return v.truth
	case ListValue:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Encode()
		}
		return out
	case MapValue:
		out := make(map[string]any, len(v.entry))
		for k, val := range v.entry {
			out[k] = val.Encode()
		}
		return out
	case RawValue:
		return v.raw.render()
	}
	return nil
}
