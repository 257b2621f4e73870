package script

import (
	"context"
	"strings"
)

// CoerceFunc converts one event into a typed value. Coercions may consult
// the World for symbolic resolution but never mutate it.
type CoerceFunc func(ctx context.Context, w *World, ev Event) (Value, error)

// CoerceString accepts any atom as a string.
func CoerceString(ctx context.Context, w *World, ev Event) (Value, error) {
	if !ev.IsAtom() {
		return Value{}, coercionError("string", ev)
	}
	return NewString(ev.Token), nil
}

// CoerceBool accepts the atoms true and false, case-insensitively.
func CoerceBool(ctx context.Context, w *World, ev Event) (Value, error) {
	if ev.IsAtom() {
		switch {
		case strings.EqualFold(ev.Token, "true"):
			return NewBool(true), nil
		case strings.EqualFold(ev.Token, "false"):
			return NewBool(false), nil
		}
	}
	return Value{}, coercionError("bool", ev)
}

// CoerceNumber accepts integer, decimal, exponent, and 0x hex notation at
// scale 0.
func CoerceNumber(ctx context.Context, w *World, ev Event) (Value, error) {
	return coerceScaled(ev, 0, "number")
}

// CoerceAmount accepts the same notations as CoerceNumber at the 18-decimal
// token scale.
func CoerceAmount(ctx context.Context, w *World, ev Event) (Value, error) {
	return coerceScaled(ev, AmountScale, "amount")
}

func coerceScaled(ev Event, scale int, expected string) (Value, error) {
	if ev.IsAtom() {
		if n, ok := ParseNumber(ev.Token, scale); ok {
			return NewNumber(n), nil
		}
	}
	return Value{}, coercionError(expected, ev)
}

// AmountScale is the fixed-point scale of token amounts.
const AmountScale = 18

// CoerceAddress accepts a 0x hex literal, an account alias, or a registered
// contract name, in that order. Hex literals canonicalize to lower case
// padded to forty digits; an unresolvable symbol fails the lookup, not the
// coercion.
func CoerceAddress(ctx context.Context, w *World, ev Event) (Value, error) {
	if !ev.IsAtom() {
		return Value{}, coercionError("address", ev)
	}
	if hex, ok := CanonicalAddress(ev.Token); ok {
		return NewAddress(hex), nil
	}
	if addr, ok := w.Account(ev.Token); ok {
		return NewAddress(addr), nil
	}
	if addr, ok := w.Contract(ev.Token); ok {
		return NewAddress(addr), nil
	}
	return Value{}, lookupError(ev.Token)
}

// CoerceContract resolves a registered contract name to its handle, a map
// with name and address entries.
func CoerceContract(ctx context.Context, w *World, ev Event) (Value, error) {
	if !ev.IsAtom() {
		return Value{}, coercionError("contract", ev)
	}
	name, ok := w.ContractName(ev.Token)
	if !ok {
		return Value{}, lookupError(ev.Token)
	}
	addr, _ := w.Contract(name)
	return NewMap(map[string]Value{
		"name":    NewString(name),
		"address": NewAddress(addr),
	}), nil
}

// CoerceRaw wraps the event unevaluated. It never fails.
func CoerceRaw(ctx context.Context, w *World, ev Event) (Value, error) {
	return NewRaw(ev), nil
}

// EachOf coerces a list event element-wise into a list value.
func EachOf(elem CoerceFunc) CoerceFunc {
	return func(ctx context.Context, w *World, ev Event) (Value, error) {
		if ev.IsAtom() {
			return Value{}, coercionError("list", ev)
		}
		items := make([]Value, len(ev.Items))
		for i, item := range ev.Items {
			v, err := elem(ctx, w, item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return NewList(items...), nil
	}
}

// RecordOf coerces a list of two-item lists into a map value: each pair is
// an atom key followed by an elem-coerced value.
func RecordOf(elem CoerceFunc) CoerceFunc {
	return func(ctx context.Context, w *World, ev Event) (Value, error) {
		if ev.IsAtom() {
			return Value{}, coercionError("record", ev)
		}
		entries := make(map[string]Value, len(ev.Items))
		for _, pair := range ev.Items {
			if pair.IsAtom() || len(pair.Items) != 2 || !pair.Items[0].IsAtom() {
				return Value{}, coercionError("record entry (key value)", pair)
			}
			v, err := elem(ctx, w, pair.Items[1])
			if err != nil {
				return Value{}, err
			}
			entries[pair.Items[0].Token] = v
		}
		return NewMap(entries), nil
	}
}

// CanonicalAddress normalizes a 0x hex literal to lower case left-padded to
// forty digits. It reports false for anything that is not a hex literal of
// at most forty digits.
func CanonicalAddress(token string) (string, bool) {
	if len(token) < 3 || (!strings.HasPrefix(token, "0x") && !strings.HasPrefix(token, "0X")) {
		return "", false
	}
	body := strings.ToLower(token[2:])
	if len(body) > 40 {
		return "", false
	}
	for _, r := range body {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return "", false
		}
	}
	return "0x" + strings.Repeat("0", 40-len(body)) + body, true
}
