package script

import "context"

// Bind matches a command's declared args against the sub-events that
// followed its head token. Binding is deterministic and left-to-right:
// implicit args resolve from the World without consuming input, a trailing
// variadic arg absorbs the whole remainder as one list, every other arg
// consumes exactly one sub-event. Exhausted input falls back to the arg's
// default, then to an error unless the arg is nullable. Leftover input
// after the last arg is an error; scripts never silently drop tokens.
func Bind(ctx context.Context, w *World, decls []Arg, input []Event) (Args, error) {
	bound := make(Args, len(decls))
	pos := 0
	for _, decl := range decls {
		switch {
		case decl.Implicit:
			v, err := decl.Coerce(ctx, w, Event{})
			if err != nil {
				return nil, withArg(err, decl.Name)
			}
			bound[decl.Name] = v
		case decl.Variadic:
			rest := List(input[pos:]...)
			pos = len(input)
			v, err := decl.Coerce(ctx, w, rest)
			if err != nil {
				return nil, withArg(err, decl.Name)
			}
			bound[decl.Name] = v
		default:
			if pos >= len(input) {
				if decl.Default != nil {
					bound[decl.Name] = *decl.Default
					continue
				}
				if decl.Nullable {
					continue
				}
				err := newError(CodeMissingArgument, "no value supplied")
				err.Arg = decl.Name
				return nil, err
			}
			v, err := decl.Coerce(ctx, w, input[pos])
			if err != nil {
				return nil, withArg(err, decl.Name)
			}
			bound[decl.Name] = v
			pos++
		}
	}
	if pos < len(input) {
		rest := List(input[pos:]...)
		err := newError(CodeExtraArguments, "%d trailing token(s) not bound: %s", len(input)-pos, rest.render())
		err.Received = rest.render()
		return nil, err
	}
	return bound, nil
}
