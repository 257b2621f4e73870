package script

import "context"

// Dispatch routes a command event through the table: the head atom selects
// the command case-insensitively, the remaining sub-events bind against its
// declared args, then the handler runs. A mutating command returns the next
// World and must have appended exactly one action log entry; a view command
// returns a value and leaves the World untouched. Bind and coercion
// failures surface before any handler runs, so a failed line never changes
// the World.
func (r *Registry) Dispatch(ctx context.Context, w *World, from string, ev Event) (*World, Value, error) {
	name, input, err := splitCommand(ev)
	if err != nil {
		return w, Value{}, err
	}
	cmd, ok := r.Lookup(name)
	if !ok {
		unknownErr := newError(CodeUnknownCommand, "no such command")
		unknownErr.Command = name
		return w, Value{}, unknownErr
	}
	bound, err := Bind(ctx, w, cmd.Args, input)
	if err != nil {
		return w, Value{}, withCommand(err, cmd.Name)
	}
	if cmd.View != nil {
		out, err := cmd.View(ctx, w, from, bound)
		if err != nil {
			return w, Value{}, withCommand(err, cmd.Name)
		}
		return w, out, nil
	}
	next, err := cmd.Run(ctx, w, from, bound)
	if err != nil {
		return w, Value{}, withCommand(err, cmd.Name)
	}
	if logged := next.ActionCount() - w.ActionCount(); logged != 1 {
		err := newError(CodeUnknown, "appended %d action log entries, want exactly 1", logged)
		err.Command = cmd.Name
		return w, Value{}, err
	}
	return next, Value{}, nil
}

// splitCommand separates a command event into its head name and the
// sub-events that bind as arguments.
func splitCommand(ev Event) (string, []Event, error) {
	if ev.IsAtom() {
		return ev.Token, nil, nil
	}
	if len(ev.Items) == 0 {
		return "", nil, newError(CodeMalformedScript, "empty command")
	}
	head := ev.Items[0]
	if !head.IsAtom() {
		return "", nil, newError(CodeMalformedScript, "command name must be a single token, got %s", head.String())
	}
	return head.Token, ev.Items[1:], nil
}
