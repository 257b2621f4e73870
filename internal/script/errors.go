package script

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code for script failures.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// Parse-time errors
	CodeMalformedScript Code = "MALFORMED_SCRIPT"

	// Dispatch-time errors
	CodeUnknownSubsystem Code = "UNKNOWN_SUBSYSTEM"
	CodeUnknownCommand   Code = "UNKNOWN_COMMAND"

	// Bind-time errors
	CodeMissingArgument Code = "MISSING_ARGUMENT"
	CodeExtraArguments  Code = "EXTRA_ARGUMENTS"
	CodeCoercionError   Code = "COERCION_ERROR"
	CodeLookupError     Code = "LOOKUP_ERROR"

	// Execute-time errors
	CodeInvocationFailure Code = "INVOCATION_FAILURE"
)

// Error is the script error type with structured context. Every failure
// surfaced by the engine carries enough fields to render one actionable
// line: which subsystem and command were involved, which argument, what
// was expected and what the script actually said.
type Error struct {
	Code      Code
	Subsystem string
	Command   string
	Arg       string
	Expected  string // expected type or shape, for coercion failures
	Received  string // offending token or event text
	Pos       int    // rune position for parse errors, -1 otherwise
	Message   string
	Cause     error
}

// Error renders the failure as a single descriptive line.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if scope := e.scope(); scope != "" {
		b.WriteString(" ")
		b.WriteString(scope)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Code == CodeMalformedScript && e.Pos >= 0 {
		fmt.Fprintf(&b, " (position %d)", e.Pos)
	}
	return b.String()
}

func (e *Error) scope() string {
	parts := make([]string, 0, 3)
	if e.Subsystem != "" {
		parts = append(parts, e.Subsystem)
	}
	if e.Command != "" {
		parts = append(parts, e.Command)
	}
	scope := strings.Join(parts, ".")
	if e.Arg != "" {
		if scope != "" {
			scope += " "
		}
		scope += "arg " + e.Arg
	}
	return scope
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// CodeOf extracts the script error code from err, or CodeUnknown when err
// carries none.
func CodeOf(err error) Code {
	var scriptErr *Error
	if errors.As(err, &scriptErr) {
		return scriptErr.Code
	}
	return CodeUnknown
}

// newError creates a script error with a formatted message.
func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Pos: -1, Message: fmt.Sprintf(format, args...)}
}

// malformedf creates a parse error pointing at a rune position.
func malformedf(pos int, format string, args ...any) *Error {
	return &Error{Code: CodeMalformedScript, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// coercionError creates a bind-time type mismatch error.
func coercionError(expected string, received Event) *Error {
	return &Error{
		Code:     CodeCoercionError,
		Expected: expected,
		Received: received.String(),
		Pos:      -1,
		Message:  fmt.Sprintf("expected %s, received %s", expected, received.String()),
	}
}

// InvocationFailure wraps an external call that failed or a receipt that
// reported rejection. Command handlers use it so execute-time failures
// surface under one code.
func InvocationFailure(cause error, format string, args ...any) *Error {
	return &Error{
		Code:    CodeInvocationFailure,
		Pos:     -1,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// lookupError creates a bind-time unresolved reference error.
func lookupError(name string) *Error {
	return &Error{
		Code:     CodeLookupError,
		Received: name,
		Pos:      -1,
		Message:  fmt.Sprintf("cannot resolve %q", name),
	}
}

// withArg annotates err with the argument name when err is a script error
// that does not yet carry one.
func withArg(err error, name string) error {
	var scriptErr *Error
	if errors.As(err, &scriptErr) && scriptErr.Arg == "" {
		scriptErr.Arg = name
	}
	return err
}

// withCommand annotates err with the command name on the way out of dispatch.
func withCommand(err error, name string) error {
	var scriptErr *Error
	if errors.As(err, &scriptErr) && scriptErr.Command == "" {
		scriptErr.Command = name
	}
	return err
}

// withSubsystem annotates err with the subsystem name on the way out of the
// processor.
func withSubsystem(err error, name string) error {
	var scriptErr *Error
	if errors.As(err, &scriptErr) && scriptErr.Subsystem == "" {
		scriptErr.Subsystem = name
	}
	return err
}
