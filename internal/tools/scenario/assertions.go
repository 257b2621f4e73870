package scenario

import (
	"fmt"
	"log"
)

// AssertionMode selects how assert-command failures are handled.
type AssertionMode string

const (
	// AssertionStrict aborts the run on the first assertion failure.
	AssertionStrict AssertionMode = "strict"
	// AssertionLogOnly logs assertion failures and keeps running.
	AssertionLogOnly AssertionMode = "log-only"
)

// ParseAssertionMode maps a CLI flag value to an AssertionMode.
func ParseAssertionMode(value string) (AssertionMode, error) {
	switch AssertionMode(value) {
	case AssertionStrict, AssertionLogOnly:
		return AssertionMode(value), nil
	case "":
		return AssertionStrict, nil
	}
	return "", fmt.Errorf("unknown assertion mode %q (want %q or %q)", value, AssertionStrict, AssertionLogOnly)
}

// Assertions applies the configured mode to assertion failures.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger

	failures int
}

// Failf handles one assertion failure. In strict mode it returns the
// failure as an error; in log-only mode it logs and returns nil.
func (a *Assertions) Failf(format string, args ...any) error {
	a.failures++
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Printf("assertion failed (continuing): "+format, args...)
		}
		return nil
	}
	return fmt.Errorf(format, args...)
}

// Failures reports how many assertion failures were handled.
func (a *Assertions) Failures() int {
	return a.failures
}
