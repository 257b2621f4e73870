// Package timeouts defines shared timeout constants used across commands.
// Centralizing these values prevents drift between command boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// ScriptLine caps one scenario line round-trip against the backend,
// including coercion-time lookups.
const ScriptLine = 30 * time.Second

// Shutdown limits how long telemetry flush waits during command exit.
const Shutdown = 5 * time.Second
