package script

import (
	"sort"
	"strings"
)

// Printer is the line-oriented output sink a World writes through. Commands
// that produce human-facing output go through the printer, never stdout.
type Printer interface {
	Printf(format string, args ...any)
}

// Action is one entry in the World's append-only action log: a description
// of an effect performed against the chain and the receipt it produced.
type Action struct {
	Description string
	Receipt     any
}

// World is the context threaded through every command: the target network,
// the account and contract registries, and the action log. A World is
// immutable; updates return a derived copy so a failed step leaves the
// caller's World untouched.
type World struct {
	network   string
	accounts  map[string]string
	contracts map[string]string
	actions   []Action
	printer   Printer
}

// NewWorld returns an empty World for the named network.
func NewWorld(network string, printer Printer) *World {
	return &World{network: network, printer: printer}
}

// Network returns the target network name.
func (w *World) Network() string { return w.network }

// IsLocalNetwork reports whether the network is a throwaway local one where
// destructive commands are allowed.
func (w *World) IsLocalNetwork() bool {
	switch w.network {
	case "development", "test":
		return true
	}
	return false
}

// Account resolves an account alias to its address. Aliases match
// case-insensitively, the way command names do.
func (w *World) Account(alias string) (string, bool) {
	for name, addr := range w.accounts {
		if strings.EqualFold(name, alias) {
			return addr, true
		}
	}
	return "", false
}

// Contract resolves a registered contract name to its address,
// case-insensitively.
func (w *World) Contract(name string) (string, bool) {
	for n, addr := range w.contracts {
		if strings.EqualFold(n, name) {
			return addr, true
		}
	}
	return "", false
}

// ContractName returns the registered display name for a contract,
// case-insensitively.
func (w *World) ContractName(name string) (string, bool) {
	for n := range w.contracts {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

// AccountNames returns the registered aliases, sorted.
func (w *World) AccountNames() []string {
	return sortedKeys(w.accounts)
}

// ContractNames returns the registered contract names, sorted.
func (w *World) ContractNames() []string {
	return sortedKeys(w.contracts)
}

// WithAccount returns a copy with the alias bound to the address.
func (w *World) WithAccount(alias, address string) *World {
	next := w.clone()
	next.accounts[alias] = address
	return next
}

// WithContract returns a copy with the contract name bound to the address.
func (w *World) WithContract(name, address string) *World {
	next := w.clone()
	next.contracts[name] = address
	return next
}

// LogAction returns a copy with one entry appended to the action log.
func (w *World) LogAction(description string, receipt any) *World {
	next := w.clone()
	next.actions = append(next.actions, Action{Description: description, Receipt: receipt})
	return next
}

// Actions returns a copy of the action log in submission order.
func (w *World) Actions() []Action {
	out := make([]Action, len(w.actions))
	copy(out, w.actions)
	return out
}

// ActionCount returns how many entries the action log holds.
func (w *World) ActionCount() int { return len(w.actions) }

// Printf writes a line of human-facing output. A World without a printer
// drops the output.
func (w *World) Printf(format string, args ...any) {
	if w.printer == nil {
		return
	}
	w.printer.Printf(format, args...)
}

func (w *World) clone() *World {
	next := &World{
		network:   w.network,
		accounts:  make(map[string]string, len(w.accounts)+1),
		contracts: make(map[string]string, len(w.contracts)+1),
		actions:   make([]Action, len(w.actions), len(w.actions)+1),
		printer:   w.printer,
	}
	for k, v := range w.accounts {
		next.accounts[k] = v
	}
	for k, v := range w.contracts {
		next.contracts[k] = v
	}
	copy(next.actions, w.actions)
	return next
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
