// Package chain defines the invocation boundary between the scenario engine
// and the contract network it drives. The engine only ever sees this surface;
// deployment, signing, and transport belong to Backend implementations.
package chain

import (
	"context"
	"fmt"
	"strings"
)

// Contract is a registered handle to a deployed contract.
type Contract struct {
	Name    string
	Address string
}

// MethodCall describes one contract method invocation.
type MethodCall struct {
	Contract Contract
	Method   string
	Args     []any
}

// String renders the call in Name.method(args) form for logs and receipts.
func (c MethodCall) String() string {
	parts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		parts[i] = fmt.Sprintf("%v", arg)
	}
	target := c.Contract.Name
	if target == "" {
		target = c.Contract.Address
	}
	return fmt.Sprintf("%s.%s(%s)", target, c.Method, strings.Join(parts, ", "))
}

// Event is one log record emitted during an invocation.
type Event struct {
	Name string
	Data map[string]string
}

// Receipt reports the outcome of one invocation.
type Receipt struct {
	Success      bool
	ErrorMessage string
	TxHash       string
	GasUsed      uint64
	Events       []Event
	Return       []any
}

// Backend executes contract calls against a network.
//
// Invoke submits a state-changing transaction from the given account and
// waits for its receipt. Call performs a read-only invocation; its receipt
// carries return data and never a transaction hash. Both return an error only
// for transport-level failures; a rejected transaction is a successful
// round-trip with Receipt.Success false.
type Backend interface {
	Invoke(ctx context.Context, call MethodCall, from string) (*Receipt, error)
	Call(ctx context.Context, call MethodCall) (*Receipt, error)
}
