// Package commands declares the built-in subsystem catalogs: World for
// registry bookkeeping, Oracle for price posting, Erc20 for token movement,
// and Gov for the proposal lifecycle. Each catalog is a thin declaration
// table over the script engine; all chain effects go through the injected
// backend.
package commands

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
	"github.com/ethvoyager95/quickswap-core/internal/script"
)

// Contract names the catalogs resolve implicitly from the World.
const (
	OracleName   = "PriceOracle"
	GovernorName = "Governor"
)

// NewProcessor mounts every built-in subsystem against one backend.
func NewProcessor(backend chain.Backend) *script.Processor {
	p := script.NewProcessor()
	p.MustMount("World", WorldCommands(p))
	p.MustMount("Oracle", OracleCommands(backend))
	p.MustMount("Erc20", Erc20Commands(backend))
	p.MustMount("Gov", GovCommands(backend))
	return p
}

// AssertionError reports an assert command whose observed chain state did
// not match the script's expectation. The runner decides whether it aborts
// the scenario or only logs.
type AssertionError struct {
	What string
	Got  string
	Want string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s = %s, want %s", e.What, e.Got, e.Want)
}

// implicitContract resolves a well-known contract name from the World
// without consuming script input.
func implicitContract(name string) script.CoerceFunc {
	return func(ctx context.Context, w *script.World, _ script.Event) (script.Value, error) {
		return script.CoerceContract(ctx, w, script.Atom(name))
	}
}

// contractArg rebuilds the typed handle from a bound contract value.
func contractArg(args script.Args, name string) chain.Contract {
	entries := args.Map(name)
	return chain.Contract{
		Name:    entries["name"].Text(),
		Address: entries["address"].Address(),
	}
}

// submit sends a transaction and normalizes both transport errors and
// rejected receipts into invocation failures.
func submit(ctx context.Context, b chain.Backend, call chain.MethodCall, from string) (*chain.Receipt, error) {
	receipt, err := b.Invoke(ctx, call, from)
	if err != nil {
		return nil, script.InvocationFailure(err, "invoke %s", call)
	}
	if !receipt.Success {
		return nil, script.InvocationFailure(nil, "%s rejected: %s", call, receipt.ErrorMessage)
	}
	return receipt, nil
}

// read performs a read-only call with the same normalization as submit.
func read(ctx context.Context, b chain.Backend, call chain.MethodCall) (*chain.Receipt, error) {
	receipt, err := b.Call(ctx, call)
	if err != nil {
		return nil, script.InvocationFailure(err, "call %s", call)
	}
	if !receipt.Success {
		return nil, script.InvocationFailure(nil, "%s rejected: %s", call, receipt.ErrorMessage)
	}
	return receipt, nil
}

// returnedNumber decodes the first return slot as a fixed-point mantissa.
func returnedNumber(receipt *chain.Receipt, call chain.MethodCall, scale int) (*script.Number, error) {
	if len(receipt.Return) == 0 {
		return nil, script.InvocationFailure(nil, "%s returned no data", call)
	}
	m, ok := receipt.Return[0].(*big.Int)
	if !ok {
		return nil, script.InvocationFailure(nil, "%s returned %T, want *big.Int", call, receipt.Return[0])
	}
	return script.NumberFromMantissa(m, scale), nil
}

// returnedText decodes the first return slot as a string.
func returnedText(receipt *chain.Receipt, call chain.MethodCall) (string, error) {
	if len(receipt.Return) == 0 {
		return "", script.InvocationFailure(nil, "%s returned no data", call)
	}
	s, ok := receipt.Return[0].(string)
	if !ok {
		return "", script.InvocationFailure(nil, "%s returned %T, want string", call, receipt.Return[0])
	}
	return s, nil
}
