// Package chainfakes provides an in-memory chain.Backend fake for tests:
// it records every invocation and serves canned receipts per method name.
package chainfakes

import (
	"context"
	"fmt"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
)

// RecordedCall is one backend round-trip as the engine issued it.
type RecordedCall struct {
	Call chain.MethodCall
	From string
}

// Backend is a scripted chain.Backend fake. Receipts maps method names to
// canned receipts; methods without an entry get a plain success. InvokeErr
// and CallErr simulate transport failures.
type Backend struct {
	Invokes []RecordedCall
	Calls   []RecordedCall

	Receipts  map[string]*chain.Receipt
	InvokeErr error
	CallErr   error
}

// NewBackend constructs a Backend fake with initialized state maps.
func NewBackend() *Backend {
	return &Backend{Receipts: make(map[string]*chain.Receipt)}
}

func (b *Backend) Invoke(_ context.Context, call chain.MethodCall, from string) (*chain.Receipt, error) {
	b.Invokes = append(b.Invokes, RecordedCall{Call: call, From: from})
	if b.InvokeErr != nil {
		return nil, b.InvokeErr
	}
	if r, ok := b.Receipts[call.Method]; ok {
		return r, nil
	}
	return &chain.Receipt{
		Success: true,
		TxHash:  fmt.Sprintf("0x%064x", len(b.Invokes)),
		GasUsed: 21000,
	}, nil
}

func (b *Backend) Call(_ context.Context, call chain.MethodCall) (*chain.Receipt, error) {
	b.Calls = append(b.Calls, RecordedCall{Call: call})
	if b.CallErr != nil {
		return nil, b.CallErr
	}
	if r, ok := b.Receipts[call.Method]; ok {
		return r, nil
	}
	return &chain.Receipt{Success: true}, nil
}

// LastInvoke returns the most recent transaction, if any.
func (b *Backend) LastInvoke() (RecordedCall, bool) {
	if len(b.Invokes) == 0 {
		return RecordedCall{}, false
	}
	return b.Invokes[len(b.Invokes)-1], true
}
