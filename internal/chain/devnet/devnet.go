// Package devnet is a deterministic in-memory chain emulator. It backs
// local scenario runs and tests: contract state lives in process, addresses
// derive from labels, and transaction hashes and gas figures are stable
// across runs so scenario output can be diffed.
package devnet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
)

// baseGas is charged on every transaction, rejected ones included.
const baseGas = 21000

// Devnet implements chain.Backend over in-memory contract state. Safe for
// concurrent use; the scenario engine is sequential but the MCP server can
// share one instance across sessions.
type Devnet struct {
	mu        sync.Mutex
	nonce     uint64
	contracts map[string]contract
}

// contract is one deployed instance. invoke handles transaction methods,
// view handles read-only ones; both report rejection through outcome.err
// rather than a Go error.
type contract interface {
	invoke(method string, args []any, from string) outcome
	view(method string, args []any) outcome
}

type outcome struct {
	err    string
	gas    uint64
	events []chain.Event
	ret    []any
}

func reject(format string, args ...any) outcome {
	return outcome{err: fmt.Sprintf(format, args...)}
}

// New returns a devnet with no contracts deployed.
func New() *Devnet {
	return &Devnet{contracts: make(map[string]contract)}
}

// Address derives the deterministic devnet address for a label. The same
// label always maps to the same address, which keeps genesis fixtures and
// recorded runs stable.
func Address(label string) string {
	sum := sha256.Sum256([]byte("quickswap-devnet:" + label))
	return "0x" + hex.EncodeToString(sum[:20])
}

// DeployPriceOracle deploys a price oracle under the label's derived
// address and returns that address.
func (d *Devnet) DeployPriceOracle(label string) string {
	return d.deploy(label, newPriceOracle())
}

// DeployToken deploys an ERC-20 style token.
func (d *Devnet) DeployToken(label string) string {
	return d.deploy(label, newToken())
}

// DeployGovernor deploys a proposal-lifecycle governor.
func (d *Devnet) DeployGovernor(label string) string {
	return d.deploy(label, newGovernor())
}

func (d *Devnet) deploy(label string, c contract) string {
	addr := Address(label)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.contracts[addr] = c
	return addr
}

// Invoke submits a transaction. Rejections come back as receipts with
// Success false; only context cancellation is a Go error.
func (d *Devnet) Invoke(ctx context.Context, call chain.MethodCall, from string) (*chain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nonce++
	hash := txHash(d.nonce, from, call)
	c, ok := d.contracts[call.Contract.Address]
	if !ok {
		return rejected(hash, fmt.Sprintf("no contract deployed at %s", call.Contract.Address)), nil
	}
	out := c.invoke(call.Method, call.Args, from)
	if out.err != "" {
		return rejected(hash, out.err), nil
	}
	return &chain.Receipt{
		Success: true,
		TxHash:  hash,
		GasUsed: baseGas + out.gas,
		Events:  out.events,
		Return:  out.ret,
	}, nil
}

// Call performs a read-only invocation: no nonce, no hash, no gas charged.
func (d *Devnet) Call(ctx context.Context, call chain.MethodCall) (*chain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.contracts[call.Contract.Address]
	if !ok {
		return &chain.Receipt{ErrorMessage: fmt.Sprintf("no contract deployed at %s", call.Contract.Address)}, nil
	}
	out := c.view(call.Method, call.Args)
	if out.err != "" {
		return &chain.Receipt{ErrorMessage: out.err}, nil
	}
	return &chain.Receipt{Success: true, Return: out.ret}, nil
}

func rejected(hash, msg string) *chain.Receipt {
	return &chain.Receipt{
		ErrorMessage: msg,
		TxHash:       hash,
		GasUsed:      baseGas,
	}
}

func txHash(nonce uint64, from string, call chain.MethodCall) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d:%s:%s", nonce, from, call.String()))
	return "0x" + hex.EncodeToString(sum[:])
}

// Argument decoding for the engine's encoded values: addresses arrive as
// hex strings, numbers as fixed-point mantissas.

func argAddress(args []any, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

func argAmount(args []any, i int) (*big.Int, bool) {
	if i >= len(args) {
		return nil, false
	}
	n, ok := args[i].(*big.Int)
	if !ok || n.Sign() < 0 {
		return nil, false
	}
	return n, true
}
