package devnet

import (
	"math/big"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
)

const (
	gasMint         = 34200
	gasTransfer     = 30300
	gasTransferFrom = 38900
	gasApprove      = 24600
)

// zeroAddress is the conventional mint source in Transfer events.
const zeroAddress = "0x0000000000000000000000000000000000000000"

// token is an ERC-20 style balance ledger with allowances and an open mint,
// the faucet behavior test tokens have on throwaway networks.
type token struct {
	supply     *big.Int
	balances   map[string]*big.Int
	allowances map[string]map[string]*big.Int
}

func newToken() *token {
	return &token{
		supply:     big.NewInt(0),
		balances:   make(map[string]*big.Int),
		allowances: make(map[string]map[string]*big.Int),
	}
}

func (t *token) invoke(method string, args []any, from string) outcome {
	switch method {
	case "mint":
		to, ok := argAddress(args, 0)
		if !ok {
			return reject("mint: bad recipient argument")
		}
		amount, ok := argAmount(args, 1)
		if !ok {
			return reject("mint: bad amount argument")
		}
		t.credit(to, amount)
		t.supply.Add(t.supply, amount)
		return outcome{gas: gasMint, events: []chain.Event{transferEvent(zeroAddress, to, amount)}}

	case "transfer":
		to, ok := argAddress(args, 0)
		if !ok {
			return reject("transfer: bad recipient argument")
		}
		amount, ok := argAmount(args, 1)
		if !ok {
			return reject("transfer: bad amount argument")
		}
		if t.balance(from).Cmp(amount) < 0 {
			return reject("transfer: insufficient balance")
		}
		t.debit(from, amount)
		t.credit(to, amount)
		return outcome{gas: gasTransfer, events: []chain.Event{transferEvent(from, to, amount)}}

	case "transferFrom":
		owner, ok := argAddress(args, 0)
		if !ok {
			return reject("transferFrom: bad owner argument")
		}
		to, ok := argAddress(args, 1)
		if !ok {
			return reject("transferFrom: bad recipient argument")
		}
		amount, ok := argAmount(args, 2)
		if !ok {
			return reject("transferFrom: bad amount argument")
		}
		if t.allowance(owner, from).Cmp(amount) < 0 {
			return reject("transferFrom: insufficient allowance")
		}
		if t.balance(owner).Cmp(amount) < 0 {
			return reject("transferFrom: insufficient balance")
		}
		t.allowances[owner][from].Sub(t.allowances[owner][from], amount)
		t.debit(owner, amount)
		t.credit(to, amount)
		return outcome{gas: gasTransferFrom, events: []chain.Event{transferEvent(owner, to, amount)}}

	case "approve":
		spender, ok := argAddress(args, 0)
		if !ok {
			return reject("approve: bad spender argument")
		}
		amount, ok := argAmount(args, 1)
		if !ok {
			return reject("approve: bad amount argument")
		}
		if t.allowances[from] == nil {
			t.allowances[from] = make(map[string]*big.Int)
		}
		t.allowances[from][spender] = new(big.Int).Set(amount)
		return outcome{gas: gasApprove, events: []chain.Event{{
			Name: "Approval",
			Data: map[string]string{"owner": from, "spender": spender, "amount": amount.String()},
		}}}

	case "balanceOf", "allowance", "totalSupply":
		return reject("%s is read-only, use a call", method)
	}
	return reject("unknown method %s", method)
}

func (t *token) view(method string, args []any) outcome {
	switch method {
	case "balanceOf":
		holder, ok := argAddress(args, 0)
		if !ok {
			return reject("balanceOf: bad holder argument")
		}
		return outcome{ret: []any{t.balance(holder)}}
	case "allowance":
		owner, ok := argAddress(args, 0)
		if !ok {
			return reject("allowance: bad owner argument")
		}
		spender, ok := argAddress(args, 1)
		if !ok {
			return reject("allowance: bad spender argument")
		}
		return outcome{ret: []any{t.allowance(owner, spender)}}
	case "totalSupply":
		return outcome{ret: []any{new(big.Int).Set(t.supply)}}
	case "mint", "transfer", "transferFrom", "approve":
		return reject("%s requires a transaction", method)
	}
	return reject("unknown method %s", method)
}

func (t *token) balance(holder string) *big.Int {
	if b, ok := t.balances[holder]; ok {
		return new(big.Int).Set(b)
	}
	return big.NewInt(0)
}

func (t *token) allowance(owner, spender string) *big.Int {
	if a, ok := t.allowances[owner][spender]; ok {
		return new(big.Int).Set(a)
	}
	return big.NewInt(0)
}

func (t *token) credit(holder string, amount *big.Int) {
	if t.balances[holder] == nil {
		t.balances[holder] = big.NewInt(0)
	}
	t.balances[holder].Add(t.balances[holder], amount)
}

func (t *token) debit(holder string, amount *big.Int) {
	t.balances[holder].Sub(t.balances[holder], amount)
}

func transferEvent(from, to string, amount *big.Int) chain.Event {
	return chain.Event{
		Name: "Transfer",
		Data: map[string]string{"from": from, "to": to, "amount": amount.String()},
	}
}
