package commands

import (
	"context"
	"fmt"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
	"github.com/ethvoyager95/quickswap-core/internal/script"
)

// Erc20Commands is the token-movement subsystem. The token is always the
// first positional arg, named by its registered contract; amounts are
// 18-decimal fixed point.
func Erc20Commands(backend chain.Backend) *script.Registry {
	r := script.NewRegistry()

	r.MustRegister(&script.Command{
		Name: "Mint",
		Doc:  "Mint tokens to a recipient.",
		Args: []script.Arg{
			{Name: "token", Coerce: script.CoerceContract},
			{Name: "recipient", Coerce: script.CoerceAddress},
			{Name: "amount", Coerce: script.CoerceAmount},
		},
		Run: func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
			token := contractArg(args, "token")
			recipient := args.Address("recipient")
			amount := args.Number("amount")
			call := chain.MethodCall{
				Contract: token,
				Method:   "mint",
				Args:     []any{recipient, amount.Mantissa()},
			}
			receipt, err := submit(ctx, backend, call, from)
			if err != nil {
				return nil, err
			}
			desc := fmt.Sprintf("Minted %s %s to %s", amount.Show(), token.Name, recipient)
			return w.LogAction(desc, receipt), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "Transfer",
		Doc:  "Transfer tokens from the acting account.",
		Args: []script.Arg{
			{Name: "token", Coerce: script.CoerceContract},
			{Name: "recipient", Coerce: script.CoerceAddress},
			{Name: "amount", Coerce: script.CoerceAmount},
		},
		Run: func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
			token := contractArg(args, "token")
			recipient := args.Address("recipient")
			amount := args.Number("amount")
			call := chain.MethodCall{
				Contract: token,
				Method:   "transfer",
				Args:     []any{recipient, amount.Mantissa()},
			}
			receipt, err := submit(ctx, backend, call, from)
			if err != nil {
				return nil, err
			}
			desc := fmt.Sprintf("Transferred %s %s from %s to %s", amount.Show(), token.Name, from, recipient)
			return w.LogAction(desc, receipt), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "TransferFrom",
		Doc:  "Transfer tokens from an owner using the acting account's allowance.",
		Args: []script.Arg{
			{Name: "token", Coerce: script.CoerceContract},
			{Name: "owner", Coerce: script.CoerceAddress},
			{Name: "recipient", Coerce: script.CoerceAddress},
			{Name: "amount", Coerce: script.CoerceAmount},
		},
		Run: func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
			token := contractArg(args, "token")
			owner := args.Address("owner")
			recipient := args.Address("recipient")
			amount := args.Number("amount")
			call := chain.MethodCall{
				Contract: token,
				Method:   "transferFrom",
				Args:     []any{owner, recipient, amount.Mantissa()},
			}
			receipt, err := submit(ctx, backend, call, from)
			if err != nil {
				return nil, err
			}
			desc := fmt.Sprintf("Transferred %s %s from %s to %s", amount.Show(), token.Name, owner, recipient)
			return w.LogAction(desc, receipt), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "Approve",
		Doc:  "Approve a spender for the acting account's tokens.",
		Args: []script.Arg{
			{Name: "token", Coerce: script.CoerceContract},
			{Name: "spender", Coerce: script.CoerceAddress},
			{Name: "amount", Coerce: script.CoerceAmount},
		},
		Run: func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
			token := contractArg(args, "token")
			spender := args.Address("spender")
			amount := args.Number("amount")
			call := chain.MethodCall{
				Contract: token,
				Method:   "approve",
				Args:     []any{spender, amount.Mantissa()},
			}
			receipt, err := submit(ctx, backend, call, from)
			if err != nil {
				return nil, err
			}
			desc := fmt.Sprintf("Approved %s for %s %s", spender, amount.Show(), token.Name)
			return w.LogAction(desc, receipt), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "BalanceOf",
		Doc:  "Read a holder's token balance.",
		Args: []script.Arg{
			{Name: "token", Coerce: script.CoerceContract},
			{Name: "holder", Coerce: script.CoerceAddress},
		},
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			balance, err := fetchBalance(ctx, backend, contractArg(args, "token"), args.Address("holder"))
			if err != nil {
				return script.Value{}, err
			}
			return script.NewNumber(balance), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "Allowance",
		Doc:  "Read the allowance a spender holds on an owner's tokens.",
		Args: []script.Arg{
			{Name: "token", Coerce: script.CoerceContract},
			{Name: "owner", Coerce: script.CoerceAddress},
			{Name: "spender", Coerce: script.CoerceAddress},
		},
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			token := contractArg(args, "token")
			call := chain.MethodCall{
				Contract: token,
				Method:   "allowance",
				Args:     []any{args.Address("owner"), args.Address("spender")},
			}
			receipt, err := read(ctx, backend, call)
			if err != nil {
				return script.Value{}, err
			}
			allowance, err := returnedNumber(receipt, call, script.AmountScale)
			if err != nil {
				return script.Value{}, err
			}
			return script.NewNumber(allowance), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "AssertBalance",
		Doc:  "Fail unless a holder's balance matches the expectation.",
		Args: []script.Arg{
			{Name: "token", Coerce: script.CoerceContract},
			{Name: "holder", Coerce: script.CoerceAddress},
			{Name: "expected", Coerce: script.CoerceAmount},
		},
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			token := contractArg(args, "token")
			holder := args.Address("holder")
			balance, err := fetchBalance(ctx, backend, token, holder)
			if err != nil {
				return script.Value{}, err
			}
			expected := args.Number("expected")
			if balance.Cmp(expected) != 0 {
				return script.Value{}, &AssertionError{
					What: fmt.Sprintf("%s balance of %s", token.Name, holder),
					Got:  balance.Show(),
					Want: expected.Show(),
				}
			}
			return script.NewBool(true), nil
		},
	})

	return r
}

func fetchBalance(ctx context.Context, backend chain.Backend, token chain.Contract, holder string) (*script.Number, error) {
	call := chain.MethodCall{Contract: token, Method: "balanceOf", Args: []any{holder}}
	receipt, err := read(ctx, backend, call)
	if err != nil {
		return nil, err
	}
	return returnedNumber(receipt, call, script.AmountScale)
}
