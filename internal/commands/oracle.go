package commands

import (
	"context"
	"fmt"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
	"github.com/ethvoyager95/quickswap-core/internal/script"
)

// OracleCommands is the price-posting subsystem. Every command resolves the
// PriceOracle contract implicitly from the World, so scripts never spell
// out the oracle address.
func OracleCommands(backend chain.Backend) *script.Registry {
	oracleArg := script.Arg{Name: "oracle", Coerce: implicitContract(OracleName), Implicit: true}
	r := script.NewRegistry()

	r.MustRegister(&script.Command{
		Name: "SetPrice",
		Doc:  "Post the price for a symbolically named asset.",
		Args: []script.Arg{
			oracleArg,
			{Name: "asset", Coerce: script.CoerceAddress},
			{Name: "price", Coerce: script.CoerceAmount},
		},
		Run: func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
			oracle := contractArg(args, "oracle")
			asset := args.Address("asset")
			price := args.Number("price")
			call := chain.MethodCall{
				Contract: oracle,
				Method:   "setPrice",
				Args:     []any{asset, price.Mantissa()},
			}
			receipt, err := submit(ctx, backend, call, from)
			if err != nil {
				return nil, err
			}
			desc := fmt.Sprintf("Set price of %s to %s", asset, price.Show())
			return w.LogAction(desc, receipt), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "SetDirectPrice",
		Doc:  "Post the price for an asset given by address.",
		Args: []script.Arg{
			oracleArg,
			{Name: "address", Coerce: script.CoerceAddress},
			{Name: "price", Coerce: script.CoerceAmount},
		},
		Run: func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
			oracle := contractArg(args, "oracle")
			addr := args.Address("address")
			price := args.Number("price")
			call := chain.MethodCall{
				Contract: oracle,
				Method:   "setDirectPrice",
				Args:     []any{addr, price.Mantissa()},
			}
			receipt, err := submit(ctx, backend, call, from)
			if err != nil {
				return nil, err
			}
			desc := fmt.Sprintf("Set direct price of %s to %s", addr, price.Show())
			return w.LogAction(desc, receipt), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "GetPrice",
		Doc:  "Read the posted price of an asset.",
		Args: []script.Arg{
			oracleArg,
			{Name: "asset", Coerce: script.CoerceAddress},
		},
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			price, err := fetchPrice(ctx, backend, contractArg(args, "oracle"), args.Address("asset"))
			if err != nil {
				return script.Value{}, err
			}
			return script.NewNumber(price), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "AssertPrice",
		Doc:  "Fail unless the posted price matches the expectation.",
		Args: []script.Arg{
			oracleArg,
			{Name: "asset", Coerce: script.CoerceAddress},
			{Name: "expected", Coerce: script.CoerceAmount},
		},
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			asset := args.Address("asset")
			price, err := fetchPrice(ctx, backend, contractArg(args, "oracle"), asset)
			if err != nil {
				return script.Value{}, err
			}
			expected := args.Number("expected")
			if price.Cmp(expected) != 0 {
				return script.Value{}, &AssertionError{
					What: fmt.Sprintf("price of %s", asset),
					Got:  price.Show(),
					Want: expected.Show(),
				}
			}
			return script.NewBool(true), nil
		},
	})

	return r
}

func fetchPrice(ctx context.Context, backend chain.Backend, oracle chain.Contract, asset string) (*script.Number, error) {
	call := chain.MethodCall{Contract: oracle, Method: "getPrice", Args: []any{asset}}
	receipt, err := read(ctx, backend, call)
	if err != nil {
		return nil, err
	}
	return returnedNumber(receipt, call, script.AmountScale)
}
