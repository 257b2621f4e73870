package devnet

import (
	"math/big"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
)

const gasSetPrice = 28500

// priceOracle stores one fixed-point price per asset address. Unset assets
// read as zero, matching on-chain oracle semantics.
type priceOracle struct {
	prices map[string]*big.Int
}

func newPriceOracle() *priceOracle {
	return &priceOracle{prices: make(map[string]*big.Int)}
}

func (o *priceOracle) invoke(method string, args []any, from string) outcome {
	switch method {
	case "setPrice", "setDirectPrice":
		asset, ok := argAddress(args, 0)
		if !ok {
			return reject("%s: bad asset argument", method)
		}
		price, ok := argAmount(args, 1)
		if !ok {
			return reject("%s: bad price argument", method)
		}
		previous := o.price(asset)
		o.prices[asset] = new(big.Int).Set(price)
		return outcome{
			gas: gasSetPrice,
			events: []chain.Event{{
				Name: "PricePosted",
				Data: map[string]string{
					"asset":         asset,
					"previousPrice": previous.String(),
					"newPrice":      price.String(),
				},
			}},
		}
	case "getPrice", "assetPrices":
		return reject("%s is read-only, use a call", method)
	}
	return reject("unknown method %s", method)
}

func (o *priceOracle) view(method string, args []any) outcome {
	switch method {
	case "getPrice", "assetPrices":
		asset, ok := argAddress(args, 0)
		if !ok {
			return reject("%s: bad asset argument", method)
		}
		return outcome{ret: []any{o.price(asset)}}
	case "setPrice", "setDirectPrice":
		return reject("%s requires a transaction", method)
	}
	return reject("unknown method %s", method)
}

func (o *priceOracle) price(asset string) *big.Int {
	if p, ok := o.prices[asset]; ok {
		return new(big.Int).Set(p)
	}
	return big.NewInt(0)
}
