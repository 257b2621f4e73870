package commands

import (
	"github.com/ethvoyager95/quickswap-core/internal/chain/devnet"
	"github.com/ethvoyager95/quickswap-core/internal/script"
)

// Genesis account aliases registered on every local World.
var GenesisAccounts = []string{"Root", "Admin", "Alice", "Bob"}

// Genesis tokens deployed alongside the oracle and governor.
var GenesisTokens = []string{"ZRX", "BAT"}

// Genesis boots a fresh devnet with the built-in contracts deployed and
// returns the mounted Processor and the bootstrap World. The Root account
// is the default acting identity.
func Genesis(network string, printer script.Printer) (*script.Processor, *script.World, *devnet.Devnet) {
	d := devnet.New()
	w := script.NewWorld(network, printer)
	for _, name := range GenesisAccounts {
		w = w.WithAccount(name, devnet.Address(name))
	}
	w = w.WithContract(OracleName, d.DeployPriceOracle(OracleName)).
		WithContract(GovernorName, d.DeployGovernor(GovernorName))
	for _, symbol := range GenesisTokens {
		w = w.WithContract(symbol, d.DeployToken(symbol))
	}
	return NewProcessor(d), w, d
}
