// Package mcp parses MCP command flags and serves the scenario engine over
// stdio.
package mcp

import (
	"context"
	"flag"

	mcpserver "github.com/ethvoyager95/quickswap-core/internal/mcp"
	entrypoint "github.com/ethvoyager95/quickswap-core/internal/platform/cmd"
)

// Config holds MCP command configuration.
type Config struct {
	Network string `env:"QUICKSWAP_NETWORK" envDefault:"development"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Network, "network", cfg.Network, "target network (must be local)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter on stdio.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpserver.Run(ctx, mcpserver.Config{Network: cfg.Network})
	})
}
