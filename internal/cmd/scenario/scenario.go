// Package scenario parses scenario command flags and runs script files or
// a stdin REPL against a local devnet World.
package scenario

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	entrypoint "github.com/ethvoyager95/quickswap-core/internal/platform/cmd"
	"github.com/ethvoyager95/quickswap-core/internal/script"
	"github.com/ethvoyager95/quickswap-core/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Network    string        `env:"QUICKSWAP_NETWORK"          envDefault:"development"`
	Scenario   string        `env:"QUICKSWAP_SCENARIO_FILE"`
	DBPath     string        `env:"QUICKSWAP_SCENARIO_DB"`
	Assertions string        `env:"QUICKSWAP_SCENARIO_ASSERT"  envDefault:"strict"`
	Verbose    bool          `env:"QUICKSWAP_SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"QUICKSWAP_SCENARIO_TIMEOUT" envDefault:"30s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Network, "network", cfg.Network, "target network (must be local)")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to a scenario file (.lua or line script); omit for a REPL")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to a sqlite run report database")
	fs.StringVar(&cfg.Assertions, "assert", cfg.Assertions, "assertion mode: strict or log-only")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose step logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per script line")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command, reading REPL input from stdin when no
// scenario file is configured.
func Run(ctx context.Context, cfg Config, out, errOut io.Writer) error {
	return RunWithInput(ctx, cfg, os.Stdin, out, errOut)
}

// RunWithInput is Run with an explicit REPL input source.
func RunWithInput(ctx context.Context, cfg Config, in io.Reader, out, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	mode, err := scenario.ParseAssertionMode(cfg.Assertions)
	if err != nil {
		return err
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenario, func(ctx context.Context) error {
		runner, err := scenario.NewRunner(ctx, scenario.Config{
			Network:    cfg.Network,
			DBPath:     cfg.DBPath,
			Timeout:    cfg.Timeout,
			Assertions: mode,
			Verbose:    cfg.Verbose,
			Logger:     log.New(errOut, "", 0),
		})
		if err != nil {
			return err
		}
		defer runner.Close()

		var runErr error
		if cfg.Scenario != "" {
			runErr = runner.RunPath(ctx, cfg.Scenario)
		} else {
			runErr = runner.RunReader(ctx, in)
		}
		printActionLog(runner.World(), out)
		return runErr
	})
}

// printActionLog writes the run's durable outcome: every action the World
// performed, in order, whether or not the run finished cleanly.
func printActionLog(w *script.World, out io.Writer) {
	actions := w.Actions()
	if len(actions) == 0 {
		return
	}
	fmt.Fprintf(out, "actions (%d):\n", len(actions))
	for i, action := range actions {
		fmt.Fprintf(out, "%3d. %s\n", i+1, action.Description)
	}
}
