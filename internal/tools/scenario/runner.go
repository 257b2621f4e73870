// Package scenario executes line scripts and Lua scenarios against a local
// devnet World, with assertion handling and optional run reporting.
package scenario

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethvoyager95/quickswap-core/internal/chain"
	"github.com/ethvoyager95/quickswap-core/internal/commands"
	"github.com/ethvoyager95/quickswap-core/internal/platform/timeouts"
	"github.com/ethvoyager95/quickswap-core/internal/report"
	"github.com/ethvoyager95/quickswap-core/internal/script"
)

// Config controls scenario execution.
type Config struct {
	Network    string
	DBPath     string
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Network:    "development",
		Timeout:    timeouts.ScriptLine,
		Assertions: AssertionStrict,
		Verbose:    false,
	}
}

// Runner threads script lines through the command processor, one World
// value at a time.
type Runner struct {
	processor  *script.Processor
	world      *script.World
	from       string
	store      *report.Store
	recorder   *report.Recorder
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
	tracer     trace.Tracer
}

// NewRunner boots a genesis devnet World and prepares a scenario runner.
func NewRunner(ctx context.Context, cfg Config) (*Runner, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	network := strings.TrimSpace(cfg.Network)
	if network == "" {
		network = "development"
	}
	processor, world, _ := commands.Genesis(network, loggerPrinter{logger})
	if !world.IsLocalNetwork() {
		return nil, fmt.Errorf("network %q has no local backend", network)
	}

	var store *report.Store
	var recorder *report.Recorder
	if cfg.DBPath != "" {
		var err error
		store, err = report.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open report store: %w", err)
		}
		recorder = report.NewRecorder(store)
	}

	cfg.Logger = logger
	r, err := newRunnerWithDeps(cfg, runnerDeps{
		processor: processor,
		world:     world,
		recorder:  recorder,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	r.store = store
	return r, nil
}

// newRunnerWithDeps builds a Runner from pre-built dependencies.
// Config defaults (logger, timeout) are applied here so they are testable.
func newRunnerWithDeps(cfg Config, deps runnerDeps) (*Runner, error) {
	if deps.processor == nil || deps.world == nil {
		return nil, errors.New("processor and world are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScriptLine
	}

	from, _ := deps.world.Account("Root")

	return &Runner{
		processor:  deps.processor,
		world:      deps.world,
		from:       from,
		recorder:   deps.recorder,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
		tracer:     otel.Tracer("quickswap.scenario"),
	}, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// World returns the current threaded state.
func (r *Runner) World() *script.World {
	return r.world
}

// Failures reports how many assertion failures the run tolerated.
func (r *Runner) Failures() int {
	return r.assertions.Failures()
}

// RunFile boots a runner for cfg and executes one scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.RunPath(ctx, path)
}

// RunPath loads and executes a scenario file. Files ending in .lua are
// evaluated as Lua scenarios; anything else is read as a line script.
func (r *Runner) RunPath(ctx context.Context, path string) error {
	if filepath.Ext(path) == ".lua" {
		scenario, err := LoadScenarioFromFile(path)
		if err != nil {
			return err
		}
		return r.RunScenario(ctx, scenario)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	return r.RunLines(ctx, filepath.Base(path), lines)
}

// RunScenario executes a loaded Lua scenario step by step.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	lines := make([]string, len(scenario.Steps))
	for i, step := range scenario.Steps {
		line, err := stepLine(step)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		lines[i] = line
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	if err := r.RunLines(ctx, scenario.Name, lines); err != nil {
		return err
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

// RunLines executes a line script and finishes the run report whether or
// not the script succeeds.
func (r *Runner) RunLines(ctx context.Context, source string, lines []string) error {
	ctx, span := r.tracer.Start(ctx, "scenario.run", trace.WithAttributes(
		attribute.String("scenario.source", source),
		attribute.Int("scenario.lines", len(lines)),
	))
	defer span.End()

	if err := r.recorder.Begin(ctx, source, r.world.Network()); err != nil {
		return fmt.Errorf("begin report: %w", err)
	}
	runErr := r.execLines(ctx, lines)
	if err := r.recorder.Finish(ctx); err != nil && runErr == nil {
		runErr = fmt.Errorf("finish report: %w", err)
	}
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(otelcodes.Error, runErr.Error())
		return runErr
	}
	if n := r.assertions.Failures(); n > 0 {
		return fmt.Errorf("%d assertion failure(s)", n)
	}
	return nil
}

// RunReader executes lines from reader as a REPL: failed lines are
// reported and the loop keeps going.
func (r *Runner) RunReader(ctx context.Context, reader io.Reader) error {
	if err := r.recorder.Begin(ctx, "repl", r.world.Network()); err != nil {
		return fmt.Errorf("begin report: %w", err)
	}

	scanner := bufio.NewScanner(reader)
	number := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		number++
		if err := r.execLine(ctx, number, 0, scanner.Text()); err != nil {
			r.logger.Printf("error: %v", err)
		}
	}

	if err := r.recorder.Finish(ctx); err != nil {
		return fmt.Errorf("finish report: %w", err)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return ctx.Err()
}

func (r *Runner) execLines(ctx context.Context, lines []string) error {
	total := len(lines)
	for index, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.execLine(ctx, index+1, total, line); err != nil {
			return err
		}
	}
	return nil
}

// execLine runs one script line: directives are handled by the runner,
// everything else goes through the processor under a per-line timeout.
func (r *Runner) execLine(ctx context.Context, number, total int, line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "--") {
		return nil
	}

	if alias, ok := fromDirective(trimmed); ok {
		addr, found := r.world.Account(alias)
		if !found {
			_ = r.recorder.Step(ctx, trimmed, false, fmt.Sprintf("unknown account %q", alias), 0)
			return fmt.Errorf("line %d: from: unknown account %q", number, alias)
		}
		r.from = addr
		r.stepLogf(number, total, "acting as %s (%s)", alias, addr)
		return r.recorder.Step(ctx, trimmed, true, "acting as "+addr, 0)
	}

	lineCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	lineCtx, span := r.tracer.Start(lineCtx, "scenario.line", trace.WithAttributes(lineAttributes(number, trimmed)...))
	defer span.End()

	r.stepLogf(number, total, "run: %s", trimmed)
	start := time.Now()
	before := r.world.ActionCount()
	next, out, err := r.processor.ProcessLine(lineCtx, r.world, r.from, trimmed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if recErr := r.recorder.Step(ctx, trimmed, false, err.Error(), 0); recErr != nil {
			return fmt.Errorf("record step: %w", recErr)
		}
		var assertErr *commands.AssertionError
		if errors.As(err, &assertErr) {
			return r.assertions.Failf("line %d: %v", number, assertErr)
		}
		return fmt.Errorf("line %d: %w", number, err)
	}
	r.world = next

	detail, gas := outcomeOf(next, before, out)
	if out.IsValid() {
		r.logger.Printf("=> %s", out.Show())
	}
	r.stepLogf(number, total, "done in %s", time.Since(start).Round(time.Millisecond))
	return r.recorder.Step(ctx, trimmed, true, detail, gas)
}

// fromDirective matches the runner-level `from <alias>` line.
func fromDirective(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 2 && strings.EqualFold(fields[0], "from") {
		return fields[1], true
	}
	return "", false
}

// outcomeOf extracts the report detail and gas for a successful line: the
// appended action for mutations, the shown value for views.
func outcomeOf(w *script.World, before int, out script.Value) (string, int64) {
	actions := w.Actions()
	if len(actions) > before {
		last := actions[len(actions)-1]
		if receipt, ok := last.Receipt.(*chain.Receipt); ok && receipt != nil {
			return last.Description, int64(receipt.GasUsed)
		}
		return last.Description, 0
	}
	if out.IsValid() {
		return out.Show(), 0
	}
	return "", 0
}

func lineAttributes(number int, line string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.Int("scenario.step", number)}
	fields := strings.Fields(line)
	if len(fields) > 0 {
		attrs = append(attrs, attribute.String("scenario.subsystem", fields[0]))
	}
	if len(fields) > 1 {
		attrs = append(attrs, attribute.String("scenario.command", fields[1]))
	}
	return attrs
}

func (r *Runner) stepLogf(number, total int, format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	prefix := fmt.Sprintf("step %d", number)
	if total > 0 {
		prefix = fmt.Sprintf("step %d/%d", number, total)
	}
	r.logger.Printf(prefix+" "+format, args...)
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

// loggerPrinter adapts a log.Logger to the World's output sink.
type loggerPrinter struct {
	logger *log.Logger
}

func (p loggerPrinter) Printf(format string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Printf(format, args...)
}
