package scenario

import (
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethvoyager95/quickswap-core/internal/commands"
)

func newTestRunner(t *testing.T, cfg Config) (*Runner, *strings.Builder) {
	t.Helper()

	var buf strings.Builder
	cfg.Logger = log.New(&buf, "", 0)
	processor, world, _ := commands.Genesis("test", loggerPrinter{cfg.Logger})
	runner, err := newRunnerWithDeps(cfg, runnerDeps{processor: processor, world: world})
	if err != nil {
		t.Fatalf("newRunnerWithDeps() error = %v", err)
	}
	return runner, &buf
}

func TestRunLinesThreadsWorld(t *testing.T) {
	t.Parallel()

	runner, buf := newTestRunner(t, Config{})
	lines := []string{
		"-- seed balances",
		"Erc20 Mint ZRX Alice 100",
		"",
		"from Alice",
		"Erc20 Transfer ZRX Bob 25",
		"Erc20 BalanceOf ZRX Bob",
	}

	if err := runner.RunLines(t.Context(), "threads", lines); err != nil {
		t.Fatalf("RunLines() error = %v", err)
	}
	if got := runner.World().ActionCount(); got != 2 {
		t.Fatalf("ActionCount() = %d, want 2", got)
	}
	if !strings.Contains(buf.String(), "=> 25") {
		t.Fatalf("output = %q, want balance echo", buf.String())
	}
}

func TestRunLinesFromSwitchesActingAccount(t *testing.T) {
	t.Parallel()

	runner, _ := newTestRunner(t, Config{})
	lines := []string{
		"Erc20 Mint ZRX Alice 50",
		"from Alice",
		"Erc20 Transfer ZRX Bob 50",
	}

	if err := runner.RunLines(t.Context(), "switch", lines); err != nil {
		t.Fatalf("RunLines() error = %v", err)
	}

	actions := runner.World().Actions()
	last := actions[len(actions)-1].Description
	alice, _ := runner.World().Account("Alice")
	if !strings.Contains(last, "from "+alice) {
		t.Fatalf("last action = %q, want transfer from %s", last, alice)
	}
}

func TestRunLinesUnknownFromAccount(t *testing.T) {
	t.Parallel()

	runner, _ := newTestRunner(t, Config{})

	err := runner.RunLines(t.Context(), "bad-from", []string{"from Mallory"})
	if err == nil {
		t.Fatal("RunLines() error = nil, want error")
	}
	if !strings.Contains(err.Error(), `unknown account "Mallory"`) {
		t.Fatalf("error = %v, want unknown account", err)
	}
}

func TestRunLinesStrictAbortsOnAssertionFailure(t *testing.T) {
	t.Parallel()

	runner, _ := newTestRunner(t, Config{Assertions: AssertionStrict})
	lines := []string{
		"Oracle SetPrice ZRX 2",
		"Oracle AssertPrice ZRX 3",
		"Erc20 Mint ZRX Alice 5",
	}

	err := runner.RunLines(t.Context(), "strict", lines)
	if err == nil {
		t.Fatal("RunLines() error = nil, want assertion failure")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error = %v, want line 2 failure", err)
	}
	if got := runner.World().ActionCount(); got != 1 {
		t.Fatalf("ActionCount() = %d, want 1 (mint must not run)", got)
	}
	if got := runner.Failures(); got != 1 {
		t.Fatalf("Failures() = %d, want 1", got)
	}
}

func TestRunLinesLogOnlyKeepsGoing(t *testing.T) {
	t.Parallel()

	runner, buf := newTestRunner(t, Config{Assertions: AssertionLogOnly})
	lines := []string{
		"Oracle SetPrice ZRX 2",
		"Oracle AssertPrice ZRX 3",
		"Erc20 Mint ZRX Alice 5",
	}

	err := runner.RunLines(t.Context(), "log-only", lines)
	if err == nil {
		t.Fatal("RunLines() error = nil, want terminal assertion summary")
	}
	if !strings.Contains(err.Error(), "1 assertion failure(s)") {
		t.Fatalf("error = %v, want assertion summary", err)
	}
	if got := runner.World().ActionCount(); got != 2 {
		t.Fatalf("ActionCount() = %d, want 2 (mint still runs)", got)
	}
	if !strings.Contains(buf.String(), "assertion failed (continuing)") {
		t.Fatalf("output = %q, want logged assertion failure", buf.String())
	}
}

func TestRunLinesRecordsRuns(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "runs.db")
	var buf strings.Builder
	runner, err := NewRunner(t.Context(), Config{
		Network: "test",
		DBPath:  dbPath,
		Logger:  log.New(&buf, "", 0),
	})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	defer runner.Close()

	lines := []string{
		"Erc20 Mint ZRX Alice 10",
		"Erc20 BalanceOf ZRX Alice",
	}
	if err := runner.RunLines(t.Context(), "recorded", lines); err != nil {
		t.Fatalf("RunLines() error = %v", err)
	}

	run, err := runner.store.GetRun(t.Context(), runner.recorder.RunID())
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Source != "recorded" {
		t.Fatalf("Source = %q, want %q", run.Source, "recorded")
	}
	if run.Network != "test" {
		t.Fatalf("Network = %q, want %q", run.Network, "test")
	}
	if run.Steps != 2 || run.Failures != 0 {
		t.Fatalf("Steps = %d, Failures = %d, want 2 and 0", run.Steps, run.Failures)
	}
	if run.FinishedAt.IsZero() {
		t.Fatal("FinishedAt is zero, want stamped")
	}

	steps, err := runner.store.ListSteps(t.Context(), runner.recorder.RunID())
	if err != nil {
		t.Fatalf("ListSteps() error = %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("len(steps) = %d, want 2", len(steps))
	}
	if steps[0].Line != "Erc20 Mint ZRX Alice 10" || !steps[0].OK {
		t.Fatalf("step 0 = %+v, want ok mint", steps[0])
	}
	if steps[0].GasUsed == 0 {
		t.Fatal("GasUsed = 0, want mint gas")
	}
	if steps[1].Detail != "10" {
		t.Fatalf("step 1 detail = %q, want shown balance", steps[1].Detail)
	}
}

func TestRunReaderKeepsGoingOnErrors(t *testing.T) {
	t.Parallel()

	runner, buf := newTestRunner(t, Config{})
	input := "Erc20 Mint ZRX Alice 5\nnot a command\nErc20 BalanceOf ZRX Alice\n"

	if err := runner.RunReader(t.Context(), strings.NewReader(input)); err != nil {
		t.Fatalf("RunReader() error = %v", err)
	}
	if got := runner.World().ActionCount(); got != 1 {
		t.Fatalf("ActionCount() = %d, want 1", got)
	}
	out := buf.String()
	if !strings.Contains(out, "error:") {
		t.Fatalf("output = %q, want logged error", out)
	}
	if !strings.Contains(out, "=> 5") {
		t.Fatalf("output = %q, want balance echo", out)
	}
}

func TestRunScenarioExecutesSteps(t *testing.T) {
	t.Parallel()

	runner, _ := newTestRunner(t, Config{})
	scenario := &Scenario{Name: "inline", Steps: []Step{
		{Kind: "exec", Args: map[string]any{"line": "Erc20 Mint ZRX Alice 30"}},
		{Kind: "from", Args: map[string]any{"alias": "Alice"}},
		{Kind: "run", Args: map[string]any{
			"subsystem": "Erc20",
			"command":   "Transfer",
			"args":      []any{"ZRX", "Bob", 10},
		}},
	}}

	if err := runner.RunScenario(t.Context(), scenario); err != nil {
		t.Fatalf("RunScenario() error = %v", err)
	}
	if got := runner.World().ActionCount(); got != 2 {
		t.Fatalf("ActionCount() = %d, want 2", got)
	}
	actions := runner.World().Actions()
	if !strings.Contains(actions[1].Description, "Transferred 10 ZRX") {
		t.Fatalf("action = %q, want transfer description", actions[1].Description)
	}
}

func TestRunFileRunsLuaScenario(t *testing.T) {
	t.Parallel()

	path := writeScenarioFixture(t, "mint.lua", `
local scene = Scenario.new("mint")
scene:exec("Erc20 Mint ZRX Alice 100")
scene:run{subsystem = "Erc20", command = "BalanceOf", args = {"ZRX", "Alice"}}
return scene
`)

	var buf strings.Builder
	cfg := Config{Network: "test", Logger: log.New(&buf, "", 0)}
	if err := RunFile(t.Context(), cfg, path); err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}
	if !strings.Contains(buf.String(), "=> 100") {
		t.Fatalf("output = %q, want balance echo", buf.String())
	}
}

func TestRunFileRunsLineScript(t *testing.T) {
	t.Parallel()

	path := writeScenarioFixture(t, "mint.script", strings.Join([]string{
		"-- mint then check",
		"Erc20 Mint BAT Bob 7",
		"Erc20 BalanceOf BAT Bob",
	}, "\n"))

	var buf strings.Builder
	cfg := Config{Network: "test", Logger: log.New(&buf, "", 0)}
	if err := RunFile(t.Context(), cfg, path); err != nil {
		t.Fatalf("RunFile() error = %v", err)
	}
	if !strings.Contains(buf.String(), "=> 7") {
		t.Fatalf("output = %q, want balance echo", buf.String())
	}
}

func TestRunFileMissingFile(t *testing.T) {
	t.Parallel()

	cfg := Config{Network: "test", Logger: log.New(&strings.Builder{}, "", 0)}
	err := RunFile(t.Context(), cfg, filepath.Join(t.TempDir(), "absent.script"))
	if err == nil {
		t.Fatal("RunFile() error = nil, want error")
	}
}

func TestNewRunnerRejectsRemoteNetwork(t *testing.T) {
	t.Parallel()

	_, err := NewRunner(t.Context(), Config{Network: "mainnet"})
	if err == nil {
		t.Fatal("NewRunner() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "no local backend") {
		t.Fatalf("error = %v, want local backend refusal", err)
	}
}
