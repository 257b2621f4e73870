package scenario

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Network != "development" {
		t.Fatalf("Network = %q, want %q", cfg.Network, "development")
	}
	if cfg.Assertions != "strict" {
		t.Fatalf("Assertions = %q, want %q", cfg.Assertions, "strict")
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Scenario != "" || cfg.DBPath != "" || cfg.Verbose {
		t.Fatalf("cfg = %+v, want empty scenario, db and verbose", cfg)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("QUICKSWAP_NETWORK", "test")
	t.Setenv("QUICKSWAP_SCENARIO_ASSERT", "log-only")

	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	args := []string{"-network", "development", "-scenario", "run.lua", "-timeout", "5s", "-verbose"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Network != "development" {
		t.Fatalf("Network = %q, want flag override", cfg.Network)
	}
	if cfg.Assertions != "log-only" {
		t.Fatalf("Assertions = %q, want env value", cfg.Assertions)
	}
	if cfg.Scenario != "run.lua" {
		t.Fatalf("Scenario = %q, want %q", cfg.Scenario, "run.lua")
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if !cfg.Verbose {
		t.Fatal("Verbose = false, want true")
	}
}

func TestRunRejectsUnknownAssertionMode(t *testing.T) {
	t.Parallel()

	cfg := Config{Network: "test", Assertions: "sometimes"}
	err := RunWithInput(t.Context(), cfg, strings.NewReader(""), nil, nil)
	if err == nil {
		t.Fatal("RunWithInput() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "unknown assertion mode") {
		t.Fatalf("error = %v, want assertion mode error", err)
	}
}

func TestRunExecutesScenarioFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mint.script")
	content := strings.Join([]string{
		"Erc20 Mint ZRX Alice 5",
		"Erc20 BalanceOf ZRX Alice",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var out, errOut strings.Builder
	cfg := Config{Network: "test", Scenario: path, Assertions: "strict"}
	if err := RunWithInput(t.Context(), cfg, strings.NewReader(""), &out, &errOut); err != nil {
		t.Fatalf("RunWithInput() error = %v", err)
	}
	if !strings.Contains(out.String(), "actions (1):") {
		t.Fatalf("out = %q, want action log header", out.String())
	}
	if !strings.Contains(out.String(), "Minted 5 ZRX") {
		t.Fatalf("out = %q, want mint entry", out.String())
	}
	if !strings.Contains(errOut.String(), "=> 5") {
		t.Fatalf("errOut = %q, want balance echo", errOut.String())
	}
}

func TestRunReadsREPLInput(t *testing.T) {
	t.Parallel()

	input := "Erc20 Mint BAT Bob 3\nErc20 BalanceOf BAT Bob\n"
	var out, errOut strings.Builder
	cfg := Config{Network: "test"}
	if err := RunWithInput(t.Context(), cfg, strings.NewReader(input), &out, &errOut); err != nil {
		t.Fatalf("RunWithInput() error = %v", err)
	}
	if !strings.Contains(out.String(), "Minted 3 BAT") {
		t.Fatalf("out = %q, want mint entry", out.String())
	}
	if !strings.Contains(errOut.String(), "=> 3") {
		t.Fatalf("errOut = %q, want balance echo", errOut.String())
	}
}

func TestRunPrintsActionsOnFailure(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "drift.script")
	content := strings.Join([]string{
		"Oracle SetPrice ZRX 2",
		"Oracle AssertPrice ZRX 9",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var out strings.Builder
	cfg := Config{Network: "test", Scenario: path, Assertions: "strict"}
	err := RunWithInput(t.Context(), cfg, strings.NewReader(""), &out, nil)
	if err == nil {
		t.Fatal("RunWithInput() error = nil, want assertion failure")
	}
	if !strings.Contains(out.String(), "actions (1):") {
		t.Fatalf("out = %q, want action log despite failure", out.String())
	}
}

func TestRunRejectsRemoteNetwork(t *testing.T) {
	t.Parallel()

	cfg := Config{Network: "mainnet"}
	err := RunWithInput(t.Context(), cfg, strings.NewReader(""), nil, nil)
	if err == nil {
		t.Fatal("RunWithInput() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "no local backend") {
		t.Fatalf("error = %v, want local backend refusal", err)
	}
}
