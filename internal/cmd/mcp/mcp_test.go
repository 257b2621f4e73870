package mcp

import (
	"flag"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Network != "development" {
		t.Fatalf("Network = %q, want %q", cfg.Network, "development")
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("QUICKSWAP_NETWORK", "test")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-network", "development"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Network != "development" {
		t.Fatalf("Network = %q, want flag override", cfg.Network)
	}
}

func TestRunRejectsRemoteNetwork(t *testing.T) {
	t.Parallel()

	err := Run(t.Context(), Config{Network: "mainnet"})
	if err == nil {
		t.Fatal("Run() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "no local backend") {
		t.Fatalf("error = %v, want local backend refusal", err)
	}
}
