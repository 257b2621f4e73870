package commands

import (
	"strings"
	"testing"

	"github.com/ethvoyager95/quickswap-core/internal/script"
	"github.com/ethvoyager95/quickswap-core/internal/testkit/chainfakes"
)

func TestAliasRegistersAccount(t *testing.T) {
	p, w, _, root := fakeSetup(t)

	w = mustRun(t, p, w, root, "World Alias Carol 0xCC")

	addr, ok := w.Account("Carol")
	if !ok || addr != "0x00000000000000000000000000000000000000cc" {
		t.Fatalf("Account(Carol) = %q, %v", addr, ok)
	}
	if got := w.Actions()[0].Description; got != "Aliased Carol to 0x00000000000000000000000000000000000000cc" {
		t.Fatalf("log entry = %q", got)
	}
}

func TestAliasResolvesExistingAlias(t *testing.T) {
	p, w, _, root := fakeSetup(t)

	w = mustRun(t, p, w, root, "World Alias Treasury Root")

	addr, ok := w.Account("Treasury")
	if !ok || addr != root {
		t.Fatalf("Account(Treasury) = %q, want %q", addr, root)
	}
}

func TestContractRegistersHandle(t *testing.T) {
	p, w, _, root := fakeSetup(t)

	w = mustRun(t, p, w, root, "World Contract Comptroller 0xDD")

	addr, ok := w.Contract("Comptroller")
	if !ok || addr != "0x00000000000000000000000000000000000000dd" {
		t.Fatalf("Contract(Comptroller) = %q, %v", addr, ok)
	}
	if got := w.Actions()[0].Description; !strings.Contains(got, "Comptroller") {
		t.Fatalf("log entry = %q", got)
	}
}

func TestAccountsAndContractsViews(t *testing.T) {
	p, w, _, root := fakeSetup(t)

	accounts := mustView(t, p, w, root, "World Accounts")
	got, ok := accounts.At("Root")
	if !ok || got.Address() != root {
		t.Fatalf("Accounts[Root] = %v, %v", got, ok)
	}

	contracts := mustView(t, p, w, root, "World Contracts")
	for _, name := range []string{OracleName, GovernorName, "ZRX"} {
		if _, ok := contracts.At(name); !ok {
			t.Fatalf("Contracts missing %s: %s", name, contracts.Show())
		}
	}
}

func TestHistoryListsActionsInOrder(t *testing.T) {
	p, w, root := devnetSetup(t)
	w = mustRun(t, p, w, root, "Erc20 Mint ZRX Alice 10")
	w = mustRun(t, p, w, root, "Oracle SetDirectPrice 0x1 1.5")

	out := mustView(t, p, w, root, "World History")
	items := out.Items()
	if len(items) != 2 {
		t.Fatalf("len(History) = %d, want 2", len(items))
	}
	if !strings.Contains(items[0].Text(), "Minted") {
		t.Fatalf("History[0] = %q", items[0].Text())
	}
	if !strings.Contains(items[1].Text(), "direct price") {
		t.Fatalf("History[1] = %q", items[1].Text())
	}
}

func TestPrintWritesToSink(t *testing.T) {
	printer := &linePrinter{}
	backend := chainfakes.NewBackend()
	p := NewProcessor(backend)
	w := script.NewWorld("test", printer)

	out := mustView(t, p, w, "", `World Print "hello there"`)
	if out.Text() != "hello there" {
		t.Fatalf("Print returned %q", out.Text())
	}
	if len(printer.lines) != 1 || printer.lines[0] != "hello there" {
		t.Fatalf("printer lines = %v", printer.lines)
	}
}

func TestHelpListsEverySubsystem(t *testing.T) {
	p, w, _, root := fakeSetup(t)

	out := mustView(t, p, w, root, "World Help")
	text := out.Text()
	for _, want := range []string{
		"World Alias <name> <address>",
		"Oracle SetPrice <asset> <price>",
		"Erc20 Transfer <token> <recipient> <amount>",
		"Gov Propose <actions>...",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("Help output missing %q:\n%s", want, text)
		}
	}
}

func TestHelpFiltersOneSubsystem(t *testing.T) {
	p, w, _, root := fakeSetup(t)

	out := mustView(t, p, w, root, "World Help Oracle")
	text := out.Text()
	if !strings.Contains(text, "Oracle GetPrice <asset>") {
		t.Fatalf("filtered Help missing Oracle commands:\n%s", text)
	}
	if strings.Contains(text, "Erc20") {
		t.Fatalf("filtered Help leaked other subsystems:\n%s", text)
	}
}

func TestHelpUnknownSubsystem(t *testing.T) {
	p, w, _, root := fakeSetup(t)

	_, _, err := p.ProcessLine(t.Context(), w, root, "World Help Comet")
	if script.CodeOf(err) != script.CodeInvocationFailure {
		t.Fatalf("error = %v, want INVOCATION_FAILURE", err)
	}
}
