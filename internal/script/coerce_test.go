package script

import (
	"context"
	"testing"
)

const (
	rootAddr   = "0x0000000000000000000000000000000000000001"
	oracleAddr = "0x000000000000000000000000000000000000000a"
)

func testWorld() *World {
	w := NewWorld("test", nil)
	w = w.WithAccount("Root", rootAddr)
	w = w.WithContract("PriceOracle", oracleAddr)
	return w
}

func TestCoerceAddress(t *testing.T) {
	ctx := context.Background()
	w := testWorld()

	tests := []struct {
		name string
		ev   Event
		want string
		code Code
	}{
		{name: "full_hex", ev: Atom("0x00000000000000000000000000000000000000AB"), want: "0x00000000000000000000000000000000000000ab"},
		{name: "short_hex_pads", ev: Atom("0xABC"), want: "0x0000000000000000000000000000000000000abc"},
		{name: "account_alias", ev: Atom("Root"), want: rootAddr},
		{name: "alias_case_insensitive", ev: Atom("root"), want: rootAddr},
		{name: "contract_name", ev: Atom("PriceOracle"), want: oracleAddr},
		{name: "unresolved_symbol", ev: Atom("Nobody"), code: CodeLookupError},
		{name: "list_event", ev: List(Atom("Root")), code: CodeCoercionError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := CoerceAddress(ctx, w, tc.ev)
			if tc.code != "" {
				if err == nil {
					t.Fatalf("CoerceAddress(%s) succeeded, want %s", tc.ev.String(), tc.code)
				}
				if got := CodeOf(err); got != tc.code {
					t.Fatalf("CodeOf = %v, want %v", got, tc.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("CoerceAddress(%s) error: %v", tc.ev.String(), err)
			}
			if got := v.Address(); got != tc.want {
				t.Fatalf("address = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCoerceContract(t *testing.T) {
	ctx := context.Background()
	w := testWorld()

	v, err := CoerceContract(ctx, w, Atom("priceoracle"))
	if err != nil {
		t.Fatalf("CoerceContract error: %v", err)
	}
	name, _ := v.At("name")
	if got := name.Text(); got != "PriceOracle" {
		t.Fatalf("name = %q, want registered casing %q", got, "PriceOracle")
	}
	addr, _ := v.At("address")
	if got := addr.Address(); got != oracleAddr {
		t.Fatalf("address = %s, want %s", got, oracleAddr)
	}

	if _, err := CoerceContract(ctx, w, Atom("Comptroller")); CodeOf(err) != CodeLookupError {
		t.Fatalf("unregistered contract: CodeOf = %v, want %v", CodeOf(err), CodeLookupError)
	}
}

func TestCoerceBool(t *testing.T) {
	ctx := context.Background()
	w := testWorld()

	for _, token := range []string{"true", "True", "FALSE", "false"} {
		v, err := CoerceBool(ctx, w, Atom(token))
		if err != nil {
			t.Fatalf("CoerceBool(%q) error: %v", token, err)
		}
		want := token == "true" || token == "True"
		if got := v.Bool(); got != want {
			t.Fatalf("CoerceBool(%q) = %v, want %v", token, got, want)
		}
	}

	_, err := CoerceBool(ctx, w, Atom("yes"))
	if CodeOf(err) != CodeCoercionError {
		t.Fatalf("CodeOf = %v, want %v", CodeOf(err), CodeCoercionError)
	}
}

func TestCoerceNumberAndAmount(t *testing.T) {
	ctx := context.Background()
	w := testWorld()

	v, err := CoerceNumber(ctx, w, Atom("42"))
	if err != nil {
		t.Fatalf("CoerceNumber error: %v", err)
	}
	if got := v.Number().Scale(); got != 0 {
		t.Fatalf("number scale = %d, want 0", got)
	}

	v, err = CoerceAmount(ctx, w, Atom("1.5"))
	if err != nil {
		t.Fatalf("CoerceAmount error: %v", err)
	}
	if got := v.Number().Scale(); got != AmountScale {
		t.Fatalf("amount scale = %d, want %d", got, AmountScale)
	}
	if got := v.Number().Mantissa().String(); got != "1500000000000000000" {
		t.Fatalf("amount mantissa = %s, want 1500000000000000000", got)
	}

	_, err = CoerceAmount(ctx, w, Atom("many"))
	if CodeOf(err) != CodeCoercionError {
		t.Fatalf("CodeOf = %v, want %v", CodeOf(err), CodeCoercionError)
	}
}

func TestCoerceString(t *testing.T) {
	ctx := context.Background()
	w := testWorld()

	v, err := CoerceString(ctx, w, Atom("hello world"))
	if err != nil {
		t.Fatalf("CoerceString error: %v", err)
	}
	if got := v.Text(); got != "hello world" {
		t.Fatalf("Text() = %q, want %q", got, "hello world")
	}

	_, err = CoerceString(ctx, w, List(Atom("a")))
	if CodeOf(err) != CodeCoercionError {
		t.Fatalf("CodeOf = %v, want %v", CodeOf(err), CodeCoercionError)
	}
}

func TestEachOf(t *testing.T) {
	ctx := context.Background()
	w := testWorld()
	coerce := EachOf(CoerceNumber)

	v, err := coerce(ctx, w, List(Atom("1"), Atom("2"), Atom("3")))
	if err != nil {
		t.Fatalf("EachOf error: %v", err)
	}
	items := v.Items()
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if items[2].Number().Show() != "3" {
		t.Fatalf("items[2] = %s, want 3", items[2].Show())
	}

	if _, err := coerce(ctx, w, Atom("1")); CodeOf(err) != CodeCoercionError {
		t.Fatalf("atom input: CodeOf = %v, want %v", CodeOf(err), CodeCoercionError)
	}
	if _, err := coerce(ctx, w, List(Atom("1"), Atom("x"))); CodeOf(err) != CodeCoercionError {
		t.Fatalf("bad element: CodeOf = %v, want %v", CodeOf(err), CodeCoercionError)
	}
}

func TestRecordOf(t *testing.T) {
	ctx := context.Background()
	w := testWorld()
	coerce := RecordOf(CoerceNumber)

	v, err := coerce(ctx, w, List(
		List(Atom("zrx"), Atom("100")),
		List(Atom("bat"), Atom("200")),
	))
	if err != nil {
		t.Fatalf("RecordOf error: %v", err)
	}
	zrx, ok := v.At("zrx")
	if !ok {
		t.Fatal("missing zrx entry")
	}
	if got := zrx.Number().Show(); got != "100" {
		t.Fatalf("zrx = %s, want 100", got)
	}

	if _, err := coerce(ctx, w, List(Atom("zrx"))); CodeOf(err) != CodeCoercionError {
		t.Fatalf("bare entry: CodeOf = %v, want %v", CodeOf(err), CodeCoercionError)
	}
	if _, err := coerce(ctx, w, List(List(Atom("zrx")))); CodeOf(err) != CodeCoercionError {
		t.Fatalf("one-item entry: CodeOf = %v, want %v", CodeOf(err), CodeCoercionError)
	}
}

func TestCanonicalAddress(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{token: "0xABC", want: "0x0000000000000000000000000000000000000abc", ok: true},
		{token: "0X1", want: "0x0000000000000000000000000000000000000001", ok: true},
		{token: "0x" + "12345678901234567890123456789012345678ab", want: "0x12345678901234567890123456789012345678ab", ok: true},
		{token: "0x" + "12345678901234567890123456789012345678abc", ok: false},
		{token: "0xZZ", ok: false},
		{token: "Root", ok: false},
		{token: "0x", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			got, ok := CanonicalAddress(tc.token)
			if ok != tc.ok {
				t.Fatalf("CanonicalAddress(%q) ok = %v, want %v", tc.token, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("CanonicalAddress(%q) = %s, want %s", tc.token, got, tc.want)
			}
		})
	}
}
