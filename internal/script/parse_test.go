package script

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Event
	}{
		{
			name:  "bare_tokens",
			input: "Oracle SetPrice ZRX 1.5",
			want:  List(Atom("Oracle"), Atom("SetPrice"), Atom("ZRX"), Atom("1.5")),
		},
		{
			name:  "empty_line",
			input: "",
			want:  List(),
		},
		{
			name:  "whitespace_only",
			input: "   \t  ",
			want:  List(),
		},
		{
			name:  "comment_only",
			input: "-- set the oracle price",
			want:  List(),
		},
		{
			name:  "trailing_comment",
			input: "GetPrice ZRX -- current price",
			want:  List(Atom("GetPrice"), Atom("ZRX")),
		},
		{
			name:  "comment_touching_token",
			input: "GetPrice ZRX--tail",
			want:  List(Atom("GetPrice"), Atom("ZRX")),
		},
		{
			name:  "quoted_atom_keeps_spaces",
			input: `Print "hello scenario world"`,
			want:  List(Atom("Print"), Atom("hello scenario world")),
		},
		{
			name:  "quoted_escapes",
			input: `Print "line\none\ttab \"quoted\" back\\slash"`,
			want:  List(Atom("Print"), Atom("line\none\ttab \"quoted\" back\\slash")),
		},
		{
			name:  "empty_quoted_atom",
			input: `Alias ""`,
			want:  List(Atom("Alias"), Atom("")),
		},
		{
			name:  "parenthesized_group",
			input: "Propose (transfer ZRX 100)",
			want:  List(Atom("Propose"), List(Atom("transfer"), Atom("ZRX"), Atom("100"))),
		},
		{
			name:  "bracketed_group",
			input: "Prices [1.5 2.5 3.5]",
			want:  List(Atom("Prices"), List(Atom("1.5"), Atom("2.5"), Atom("3.5"))),
		},
		{
			name:  "nested_groups",
			input: "Record [(asset ZRX) (price 1.5)]",
			want: List(
				Atom("Record"),
				List(
					List(Atom("asset"), Atom("ZRX")),
					List(Atom("price"), Atom("1.5")),
				),
			),
		},
		{
			name:  "group_without_spaces",
			input: "Sum(1 2)3",
			want:  List(Atom("Sum"), List(Atom("1"), Atom("2")), Atom("3")),
		},
		{
			name:  "negative_number_token",
			input: "Shift -5",
			want:  List(Atom("Shift"), Atom("-5")),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.input, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("Parse(%q) = %s, want %s", tc.input, got.String(), tc.want.String())
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
	}{
		{name: "unclosed_paren", input: "Propose (transfer ZRX", pos: 21},
		{name: "unclosed_bracket", input: "Prices [1.5", pos: 11},
		{name: "stray_closer", input: "GetPrice )", pos: 9},
		{name: "mismatched_closer", input: "Propose (transfer]", pos: 17},
		{name: "unterminated_string", input: `Print "no end`, pos: 6},
		{name: "trailing_backslash", input: `Print "half\`, pos: 6},
		{name: "invalid_escape", input: `Print "bad\q"`, pos: 11},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want malformed script error", tc.input)
			}
			if got := CodeOf(err); got != CodeMalformedScript {
				t.Fatalf("CodeOf = %v, want %v", got, CodeMalformedScript)
			}
			var scriptErr *Error
			if !errors.As(err, &scriptErr) {
				t.Fatalf("error %T does not unwrap to *Error", err)
			}
			if scriptErr.Pos != tc.pos {
				t.Fatalf("Pos = %d, want %d (err %v)", scriptErr.Pos, tc.pos, err)
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	input := `Oracle SetPrice "Basic Token" (1.5e18) [a b [c]] -- done`
	first, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	second, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("two parses of %q differ: %s vs %s", input, first.String(), second.String())
	}
}

func TestEventStringRoundTrip(t *testing.T) {
	inputs := []string{
		"Oracle SetPrice ZRX 1.5",
		`Print "hello there"`,
		`Print "tab\there \"and\" \\ newline\n"`,
		"Propose (transfer ZRX 100) [a b]",
		`Alias ""`,
	}
	for _, input := range inputs {
		ev, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", input, err)
		}
		again, err := Parse(ev.render())
		if err != nil {
			t.Fatalf("reparse of %q error: %v", ev.render(), err)
		}
		if !ev.Equal(again) {
			t.Fatalf("round trip of %q changed tree: %s vs %s", input, ev.String(), again.String())
		}
	}
}

func TestEventEqual(t *testing.T) {
	if Atom("a").Equal(List(Atom("a"))) {
		t.Fatal("atom should not equal list")
	}
	if Atom("a").Equal(Atom("b")) {
		t.Fatal("different tokens should not be equal")
	}
	if List(Atom("a")).Equal(List(Atom("a"), Atom("b"))) {
		t.Fatal("lists of different length should not be equal")
	}
}
