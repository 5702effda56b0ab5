package dataset

import (
	"reflect"
	"testing"
)

func TestParseTokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"python single quotes", "['lake', 'view']", []string{"lake", "view"}},
		{"json double quotes", `["lake","view"]`, []string{"lake", "view"}},
		{"mixed quotes", `['it\'s', "say \"hi\""]`, []string{"it's", `say "hi"`}},
		{"python repr picks double quotes", `["don't"]`, []string{"don't"}},
		{"empty list", "[]", []string{}},
		{"whitespace", "  [ 'a' ,\n 'b' ]  ", []string{"a", "b"}},
		{"trailing comma", "['a',]", []string{"a"}},
		{"unicode", "['पोखरा', 'café']", []string{"पोखरा", "café"}},
		{"escapes", `['a\tb', 'é', '\x41', "😀"]`, []string{"a\tb", "é", "A", "😀"}},
		{"empty token", "['']", []string{""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTokens(tc.in)
			if err != nil {
				t.Fatalf("ParseTokens(%q): %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseTokens(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTokens_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"lake, view",
		"['lake'",
		"['lake' 'view']",
		"[lake]",
		"['a'] extra",
		"[,]",
		`['\q']`,
		"['unterminated]",
		"__import__('os').system('true')",
		"[1, 2]",
	} {
		if _, err := ParseTokens(in); err == nil {
			t.Errorf("ParseTokens(%q): expected error", in)
		}
	}
}

func TestFormatTokens_RoundTrip(t *testing.T) {
	for _, tokens := range [][]string{
		{},
		{"lake"},
		{"lake", "view", "crowd"},
		{"it's", `back\slash`, `"quoted"`, "tab\there", "new\nline"},
		{"पोखरा", "", " spaced "},
	} {
		enc := FormatTokens(tokens)
		got, err := ParseTokens(enc)
		if err != nil {
			t.Fatalf("ParseTokens(FormatTokens(%q)) = %v (encoded %s)", tokens, err, enc)
		}
		if !reflect.DeepEqual(got, tokens) {
			t.Fatalf("round trip mismatch: %#v -> %s -> %#v", tokens, enc, got)
		}
	}
}

func TestFormatTokens_PythonRepr(t *testing.T) {
	if got := FormatTokens([]string{"lake", "view"}); got != "['lake', 'view']" {
		t.Fatalf("got %s", got)
	}
}
