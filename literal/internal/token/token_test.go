package token

import (
	"reflect"
	"testing"

	"github.com/baron-chain/bc-cargo-contract/errors"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			"empty",
			"",
			[]Token{{"", EOF, 0}},
		},
		{
			"punctuation",
			"([{,:}])",
			[]Token{
				{"(", LParen, 0}, {"[", LBracket, 1}, {"{", LBrace, 2}, {",", Comma, 3},
				{":", Colon, 4}, {"}", RBrace, 5}, {"]", RBracket, 6}, {")", RParen, 7}, {"", EOF, 8},
			},
		},
		{
			"whitespace",
			"  foo \n\t bar ",
			[]Token{{"foo", Ident, 2}, {"bar", Ident, 9}, {"", EOF, 13}},
		},
		{
			"identifier",
			"_snake_case1",
			[]Token{{"_snake_case1", Ident, 0}, {"", EOF, 12}},
		},
		{
			"number",
			"42",
			[]Token{{"42", Number, 0}, {"", EOF, 2}},
		},
		{
			"negative_suffixed",
			"-1_000i64",
			[]Token{{"-1_000i64", Number, 0}, {"", EOF, 9}},
		},
		{
			"plus_sign",
			"+7",
			[]Token{{"+7", Number, 0}, {"", EOF, 2}},
		},
		{
			"bytes",
			"0xDeAd",
			[]Token{{"DeAd", Bytes, 0}, {"", EOF, 6}},
		},
		{
			"empty_bytes",
			"0x",
			[]Token{{"", Bytes, 0}, {"", EOF, 2}},
		},
		{
			"string",
			`"hello world"`,
			[]Token{{"hello world", String, 0}, {"", EOF, 13}},
		},
		{
			"string_escapes",
			`"a\n\t\r\0\"\'\\b"`,
			[]Token{{"a\n\t\r\x00\"'\\b", String, 0}, {"", EOF, 18}},
		},
		{
			"unicode_escape",
			`"\u{1F600}x"`,
			[]Token{{"\U0001F600x", String, 0}, {"", EOF, 12}},
		},
		{
			"char",
			`'z'`,
			[]Token{{"z", Char, 0}, {"", EOF, 3}},
		},
		{
			"escaped_char",
			`'\''`,
			[]Token{{"'", Char, 0}, {"", EOF, 4}},
		},
		{
			"map",
			`{a: 1}`,
			[]Token{
				{"{", LBrace, 0}, {"a", Ident, 1}, {":", Colon, 2}, {"1", Number, 4},
				{"}", RBrace, 5}, {"", EOF, 6},
			},
		},
		{
			"multibyte_offsets",
			`"é" x`,
			[]Token{{"é", String, 0}, {"x", Ident, 5}, {"", EOF, 6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  errors.Kind
		pos   int
	}{
		{"bad_hex_digit", "0xag", errors.KindParse, 3},
		{"odd_hex", "0xabc", errors.KindOddLengthHex, 0},
		{"odd_hex_offset", "[1, 0x1]", errors.KindOddLengthHex, 4},
		{"bad_escape", `"ab\q"`, errors.KindInvalidEscape, 3},
		{"bad_unicode_escape", `"\u{zz}"`, errors.KindInvalidEscape, 1},
		{"unicode_no_brace", `"\u41"`, errors.KindInvalidEscape, 1},
		{"unicode_surrogate", `"\u{D800}"`, errors.KindInvalidEscape, 1},
		{"unicode_too_long", `"\u{1234567}"`, errors.KindInvalidEscape, 1},
		{"unterminated_string", `"abc`, errors.KindParse, 0},
		{"invalid_utf8_string", "\"ab\xffc\"", errors.KindParse, 3},
		{"truncated_utf8_char", "'\xe2\x82'", errors.KindParse, 1},
		{"empty_char", `''`, errors.KindParse, 0},
		{"long_char", `'ab'`, errors.KindParse, 0},
		{"lone_sign", "- 1", errors.KindParse, 1},
		{"unexpected_char", "a # b", errors.KindParse, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			e, ok := errors.As(err)
			if !ok {
				t.Fatalf("Tokenize(%q) err = %v, want *errors.Error", tt.input, err)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", e.Kind, tt.kind)
			}
			if e.Position != tt.pos {
				t.Errorf("Position = %d, want %d", e.Position, tt.pos)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	if LBrace.String() != "'{'" || EOF.String() != "end of input" || Type(99).String() != "unknown" {
		t.Error("Type.String mismatch")
	}
}
