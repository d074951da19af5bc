package value

import (
	"bytes"
	"math/big"
	"testing"
)

func TestFormat(t *testing.T) {
	big256, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"unit", Unit{}, "()"},
		{"nil", nil, "()"},
		{"bool", Bool(true), "true"},
		{"uint", NewUInt(42), "42"},
		{"big uint", NewBigUInt(big256), big256.String()},
		{"int", NewInt(-7), "-7"},
		{"literal", Literal("1000"), "1000"},
		{"string", Str("a\"b\\c\n"), `"a\"b\\c\n"`},
		{"string nul", Str("x\x00"), `"x\0"`},
		{"string control", Str("\x01"), `"\u{1}"`},
		{"string unicode", Str("héllo"), `"héllo"`},
		{"char", Char('x'), `'x'`},
		{"char quote", Char('\''), `'\''`},
		{"bytes", Bytes{0xde, 0xad}, "0xdead"},
		{"empty bytes", Bytes{}, "0x"},
		{"seq", Seq{NewUInt(1), NewUInt(2)}, "[1, 2]"},
		{"empty seq", Seq{}, "[]"},
		{"tuple", Tuple{Bool(false), Str("x")}, `(false, "x")`},
		{"map", NewMap(Named("a", NewUInt(1)), Named("b", Seq{Bool(true), Bool(false)})), "{ a: 1, b: [true, false] }"},
		{"map quoted key", NewMap(Named("two words", Unit{})), `{ "two words": () }`},
		{"map positional", Map{Fields: Positional(NewUInt(1))}, "{ 0: 1 }"},
		{"empty map", Map{}, "{}"},
		{"unit variant", NewVariant("Flip"), "Flip"},
		{"tuple variant", NewVariant("Transfer", NewUInt(1), Bool(true)), "Transfer(1, true)"},
		{"struct variant", NamedVariant("Point", Named("x", NewInt(-1))), "Point { x: -1 }"},
		{"none", None(), "None"},
		{"some", Some(Seq{NewUInt(3)}), "Some([3])"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.v); got != tt.want {
				t.Errorf("Format = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatIndent(t *testing.T) {
	v := NewMap(
		Named("to", Bytes{0x01}),
		Named("amounts", Seq{NewUInt(1), NewUInt(2)}),
		Named("empty", Seq{}),
		Named("kind", NamedVariant("Fee", Named("rate", NewUInt(5)))),
	)
	want := "{\n" +
		"  to: 0x01,\n" +
		"  amounts: [\n" +
		"    1,\n" +
		"    2\n" +
		"  ],\n" +
		"  empty: [],\n" +
		"  kind: Fee {\n" +
		"    rate: 5\n" +
		"  }\n" +
		"}"
	if got := FormatIndent(v, "  "); got != want {
		t.Errorf("FormatIndent =\n%s\nwant\n%s", got, want)
	}
	if got := FormatIndent(NewUInt(5), "  "); got != "5" {
		t.Errorf("scalar = %q", got)
	}
}

func TestIsIdent(t *testing.T) {
	tests := map[string]bool{
		"name":    true,
		"_x1":     true,
		"1x":      false,
		"":        false,
		"a-b":     false,
		"true":    false,
		"None":    false,
		"Ünicode": true,
	}
	for s, want := range tests {
		if got := IsIdent(s); got != want {
			t.Errorf("IsIdent(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	max128, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"ordered map", NewMap(Named("b", NewUInt(1)), Named("a", Seq{Bool(true), Bool(false)})), `{"b":1,"a":[true,false]}`},
		{"big int", NewBigUInt(max128), max128.String()},
		{"negative", NewInt(-3), "-3"},
		{"bytes", Bytes{0xca, 0xfe}, `"0xcafe"`},
		{"none", None(), "null"},
		{"some", Some(Str("x")), `"x"`},
		{"unit variant", NewVariant("Flip"), `"Flip"`},
		{"newtype variant", NewVariant("Ok", NewUInt(1)), `{"Ok":1}`},
		{"tuple variant", NewVariant("Pair", NewUInt(1), NewUInt(2)), `{"Pair":[1,2]}`},
		{"struct variant", NamedVariant("Transfer", Named("to", Bytes{1}), Named("value", NewUInt(9))), `{"Transfer":{"to":"0x01","value":9}}`},
		{"tuple", Tuple{Unit{}, Char('z')}, `[null,"z"]`},
		{"literal", Literal("-12"), "-12"},
		{"positional map", Map{Fields: Positional(Bool(true))}, `{"0":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalJSON(tt.v)
			if err != nil {
				t.Fatalf("MarshalJSON: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMarshalIndentJSON(t *testing.T) {
	got, err := MarshalIndentJSON(NewMap(Named("a", NewUInt(1))), "  ")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{\n  \"a\": 1\n}" {
		t.Errorf("MarshalIndentJSON = %q", got)
	}
}

func TestMarshalCBOR(t *testing.T) {
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)

	tests := []struct {
		name string
		v    Value
		want []byte
	}{
		{
			name: "ordered map",
			v:    NewMap(Named("b", NewUInt(1)), Named("a", Bool(true))),
			want: []byte{0xa2, 0x61, 'b', 0x01, 0x61, 'a', 0xf5},
		},
		{
			name: "bytes as byte string",
			v:    Bytes{0xde, 0xad},
			want: []byte{0x42, 0xde, 0xad},
		},
		{
			name: "small uint",
			v:    NewUInt(10),
			want: []byte{0x0a},
		},
		{
			name: "bignum",
			v:    NewBigUInt(two64),
			want: []byte{0xc2, 0x49, 0x01, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "none",
			v:    None(),
			want: []byte{0xf6},
		},
		{
			name: "seq",
			v:    Seq{Str("x")},
			want: []byte{0x81, 0x61, 'x'},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCBOR(tt.v)
			if err != nil {
				t.Fatalf("MarshalCBOR: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("MarshalCBOR = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestWriteCBORHead(t *testing.T) {
	tests := []struct {
		n    uint64
		want []byte
	}{
		{0, []byte{0xa0}},
		{23, []byte{0xb7}},
		{24, []byte{0xb8, 24}},
		{256, []byte{0xb9, 0x01, 0x00}},
		{1 << 16, []byte{0xba, 0, 1, 0, 0}},
		{1 << 32, []byte{0xbb, 0, 0, 0, 1, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		writeCBORHead(&buf, 5, tt.n)
		if !bytes.Equal(buf.Bytes(), tt.want) {
			t.Errorf("head(%d) = %x, want %x", tt.n, buf.Bytes(), tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"uint numeric", NewUInt(5), UInt{V: big.NewInt(5)}, true},
		{"uint vs int", NewUInt(5), NewInt(5), false},
		{"nil uint is zero", UInt{}, NewUInt(0), true},
		{"literal numeric", Literal("007"), Literal("7"), true},
		{"bytes", Bytes{1, 2}, Bytes{1, 2}, true},
		{"bytes nil vs empty", Bytes(nil), Bytes{}, true},
		{"seq order", Seq{NewUInt(1), NewUInt(2)}, Seq{NewUInt(2), NewUInt(1)}, false},
		{"map order", NewMap(Named("a", Unit{}), Named("b", Unit{})), NewMap(Named("b", Unit{}), Named("a", Unit{})), false},
		{"variant", NewVariant("A", Bool(true)), NewVariant("A", Bool(true)), true},
		{"variant name", NewVariant("A"), NewVariant("B"), false},
		{"positional vs named", NewVariant("A", Bool(true)), NamedVariant("A", Named("0", Bool(true))), false},
		{"none", None(), None(), true},
		{"some differs", Some(NewUInt(1)), Some(NewUInt(2)), false},
		{"nil and unit", nil, Unit{}, true},
		{"nil and bool", nil, Bool(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	m := NewMap(Named("a", NewUInt(1)))
	if v, ok := m.Get("a"); !ok || !Equal(v, NewUInt(1)) {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := m.Get("b"); ok {
		t.Error("Get(b) should miss")
	}
	v := NamedVariant("E", Named("x", Bool(true)))
	if got, ok := v.Get("x"); !ok || got != Bool(true) {
		t.Errorf("Variant.Get = %v, %v", got, ok)
	}
	if At(2, Unit{}).Key() != "2" || Named("n", Unit{}).Key() != "n" {
		t.Error("Key mismatch")
	}
	if Literal("-1").Negative() != true || Literal("1").Negative() {
		t.Error("Negative mismatch")
	}
	if KindLiteral.String() != "integer literal" || Kind(200).String() != "unknown" {
		t.Error("Kind.String mismatch")
	}
}
