package transcoder

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/registry"
)

// fixture is a registry covering every type kind.
type fixture struct {
	reg *registry.Registry

	u8, u16, u32, u128, i8, i32 registry.TypeID
	boolean, char, str          registry.TypeID

	compact, compactU8, compactBalance registry.TypeID

	bytes, vecU32, arr4, pair, unitTuple registry.TypeID
	point, labeled, account, empty       registry.TypeID
	action, option, result               registry.TypeID
	lsb, msb, node                       registry.TypeID
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	b := registry.NewBuilder()
	f := &fixture{}

	f.u8 = b.Primitive(registry.U8)
	f.u16 = b.Primitive(registry.U16)
	f.u32 = b.Primitive(registry.U32)
	f.u128 = b.Primitive(registry.U128)
	f.i8 = b.Primitive(registry.I8)
	f.i32 = b.Primitive(registry.I32)
	f.boolean = b.Primitive(registry.Bool)
	f.char = b.Primitive(registry.Char)
	f.str = b.Primitive(registry.Str)

	f.compact = b.Compact(f.u128)
	f.compactU8 = b.Compact(f.u8)
	balance := b.Composite([]string{"Balance"}, registry.Field{Type: f.u128})
	f.compactBalance = b.Compact(balance)

	f.bytes = b.Sequence(f.u8)
	f.vecU32 = b.Sequence(f.u32)
	f.arr4 = b.Array(f.u8, 4)
	f.pair = b.Tuple(f.u8, f.boolean)
	f.unitTuple = b.Tuple()

	f.point = b.Composite([]string{"geo", "Point"},
		registry.Field{Name: "x", Type: f.i32},
		registry.Field{Name: "y", Type: f.i32},
	)
	f.labeled = b.Composite([]string{"Labeled"}, registry.Field{Name: "name", Type: f.u8})
	f.account = b.Composite([]string{"AccountId"}, registry.Field{Type: b.Array(f.u8, 32)})
	f.empty = b.Composite([]string{"Empty"})

	f.action = b.Variant([]string{"Action"},
		registry.Variant{Name: "Flip", Index: 0},
		registry.Variant{Name: "Transfer", Index: 1, Fields: []registry.Field{
			{Name: "to", Type: f.u8},
			{Name: "amount", Type: f.u128},
		}},
		registry.Variant{Name: "Set", Index: 5, Fields: []registry.Field{{Type: f.u32}}},
	)
	f.option = b.Option(f.u32)
	f.result = b.Result(f.u8, f.boolean)

	f.lsb = b.BitSequence(f.u8, registry.Lsb0)
	f.msb = b.BitSequence(f.u8, registry.Msb0)

	f.node = b.Reserve()
	next := b.Option(f.node)
	b.Set(f.node, registry.Type{
		Kind: registry.DefComposite,
		Path: []string{"Node"},
		Fields: []registry.Field{
			{Name: "value", Type: f.u8},
			{Name: "next", Type: next},
		},
	})

	reg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f.reg = reg
	return f
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func zeros(n int) string {
	return strings.Repeat("00", n)
}

func wantError(t *testing.T, err error, kind errors.Kind, path string) *errors.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	e, ok := errors.As(err)
	if !ok {
		t.Fatalf("error %v is not *errors.Error", err)
	}
	if e.Kind != kind {
		t.Fatalf("kind = %s, want %s (%v)", e.Kind, kind, err)
	}
	if got := errors.FormatPath(e.Path); got != path {
		t.Fatalf("path = %q, want %q (%v)", got, path, err)
	}
	return e
}

func TestMinSize(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		id   registry.TypeID
		want int
	}{
		{"u8", f.u8, 1},
		{"u128", f.u128, 16},
		{"char", f.char, 4},
		{"str", f.str, 1},
		{"compact", f.compact, 1},
		{"vec", f.vecU32, 1},
		{"array", f.arr4, 4},
		{"point", f.point, 8},
		{"account", f.account, 32},
		{"empty", f.empty, 0},
		{"unit tuple", f.unitTuple, 0},
		{"variant", f.action, 1},
		{"recursive", f.node, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := minSize(f.reg, tt.id, map[registry.TypeID]bool{}); got != tt.want {
				t.Errorf("minSize = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIntegerPrimitive(t *testing.T) {
	f := newFixture(t)

	if p, ok := integerPrimitive(f.reg, f.u128); !ok || p != registry.U128 {
		t.Errorf("u128 = %v, %v", p, ok)
	}
	balance, _ := f.reg.FindByPath("Balance")
	if p, ok := integerPrimitive(f.reg, balance.ID); !ok || p != registry.U128 {
		t.Errorf("Balance = %v, %v", p, ok)
	}
	if _, ok := integerPrimitive(f.reg, f.point); ok {
		t.Error("Point should not resolve to an integer")
	}
	if _, ok := integerPrimitive(f.reg, f.str); ok {
		t.Error("str should not resolve to an integer")
	}
}

func TestChild(t *testing.T) {
	base := make([]string, 1, 4)
	base[0] = "a"
	b := child(base, "b")
	c := child(base, "c")
	if b[1] != "b" || c[1] != "c" {
		t.Errorf("child aliased: %v %v", b, c)
	}
}

func TestOptions(t *testing.T) {
	c := newConfig([]Option{WithMaxDepth(4), WithMaxSuggestions(1), WithMaxDepth(0)})
	if c.maxDepth != 4 || c.maxSuggestions != 1 {
		t.Errorf("config = %+v", c)
	}
	if d := newConfig(nil); d.maxDepth != DefaultMaxDepth {
		t.Errorf("default depth = %d", d.maxDepth)
	}
}
