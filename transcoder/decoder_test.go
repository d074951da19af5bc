package transcoder

import (
	"bytes"
	"testing"

	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/value"
)

func TestDecode(t *testing.T) {
	f := newFixture(t)
	dec := NewDecoder(f.reg)

	tests := []struct {
		name string
		data string
		id   registry.TypeID
		want value.Value
	}{
		{"u8", "ff", f.u8, value.NewUInt(255)},
		{"i8", "ff", f.i8, value.NewInt(-1)},
		{"i32", "feffffff", f.i32, value.NewInt(-2)},
		{"bool", "00", f.boolean, value.Bool(false)},
		{"char", "61000000", f.char, value.Char('a')},
		{"str", "0c616263", f.str, value.Str("abc")},
		{"compact", "0101", f.compact, value.NewUInt(64)},
		{"compact newtype is plain", "0101", f.compactBalance, value.NewUInt(64)},
		{"vec u8 as bytes", "080102", f.bytes, value.Bytes{1, 2}},
		{"array u8 as bytes", "01020304", f.arr4, value.Bytes{1, 2, 3, 4}},
		{"vec u32", "080100000002000000", f.vecU32, value.Seq{value.NewUInt(1), value.NewUInt(2)}},
		{"tuple", "0101", f.pair, value.Tuple{value.NewUInt(1), value.Bool(true)}},
		{"unit tuple", "", f.unitTuple, value.Unit{}},
		{"named struct", "01000000ffffffff", f.point, value.NewMap(value.Named("x", value.NewInt(1)), value.Named("y", value.NewInt(-1)))},
		{"positional struct", "aa" + zeros(31), f.account, value.Tuple{value.Bytes(append([]byte{0xaa}, make([]byte, 31)...))}},
		{"empty struct", "", f.empty, value.Unit{}},
		{"unit variant", "00", f.action, value.NewVariant("Flip")},
		{"struct variant", "0107" + "02" + zeros(15), f.action, value.NamedVariant("Transfer", value.Named("to", value.NewUInt(7)), value.Named("amount", value.NewUInt(2)))},
		{"tuple variant", "0507000000", f.action, value.NewVariant("Set", value.NewUInt(7))},
		{"none", "00", f.option, value.None()},
		{"some", "0101000000", f.option, value.Some(value.NewUInt(1))},
		{"result", "0001", f.result, value.NewVariant("Ok", value.NewUInt(1))},
		{"bits", "0c05", f.lsb, value.Seq{value.Bool(true), value.Bool(false), value.Bool(true)}},
		{"bits msb0", "0ca0", f.msb, value.Seq{value.Bool(true), value.Bool(false), value.Bool(true)}},
		{"recursive", "01010200", f.node, value.NewMap(
			value.Named("value", value.NewUInt(1)),
			value.Named("next", value.Some(value.NewMap(
				value.Named("value", value.NewUInt(2)),
				value.Named("next", value.None()),
			))),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dec.DecodeExact(mustHex(tt.data), tt.id)
			if err != nil {
				t.Fatalf("DecodeExact: %v", err)
			}
			if !value.Equal(got, tt.want) {
				t.Errorf("DecodeExact = %s, want %s", value.Format(got), value.Format(tt.want))
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	f := newFixture(t)
	dec := NewDecoder(f.reg)

	tests := []struct {
		name string
		data string
		id   registry.TypeID
		kind errors.Kind
		path string
		pos  int
	}{
		{"invalid bool", "02", f.boolean, errors.KindInvalidData, "", 0},
		{"surrogate char", "00d80000", f.char, errors.KindInvalidData, "", 0},
		{"char out of range", "00001100", f.char, errors.KindInvalidData, "", 0},
		{"invalid utf8", "08fffe", f.str, errors.KindInvalidData, "", 0},
		{"empty input", "", f.u8, errors.KindUnexpectedEnd, "", 0},
		{"short vec", "040102", f.vecU32, errors.KindUnexpectedEnd, "", 1},
		{"short field", "01000000ffff", f.point, errors.KindUnexpectedEnd, "y", 4},
		{"oversized vec prefix", "a10f00000000", f.vecU32, errors.KindUnexpectedEnd, "", 2},
		{"oversized bytes prefix", "a10f0000", f.bytes, errors.KindUnexpectedEnd, "", 2},
		{"bad discriminant", "09", f.action, errors.KindInvalidData, "", 0},
		{"bad option discriminant", "02", f.option, errors.KindInvalidData, "", 0},
		{"non-canonical compact", "0100", f.compact, errors.KindInvalidData, "", 0},
		{"compact overflow", "0104", f.compactU8, errors.KindNumericOverflow, "", 0},
		{"variant field", "0107", f.action, errors.KindUnexpectedEnd, "Transfer.amount", 2},
		{"nested", "010101", f.node, errors.KindUnexpectedEnd, "next.Some.next", 3},
		{"short bits", "2405", f.lsb, errors.KindUnexpectedEnd, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, err := dec.Decode(mustHex(tt.data), tt.id)
			if v != nil {
				t.Errorf("partial value %s returned with error", value.Format(v))
			}
			e := wantError(t, err, tt.kind, tt.path)
			if e.Phase != errors.PhaseDecode {
				t.Errorf("phase = %s", e.Phase)
			}
			if e.Position != tt.pos {
				t.Errorf("position = %d, want %d", e.Position, tt.pos)
			}
		})
	}
}

func TestDecode_OversizedPrefixNeed(t *testing.T) {
	f := newFixture(t)
	_, _, err := NewDecoder(f.reg).Decode(mustHex("a10f00000000"), f.vecU32)
	e := wantError(t, err, errors.KindUnexpectedEnd, "")
	if e.Want != 4000 || e.Got != 4 {
		t.Errorf("want/got = %d/%d, want 4000/4", e.Want, e.Got)
	}
}

func TestDecode_Result(t *testing.T) {
	f := newFixture(t)
	dec := NewDecoder(f.reg)

	v, res, err := dec.Decode([]byte{0x01, 0x02, 0x03}, f.u8)
	if err != nil {
		t.Fatal(err)
	}
	if !value.Equal(v, value.NewUInt(1)) {
		t.Errorf("value = %s", value.Format(v))
	}
	if res != (Result{Consumed: 1, Trailing: 2}) {
		t.Errorf("Result = %+v", res)
	}

	_, err = dec.DecodeExact([]byte{0x01, 0x02, 0x03}, f.u8)
	e := wantError(t, err, errors.KindTrailingBytes, "")
	if e.Position != 1 {
		t.Errorf("position = %d, want 1", e.Position)
	}
}

func TestDecodeFrom_Sequential(t *testing.T) {
	f := newFixture(t)
	dec := NewDecoder(f.reg)
	r := NewReader(mustHex("0c616263" + "01" + "07"))

	want := []struct {
		id registry.TypeID
		v  value.Value
	}{
		{f.str, value.Str("abc")},
		{f.boolean, value.Bool(true)},
		{f.u8, value.NewUInt(7)},
	}
	for i, w := range want {
		got, err := dec.DecodeFrom(r, w.id)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if !value.Equal(got, w.v) {
			t.Errorf("value %d = %s, want %s", i, value.Format(got), value.Format(w.v))
		}
	}
	if r.Remaining() != 0 {
		t.Errorf("remaining = %d", r.Remaining())
	}
}

func TestDecode_BytesAreCopied(t *testing.T) {
	f := newFixture(t)
	data := mustHex("080102")
	v, err := NewDecoder(f.reg).DecodeExact(data, f.bytes)
	if err != nil {
		t.Fatal(err)
	}
	data[1] = 0xff
	if !bytes.Equal(v.(value.Bytes), []byte{1, 2}) {
		t.Errorf("decoded bytes alias input: %x", v)
	}
}

func TestDecode_DepthLimit(t *testing.T) {
	f := newFixture(t)
	if _, err := NewDecoder(f.reg).DecodeExact(mustHex("01010200"), f.node); err != nil {
		t.Fatalf("default depth: %v", err)
	}
	_, err := NewDecoder(f.reg, WithMaxDepth(2)).DecodeExact(mustHex("01010200"), f.node)
	if errors.KindOf(err) != errors.KindInvalidData {
		t.Errorf("shallow depth error = %v", err)
	}
}

func TestDecode_UnknownTypeID(t *testing.T) {
	f := newFixture(t)
	_, _, err := NewDecoder(f.reg).Decode([]byte{0}, 12345)
	e := wantError(t, err, errors.KindUnknownTypeID, "")
	if e.Phase != errors.PhaseDecode {
		t.Errorf("phase = %s", e.Phase)
	}
}
