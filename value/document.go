package value

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

// Member is one key/value pair of an Object.
type Member struct {
	Value any
	Key   string
}

// Object is a JSON-style object that keeps its member order when marshalled.
type Object []Member

// Get returns the value of the first member with the key.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes members in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var cborMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// MarshalCBOR writes a definite-length map with members in order. Canonical
// key sorting would lose field order, so the header is written here.
func (o Object) MarshalCBOR() ([]byte, error) {
	var buf bytes.Buffer
	writeCBORHead(&buf, 5, uint64(len(o)))
	for _, m := range o {
		key, err := cborMode.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		val, err := cborMode.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	return buf.Bytes(), nil
}

func writeCBORHead(buf *bytes.Buffer, major byte, n uint64) {
	m := major << 5
	switch {
	case n < 24:
		buf.WriteByte(m | byte(n))
	case n <= 0xff:
		buf.WriteByte(m | 24)
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(m | 25)
		buf.Write(binary.BigEndian.AppendUint16(nil, uint16(n)))
	case n <= 0xffffffff:
		buf.WriteByte(m | 26)
		buf.Write(binary.BigEndian.AppendUint32(nil, uint32(n)))
	default:
		buf.WriteByte(m | 27)
		buf.Write(binary.BigEndian.AppendUint64(nil, n))
	}
}

// ToDocument converts v to a JSON-shaped document built from nil, bool,
// *big.Int, string, []any and Object. Bytes become 0x-prefixed hex strings.
//
// Variants without fields become their name. Other variants become a
// single-member object keyed by the variant name whose value is the lone
// positional field, a list of positional fields, or an object of named fields.
func ToDocument(v Value) any {
	return document(v, false)
}

// MarshalJSON renders v as JSON with field order preserved.
func MarshalJSON(v Value) ([]byte, error) {
	return json.Marshal(ToDocument(v))
}

// MarshalIndentJSON is MarshalJSON with indentation.
func MarshalIndentJSON(v Value, indent string) ([]byte, error) {
	return json.MarshalIndent(ToDocument(v), "", indent)
}

// MarshalCBOR renders v as CBOR. Maps keep their field order, bytes are byte
// strings and integers outside 64 bits are bignums.
func MarshalCBOR(v Value) ([]byte, error) {
	return cborMode.Marshal(document(v, true))
}

func document(v Value, binaryBytes bool) any {
	switch v := v.(type) {
	case nil, Unit:
		return nil
	case Bool:
		return bool(v)
	case UInt:
		return bigOrZero(v.V)
	case Int:
		return bigOrZero(v.V)
	case Literal:
		if n, ok := v.BigInt(); ok {
			return n
		}
		return string(v)
	case Str:
		return string(v)
	case Char:
		return string(rune(v))
	case Bytes:
		if binaryBytes {
			return []byte(v)
		}
		return "0x" + hex.EncodeToString(v)
	case Seq:
		return documentList([]Value(v), binaryBytes)
	case Tuple:
		return documentList([]Value(v), binaryBytes)
	case Map:
		return documentFields(v.Fields, binaryBytes)
	case Variant:
		switch {
		case len(v.Fields) == 0:
			return v.Name
		case len(v.Fields) == 1 && v.Fields[0].Positional:
			return Object{{Key: v.Name, Value: document(v.Fields[0].Value, binaryBytes)}}
		case AllPositional(v.Fields):
			values := make([]any, len(v.Fields))
			for i, f := range v.Fields {
				values[i] = document(f.Value, binaryBytes)
			}
			return Object{{Key: v.Name, Value: values}}
		default:
			return Object{{Key: v.Name, Value: documentFields(v.Fields, binaryBytes)}}
		}
	case Option:
		if !v.Some {
			return nil
		}
		return document(v.Inner, binaryBytes)
	}
	return nil
}

func documentList(values []Value, binaryBytes bool) []any {
	out := make([]any, len(values))
	for i, e := range values {
		out[i] = document(e, binaryBytes)
	}
	return out
}

func documentFields(fields []Field, binaryBytes bool) Object {
	out := make(Object, len(fields))
	for i, f := range fields {
		key := f.Name
		if f.Positional {
			key = strconv.Itoa(f.Index)
		}
		out[i] = Member{Key: key, Value: document(f.Value, binaryBytes)}
	}
	return out
}

func bigOrZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}
