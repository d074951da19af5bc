package value

import (
	"bytes"
	"math/big"
)

// Equal reports structural equality. Integers compare numerically within
// the same kind; field keys and order must match.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return isUnit(a) && isUnit(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch a := a.(type) {
	case Unit:
		return true
	case Bool:
		return a == b.(Bool)
	case UInt:
		return cmpBig(a.V, b.(UInt).V)
	case Int:
		return cmpBig(a.V, b.(Int).V)
	case Literal:
		x, okx := a.BigInt()
		y, oky := b.(Literal).BigInt()
		if !okx || !oky {
			return a == b.(Literal)
		}
		return x.Cmp(y) == 0
	case Str:
		return a == b.(Str)
	case Char:
		return a == b.(Char)
	case Bytes:
		return bytes.Equal(a, b.(Bytes))
	case Seq:
		return equalList(a, b.(Seq))
	case Tuple:
		return equalList(a, b.(Tuple))
	case Map:
		return equalFields(a.Fields, b.(Map).Fields)
	case Variant:
		bv := b.(Variant)
		return a.Name == bv.Name && equalFields(a.Fields, bv.Fields)
	case Option:
		bo := b.(Option)
		if a.Some != bo.Some {
			return false
		}
		return !a.Some || Equal(a.Inner, bo.Inner)
	}
	return false
}

func isUnit(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Unit)
	return ok
}

func cmpBig(x, y *big.Int) bool {
	if x == nil {
		x = new(big.Int)
	}
	if y == nil {
		y = new(big.Int)
	}
	return x.Cmp(y) == 0
}

func equalList(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalFields(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Positional != b[i].Positional || a[i].Key() != b[i].Key() {
			return false
		}
		if !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}
