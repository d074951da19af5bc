package value

import (
	"math/big"
	"strconv"
	"strings"
)

// Value is a dynamically typed value. The set of implementations is closed.
type Value interface {
	isValue()
	Kind() Kind
}

// Kind identifies a Value implementation.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindUInt
	KindInt
	KindStr
	KindBytes
	KindChar
	KindSeq
	KindTuple
	KindMap
	KindVariant
	KindOption
	KindLiteral
)

var kindNames = [...]string{
	KindUnit:    "unit",
	KindBool:    "bool",
	KindUInt:    "unsigned integer",
	KindInt:     "signed integer",
	KindStr:     "string",
	KindBytes:   "bytes",
	KindChar:    "char",
	KindSeq:     "sequence",
	KindTuple:   "tuple",
	KindMap:     "map",
	KindVariant: "variant",
	KindOption:  "option",
	KindLiteral: "integer literal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Unit is the empty value, written ().
type Unit struct{}

func (Unit) isValue()   {}
func (Unit) Kind() Kind { return KindUnit }

type Bool bool

func (Bool) isValue()   {}
func (Bool) Kind() Kind { return KindBool }

// UInt is a non-negative integer of arbitrary width.
type UInt struct {
	V *big.Int
}

func (UInt) isValue()   {}
func (UInt) Kind() Kind { return KindUInt }

// Int is a signed integer of arbitrary width.
type Int struct {
	V *big.Int
}

func (Int) isValue()   {}
func (Int) Kind() Kind { return KindInt }

type Str string

func (Str) isValue()   {}
func (Str) Kind() Kind { return KindStr }

type Bytes []byte

func (Bytes) isValue()   {}
func (Bytes) Kind() Kind { return KindBytes }

type Char rune

func (Char) isValue()   {}
func (Char) Kind() Kind { return KindChar }

type Seq []Value

func (Seq) isValue()   {}
func (Seq) Kind() Kind { return KindSeq }

type Tuple []Value

func (Tuple) isValue()   {}
func (Tuple) Kind() Kind { return KindTuple }

// Field is a keyed entry of a Map or Variant. Positional fields are keyed by
// Index; named fields by Name.
type Field struct {
	Value      Value
	Name       string
	Index      int
	Positional bool
}

// Key returns the field's name, or its index in decimal for positional fields.
func (f Field) Key() string {
	if f.Positional {
		return strconv.Itoa(f.Index)
	}
	return f.Name
}

// Map is an ordered collection of fields.
type Map struct {
	Fields []Field
}

func (Map) isValue()   {}
func (Map) Kind() Kind { return KindMap }

// Get returns the value of the named field.
func (m Map) Get(name string) (Value, bool) {
	return lookup(m.Fields, name)
}

// Variant is a named case with optional fields. Fields are either all
// positional (Name(a, b)) or all named (Name { a: 1 }).
type Variant struct {
	Name   string
	Fields []Field
}

func (Variant) isValue()   {}
func (Variant) Kind() Kind { return KindVariant }

// Get returns the value of the named field.
func (v Variant) Get(name string) (Value, bool) {
	return lookup(v.Fields, name)
}

// Option is an optional value. Inner is nil when Some is false.
type Option struct {
	Inner Value
	Some  bool
}

func (Option) isValue()   {}
func (Option) Kind() Kind { return KindOption }

// Literal is an integer written without a width suffix. Its width and
// signedness are only known once it meets a target type. The text is a
// decimal integer with an optional leading '-', separators removed.
type Literal string

func (Literal) isValue()   {}
func (Literal) Kind() Kind { return KindLiteral }

// BigInt returns the literal's numeric value.
func (l Literal) BigInt() (*big.Int, bool) {
	return new(big.Int).SetString(string(l), 10)
}

// Negative reports whether the literal carries a minus sign.
func (l Literal) Negative() bool {
	return strings.HasPrefix(string(l), "-")
}

func NewUInt(n uint64) UInt {
	return UInt{V: new(big.Int).SetUint64(n)}
}

func NewInt(n int64) Int {
	return Int{V: big.NewInt(n)}
}

// NewBigUInt wraps n, which must be non-negative.
func NewBigUInt(n *big.Int) UInt {
	return UInt{V: new(big.Int).Set(n)}
}

func NewBigInt(n *big.Int) Int {
	return Int{V: new(big.Int).Set(n)}
}

// Named builds a named field.
func Named(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// At builds a positional field.
func At(i int, v Value) Field {
	return Field{Index: i, Positional: true, Value: v}
}

// NewMap builds a map from named fields in order.
func NewMap(fields ...Field) Map {
	return Map{Fields: fields}
}

// NewVariant builds a variant; plain values become positional fields.
func NewVariant(name string, values ...Value) Variant {
	return Variant{Name: name, Fields: Positional(values...)}
}

// NamedVariant builds a variant with named fields.
func NamedVariant(name string, fields ...Field) Variant {
	return Variant{Name: name, Fields: fields}
}

// Positional keys values by their position.
func Positional(values ...Value) []Field {
	if len(values) == 0 {
		return nil
	}
	fields := make([]Field, len(values))
	for i, v := range values {
		fields[i] = At(i, v)
	}
	return fields
}

func Some(v Value) Option {
	return Option{Some: true, Inner: v}
}

func None() Option {
	return Option{}
}

// AllPositional reports whether every field is positional. An empty list is
// positional.
func AllPositional(fields []Field) bool {
	for _, f := range fields {
		if !f.Positional {
			return false
		}
	}
	return true
}

// AllNamed reports whether every field is named. An empty list is named.
func AllNamed(fields []Field) bool {
	for _, f := range fields {
		if f.Positional {
			return false
		}
	}
	return true
}

func lookup(fields []Field, name string) (Value, bool) {
	for _, f := range fields {
		if !f.Positional && f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}
