package registry

import (
	"math/big"
	"strings"
)

// TypeID is the opaque key of a type in a Registry.
type TypeID uint32

// DefKind is the shape discriminator of a Type.
type DefKind uint8

const (
	DefPrimitive DefKind = iota
	DefCompact
	DefComposite
	DefVariant
	DefTuple
	DefArray
	DefSequence
	DefBitSequence
)

var defKindNames = [...]string{
	DefPrimitive:   "primitive",
	DefCompact:     "compact",
	DefComposite:   "composite",
	DefVariant:     "variant",
	DefTuple:       "tuple",
	DefArray:       "array",
	DefSequence:    "sequence",
	DefBitSequence: "bitsequence",
}

func (k DefKind) String() string {
	if int(k) < len(defKindNames) {
		return defKindNames[k]
	}
	return "unknown"
}

// Primitive enumerates the scalar kinds.
type Primitive uint8

const (
	Bool Primitive = iota
	Char
	Str
	U8
	U16
	U32
	U64
	U128
	U256
	I8
	I16
	I32
	I64
	I128
	I256
)

var primitiveNames = [...]string{
	Bool: "bool",
	Char: "char",
	Str:  "str",
	U8:   "u8",
	U16:  "u16",
	U32:  "u32",
	U64:  "u64",
	U128: "u128",
	U256: "u256",
	I8:   "i8",
	I16:  "i16",
	I32:  "i32",
	I64:  "i64",
	I128: "i128",
	I256: "i256",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "unknown"
}

// ParsePrimitive maps a primitive name ("u128", "str", ...) to its kind.
func ParsePrimitive(name string) (Primitive, bool) {
	for i, n := range primitiveNames {
		if n == name {
			return Primitive(i), true
		}
	}
	return 0, false
}

// IsInteger reports whether p is one of u8..u256 or i8..i256.
func (p Primitive) IsInteger() bool {
	return p >= U8 && p <= I256
}

// Signed reports whether p is a signed integer.
func (p Primitive) Signed() bool {
	return p >= I8 && p <= I256
}

// Bits returns the integer width, or 0 for non-integers.
func (p Primitive) Bits() int {
	switch p {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32:
		return 32
	case U64, I64:
		return 64
	case U128, I128:
		return 128
	case U256, I256:
		return 256
	}
	return 0
}

// Size returns the fixed wire width in bytes, or 0 for str.
func (p Primitive) Size() int {
	switch p {
	case Bool:
		return 1
	case Char:
		return 4
	case Str:
		return 0
	}
	return p.Bits() / 8
}

// Bounds returns the inclusive range of an integer primitive.
func (p Primitive) Bounds() (lo, hi *big.Int) {
	bits := uint(p.Bits())
	one := big.NewInt(1)
	if p.Signed() {
		hi = new(big.Int).Sub(new(big.Int).Lsh(one, bits-1), one)
		lo = new(big.Int).Neg(new(big.Int).Lsh(one, bits-1))
		return lo, hi
	}
	return new(big.Int), new(big.Int).Sub(new(big.Int).Lsh(one, bits), one)
}

// Fits reports whether n lies within the integer primitive's range.
func (p Primitive) Fits(n *big.Int) bool {
	if !p.IsInteger() {
		return false
	}
	lo, hi := p.Bounds()
	return n.Cmp(lo) >= 0 && n.Cmp(hi) <= 0
}

// BitOrder is the bit numbering within a BitSequence store word.
type BitOrder uint8

const (
	Lsb0 BitOrder = iota
	Msb0
)

func (o BitOrder) String() string {
	if o == Msb0 {
		return "Msb0"
	}
	return "Lsb0"
}

// Field is a composite or variant field. An empty Name marks a positional field.
type Field struct {
	Name     string
	TypeName string
	Type     TypeID
}

// Variant is one case of a Variant type. Index is the explicit wire discriminant.
type Variant struct {
	Name   string
	Fields []Field
	Docs   []string
	Index  uint8
}

// Param is a generic type parameter; Type is meaningful only when Bound is set.
type Param struct {
	Name  string
	Type  TypeID
	Bound bool
}

// Type is a node in the type graph. Which fields are meaningful depends on Kind:
//
//	DefPrimitive    Primitive
//	DefCompact      Elem (inner integer type)
//	DefComposite    Fields
//	DefVariant      Variants
//	DefTuple        Elems
//	DefArray        Elem, Len
//	DefSequence     Elem
//	DefBitSequence  BitStore, BitOrder
type Type struct {
	Path      []string
	Params    []Param
	Fields    []Field
	Variants  []Variant
	Elems     []TypeID
	Docs      []string
	ID        TypeID
	Elem      TypeID
	BitStore  TypeID
	Len       uint32
	Kind      DefKind
	Primitive Primitive
	BitOrder  BitOrder
}

// Ident returns the last path segment, or "" for anonymous types.
func (t *Type) Ident() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

// QualifiedPath returns the path joined with "::".
func (t *Type) QualifiedPath() string {
	return strings.Join(t.Path, "::")
}

// IsNamedComposite reports whether every field of a composite carries a name.
func (t *Type) IsNamedComposite() bool {
	if t.Kind != DefComposite || len(t.Fields) == 0 {
		return false
	}
	return FieldsNamed(t.Fields)
}

// FieldsNamed reports whether a non-empty field list is name-addressed.
func FieldsNamed(fields []Field) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if f.Name == "" {
			return false
		}
	}
	return true
}

// FieldNames returns declared field names in order; positional fields are skipped.
func FieldNames(fields []Field) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return names
}

// VariantByName returns the variant with the exact name.
func (t *Type) VariantByName(name string) (*Variant, bool) {
	for i := range t.Variants {
		if t.Variants[i].Name == name {
			return &t.Variants[i], true
		}
	}
	return nil, false
}

// VariantByIndex returns the variant with the given discriminant.
func (t *Type) VariantByIndex(idx uint8) (*Variant, bool) {
	for i := range t.Variants {
		if t.Variants[i].Index == idx {
			return &t.Variants[i], true
		}
	}
	return nil, false
}

// VariantNames returns variant names in declaration order.
func (t *Type) VariantNames() []string {
	names := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		names[i] = v.Name
	}
	return names
}

// OptionInner reports whether t has the Option shape (None with no fields,
// Some with exactly one field) and returns the Some payload type.
func (t *Type) OptionInner() (TypeID, bool) {
	if t.Kind != DefVariant || len(t.Variants) != 2 {
		return 0, false
	}
	var some *Variant
	var hasNone bool
	for i := range t.Variants {
		v := &t.Variants[i]
		switch {
		case v.Name == "None" && len(v.Fields) == 0:
			hasNone = true
		case v.Name == "Some" && len(v.Fields) == 1:
			some = v
		}
	}
	if !hasNone || some == nil {
		return 0, false
	}
	return some.Fields[0].Type, true
}
