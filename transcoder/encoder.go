package transcoder

import (
	"math/big"
	"unicode/utf8"

	cargocontract "github.com/baron-chain/bc-cargo-contract"
	"github.com/baron-chain/bc-cargo-contract/diagnostics"
	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/transcoder/internal/scale"
	"github.com/baron-chain/bc-cargo-contract/value"
)

// Encoder writes values as SCALE bytes against registry types. It holds no
// per-call state and is safe for concurrent use.
type Encoder struct {
	reg cargocontract.TypeRegistry
	cfg config
}

func NewEncoder(reg cargocontract.TypeRegistry, opts ...Option) *Encoder {
	return &Encoder{reg: reg, cfg: newConfig(opts)}
}

// Encode returns the encoding of v as type id.
func (e *Encoder) Encode(v value.Value, id registry.TypeID) ([]byte, error) {
	buf := getBuf()
	defer putBuf(buf)

	w := scale.NewWriter(*buf)
	err := e.encode(w, v, id, nil, 0)
	*buf = w.Bytes()
	if err != nil {
		return nil, err
	}

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// EncodeTo appends the encoding of v to buf. On error buf is returned
// unchanged.
func (e *Encoder) EncodeTo(buf []byte, v value.Value, id registry.TypeID) ([]byte, error) {
	w := scale.NewWriter(buf)
	if err := e.encode(w, v, id, nil, 0); err != nil {
		return buf, err
	}
	return w.Bytes(), nil
}

func (e *Encoder) encode(w *scale.Writer, v value.Value, id registry.TypeID, path []string, depth int) error {
	if depth > e.cfg.maxDepth {
		return depthExceeded(errors.PhaseEncode, path, e.cfg.maxDepth)
	}
	t, err := resolve(e.reg, errors.PhaseEncode, id, path)
	if err != nil {
		return err
	}
	if v == nil {
		v = value.Unit{}
	}

	switch t.Kind {
	case registry.DefPrimitive:
		return e.encodePrimitive(w, v, t, path)
	case registry.DefCompact:
		return e.encodeCompact(w, v, t, path)
	case registry.DefComposite:
		return e.encodeComposite(w, v, t, path, depth)
	case registry.DefVariant:
		return e.encodeVariant(w, v, t, path, depth)
	case registry.DefTuple:
		return e.encodeTuple(w, v, t, path, depth)
	case registry.DefArray:
		return e.encodeArray(w, v, t, path, depth)
	case registry.DefSequence:
		return e.encodeSequence(w, v, t, path, depth)
	case registry.DefBitSequence:
		return e.encodeBitSequence(w, v, t, path)
	}
	return errors.New(errors.PhaseEncode, errors.KindUnsupported).
		Path(path...).
		Detail("unsupported type kind %s", t.Kind).
		Build()
}

func (e *Encoder) mismatch(path []string, v value.Value, id registry.TypeID) error {
	return errors.TypeMismatch(errors.PhaseEncode, path, v.Kind().String(), e.reg.TypeName(id))
}

func (e *Encoder) encodePrimitive(w *scale.Writer, v value.Value, t *registry.Type, path []string) error {
	switch t.Primitive {
	case registry.Bool:
		b, ok := v.(value.Bool)
		if !ok {
			return e.mismatch(path, v, t.ID)
		}
		if b {
			w.Byte(1)
		} else {
			w.Byte(0)
		}
		return nil

	case registry.Char:
		var r rune
		switch c := v.(type) {
		case value.Char:
			r = rune(c)
		case value.Str:
			if utf8.RuneCountInString(string(c)) != 1 {
				return e.mismatch(path, v, t.ID)
			}
			r, _ = utf8.DecodeRuneInString(string(c))
		default:
			return e.mismatch(path, v, t.ID)
		}
		if !utf8.ValidRune(r) {
			return errors.InvalidData(errors.PhaseEncode, path, "char is not a Unicode scalar value")
		}
		w.WriteU32(uint32(r))
		return nil

	case registry.Str:
		s, ok := v.(value.Str)
		if !ok {
			return e.mismatch(path, v, t.ID)
		}
		w.WriteCompactUint(uint64(len(s)))
		w.WriteBytes([]byte(s))
		return nil
	}

	n, err := e.integer(v, t.Primitive, t.ID, path)
	if err != nil {
		return err
	}
	if t.Primitive.Signed() {
		w.WriteInt(n, t.Primitive.Size())
	} else {
		w.WriteUint(n, t.Primitive.Size())
	}
	return nil
}

// integer extracts a range-checked integer for prim from an integer value.
func (e *Encoder) integer(v value.Value, prim registry.Primitive, id registry.TypeID, path []string) (*big.Int, error) {
	var n *big.Int
	switch x := v.(type) {
	case value.UInt:
		n = x.V
	case value.Int:
		n = x.V
	case value.Literal:
		var ok bool
		if n, ok = x.BigInt(); !ok {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(path...).
				Value(string(x)).
				Detail("malformed integer literal %q", string(x)).
				Build()
		}
	default:
		return nil, e.mismatch(path, v, id)
	}
	if n == nil {
		n = new(big.Int)
	}

	typeName := e.reg.TypeName(id)
	if n.Sign() < 0 && !prim.Signed() {
		return nil, errors.SignMismatch(errors.PhaseEncode, path, n.String(), typeName)
	}
	if !prim.Fits(n) {
		return nil, errors.NumericOverflow(errors.PhaseEncode, path, n.String(), typeName)
	}
	return n, nil
}

func (e *Encoder) encodeCompact(w *scale.Writer, v value.Value, t *registry.Type, path []string) error {
	prim, ok := integerPrimitive(e.reg, t.Elem)
	if !ok || prim.Signed() {
		return errors.New(errors.PhaseEncode, errors.KindUnsupported).
			Path(path...).
			Type(e.reg.TypeName(t.ID)).
			Detail("compact encoding requires an unsigned integer").
			Build()
	}
	n, err := e.integer(unwrapSingle(v), prim, t.ID, path)
	if err != nil {
		return err
	}
	w.WriteCompact(n)
	return nil
}

// unwrapSingle strips single-field maps and tuples around an integer.
func unwrapSingle(v value.Value) value.Value {
	for range DefaultMaxDepth {
		switch x := v.(type) {
		case value.Map:
			if len(x.Fields) != 1 {
				return v
			}
			v = x.Fields[0].Value
		case value.Tuple:
			if len(x) != 1 {
				return v
			}
			v = x[0]
		default:
			return v
		}
	}
	return v
}

func isEmpty(v value.Value) bool {
	switch x := v.(type) {
	case value.Unit:
		return true
	case value.Tuple:
		return len(x) == 0
	case value.Seq:
		return len(x) == 0
	case value.Map:
		return len(x.Fields) == 0
	}
	return false
}

func (e *Encoder) encodeComposite(w *scale.Writer, v value.Value, t *registry.Type, path []string, depth int) error {
	if len(t.Fields) == 0 {
		if isEmpty(v) {
			return nil
		}
		if x, ok := v.(value.Variant); ok && x.Name == t.Ident() && len(x.Fields) == 0 {
			return nil
		}
		return e.mismatch(path, v, t.ID)
	}

	single := len(t.Fields) == 1
	switch x := v.(type) {
	case value.Map:
		if !(single && !registry.FieldsNamed(t.Fields) && !value.AllPositional(x.Fields)) {
			return e.encodeFields(w, t.Fields, x.Fields, path, depth)
		}
	case value.Variant:
		if x.Name == t.Ident() && len(x.Fields) > 0 {
			return e.encodeFields(w, t.Fields, x.Fields, path, depth)
		}
	case value.Tuple:
		if !single || len(x) == 1 {
			return e.encodeFields(w, t.Fields, value.Positional(x...), path, depth)
		}
	case value.Seq:
		if !single {
			return e.encodeFields(w, t.Fields, value.Positional(x...), path, depth)
		}
	}

	if single {
		return e.encode(w, v, t.Fields[0].Type, path, depth+1)
	}
	return e.mismatch(path, v, t.ID)
}

// encodeFields writes the declared fields from either name-keyed or
// position-keyed values.
func (e *Encoder) encodeFields(w *scale.Writer, declared []registry.Field, given []value.Field, path []string, depth int) error {
	allNamed := value.AllNamed(given)
	if !allNamed && !value.AllPositional(given) {
		return errors.InvalidData(errors.PhaseEncode, path, "mixed named and positional fields")
	}
	if allNamed && (len(given) > 0 || registry.FieldsNamed(declared)) {
		if !registry.FieldsNamed(declared) {
			return errors.New(errors.PhaseEncode, errors.KindUnknownField).
				Path(path...).
				Name(given[0].Name).
				Detail("fields are positional; no field named %q", given[0].Name).
				Build()
		}
		return e.encodeNamed(w, declared, given, path, depth)
	}

	if len(given) != len(declared) {
		return errors.ArityMismatch(errors.PhaseEncode, path, len(declared), len(given))
	}
	ordered := make([]value.Value, len(declared))
	filled := make([]bool, len(declared))
	for _, f := range given {
		if f.Index < 0 || f.Index >= len(declared) || filled[f.Index] {
			return errors.UnknownField(errors.PhaseEncode, path, f.Key(), nil)
		}
		ordered[f.Index] = f.Value
		filled[f.Index] = true
	}

	for i, d := range declared {
		seg := d.Name
		if seg == "" {
			seg = errors.IndexSegment(i)
		}
		if err := e.encode(w, ordered[i], d.Type, child(path, seg), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeNamed(w *scale.Writer, declared []registry.Field, given []value.Field, path []string, depth int) error {
	names := registry.FieldNames(declared)
	declaredSet := make(map[string]bool, len(names))
	for _, n := range names {
		declaredSet[n] = true
	}
	provided := make(map[string]value.Value, len(given))
	for _, g := range given {
		if !declaredSet[g.Name] {
			return errors.UnknownField(errors.PhaseEncode, path, g.Name,
				diagnostics.Suggest(g.Name, names, e.cfg.maxSuggestions))
		}
		if _, dup := provided[g.Name]; dup {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(path...).
				Name(g.Name).
				Detail("field %q given twice", g.Name).
				Build()
		}
		provided[g.Name] = g.Value
	}

	for _, d := range declared {
		v, ok := provided[d.Name]
		if !ok {
			var unused []string
			for _, n := range names {
				if _, given := provided[n]; !given && n != d.Name {
					unused = append(unused, n)
				}
			}
			return errors.MissingField(errors.PhaseEncode, path, d.Name,
				diagnostics.Suggest(d.Name, unused, e.cfg.maxSuggestions))
		}
		if err := e.encode(w, v, d.Type, child(path, d.Name), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeVariant(w *scale.Writer, v value.Value, t *registry.Type, path []string, depth int) error {
	if inner, ok := t.OptionInner(); ok {
		if o, isOpt := v.(value.Option); isOpt {
			if !o.Some {
				none, _ := t.VariantByName("None")
				w.Byte(none.Index)
				return nil
			}
			some, _ := t.VariantByName("Some")
			w.Byte(some.Index)
			return e.encode(w, o.Inner, inner, child(path, "Some"), depth+1)
		}
	}

	var name string
	var fields []value.Field
	switch x := v.(type) {
	case value.Variant:
		name, fields = x.Name, x.Fields
	case value.Option:
		name = "None"
		if x.Some {
			name, fields = "Some", value.Positional(x.Inner)
		}
	case value.Str:
		name = string(x)
	default:
		return e.mismatch(path, v, t.ID)
	}

	vd, ok := t.VariantByName(name)
	if !ok {
		return errors.UnknownVariant(errors.PhaseEncode, path, name, e.reg.TypeName(t.ID),
			diagnostics.Suggest(name, t.VariantNames(), e.cfg.maxSuggestions))
	}
	w.Byte(vd.Index)
	return e.encodeFields(w, vd.Fields, fields, child(path, name), depth)
}

func (e *Encoder) encodeTuple(w *scale.Writer, v value.Value, t *registry.Type, path []string, depth int) error {
	if len(t.Elems) == 0 {
		if isEmpty(v) {
			return nil
		}
		return e.mismatch(path, v, t.ID)
	}

	var items []value.Value
	switch x := v.(type) {
	case value.Tuple:
		items = x
	case value.Seq:
		items = x
	default:
		if len(t.Elems) == 1 {
			return e.encode(w, v, t.Elems[0], child(path, errors.IndexSegment(0)), depth+1)
		}
		return e.mismatch(path, v, t.ID)
	}

	if len(items) != len(t.Elems) {
		return errors.ArityMismatch(errors.PhaseEncode, path, len(t.Elems), len(items))
	}
	for i, item := range items {
		if err := e.encode(w, item, t.Elems[i], child(path, errors.IndexSegment(i)), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeArray(w *scale.Writer, v value.Value, t *registry.Type, path []string, depth int) error {
	var items []value.Value
	switch x := v.(type) {
	case value.Bytes:
		if !isU8(e.reg, t.Elem) {
			return e.mismatch(path, v, t.ID)
		}
		if len(x) != int(t.Len) {
			return errors.LengthMismatch(errors.PhaseEncode, path, int(t.Len), len(x))
		}
		w.WriteBytes(x)
		return nil
	case value.Seq:
		items = x
	case value.Tuple:
		items = x
	default:
		return e.mismatch(path, v, t.ID)
	}

	if len(items) != int(t.Len) {
		return errors.LengthMismatch(errors.PhaseEncode, path, int(t.Len), len(items))
	}
	return e.encodeItems(w, items, t.Elem, path, depth)
}

func (e *Encoder) encodeSequence(w *scale.Writer, v value.Value, t *registry.Type, path []string, depth int) error {
	var items []value.Value
	switch x := v.(type) {
	case value.Bytes:
		if !isU8(e.reg, t.Elem) {
			return e.mismatch(path, v, t.ID)
		}
		w.WriteCompactUint(uint64(len(x)))
		w.WriteBytes(x)
		return nil
	case value.Str:
		if !isU8(e.reg, t.Elem) {
			return e.mismatch(path, v, t.ID)
		}
		w.WriteCompactUint(uint64(len(x)))
		w.WriteBytes([]byte(x))
		return nil
	case value.Seq:
		items = x
	case value.Tuple:
		items = x
	default:
		return e.mismatch(path, v, t.ID)
	}

	w.WriteCompactUint(uint64(len(items)))
	return e.encodeItems(w, items, t.Elem, path, depth)
}

func (e *Encoder) encodeItems(w *scale.Writer, items []value.Value, elem registry.TypeID, path []string, depth int) error {
	for i, item := range items {
		if err := e.encode(w, item, elem, child(path, errors.IndexSegment(i)), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeBitSequence(w *scale.Writer, v value.Value, t *registry.Type, path []string) error {
	store, err := resolve(e.reg, errors.PhaseEncode, t.BitStore, path)
	if err != nil {
		return err
	}

	var items []value.Value
	switch x := v.(type) {
	case value.Seq:
		items = x
	case value.Tuple:
		items = x
	default:
		return e.mismatch(path, v, t.ID)
	}

	bits := make([]bool, len(items))
	for i, item := range items {
		b, ok := item.(value.Bool)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, child(path, errors.IndexSegment(i)), kindOf(item), "bool")
		}
		bits[i] = bool(b)
	}

	w.WriteCompactUint(uint64(len(bits)))
	scale.PackBits(w, bits, store.Primitive.Size(), t.BitOrder == registry.Lsb0)
	return nil
}

func kindOf(v value.Value) string {
	if v == nil {
		return value.KindUnit.String()
	}
	return v.Kind().String()
}
