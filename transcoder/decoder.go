package transcoder

import (
	"unicode/utf8"

	cargocontract "github.com/baron-chain/bc-cargo-contract"
	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/transcoder/internal/scale"
	"github.com/baron-chain/bc-cargo-contract/value"
)

// maxZeroSizeLen bounds sequences whose elements occupy no bytes, where the
// remaining input cannot bound the length.
const maxZeroSizeLen = 1 << 16

// Decoder reads SCALE bytes into values against registry types. It holds no
// per-call state and is safe for concurrent use.
type Decoder struct {
	reg cargocontract.TypeRegistry
	cfg config
}

func NewDecoder(reg cargocontract.TypeRegistry, opts ...Option) *Decoder {
	return &Decoder{reg: reg, cfg: newConfig(opts)}
}

// Decode decodes one value of type id from the start of data. Bytes left
// over are reported in the Result.
func (d *Decoder) Decode(data []byte, id registry.TypeID) (value.Value, Result, error) {
	r := scale.NewReader(data)
	v, err := d.DecodeFrom(r, id)
	if err != nil {
		return nil, Result{}, err
	}
	return v, Result{Consumed: r.Position(), Trailing: r.Remaining()}, nil
}

// DecodeExact decodes one value of type id and fails if any input is left.
func (d *Decoder) DecodeExact(data []byte, id registry.TypeID) (value.Value, error) {
	v, res, err := d.Decode(data, id)
	if err != nil {
		return nil, err
	}
	if res.Trailing > 0 {
		return nil, errors.TrailingBytes(res.Consumed, res.Trailing)
	}
	return v, nil
}

// DecodeFrom decodes one value of type id at the reader's position and
// advances past it.
func (d *Decoder) DecodeFrom(r *Reader, id registry.TypeID) (value.Value, error) {
	return d.decode(r, id, nil, 0)
}

func (d *Decoder) decode(r *scale.Reader, id registry.TypeID, path []string, depth int) (value.Value, error) {
	if depth > d.cfg.maxDepth {
		return nil, depthExceeded(errors.PhaseDecode, path, d.cfg.maxDepth)
	}
	t, err := resolve(d.reg, errors.PhaseDecode, id, path)
	if err != nil {
		return nil, err
	}

	switch t.Kind {
	case registry.DefPrimitive:
		return d.decodePrimitive(r, t, path)
	case registry.DefCompact:
		return d.decodeCompact(r, t, path)
	case registry.DefComposite:
		if len(t.Fields) == 0 {
			return value.Unit{}, nil
		}
		fields, err := d.decodeFields(r, t.Fields, path, depth)
		if err != nil {
			return nil, err
		}
		if registry.FieldsNamed(t.Fields) {
			return value.Map{Fields: fields}, nil
		}
		items := make(value.Tuple, len(fields))
		for i, f := range fields {
			items[i] = f.Value
		}
		return items, nil
	case registry.DefVariant:
		return d.decodeVariant(r, t, path, depth)
	case registry.DefTuple:
		if len(t.Elems) == 0 {
			return value.Unit{}, nil
		}
		items := make(value.Tuple, len(t.Elems))
		for i, elem := range t.Elems {
			v, err := d.decode(r, elem, child(path, errors.IndexSegment(i)), depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	case registry.DefArray:
		return d.decodeArray(r, t, path, depth)
	case registry.DefSequence:
		return d.decodeSequence(r, t, path, depth)
	case registry.DefBitSequence:
		return d.decodeBitSequence(r, t, path)
	}
	return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Path(path...).
		Detail("unsupported type kind %s", t.Kind).
		Build()
}

func readErr(err error, path []string) error {
	return errors.Prefix(errors.PhaseDecode, err, path...)
}

func invalidAt(path []string, pos int, msg string, args ...any) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Path(path...).
		Position(pos).
		Detail(msg, args...).
		Build()
}

func (d *Decoder) decodePrimitive(r *scale.Reader, t *registry.Type, path []string) (value.Value, error) {
	start := r.Position()
	switch t.Primitive {
	case registry.Bool:
		b, err := r.ReadByte()
		if err != nil {
			return nil, readErr(err, path)
		}
		switch b {
		case 0:
			return value.Bool(false), nil
		case 1:
			return value.Bool(true), nil
		}
		return nil, invalidAt(path, start, "invalid bool byte 0x%02x", b)

	case registry.Char:
		u, err := r.ReadU32()
		if err != nil {
			return nil, readErr(err, path)
		}
		if u > utf8.MaxRune || !utf8.ValidRune(rune(u)) {
			return nil, invalidAt(path, start, "invalid char 0x%x", u)
		}
		return value.Char(rune(u)), nil

	case registry.Str:
		n, err := r.ReadCompactLen()
		if err != nil {
			return nil, readErr(err, path)
		}
		b, err := r.ReadBytes(n)
		if err != nil {
			return nil, readErr(err, path)
		}
		if !utf8.Valid(b) {
			return nil, invalidAt(path, start, "string is not valid UTF-8")
		}
		return value.Str(string(b)), nil
	}

	if t.Primitive.Signed() {
		n, err := r.ReadInt(t.Primitive.Size())
		if err != nil {
			return nil, readErr(err, path)
		}
		return value.Int{V: n}, nil
	}
	n, err := r.ReadUint(t.Primitive.Size())
	if err != nil {
		return nil, readErr(err, path)
	}
	return value.UInt{V: n}, nil
}

func (d *Decoder) decodeCompact(r *scale.Reader, t *registry.Type, path []string) (value.Value, error) {
	prim, ok := integerPrimitive(d.reg, t.Elem)
	if !ok || prim.Signed() {
		return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Path(path...).
			Type(d.reg.TypeName(t.ID)).
			Detail("compact encoding requires an unsigned integer").
			Build()
	}
	start := r.Position()
	n, err := r.ReadCompact()
	if err != nil {
		return nil, readErr(err, path)
	}
	if !prim.Fits(n) {
		e := errors.NumericOverflow(errors.PhaseDecode, path, n.String(), d.reg.TypeName(t.ID))
		e.Position = start
		return nil, e
	}
	return value.UInt{V: n}, nil
}

func (d *Decoder) decodeFields(r *scale.Reader, declared []registry.Field, path []string, depth int) ([]value.Field, error) {
	if len(declared) == 0 {
		return nil, nil
	}
	named := registry.FieldsNamed(declared)
	out := make([]value.Field, len(declared))
	for i, f := range declared {
		seg := f.Name
		if !named || seg == "" {
			seg = errors.IndexSegment(i)
		}
		v, err := d.decode(r, f.Type, child(path, seg), depth+1)
		if err != nil {
			return nil, err
		}
		if named {
			out[i] = value.Named(f.Name, v)
		} else {
			out[i] = value.At(i, v)
		}
	}
	return out, nil
}

func (d *Decoder) decodeVariant(r *scale.Reader, t *registry.Type, path []string, depth int) (value.Value, error) {
	start := r.Position()
	disc, err := r.ReadByte()
	if err != nil {
		return nil, readErr(err, path)
	}
	vd, ok := t.VariantByIndex(disc)
	if !ok {
		e := errors.InvalidDiscriminant(path, disc, d.reg.TypeName(t.ID))
		e.Position = start
		return nil, e
	}

	if _, isOption := t.OptionInner(); isOption {
		if vd.Name == "None" {
			return value.None(), nil
		}
		inner, err := d.decode(r, vd.Fields[0].Type, child(path, "Some"), depth+1)
		if err != nil {
			return nil, err
		}
		return value.Some(inner), nil
	}

	fields, err := d.decodeFields(r, vd.Fields, child(path, vd.Name), depth)
	if err != nil {
		return nil, err
	}
	return value.Variant{Name: vd.Name, Fields: fields}, nil
}

func (d *Decoder) decodeArray(r *scale.Reader, t *registry.Type, path []string, depth int) (value.Value, error) {
	n := int(t.Len)
	if isU8(d.reg, t.Elem) {
		b, err := r.ReadBytes(n)
		if err != nil {
			return nil, readErr(err, path)
		}
		return value.Bytes(append([]byte(nil), b...)), nil
	}
	if err := d.checkFits(r, n, t.Elem, path); err != nil {
		return nil, err
	}
	return d.decodeItems(r, n, t.Elem, path, depth)
}

func (d *Decoder) decodeSequence(r *scale.Reader, t *registry.Type, path []string, depth int) (value.Value, error) {
	n, err := r.ReadCompactLen()
	if err != nil {
		return nil, readErr(err, path)
	}
	if isU8(d.reg, t.Elem) {
		b, err := r.ReadBytes(n)
		if err != nil {
			return nil, readErr(err, path)
		}
		return value.Bytes(append([]byte(nil), b...)), nil
	}
	if err := d.checkFits(r, n, t.Elem, path); err != nil {
		return nil, err
	}
	return d.decodeItems(r, n, t.Elem, path, depth)
}

// checkFits rejects a count of n elements that the remaining input cannot
// hold, before anything is allocated for them.
func (d *Decoder) checkFits(r *scale.Reader, n int, elem registry.TypeID, path []string) error {
	size := minSize(d.reg, elem, make(map[registry.TypeID]bool))
	if size == 0 {
		if n > maxZeroSizeLen {
			return invalidAt(path, r.Position(), "%d zero-size elements exceeds limit %d", n, maxZeroSizeLen)
		}
		return nil
	}
	need := int64(n) * int64(size)
	if need > int64(r.Remaining()) {
		return errors.UnexpectedEnd(path, r.Position(), int(need), r.Remaining())
	}
	return nil
}

func (d *Decoder) decodeItems(r *scale.Reader, n int, elem registry.TypeID, path []string, depth int) (value.Value, error) {
	items := make(value.Seq, n)
	for i := range items {
		v, err := d.decode(r, elem, child(path, errors.IndexSegment(i)), depth+1)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func (d *Decoder) decodeBitSequence(r *scale.Reader, t *registry.Type, path []string) (value.Value, error) {
	store, err := resolve(d.reg, errors.PhaseDecode, t.BitStore, path)
	if err != nil {
		return nil, err
	}
	n, err := r.ReadCompactLen()
	if err != nil {
		return nil, readErr(err, path)
	}
	bits, err := scale.UnpackBits(r, n, store.Primitive.Size(), t.BitOrder == registry.Lsb0)
	if err != nil {
		return nil, readErr(err, path)
	}
	items := make(value.Seq, len(bits))
	for i, b := range bits {
		items[i] = value.Bool(b)
	}
	return items, nil
}
