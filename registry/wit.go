package registry

import (
	"go.bytecodealliance.org/wit"

	"github.com/baron-chain/bc-cargo-contract/errors"
)

// WITImport is a registry built from every named type definition of a WIT
// document.
type WITImport struct {
	Registry *Registry
	// Names maps each definition to its id, by plain name and by
	// interface-qualified name ("iface.name"). A plain name shared by two
	// interfaces keeps the first.
	Names map[string]TypeID
	// Skipped lists definitions with no SCALE form, such as floats or flags.
	Skipped []string
}

// LoadWIT reads a WIT document in the JSON form printed by
// `wasm-tools component wit -j` and imports its named type definitions.
func LoadWIT(path string) (*WITImport, error) {
	res, err := wit.LoadJSON(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "read WIT "+path)
	}
	return ImportResolve(res)
}

// ImportResolve imports the named type definitions of res in declaration
// order. Definitions that cannot be represented are skipped, not fatal.
func ImportResolve(res *wit.Resolve) (*WITImport, error) {
	b := NewBuilder()
	names := make(map[string]TypeID)
	var skipped []string
	for _, td := range res.TypeDefs {
		if td == nil || td.Name == nil {
			continue
		}
		name := *td.Name
		qualified := name
		if iface, ok := td.Owner.(*wit.Interface); ok && iface.Name != nil {
			qualified = *iface.Name + "." + name
		}
		id, err := b.ImportWIT(td)
		if err != nil {
			if errors.IsKind(err, errors.KindUnsupported) {
				skipped = append(skipped, qualified)
				continue
			}
			return nil, err
		}
		if _, dup := names[name]; !dup {
			names[name] = id
		}
		names[qualified] = id
	}
	reg, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &WITImport{Registry: reg, Names: names, Skipped: skipped}, nil
}

// ImportWIT maps a WebAssembly Interface Type into the builder and returns
// the id of the resulting shape. Named type definitions are memoized, so a
// definition shared by several functions is imported once.
//
// Mapping: record to composite, variant to variant (discriminant = case
// position), enum to a field-less variant, option to Option, result to a
// Result variant, list to sequence, own and borrow handles to u32.
// Floats and flags have no wire form here and are rejected.
func (b *Builder) ImportWIT(t wit.Type) (TypeID, error) {
	return b.importWIT(t, nil)
}

// FromWIT builds a registry from a set of WIT types, returning their ids in order.
func FromWIT(types ...wit.Type) (*Registry, []TypeID, error) {
	b := NewBuilder()
	ids := make([]TypeID, len(types))
	for i, t := range types {
		id, err := b.ImportWIT(t)
		if err != nil {
			return nil, nil, err
		}
		ids[i] = id
	}
	reg, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return reg, ids, nil
}

func (b *Builder) importWIT(t wit.Type, path []string) (TypeID, error) {
	switch t := t.(type) {
	case wit.Bool:
		return b.Primitive(Bool), nil
	case wit.U8:
		return b.Primitive(U8), nil
	case wit.S8:
		return b.Primitive(I8), nil
	case wit.U16:
		return b.Primitive(U16), nil
	case wit.S16:
		return b.Primitive(I16), nil
	case wit.U32:
		return b.Primitive(U32), nil
	case wit.S32:
		return b.Primitive(I32), nil
	case wit.U64:
		return b.Primitive(U64), nil
	case wit.S64:
		return b.Primitive(I64), nil
	case wit.Char:
		return b.Primitive(Char), nil
	case wit.String:
		return b.Primitive(Str), nil
	case wit.F32, wit.F64:
		return 0, unsupportedWIT(path, "floating point types have no SCALE form")
	case *wit.TypeDef:
		return b.importTypeDef(t, path)
	default:
		return 0, unsupportedWIT(path, "unsupported WIT type")
	}
}

func (b *Builder) importTypeDef(td *wit.TypeDef, path []string) (TypeID, error) {
	if id, ok := b.witSeen[td]; ok {
		return id, nil
	}

	var typePath []string
	if td.Name != nil {
		typePath = []string{*td.Name}
		path = childPath(path, *td.Name)
	}

	id, err := b.importKind(td, typePath, path)
	if err != nil {
		return 0, err
	}
	if b.witSeen == nil {
		b.witSeen = make(map[any]TypeID)
	}
	b.witSeen[td] = id
	return id, nil
}

func (b *Builder) importKind(td *wit.TypeDef, typePath, path []string) (TypeID, error) {
	switch k := td.Kind.(type) {
	case *wit.Record:
		fields := make([]Field, len(k.Fields))
		for i, f := range k.Fields {
			ft, err := b.importWIT(f.Type, childPath(path, f.Name))
			if err != nil {
				return 0, err
			}
			fields[i] = Field{Name: f.Name, Type: ft}
		}
		return b.Composite(typePath, fields...), nil

	case *wit.Variant:
		variants := make([]Variant, len(k.Cases))
		for i, c := range k.Cases {
			variants[i] = Variant{Name: c.Name, Index: uint8(i)}
			if c.Type != nil {
				ct, err := b.importWIT(c.Type, childPath(path, c.Name))
				if err != nil {
					return 0, err
				}
				variants[i].Fields = []Field{{Type: ct}}
			}
		}
		return b.Variant(typePath, variants...), nil

	case *wit.Enum:
		variants := make([]Variant, len(k.Cases))
		for i, c := range k.Cases {
			variants[i] = Variant{Name: c.Name, Index: uint8(i)}
		}
		return b.Variant(typePath, variants...), nil

	case *wit.Option:
		inner, err := b.importWIT(k.Type, path)
		if err != nil {
			return 0, err
		}
		return b.Option(inner), nil

	case *wit.Result:
		variants := []Variant{{Name: "Ok", Index: 0}, {Name: "Err", Index: 1}}
		if k.OK != nil {
			ok, err := b.importWIT(k.OK, childPath(path, "ok"))
			if err != nil {
				return 0, err
			}
			variants[0].Fields = []Field{{Type: ok}}
		}
		if k.Err != nil {
			e, err := b.importWIT(k.Err, childPath(path, "err"))
			if err != nil {
				return 0, err
			}
			variants[1].Fields = []Field{{Type: e}}
		}
		return b.Add(Type{Kind: DefVariant, Path: []string{"Result"}, Variants: variants}), nil

	case *wit.List:
		elem, err := b.importWIT(k.Type, path)
		if err != nil {
			return 0, err
		}
		return b.Sequence(elem), nil

	case *wit.Tuple:
		elems := make([]TypeID, len(k.Types))
		for i, et := range k.Types {
			id, err := b.importWIT(et, childPath(path, errors.IndexSegment(i)))
			if err != nil {
				return 0, err
			}
			elems[i] = id
		}
		return b.Tuple(elems...), nil

	case *wit.Own, *wit.Borrow:
		return b.Primitive(U32), nil

	case *wit.Flags:
		return 0, unsupportedWIT(path, "flags have no SCALE form")

	case wit.Type:
		return b.importWIT(k, path)

	default:
		return 0, unsupportedWIT(path, "unsupported WIT type definition")
	}
}

func unsupportedWIT(path []string, detail string) error {
	return errors.New(errors.PhaseLoad, errors.KindUnsupported).
		Path(path...).
		Detail(detail).
		Build()
}

func childPath(path []string, seg string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}
