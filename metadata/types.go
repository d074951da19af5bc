package metadata

import (
	"fmt"

	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/registry"
)

// buildRegistry converts the portable type table into a Registry. Entries
// without an id take their position.
func buildRegistry(entries []typeEntry) (*registry.Registry, error) {
	byID := make(map[uint32]*typeEntry, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.ID == nil {
			id := uint32(i)
			e.ID = &id
		}
		byID[*e.ID] = e
	}

	b := registry.NewBuilder()
	for i := range entries {
		e := &entries[i]
		t, err := convertType(e, byID)
		if err != nil {
			return nil, err
		}
		if err := b.Define(registry.TypeID(*e.ID), t); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func invalidType(id uint32, format string, args ...any) error {
	return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("type %d: ", id)+fmt.Sprintf(format, args...))
}

func convertType(e *typeEntry, byID map[uint32]*typeEntry) (registry.Type, error) {
	id := *e.ID
	doc := e.Type
	t := registry.Type{
		Path: doc.Path,
		Docs: doc.Docs,
	}
	for _, p := range doc.Params {
		param := registry.Param{Name: p.Name}
		if p.Type != nil {
			param.Type = registry.TypeID(*p.Type)
			param.Bound = true
		}
		t.Params = append(t.Params, param)
	}

	def := doc.Def
	set := 0
	if def.Primitive != nil {
		set++
		prim, ok := registry.ParsePrimitive(*def.Primitive)
		if !ok {
			return t, invalidType(id, "unknown primitive %q", *def.Primitive)
		}
		t.Kind, t.Primitive = registry.DefPrimitive, prim
	}
	if def.Composite != nil {
		set++
		t.Kind = registry.DefComposite
		t.Fields = convertFields(def.Composite.Fields)
	}
	if def.Variant != nil {
		set++
		t.Kind = registry.DefVariant
		for _, v := range def.Variant.Variants {
			t.Variants = append(t.Variants, registry.Variant{
				Name:   v.Name,
				Index:  v.Index,
				Fields: convertFields(v.Fields),
				Docs:   v.Docs,
			})
		}
	}
	if def.Sequence != nil {
		set++
		t.Kind, t.Elem = registry.DefSequence, registry.TypeID(def.Sequence.Type)
	}
	if def.Array != nil {
		set++
		t.Kind, t.Elem, t.Len = registry.DefArray, registry.TypeID(def.Array.Type), def.Array.Len
	}
	if def.Tuple != nil {
		set++
		t.Kind = registry.DefTuple
		for _, el := range *def.Tuple {
			t.Elems = append(t.Elems, registry.TypeID(el))
		}
	}
	if def.Compact != nil {
		set++
		t.Kind, t.Elem = registry.DefCompact, registry.TypeID(def.Compact.Type)
	}
	if def.BitSequence != nil {
		set++
		order, err := bitOrder(def.BitSequence.BitOrderType, byID)
		if err != nil {
			return t, invalidType(id, "%v", err)
		}
		t.Kind = registry.DefBitSequence
		t.BitStore = registry.TypeID(def.BitSequence.BitStoreType)
		t.BitOrder = order
	}

	switch set {
	case 0:
		return t, invalidType(id, "missing type definition")
	case 1:
		return t, nil
	}
	return t, invalidType(id, "%d type definitions, want one", set)
}

func convertFields(docs []fieldDoc) []registry.Field {
	if len(docs) == 0 {
		return nil
	}
	fields := make([]registry.Field, len(docs))
	for i, f := range docs {
		fields[i] = registry.Field{Name: f.Name, TypeName: f.TypeName, Type: registry.TypeID(f.Type)}
	}
	return fields
}

// bitOrder reads the order from the order type's path, which names either
// bitvec::order::Lsb0 or bitvec::order::Msb0.
func bitOrder(id uint32, byID map[uint32]*typeEntry) (registry.BitOrder, error) {
	e, ok := byID[id]
	if !ok {
		return 0, fmt.Errorf("bit order type %d not found", id)
	}
	path := e.Type.Path
	if len(path) == 0 {
		return 0, fmt.Errorf("bit order type %d has no path", id)
	}
	switch path[len(path)-1] {
	case "Lsb0":
		return registry.Lsb0, nil
	case "Msb0":
		return registry.Msb0, nil
	}
	return 0, fmt.Errorf("bit order type %d is %q, want Lsb0 or Msb0", id, path[len(path)-1])
}
