package registry

import (
	"fmt"

	"github.com/baron-chain/bc-cargo-contract/errors"
)

// Builder assembles a Registry. Types are either added with the next free id
// or defined under an explicit id (as metadata documents do). A Builder is not
// safe for concurrent use.
type Builder struct {
	types   map[TypeID]*Type
	prims   map[Primitive]TypeID
	witSeen map[any]TypeID
	err     error
	next    TypeID
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		types: make(map[TypeID]*Type),
		prims: make(map[Primitive]TypeID),
	}
}

// Define registers t under an explicit id. Redefining an id is an error.
func (b *Builder) Define(id TypeID, t Type) error {
	if _, dup := b.types[id]; dup {
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("duplicate type id %d", id))
	}
	t.ID = id
	b.types[id] = &t
	if id >= b.next {
		b.next = id + 1
	}
	if t.Kind == DefPrimitive && len(t.Path) == 0 {
		if _, ok := b.prims[t.Primitive]; !ok {
			b.prims[t.Primitive] = id
		}
	}
	return nil
}

// Add registers t under the next free id and returns that id.
func (b *Builder) Add(t Type) TypeID {
	id := b.next
	if err := b.Define(id, t); err != nil && b.err == nil {
		b.err = err
	}
	return id
}

// Reserve allocates an id for a type defined later with Set, which allows
// recursive types.
func (b *Builder) Reserve() TypeID {
	id := b.next
	b.next++
	return id
}

// Set defines a previously reserved id.
func (b *Builder) Set(id TypeID, t Type) {
	if err := b.Define(id, t); err != nil && b.err == nil {
		b.err = err
	}
}

// Primitive returns the id of the anonymous primitive p, adding it once.
func (b *Builder) Primitive(p Primitive) TypeID {
	if id, ok := b.prims[p]; ok {
		return id
	}
	return b.Add(Type{Kind: DefPrimitive, Primitive: p})
}

func (b *Builder) Compact(inner TypeID) TypeID {
	return b.Add(Type{Kind: DefCompact, Elem: inner})
}

func (b *Builder) Composite(path []string, fields ...Field) TypeID {
	return b.Add(Type{Kind: DefComposite, Path: path, Fields: fields})
}

func (b *Builder) Variant(path []string, variants ...Variant) TypeID {
	return b.Add(Type{Kind: DefVariant, Path: path, Variants: variants})
}

func (b *Builder) Tuple(elems ...TypeID) TypeID {
	return b.Add(Type{Kind: DefTuple, Elems: elems})
}

func (b *Builder) Array(elem TypeID, n uint32) TypeID {
	return b.Add(Type{Kind: DefArray, Elem: elem, Len: n})
}

func (b *Builder) Sequence(elem TypeID) TypeID {
	return b.Add(Type{Kind: DefSequence, Elem: elem})
}

func (b *Builder) BitSequence(store TypeID, order BitOrder) TypeID {
	return b.Add(Type{Kind: DefBitSequence, BitStore: store, BitOrder: order})
}

// Option adds the Option<inner> variant: None = 0, Some(inner) = 1.
func (b *Builder) Option(inner TypeID) TypeID {
	return b.Add(Type{
		Kind:   DefVariant,
		Path:   []string{"Option"},
		Params: []Param{{Name: "T", Type: inner, Bound: true}},
		Variants: []Variant{
			{Name: "None", Index: 0},
			{Name: "Some", Index: 1, Fields: []Field{{Type: inner}}},
		},
	})
}

// Result adds the Result<ok, err> variant: Ok = 0, Err = 1.
func (b *Builder) Result(ok, err TypeID) TypeID {
	return b.Add(Type{
		Kind: DefVariant,
		Path: []string{"Result"},
		Params: []Param{
			{Name: "T", Type: ok, Bound: true},
			{Name: "E", Type: err, Bound: true},
		},
		Variants: []Variant{
			{Name: "Ok", Index: 0, Fields: []Field{{Type: ok}}},
			{Name: "Err", Index: 1, Fields: []Field{{Type: err}}},
		},
	})
}

// Build validates the graph and returns an immutable Registry. The builder
// may keep being used afterwards; the registry holds its own copy.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, id := range b.sortedIDs() {
		if err := b.validate(b.types[id]); err != nil {
			return nil, err
		}
	}

	types := make(map[TypeID]*Type, len(b.types))
	for id, t := range b.types {
		cp := *t
		types[id] = &cp
	}
	return newRegistry(types), nil
}

func (b *Builder) sortedIDs() []TypeID {
	return newRegistry(b.types).ids
}

func (b *Builder) validate(t *Type) error {
	ref := func(id TypeID) error {
		if _, ok := b.types[id]; !ok {
			return errors.InvalidInput(errors.PhaseLoad,
				fmt.Sprintf("type %d references unknown type %d", t.ID, id))
		}
		return nil
	}

	switch t.Kind {
	case DefPrimitive:
		if int(t.Primitive) >= len(primitiveNames) {
			return errors.InvalidInput(errors.PhaseLoad,
				fmt.Sprintf("type %d has unknown primitive %d", t.ID, t.Primitive))
		}
	case DefCompact, DefSequence, DefArray:
		return ref(t.Elem)
	case DefTuple:
		for _, e := range t.Elems {
			if err := ref(e); err != nil {
				return err
			}
		}
	case DefComposite:
		for _, f := range t.Fields {
			if err := ref(f.Type); err != nil {
				return err
			}
		}
	case DefVariant:
		names := make(map[string]bool, len(t.Variants))
		indices := make(map[uint8]bool, len(t.Variants))
		for _, v := range t.Variants {
			if names[v.Name] {
				return errors.InvalidInput(errors.PhaseLoad,
					fmt.Sprintf("type %d declares variant %q twice", t.ID, v.Name))
			}
			if indices[v.Index] {
				return errors.InvalidInput(errors.PhaseLoad,
					fmt.Sprintf("type %d declares discriminant %d twice", t.ID, v.Index))
			}
			names[v.Name] = true
			indices[v.Index] = true
			for _, f := range v.Fields {
				if err := ref(f.Type); err != nil {
					return err
				}
			}
		}
	case DefBitSequence:
		if err := ref(t.BitStore); err != nil {
			return err
		}
		store := b.types[t.BitStore]
		if store.Kind != DefPrimitive || !store.Primitive.IsInteger() || store.Primitive.Signed() || store.Primitive.Bits() > 64 {
			return errors.InvalidInput(errors.PhaseLoad,
				fmt.Sprintf("type %d has bit store %d that is not u8, u16, u32 or u64", t.ID, t.BitStore))
		}
	default:
		return errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("type %d has unknown kind %d", t.ID, t.Kind))
	}
	return nil
}
