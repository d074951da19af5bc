package registry

import (
	"sort"
	"strconv"
	"strings"

	"github.com/baron-chain/bc-cargo-contract/errors"
)

// Registry is an immutable id-indexed type graph. It is safe for concurrent reads.
type Registry struct {
	types map[TypeID]*Type
	ids   []TypeID
}

// Resolve returns the type registered under id.
func (r *Registry) Resolve(id TypeID) (*Type, error) {
	if t, ok := r.types[id]; ok {
		return t, nil
	}
	return nil, errors.UnknownTypeID(errors.PhaseResolve, nil, uint32(id))
}

// Lookup is Resolve without an error value.
func (r *Registry) Lookup(id TypeID) (*Type, bool) {
	t, ok := r.types[id]
	return t, ok
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.ids)
}

// IDs returns all registered ids in ascending order.
func (r *Registry) IDs() []TypeID {
	out := make([]TypeID, len(r.ids))
	copy(out, r.ids)
	return out
}

// FindByPath returns the first type, by ascending id, whose path equals path.
func (r *Registry) FindByPath(path ...string) (*Type, bool) {
	for _, id := range r.ids {
		t := r.types[id]
		if len(t.Path) != len(path) {
			continue
		}
		match := true
		for i := range path {
			if t.Path[i] != path[i] {
				match = false
				break
			}
		}
		if match {
			return t, true
		}
	}
	return nil, false
}

// TypeName renders a short human-readable name for id, e.g. "Vec<u8>",
// "[u8; 32]", "Option<u128>" or "AccountId".
func (r *Registry) TypeName(id TypeID) string {
	return r.typeName(id, 0)
}

const maxNameDepth = 8

func (r *Registry) typeName(id TypeID, depth int) string {
	if depth > maxNameDepth {
		return "..."
	}
	t, ok := r.types[id]
	if !ok {
		return "#" + strconv.FormatUint(uint64(id), 10)
	}

	switch t.Kind {
	case DefPrimitive:
		return t.Primitive.String()
	case DefCompact:
		return "Compact<" + r.typeName(t.Elem, depth+1) + ">"
	case DefSequence:
		return "Vec<" + r.typeName(t.Elem, depth+1) + ">"
	case DefArray:
		return "[" + r.typeName(t.Elem, depth+1) + "; " + strconv.FormatUint(uint64(t.Len), 10) + "]"
	case DefTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = r.typeName(e, depth+1)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case DefBitSequence:
		return "BitVec<" + r.typeName(t.BitStore, depth+1) + ", " + t.BitOrder.String() + ">"
	}

	name := t.Ident()
	if name == "" {
		return t.Kind.String() + "#" + strconv.FormatUint(uint64(id), 10)
	}
	var args []string
	for _, p := range t.Params {
		if p.Bound {
			args = append(args, r.typeName(p.Type, depth+1))
		}
	}
	if len(args) == 0 {
		return name
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}

func newRegistry(types map[TypeID]*Type) *Registry {
	ids := make([]TypeID, 0, len(types))
	for id := range types {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &Registry{types: types, ids: ids}
}
