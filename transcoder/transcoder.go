package transcoder

import (
	cargocontract "github.com/baron-chain/bc-cargo-contract"
	"github.com/baron-chain/bc-cargo-contract/diagnostics"
	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/transcoder/internal/scale"
)

// DefaultMaxDepth bounds type nesting during encode and decode.
const DefaultMaxDepth = 128

// Reader is a byte cursor for decoding several values from one buffer.
type Reader = scale.Reader

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return scale.NewReader(data)
}

// Result reports how much input a decode consumed. Trailing bytes are not an
// error unless the caller asks for exact decoding.
type Result struct {
	Consumed int
	Trailing int
}

type config struct {
	maxDepth       int
	maxSuggestions int
}

// Option configures an Encoder or Decoder.
type Option func(*config)

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithMaxSuggestions caps the near-miss names attached to field and variant errors.
func WithMaxSuggestions(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSuggestions = n
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		maxDepth:       DefaultMaxDepth,
		maxSuggestions: diagnostics.DefaultMaxSuggestions,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// resolve looks up id, re-rooting a lookup failure at path in phase.
func resolve(reg cargocontract.TypeRegistry, phase errors.Phase, id registry.TypeID, path []string) (*registry.Type, error) {
	t, err := reg.Resolve(id)
	if err == nil {
		return t, nil
	}
	if errors.IsKind(err, errors.KindUnknownTypeID) {
		return nil, errors.UnknownTypeID(phase, path, uint32(id))
	}
	return nil, errors.Prefix(phase, err, path...)
}

func depthExceeded(phase errors.Phase, path []string, max int) error {
	return errors.New(phase, errors.KindInvalidData).
		Path(path...).
		Detail("nesting deeper than %d", max).
		Build()
}

// child returns path extended by seg without aliasing path's backing array.
func child(path []string, seg string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}

// integerPrimitive follows single-field composites down to an integer
// primitive, as compact encoding allows.
func integerPrimitive(reg cargocontract.TypeRegistry, id registry.TypeID) (registry.Primitive, bool) {
	for range DefaultMaxDepth {
		t, err := reg.Resolve(id)
		if err != nil {
			return 0, false
		}
		switch {
		case t.Kind == registry.DefPrimitive && t.Primitive.IsInteger():
			return t.Primitive, true
		case t.Kind == registry.DefComposite && len(t.Fields) == 1:
			id = t.Fields[0].Type
		case t.Kind == registry.DefTuple && len(t.Elems) == 1:
			id = t.Elems[0]
		default:
			return 0, false
		}
	}
	return 0, false
}

func isU8(reg cargocontract.TypeRegistry, id registry.TypeID) bool {
	t, err := reg.Resolve(id)
	return err == nil && t.Kind == registry.DefPrimitive && t.Primitive == registry.U8
}

// minSize returns the fewest bytes any value of id occupies on the wire.
// Recursive references count as zero.
func minSize(reg cargocontract.TypeRegistry, id registry.TypeID, visiting map[registry.TypeID]bool) int {
	if visiting[id] {
		return 0
	}
	t, err := reg.Resolve(id)
	if err != nil {
		return 0
	}
	visiting[id] = true
	defer delete(visiting, id)

	switch t.Kind {
	case registry.DefPrimitive:
		if t.Primitive == registry.Str {
			return 1
		}
		return t.Primitive.Size()
	case registry.DefCompact, registry.DefSequence, registry.DefBitSequence:
		return 1
	case registry.DefComposite:
		n := 0
		for _, f := range t.Fields {
			n += minSize(reg, f.Type, visiting)
		}
		return n
	case registry.DefTuple:
		n := 0
		for _, e := range t.Elems {
			n += minSize(reg, e, visiting)
		}
		return n
	case registry.DefArray:
		return int(t.Len) * minSize(reg, t.Elem, visiting)
	case registry.DefVariant:
		return 1
	}
	return 0
}
