// Package registry describes the runtime type graph that drives transcoding.
//
// A Registry maps a TypeID to a Type, a closed set of shapes keyed by DefKind:
//
//	Kind            Wire form
//	──────────────────────────────────────────────────────────
//	primitive       fixed-width little-endian; str = compact len + UTF-8
//	compact         variable-length integer, 1/2/4 or 1+n bytes
//	composite       fields in declaration order, no prefix
//	variant         discriminant byte + fields of the chosen variant
//	tuple           elements in order, no prefix
//	array           exactly Len elements, no prefix
//	sequence        compact element count + elements
//	bitsequence     compact bit count + packed store words
//
// Registries are immutable and safe for concurrent reads. They are assembled
// with a Builder, either from code, from a contract metadata document, or
// from WebAssembly Interface Types via ImportWIT:
//
//	b := registry.NewBuilder()
//	u128 := b.Primitive(registry.U128)
//	acct := b.Composite([]string{"AccountId"}, registry.Field{Type: b.Array(b.Primitive(registry.U8), 32)})
//	reg, err := b.Build()
//
// Types whose variants are exactly None (no fields) and Some (one field) are
// treated as optional values; see Type.OptionInner.
package registry
