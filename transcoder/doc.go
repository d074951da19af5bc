// Package transcoder converts between values and SCALE bytes, driven by a
// type registry.
//
// # Wire Format
//
// Every type in the registry has one SCALE form:
//
//	Type            Encoding
//	──────────────────────────────────────────────────────────
//	bool            1 byte, 0x00 or 0x01
//	char            u32 little-endian scalar value
//	str             compact length, then UTF-8 bytes
//	u8..u256        fixed width little-endian
//	i8..i256        fixed width little-endian two's complement
//	Compact<T>      1, 2, 4 or 5..67 bytes, low two bits select the mode
//	composite       fields in declaration order, no header
//	variant         1 byte discriminant, then the variant's fields
//	tuple           elements in order
//	[T; N]          N elements, no length
//	Vec<T>          compact length, then elements
//	BitVec<S, O>    compact bit count, then store words of S in order O
//
// # Value Mapping
//
// Encoding accepts several value shapes per type so literals stay short:
//
//	{ to: 0x.., value: 1 }   named composite, fields matched by name
//	(a, b) or [a, b]         positional composite or tuple
//	Name(..) / Name { .. }   variant by name; a bare Name for unit variants
//	None / Some(v)           Option-shaped variants
//	0x..                     Vec<u8> and [u8; N]
//	v                        single-field composites are transparent
//
// Decoding produces one canonical shape per type: Map for named composites,
// Tuple for positional ones, Bytes for u8 sequences and arrays, Option for
// Option-shaped variants, Unit for empty composites and tuples. Re-encoding
// a decoded value yields the original bytes.
//
// # Safety
//
// Decoding never trusts a length prefix. A sequence whose count cannot fit
// in the remaining input fails before allocation, compact integers must use
// their shortest form, and nesting is limited by WithMaxDepth.
//
// # Thread Safety
//
// Encoder and Decoder hold no mutable state and are safe for concurrent use.
//
// # Error Handling
//
// Errors use the structured types from the errors package and carry the
// path of the failing value:
//
//	[encode] numeric_overflow at amount: type u8 - value 256 overflows u8
//	[decode] unexpected_end at items[5] (offset 40): need 4 bytes at offset 40, have 1
package transcoder
