// Package value defines the dynamic value model exchanged with the transcoder.
//
// A Value is one of:
//
//	Unit      ()
//	Bool      true, false
//	UInt      non-negative integer, arbitrary width
//	Int       signed integer, arbitrary width
//	Literal   integer written without a suffix; width decided by the target type
//	Str       "text"
//	Char      'c'
//	Bytes     0xdeadbeef
//	Seq       [a, b]
//	Tuple     (a, b)
//	Map       {name: v, 0: w}
//	Variant   Name, Name(a, b), Name { f: v }
//	Option    None, Some(v)
//
// Format renders the literal syntax accepted by the literal package, so a
// formatted value parses back to an equivalent value. ToDocument,
// MarshalJSON and MarshalCBOR render structured documents that keep field
// order.
package value
