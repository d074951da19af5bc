// Package literal parses the textual value syntax into value.Value without
// consulting a type registry.
//
// Grammar:
//
//	value   = int | bool | string | char | bytes | seq | tuple | map
//	        | "None" | "Some" "(" value ")" | ident [ "(" values ")" | "{" fields "}" ]
//	int     = [ "-" | "+" ] digit { digit | "_" } [ suffix ]
//	suffix  = "u8" | "u16" | ... | "u256" | "i8" | ... | "i256"
//	bytes   = "0x" { hexdigit hexdigit }
//	seq     = "[" [ values ] "]"
//	tuple   = "(" [ values ] ")"            "()" is the unit value
//	map     = "{" [ fields ] "}"
//	fields  = key ":" value { "," key ":" value } [ "," ]
//	key     = ident | string | unsigned-int   integer keys are positional
//
// Some with exactly one positional value is an Option; Some with any other
// payload is an ordinary variant named Some.
//
// Strings use double quotes and the escapes \n \t \r \0 \" \' \\ \u{X}; chars
// use single quotes. Whitespace is insignificant and there are no comments.
//
// An integer without a suffix becomes value.Literal; its width is checked
// when it is encoded. A suffixed integer is range-checked here.
//
// Errors carry the byte offset of the offending token:
//
//	_, err := literal.Parse("0xag")
//	// [parse] parse_error (offset 3): invalid hex digit 'g'; expected hex digit
package literal
