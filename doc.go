// Package cargocontract converts smart-contract call data, constructor data,
// event payloads and return values between the SCALE wire encoding and a
// human-editable value representation, driven by a type registry that is only
// known at runtime.
//
// # Architecture Overview
//
//	cargocontract/       Root package with the TypeRegistry and SelectorFunc contracts
//	├── registry/        Type ids, type shapes, immutable Registry, WIT import
//	├── value/           Dynamic Value model, text rendering, JSON and CBOR documents
//	├── literal/         Literal parser: text to Value without type context
//	├── transcoder/      Registry-driven SCALE encoder and decoder
//	├── contract/        Message, constructor and event catalog; call framing
//	├── metadata/        Contract metadata document loader
//	├── selector/        Default selector derivation
//	├── diagnostics/     Near-miss name suggestions
//	├── errors/          Structured error types with paths and offsets
//	└── cmd/transcode/   Command-line transcoder with an interactive mode
//
// # Quick Start
//
// Encode a message call from textual arguments:
//
//	meta, err := metadata.LoadFile("flipper.json")
//	if err != nil {
//		return err
//	}
//	tc := contract.NewTranscoder(meta.Registry, meta.Catalog)
//	data, err := tc.EncodeCall("transfer", []string{"0xd435...", "1_000u128"})
//
// Decode it back:
//
//	call, err := tc.DecodeCall(data)
//	fmt.Println(call.Message.Label, value.Format(call.Args[1]))
//
// # Values
//
// Values produced by the literal parser are untyped: an integer without a
// suffix stays a Literal until the encoder sees the target type. Values
// produced by the decoder are canonical: byte sequences decode to Bytes,
// named composites to Map, positional composites to Tuple and Option-shaped
// variants to Option. Formatting a decoded value and parsing it back yields a
// value that encodes to the same bytes.
//
// # Errors
//
// Every failure is an *errors.Error carrying a Phase, a Kind, the field path
// into the value (args[0].to[3]), the byte offset for parse and decode
// failures, and ranked suggestions for misspelled names.
//
// # Concurrency
//
// Registries and catalogs are immutable after construction. Encoders,
// decoders and transcoders hold only immutable references and may be shared
// between goroutines.
package cargocontract
