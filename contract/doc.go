// Package contract frames contract invocations and events on top of the
// value transcoder.
//
// A Catalog lists a contract's constructors, messages and events with their
// selectors and argument types. A Transcoder resolves entries by label or
// selector and converts:
//
//	call data          selector (4 bytes) ++ args in declaration order
//	constructor data   selector (4 bytes) ++ args in declaration order
//	event data         fields in declaration order, optionally led by a
//	                   one-byte event index
//	return data        the message's return type
//
// Unknown labels fail with KindMessageNotFound and carry near-miss
// suggestions. Resolution and framing are logged at debug level through the
// package logger, which is a no-op until SetLogger is called.
package contract
