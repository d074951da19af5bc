// Package metadata loads contract metadata documents into a type registry
// and a contract catalog.
//
// Both the plain metadata JSON and the .contract bundle are accepted. The
// loader reads the portable type table:
//
//	{"id": 3, "type": {"path": ["Option"], "params": [{"name": "T", "type": 1}],
//	                   "def": {"variant": {"variants": [...]}}}}
//
// with definitions primitive, composite, variant, sequence, array, tuple,
// compact and bitsequence, and the spec section's constructors, messages and
// events. Version 3 documents, which nest both under "V3", load the same
// way. Entries without a selector get one from the configured SelectorFunc.
//
// Malformed documents, duplicate type ids and references to missing types
// fail with KindInvalidInput in PhaseLoad.
package metadata
