// Package errors provides structured error types for the transcoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries rich context: value path, type name, source offset,
// expected-token description, near-miss suggestions, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("args", "to").
//		Type("AccountId").
//		Detail("cannot use bool value").
//		Build()
//
// Or use convenience constructors for the taxonomy:
//
//	err := errors.UnknownField(errors.PhaseEncode, path, "naem", []string{"name"})
//	err := errors.ParseError(4, "hex digit", "invalid character 'g'")
//
// All errors implement the standard error interface and support errors.Is/As.
// Matching with errors.Is compares Kind, and Phase when the target sets one:
//
//	if errors.IsKind(err, errors.KindArityMismatch) { ... }
package errors
