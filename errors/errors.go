package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse   Phase = "parse"   // literal text to value
	PhaseEncode  Phase = "encode"  // value to wire bytes
	PhaseDecode  Phase = "decode"  // wire bytes to value
	PhaseResolve Phase = "resolve" // message/event/type lookup
	PhaseLoad    Phase = "load"    // metadata loading
)

// Kind categorizes the error
type Kind string

const (
	KindParse           Kind = "parse_error"
	KindUnknownTypeID   Kind = "unknown_type_id"
	KindTypeMismatch    Kind = "type_mismatch"
	KindNumericOverflow Kind = "numeric_overflow"
	KindSignMismatch    Kind = "sign_mismatch"
	KindOddLengthHex    Kind = "odd_length_hex"
	KindInvalidEscape   Kind = "invalid_escape"
	KindArityMismatch   Kind = "arity_mismatch"
	KindMissingField    Kind = "missing_field"
	KindUnknownField    Kind = "unknown_field"
	KindUnknownVariant  Kind = "unknown_variant"
	KindLengthMismatch  Kind = "length_mismatch"
	KindUnexpectedEnd   Kind = "unexpected_end"
	KindMessageNotFound Kind = "message_not_found"
	KindInvalidData     Kind = "invalid_data"
	KindTrailingBytes   Kind = "trailing_bytes"
	KindUnsupported     Kind = "unsupported"
	KindInvalidInput    Kind = "invalid_input"
)

// NoPosition marks an error that carries no source offset.
const NoPosition = -1

// Error is the structured error type used throughout the module
type Error struct {
	Value       any
	Cause       error
	Phase       Phase
	Kind        Kind
	Type        string
	Detail      string
	Expected    string
	Name        string
	Path        []string
	Suggestions []string
	Position    int
	Want        int
	Got         int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(FormatPath(e.Path))
	}

	if e.Position != NoPosition {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Position))
		b.WriteByte(')')
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Expected != "" {
		b.WriteString("; expected ")
		b.WriteString(e.Expected)
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("; did you mean ")
		for i, s := range e.Suggestions {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(s))
		}
		b.WriteByte('?')
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. An empty Phase on the
// target matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// HasPosition reports whether the error carries a source offset.
func (e *Error) HasPosition() bool {
	return e.Position != NoPosition
}

// WithPath returns a copy of the error with prefix prepended to its path.
// All other context (offsets, suggestions, cause) is preserved.
func (e *Error) WithPath(prefix ...string) *Error {
	if len(prefix) == 0 {
		return e
	}
	cp := *e
	cp.Path = make([]string, 0, len(prefix)+len(e.Path))
	cp.Path = append(cp.Path, prefix...)
	cp.Path = append(cp.Path, e.Path...)
	return &cp
}

// FormatPath joins path segments; index segments ("[3]") attach without a dot.
func FormatPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// IndexSegment renders a positional path segment.
func IndexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &Error{Kind: kind})
}

// Prefix re-roots err under path if it is an *Error; other errors are
// wrapped as invalid data in the given phase.
func Prefix(phase Phase, err error, path ...string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e.WithPath(path...)
	}
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidData,
		Path:     path,
		Cause:    err,
		Position: NoPosition,
	}
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:    phase,
			Kind:     kind,
			Position: NoPosition,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the registry type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Position sets the byte offset into the source text
func (b *Builder) Position(pos int) *Builder {
	b.err.Position = pos
	return b
}

// Expected sets the expected-token description
func (b *Builder) Expected(what string) *Builder {
	b.err.Expected = what
	return b
}

// Name sets the offending field, variant or message name
func (b *Builder) Name(name string) *Builder {
	b.err.Name = name
	return b
}

// Suggestions sets the ranked near-miss names
func (b *Builder) Suggestions(s []string) *Builder {
	b.err.Suggestions = s
	return b
}

// Counts sets expected and actual counts or lengths
func (b *Builder) Counts(want, got int) *Builder {
	b.err.Want = want
	b.err.Got = got
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the error taxonomy

// ParseError creates a positional literal syntax error
func ParseError(pos int, expected, detail string) *Error {
	return &Error{
		Phase:    PhaseParse,
		Kind:     KindParse,
		Position: pos,
		Expected: expected,
		Detail:   detail,
	}
}

// UnknownTypeID creates a missing registry id error
func UnknownTypeID(phase Phase, path []string, id uint32) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnknownTypeID,
		Path:     path,
		Detail:   fmt.Sprintf("type id %d not found in registry", id),
		Value:    id,
		Position: NoPosition,
	}
}

// TypeMismatch creates a value/type shape mismatch error
func TypeMismatch(phase Phase, path []string, valueKind, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		Type:     typeName,
		Detail:   fmt.Sprintf("cannot use %s value", valueKind),
		Value:    valueKind,
		Position: NoPosition,
	}
}

// NumericOverflow creates an out-of-range numeric error
func NumericOverflow(phase Phase, path []string, value any, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNumericOverflow,
		Path:     path,
		Type:     typeName,
		Detail:   fmt.Sprintf("value %v overflows %s", value, typeName),
		Value:    value,
		Position: NoPosition,
	}
}

// SignMismatch creates a negative-into-unsigned error
func SignMismatch(phase Phase, path []string, value any, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindSignMismatch,
		Path:     path,
		Type:     typeName,
		Detail:   fmt.Sprintf("negative value %v for unsigned %s", value, typeName),
		Value:    value,
		Position: NoPosition,
	}
}

// OddLengthHex creates an odd hex digit count error
func OddLengthHex(pos, digits int) *Error {
	return &Error{
		Phase:    PhaseParse,
		Kind:     KindOddLengthHex,
		Position: pos,
		Expected: "an even number of hex digits",
		Detail:   fmt.Sprintf("byte literal has %d hex digits", digits),
		Value:    digits,
	}
}

// InvalidEscape creates a malformed string escape error
func InvalidEscape(pos int, seq string) *Error {
	return &Error{
		Phase:    PhaseParse,
		Kind:     KindInvalidEscape,
		Position: pos,
		Expected: `one of \n \t \r \0 \" \' \\ \u{...}`,
		Detail:   fmt.Sprintf("invalid escape sequence %q", seq),
		Value:    seq,
	}
}

// ArityMismatch creates a count mismatch error
func ArityMismatch(phase Phase, path []string, want, got int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindArityMismatch,
		Path:     path,
		Detail:   fmt.Sprintf("expected %d values, got %d", want, got),
		Want:     want,
		Got:      got,
		Position: NoPosition,
	}
}

// MissingField creates a missing declared field error
func MissingField(phase Phase, path []string, name string, suggestions []string) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindMissingField,
		Path:        path,
		Name:        name,
		Detail:      fmt.Sprintf("required field %q not found", name),
		Suggestions: suggestions,
		Position:    NoPosition,
	}
}

// UnknownField creates an undeclared field error
func UnknownField(phase Phase, path []string, name string, suggestions []string) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindUnknownField,
		Path:        path,
		Name:        name,
		Detail:      fmt.Sprintf("unknown field %q", name),
		Suggestions: suggestions,
		Position:    NoPosition,
	}
}

// UnknownVariant creates an undeclared variant name error
func UnknownVariant(phase Phase, path []string, name, typeName string, suggestions []string) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindUnknownVariant,
		Path:        path,
		Type:        typeName,
		Name:        name,
		Detail:      fmt.Sprintf("no variant named %q", name),
		Suggestions: suggestions,
		Position:    NoPosition,
	}
}

// LengthMismatch creates a fixed-length mismatch error
func LengthMismatch(phase Phase, path []string, want, got int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindLengthMismatch,
		Path:     path,
		Detail:   fmt.Sprintf("expected length %d, got %d", want, got),
		Want:     want,
		Got:      got,
		Position: NoPosition,
	}
}

// UnexpectedEnd creates a short input error
func UnexpectedEnd(path []string, offset, need, have int) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindUnexpectedEnd,
		Path:     path,
		Detail:   fmt.Sprintf("need %d bytes at offset %d, have %d", need, offset, have),
		Want:     need,
		Got:      have,
		Position: offset,
	}
}

// MessageNotFound creates an unresolved message/event name error
func MessageNotFound(what, name string, suggestions []string) *Error {
	return &Error{
		Phase:       PhaseResolve,
		Kind:        KindMessageNotFound,
		Name:        name,
		Detail:      fmt.Sprintf("%s %q not found", what, name),
		Suggestions: suggestions,
		Position:    NoPosition,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidData,
		Path:     path,
		Detail:   detail,
		Position: NoPosition,
	}
}

// InvalidDiscriminant creates an unknown variant index error
func InvalidDiscriminant(path []string, disc uint8, typeName string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindInvalidData,
		Path:     path,
		Type:     typeName,
		Detail:   fmt.Sprintf("no variant with discriminant %d", disc),
		Value:    disc,
		Position: NoPosition,
	}
}

// TrailingBytes creates an unconsumed input error
func TrailingBytes(consumed, trailing int) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindTrailingBytes,
		Detail:   fmt.Sprintf("%d bytes left after decoding %d", trailing, consumed),
		Want:     consumed,
		Got:      consumed + trailing,
		Position: consumed,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnsupported,
		Detail:   what,
		Position: NoPosition,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidInput,
		Detail:   detail,
		Position: NoPosition,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     kind,
		Detail:   detail,
		Cause:    cause,
		Position: NoPosition,
	}
}
