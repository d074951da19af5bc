package contract

import (
	"go.uber.org/zap"

	cargocontract "github.com/baron-chain/bc-cargo-contract"
	"github.com/baron-chain/bc-cargo-contract/diagnostics"
	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/literal"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/selector"
	"github.com/baron-chain/bc-cargo-contract/transcoder"
	"github.com/baron-chain/bc-cargo-contract/value"
)

type config struct {
	maxSuggestions int
	maxDepth       int
	strict         bool
}

// Option configures a Transcoder.
type Option func(*config)

// WithMaxSuggestions caps the near-miss names attached to lookup errors.
func WithMaxSuggestions(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSuggestions = n
		}
	}
}

// WithMaxDepth sets the value nesting limit.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithStrict makes every decode fail with KindTrailingBytes when input is
// left over.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// Transcoder frames contract calls, constructor calls, events and return
// values on top of the value encoder and decoder. It is safe for concurrent
// use.
type Transcoder struct {
	reg     cargocontract.TypeRegistry
	catalog *Catalog
	enc     *transcoder.Encoder
	dec     *transcoder.Decoder
	cfg     config
}

func NewTranscoder(reg cargocontract.TypeRegistry, catalog *Catalog, opts ...Option) *Transcoder {
	cfg := config{
		maxSuggestions: diagnostics.DefaultMaxSuggestions,
		maxDepth:       transcoder.DefaultMaxDepth,
	}
	for _, o := range opts {
		o(&cfg)
	}
	engineOpts := []transcoder.Option{
		transcoder.WithMaxDepth(cfg.maxDepth),
		transcoder.WithMaxSuggestions(cfg.maxSuggestions),
	}
	return &Transcoder{
		reg:     reg,
		catalog: catalog,
		enc:     transcoder.NewEncoder(reg, engineOpts...),
		dec:     transcoder.NewDecoder(reg, engineOpts...),
		cfg:     cfg,
	}
}

// Catalog returns the catalog the transcoder resolves against.
func (t *Transcoder) Catalog() *Catalog {
	return t.catalog
}

// Registry returns the type registry values are encoded against.
func (t *Transcoder) Registry() cargocontract.TypeRegistry {
	return t.reg
}

// ResolveMessage finds a message by exact label, then by selector written as
// 0x12345678 or 12345678.
func (t *Transcoder) ResolveMessage(nameOrSelector string) (*Message, error) {
	if m, ok := t.catalog.Message(nameOrSelector); ok {
		return m, nil
	}
	if sel, err := selector.Parse(nameOrSelector); err == nil {
		if m, ok := t.catalog.MessageBySelector(sel); ok {
			Logger().Debug("resolved message by selector",
				zap.String("selector", selector.String(sel)),
				zap.String("label", m.Label))
			return m, nil
		}
	}
	return nil, errors.MessageNotFound("message", nameOrSelector,
		diagnostics.Suggest(nameOrSelector, t.catalog.MessageLabels(), t.cfg.maxSuggestions))
}

// ResolveConstructor finds a constructor like ResolveMessage.
func (t *Transcoder) ResolveConstructor(nameOrSelector string) (*Constructor, error) {
	if k, ok := t.catalog.Constructor(nameOrSelector); ok {
		return k, nil
	}
	if sel, err := selector.Parse(nameOrSelector); err == nil {
		if k, ok := t.catalog.ConstructorBySelector(sel); ok {
			Logger().Debug("resolved constructor by selector",
				zap.String("selector", selector.String(sel)),
				zap.String("label", k.Label))
			return k, nil
		}
	}
	return nil, errors.MessageNotFound("constructor", nameOrSelector,
		diagnostics.Suggest(nameOrSelector, t.catalog.ConstructorLabels(), t.cfg.maxSuggestions))
}

// ResolveEvent finds an event by label or by its decimal position.
func (t *Transcoder) ResolveEvent(labelOrIndex string) (*Event, error) {
	if e, ok := t.catalog.eventByLabelOrIndex(labelOrIndex); ok {
		return e, nil
	}
	return nil, errors.MessageNotFound("event", labelOrIndex,
		diagnostics.Suggest(labelOrIndex, t.catalog.EventLabels(), t.cfg.maxSuggestions))
}

// EncodeCall parses args as literals and returns selector ++ encoded args.
func (t *Transcoder) EncodeCall(nameOrSelector string, args []string) ([]byte, error) {
	m, err := t.ResolveMessage(nameOrSelector)
	if err != nil {
		return nil, err
	}
	values, err := parseArgs(m.Label, m.Args, args)
	if err != nil {
		return nil, err
	}
	return t.frame(m.Label, m.Selector, m.Args, values)
}

// EncodeCallValues encodes already parsed argument values.
func (t *Transcoder) EncodeCallValues(nameOrSelector string, args []value.Value) ([]byte, error) {
	m, err := t.ResolveMessage(nameOrSelector)
	if err != nil {
		return nil, err
	}
	return t.frame(m.Label, m.Selector, m.Args, args)
}

// EncodeConstructor parses args as literals and returns selector ++ encoded
// args for a constructor.
func (t *Transcoder) EncodeConstructor(nameOrSelector string, args []string) ([]byte, error) {
	k, err := t.ResolveConstructor(nameOrSelector)
	if err != nil {
		return nil, err
	}
	values, err := parseArgs(k.Label, k.Args, args)
	if err != nil {
		return nil, err
	}
	return t.frame(k.Label, k.Selector, k.Args, values)
}

// EncodeConstructorValues encodes already parsed constructor arguments.
func (t *Transcoder) EncodeConstructorValues(nameOrSelector string, args []value.Value) ([]byte, error) {
	k, err := t.ResolveConstructor(nameOrSelector)
	if err != nil {
		return nil, err
	}
	return t.frame(k.Label, k.Selector, k.Args, args)
}

func arity(label string, want, got int) error {
	e := errors.ArityMismatch(errors.PhaseEncode, []string{"args"}, want, got)
	e.Name = label
	return e
}

func parseArgs(label string, declared []Arg, args []string) ([]value.Value, error) {
	if len(args) != len(declared) {
		return nil, arity(label, len(declared), len(args))
	}
	return literal.ParseAll(args)
}

func (t *Transcoder) frame(label string, sel [selector.Size]byte, declared []Arg, args []value.Value) ([]byte, error) {
	if len(args) != len(declared) {
		return nil, arity(label, len(declared), len(args))
	}
	buf := make([]byte, 0, 64)
	buf = append(buf, sel[:]...)
	for i, a := range declared {
		var err error
		if buf, err = t.enc.EncodeTo(buf, args[i], a.Type); err != nil {
			return nil, errors.Prefix(errors.PhaseEncode, err, "args", errors.IndexSegment(i))
		}
	}
	Logger().Debug("encoded call",
		zap.String("label", label),
		zap.String("selector", selector.String(sel)),
		zap.Int("bytes", len(buf)))
	return buf, nil
}

// DecodedCall is a decoded message invocation.
type DecodedCall struct {
	Message *Message
	Args    []value.Value
	Result  transcoder.Result
}

// Value renders the call as Label { arg: value, .. }.
func (c *DecodedCall) Value() value.Variant {
	return namedArgs(c.Message.Label, c.Message.Args, c.Args)
}

// DecodedConstructor is a decoded constructor invocation.
type DecodedConstructor struct {
	Constructor *Constructor
	Args        []value.Value
	Result      transcoder.Result
}

// Value renders the call as Label { arg: value, .. }.
func (c *DecodedConstructor) Value() value.Variant {
	return namedArgs(c.Constructor.Label, c.Constructor.Args, c.Args)
}

func namedArgs(label string, declared []Arg, args []value.Value) value.Variant {
	fields := make([]value.Field, len(args))
	for i, v := range args {
		if declared[i].Label == "" {
			fields[i] = value.At(i, v)
		} else {
			fields[i] = value.Named(declared[i].Label, v)
		}
	}
	return value.Variant{Name: label, Fields: fields}
}

func splitSelector(data []byte) ([selector.Size]byte, error) {
	var sel [selector.Size]byte
	if len(data) < selector.Size {
		return sel, errors.UnexpectedEnd([]string{"selector"}, 0, selector.Size, len(data))
	}
	copy(sel[:], data)
	return sel, nil
}

// DecodeCall reads a selector, resolves the message and decodes its
// arguments in order.
func (t *Transcoder) DecodeCall(data []byte) (*DecodedCall, error) {
	sel, err := splitSelector(data)
	if err != nil {
		return nil, err
	}
	m, ok := t.catalog.MessageBySelector(sel)
	if !ok {
		return nil, errors.MessageNotFound("message with selector", selector.String(sel), nil)
	}
	args, res, err := t.decodeArgs(data, m.Args)
	if err != nil {
		return nil, err
	}
	Logger().Debug("decoded call",
		zap.String("label", m.Label),
		zap.Int("args", len(args)),
		zap.Int("trailing", res.Trailing))
	return &DecodedCall{Message: m, Args: args, Result: res}, nil
}

// DecodeConstructor reads a selector, resolves the constructor and decodes
// its arguments in order.
func (t *Transcoder) DecodeConstructor(data []byte) (*DecodedConstructor, error) {
	sel, err := splitSelector(data)
	if err != nil {
		return nil, err
	}
	k, ok := t.catalog.ConstructorBySelector(sel)
	if !ok {
		return nil, errors.MessageNotFound("constructor with selector", selector.String(sel), nil)
	}
	args, res, err := t.decodeArgs(data, k.Args)
	if err != nil {
		return nil, err
	}
	Logger().Debug("decoded constructor",
		zap.String("label", k.Label),
		zap.Int("args", len(args)),
		zap.Int("trailing", res.Trailing))
	return &DecodedConstructor{Constructor: k, Args: args, Result: res}, nil
}

// decodeArgs decodes declared args after the selector of data. Offsets in
// errors and the result count the selector.
func (t *Transcoder) decodeArgs(data []byte, declared []Arg) ([]value.Value, transcoder.Result, error) {
	r := transcoder.NewReader(data)
	if _, err := r.ReadBytes(selector.Size); err != nil {
		return nil, transcoder.Result{}, err
	}
	args := make([]value.Value, len(declared))
	for i, a := range declared {
		v, err := t.dec.DecodeFrom(r, a.Type)
		if err != nil {
			return nil, transcoder.Result{}, errors.Prefix(errors.PhaseDecode, err, "args", errors.IndexSegment(i))
		}
		args[i] = v
	}
	res, err := t.finish(r)
	if err != nil {
		return nil, transcoder.Result{}, err
	}
	return args, res, nil
}

func (t *Transcoder) finish(r *transcoder.Reader) (transcoder.Result, error) {
	res := transcoder.Result{Consumed: r.Position(), Trailing: r.Remaining()}
	if t.cfg.strict && res.Trailing > 0 {
		return res, errors.TrailingBytes(res.Consumed, res.Trailing)
	}
	return res, nil
}

// DecodedEvent is a decoded event payload.
type DecodedEvent struct {
	Event  *Event
	Fields []value.Field
	Result transcoder.Result
}

// Value renders the event as Label { field: value, .. }.
func (d *DecodedEvent) Value() value.Variant {
	return value.Variant{Name: d.Event.Label, Fields: d.Fields}
}

// DecodeEvent decodes an event payload without an index prefix. The event
// is named by label, by position or by signature topic.
func (t *Transcoder) DecodeEvent(data []byte, labelOrIndex string) (*DecodedEvent, error) {
	e, err := t.ResolveEvent(labelOrIndex)
	if err != nil {
		return nil, err
	}
	return t.decodeEvent(transcoder.NewReader(data), e)
}

// DecodeEventByIndex decodes a payload whose first byte selects the event
// by position, as contracts that wrap all events in one enum emit them.
func (t *Transcoder) DecodeEventByIndex(data []byte) (*DecodedEvent, error) {
	r := transcoder.NewReader(data)
	idx, err := r.ReadByte()
	if err != nil {
		return nil, errors.Prefix(errors.PhaseDecode, err, "event")
	}
	e, ok := t.catalog.EventByIndex(int(idx))
	if !ok {
		return nil, errors.InvalidDiscriminant([]string{"event"}, idx, "event")
	}
	return t.decodeEvent(r, e)
}

func (t *Transcoder) decodeEvent(r *transcoder.Reader, e *Event) (*DecodedEvent, error) {
	fields := make([]value.Field, len(e.Fields))
	for i, f := range e.Fields {
		seg := f.Label
		if seg == "" {
			seg = errors.IndexSegment(i)
		}
		v, err := t.dec.DecodeFrom(r, f.Type)
		if err != nil {
			return nil, errors.Prefix(errors.PhaseDecode, err, seg)
		}
		if f.Label == "" {
			fields[i] = value.At(i, v)
		} else {
			fields[i] = value.Named(f.Label, v)
		}
	}
	res, err := t.finish(r)
	if err != nil {
		return nil, err
	}
	Logger().Debug("decoded event",
		zap.String("label", e.Label),
		zap.Int("trailing", res.Trailing))
	return &DecodedEvent{Event: e, Fields: fields, Result: res}, nil
}

// DecodeReturn decodes a message's return value. A message without a
// return type decodes to Unit and consumes nothing, so any input is
// reported as trailing.
func (t *Transcoder) DecodeReturn(data []byte, nameOrSelector string) (value.Value, transcoder.Result, error) {
	m, err := t.ResolveMessage(nameOrSelector)
	if err != nil {
		return nil, transcoder.Result{}, err
	}
	if m.ReturnType == nil {
		res, err := t.finish(transcoder.NewReader(data))
		if err != nil {
			return nil, transcoder.Result{}, err
		}
		return value.Unit{}, res, nil
	}
	return t.DecodeValue(data, *m.ReturnType)
}

// DecodeValue decodes a single value of type id, honouring strict mode.
func (t *Transcoder) DecodeValue(data []byte, id registry.TypeID) (value.Value, transcoder.Result, error) {
	r := transcoder.NewReader(data)
	v, err := t.dec.DecodeFrom(r, id)
	if err != nil {
		return nil, transcoder.Result{}, err
	}
	res, err := t.finish(r)
	if err != nil {
		return nil, transcoder.Result{}, err
	}
	return v, res, nil
}

// EncodeValue encodes a single value of type id.
func (t *Transcoder) EncodeValue(v value.Value, id registry.TypeID) ([]byte, error) {
	return t.enc.Encode(v, id)
}
