package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	cargocontract "github.com/baron-chain/bc-cargo-contract"
	"github.com/baron-chain/bc-cargo-contract/contract"
	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/selector"
)

// Metadata is a loaded contract description.
type Metadata struct {
	Registry *registry.Registry
	Catalog  *contract.Catalog
	Name     string
	Version  string
	// Format is the metadata format version, e.g. "5" or "V3".
	Format string
}

// Transcoder returns a transcoder over the registry and catalog.
func (m *Metadata) Transcoder(opts ...contract.Option) *contract.Transcoder {
	return contract.NewTranscoder(m.Registry, m.Catalog, opts...)
}

type config struct {
	selectorFunc cargocontract.SelectorFunc
}

// Option configures loading.
type Option func(*config)

// WithSelectorFunc sets how selectors are derived for entries that omit one.
// The default is selector.FromLabel.
func WithSelectorFunc(f cargocontract.SelectorFunc) Option {
	return func(c *config) {
		if f != nil {
			c.selectorFunc = f
		}
	}
}

// LoadFile reads a metadata JSON file or a .contract bundle.
func LoadFile(path string, opts ...Option) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "read "+path)
	}
	m, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	Logger().Debug("loaded metadata file", zap.String("path", path), zap.String("contract", m.Name))
	return m, nil
}

// Load reads metadata from r.
func Load(r io.Reader, opts ...Option) (*Metadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "read metadata")
	}
	return Parse(data, opts...)
}

// Parse decodes a metadata document. The "source" section of a .contract
// bundle, including any embedded wasm, is ignored.
func Parse(data []byte, opts ...Option) (*Metadata, error) {
	cfg := config{selectorFunc: selector.FromLabel}
	for _, o := range opts {
		o(&cfg)
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "malformed metadata JSON")
	}

	types, spec, format := doc.Types, doc.Spec, versionString(doc.Version)
	if doc.V3 != nil {
		types, spec, format = doc.V3.Types, doc.V3.Spec, "V3"
	}
	if spec == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "metadata has no spec section")
	}

	reg, err := buildRegistry(types)
	if err != nil {
		return nil, err
	}
	catalog, err := buildCatalog(spec, reg, cfg.selectorFunc)
	if err != nil {
		return nil, err
	}

	m := &Metadata{Registry: reg, Catalog: catalog, Format: format}
	if doc.Contract != nil {
		m.Name, m.Version = doc.Contract.Name, doc.Contract.Version
	}
	Logger().Debug("parsed metadata",
		zap.String("contract", m.Name),
		zap.String("format", m.Format),
		zap.Int("types", reg.Len()),
		zap.Int("constructors", len(catalog.Constructors())),
		zap.Int("messages", len(catalog.Messages())),
		zap.Int("events", len(catalog.Events())))
	return m, nil
}

// versionString accepts the version as a JSON string or number.
func versionString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func buildCatalog(spec *specDoc, reg *registry.Registry, selectorFunc cargocontract.SelectorFunc) (*contract.Catalog, error) {
	check := func(what, label string, id uint32) error {
		if _, ok := reg.Lookup(registry.TypeID(id)); !ok {
			return errors.InvalidInput(errors.PhaseLoad,
				fmt.Sprintf("%s %q references unknown type %d", what, label, id))
		}
		return nil
	}
	args := func(what string, c callDoc) ([]contract.Arg, *registry.TypeID, [selector.Size]byte, error) {
		var sel [selector.Size]byte
		out := make([]contract.Arg, len(c.Args))
		for i, a := range c.Args {
			if err := check(what+" "+c.Label+" argument", a.Label, a.Type.Type); err != nil {
				return nil, nil, sel, err
			}
			out[i] = contract.Arg{Label: a.Label, Type: registry.TypeID(a.Type.Type)}
		}
		var ret *registry.TypeID
		if c.ReturnType != nil {
			if err := check(what+" return of", c.Label, c.ReturnType.Type); err != nil {
				return nil, nil, sel, err
			}
			id := registry.TypeID(c.ReturnType.Type)
			ret = &id
		}
		if c.Selector == "" {
			sel = selectorFunc(c.Label)
		} else {
			var err error
			if sel, err = selector.Parse(c.Selector); err != nil {
				return nil, nil, sel, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err,
					fmt.Sprintf("%s %q has invalid selector %q", what, c.Label, c.Selector))
			}
		}
		return out, ret, sel, nil
	}

	constructors := make([]contract.Constructor, len(spec.Constructors))
	for i, c := range spec.Constructors {
		a, ret, sel, err := args("constructor", c)
		if err != nil {
			return nil, err
		}
		constructors[i] = contract.Constructor{
			Label: c.Label, Selector: sel, Args: a, ReturnType: ret,
			Payable: c.Payable, Default: c.Default, Docs: c.Docs,
		}
	}

	messages := make([]contract.Message, len(spec.Messages))
	for i, c := range spec.Messages {
		a, ret, sel, err := args("message", c)
		if err != nil {
			return nil, err
		}
		messages[i] = contract.Message{
			Label: c.Label, Selector: sel, Args: a, ReturnType: ret,
			Mutates: c.Mutates, Payable: c.Payable, Default: c.Default, Docs: c.Docs,
		}
	}

	events := make([]contract.Event, len(spec.Events))
	for i, e := range spec.Events {
		fields := make([]contract.EventField, len(e.Args))
		for j, a := range e.Args {
			if err := check("event "+e.Label+" field", a.Label, a.Type.Type); err != nil {
				return nil, err
			}
			fields[j] = contract.EventField{
				Label: a.Label, Type: registry.TypeID(a.Type.Type), Indexed: a.Indexed, Docs: a.Docs,
			}
		}
		events[i] = contract.Event{Label: e.Label, Fields: fields, Docs: e.Docs}
		if e.SignatureTopic != nil {
			events[i].SignatureTopic = *e.SignatureTopic
		}
	}

	return contract.NewCatalog(constructors, messages, events)
}
