package contract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/selector"
)

// Arg is a declared message or constructor argument.
type Arg struct {
	Label string
	Type  registry.TypeID
}

// Message is a callable contract message.
type Message struct {
	ReturnType *registry.TypeID
	Label      string
	Args       []Arg
	Docs       []string
	Selector   [selector.Size]byte
	Mutates    bool
	Payable    bool
	Default    bool
}

// Constructor is a contract constructor. It is framed like a message.
type Constructor struct {
	ReturnType *registry.TypeID
	Label      string
	Args       []Arg
	Docs       []string
	Selector   [selector.Size]byte
	Payable    bool
	Default    bool
}

// EventField is one field of an event payload. Indexed fields are also
// published as topics but stay part of the data.
type EventField struct {
	Label   string
	Docs    []string
	Type    registry.TypeID
	Indexed bool
}

// Event is a contract event. SignatureTopic, when known, is the 0x-prefixed
// hex of the first topic the event is published under.
type Event struct {
	Label          string
	SignatureTopic string
	Fields         []EventField
	Docs           []string
}

// Catalog is the immutable set of messages, constructors and events of one
// contract.
type Catalog struct {
	messages       []Message
	constructors   []Constructor
	events         []Event
	messageIdx     map[string]int
	messageSel     map[[selector.Size]byte]int
	constructorIdx map[string]int
	constructorSel map[[selector.Size]byte]int
	eventIdx       map[string]int
}

// NewCatalog validates and indexes the entries. Labels must be unique per
// kind, and so must selectors.
func NewCatalog(constructors []Constructor, messages []Message, events []Event) (*Catalog, error) {
	c := &Catalog{
		constructors:   append([]Constructor(nil), constructors...),
		messages:       append([]Message(nil), messages...),
		events:         append([]Event(nil), events...),
		messageIdx:     make(map[string]int, len(messages)),
		messageSel:     make(map[[selector.Size]byte]int, len(messages)),
		constructorIdx: make(map[string]int, len(constructors)),
		constructorSel: make(map[[selector.Size]byte]int, len(constructors)),
		eventIdx:       make(map[string]int, len(events)),
	}

	for i, m := range c.messages {
		if err := index(c.messageIdx, c.messageSel, "message", m.Label, m.Selector, i); err != nil {
			return nil, err
		}
	}
	for i, k := range c.constructors {
		if err := index(c.constructorIdx, c.constructorSel, "constructor", k.Label, k.Selector, i); err != nil {
			return nil, err
		}
	}
	for i, e := range c.events {
		if _, dup := c.eventIdx[e.Label]; dup {
			return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("duplicate event %q", e.Label))
		}
		c.eventIdx[e.Label] = i
	}
	return c, nil
}

func index(labels map[string]int, sels map[[selector.Size]byte]int, what, label string, sel [selector.Size]byte, i int) error {
	if label == "" {
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("%s %d has no label", what, i))
	}
	if _, dup := labels[label]; dup {
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("duplicate %s %q", what, label))
	}
	if j, dup := sels[sel]; dup {
		return errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("%s %q reuses selector %s of entry %d", what, label, selector.String(sel), j))
	}
	labels[label] = i
	sels[sel] = i
	return nil
}

// Messages returns the messages in declaration order.
func (c *Catalog) Messages() []Message {
	return c.messages
}

// Constructors returns the constructors in declaration order.
func (c *Catalog) Constructors() []Constructor {
	return c.constructors
}

// Events returns the events in declaration order.
func (c *Catalog) Events() []Event {
	return c.events
}

func (c *Catalog) Message(label string) (*Message, bool) {
	i, ok := c.messageIdx[label]
	if !ok {
		return nil, false
	}
	return &c.messages[i], true
}

func (c *Catalog) MessageBySelector(sel [selector.Size]byte) (*Message, bool) {
	i, ok := c.messageSel[sel]
	if !ok {
		return nil, false
	}
	return &c.messages[i], true
}

func (c *Catalog) Constructor(label string) (*Constructor, bool) {
	i, ok := c.constructorIdx[label]
	if !ok {
		return nil, false
	}
	return &c.constructors[i], true
}

func (c *Catalog) ConstructorBySelector(sel [selector.Size]byte) (*Constructor, bool) {
	i, ok := c.constructorSel[sel]
	if !ok {
		return nil, false
	}
	return &c.constructors[i], true
}

func (c *Catalog) Event(label string) (*Event, bool) {
	i, ok := c.eventIdx[label]
	if !ok {
		return nil, false
	}
	return &c.events[i], true
}

// EventByIndex returns the event at position i of the contract's event enum.
func (c *Catalog) EventByIndex(i int) (*Event, bool) {
	if i < 0 || i >= len(c.events) {
		return nil, false
	}
	return &c.events[i], true
}

// MessageLabels returns message labels in declaration order.
func (c *Catalog) MessageLabels() []string {
	out := make([]string, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.Label
	}
	return out
}

// ConstructorLabels returns constructor labels in declaration order.
func (c *Catalog) ConstructorLabels() []string {
	out := make([]string, len(c.constructors))
	for i, k := range c.constructors {
		out[i] = k.Label
	}
	return out
}

// EventLabels returns event labels in declaration order.
func (c *Catalog) EventLabels() []string {
	out := make([]string, len(c.events))
	for i, e := range c.events {
		out[i] = e.Label
	}
	return out
}

// EventByTopic returns the event published under the signature topic, given
// as hex with or without 0x.
func (c *Catalog) EventByTopic(topic string) (*Event, bool) {
	topic = strings.TrimPrefix(strings.ToLower(topic), "0x")
	if topic == "" {
		return nil, false
	}
	for i := range c.events {
		if strings.TrimPrefix(strings.ToLower(c.events[i].SignatureTopic), "0x") == topic {
			return &c.events[i], true
		}
	}
	return nil, false
}

// eventByLabelOrIndex accepts an event label, its decimal position or its
// signature topic.
func (c *Catalog) eventByLabelOrIndex(q string) (*Event, bool) {
	if e, ok := c.Event(q); ok {
		return e, true
	}
	if i, err := strconv.Atoi(q); err == nil {
		return c.EventByIndex(i)
	}
	return c.EventByTopic(q)
}
