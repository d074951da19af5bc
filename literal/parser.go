package literal

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/literal/internal/token"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/value"
)

// MaxDepth bounds literal nesting.
const MaxDepth = 128

// Parse converts literal text into a Value without any type information.
// The whole input must be consumed.
func Parse(text string) (value.Value, error) {
	tokens, err := token.Tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != token.EOF {
		return nil, errors.ParseError(tok.Pos, token.EOF.String(), fmt.Sprintf("unexpected %s after value", describe(tok)))
	}
	return v, nil
}

// ParseAll parses each argument, prefixing errors with args[i].
func ParseAll(args []string) ([]value.Value, error) {
	out := make([]value.Value, len(args))
	for i, a := range args {
		v, err := Parse(a)
		if err != nil {
			return nil, errors.Prefix(errors.PhaseParse, err, "args", errors.IndexSegment(i))
		}
		out[i] = v
	}
	return out, nil
}

type parser struct {
	tokens []token.Token
	pos    int
}

func (p *parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) next() token.Token {
	tok := p.tokens[p.pos]
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(t token.Type) (token.Token, error) {
	tok := p.next()
	if tok.Type != t {
		return tok, errors.ParseError(tok.Pos, t.String(), "unexpected "+describe(tok))
	}
	return tok, nil
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.Ident, token.Number:
		return strconv.Quote(tok.Value)
	}
	return tok.Type.String()
}

func (p *parser) value(depth int) (value.Value, error) {
	tok := p.peek()
	if depth > MaxDepth {
		return nil, errors.ParseError(tok.Pos, "", fmt.Sprintf("nesting deeper than %d", MaxDepth))
	}

	switch tok.Type {
	case token.LBracket:
		p.next()
		items, err := p.list(token.RBracket, depth)
		if err != nil {
			return nil, err
		}
		return value.Seq(items), nil

	case token.LParen:
		p.next()
		if p.peek().Type == token.RParen {
			p.next()
			return value.Unit{}, nil
		}
		items, err := p.list(token.RParen, depth)
		if err != nil {
			return nil, err
		}
		return value.Tuple(items), nil

	case token.LBrace:
		p.next()
		fields, err := p.fields(depth)
		if err != nil {
			return nil, err
		}
		return value.Map{Fields: fields}, nil

	case token.String:
		p.next()
		return value.Str(tok.Value), nil

	case token.Char:
		p.next()
		return value.Char([]rune(tok.Value)[0]), nil

	case token.Bytes:
		p.next()
		b, err := hex.DecodeString(tok.Value)
		if err != nil {
			return nil, errors.ParseError(tok.Pos, "hex digits", err.Error())
		}
		return value.Bytes(b), nil

	case token.Number:
		p.next()
		return parseNumber(tok)

	case token.Ident:
		p.next()
		return p.ident(tok, depth)

	case token.EOF:
		return nil, errors.ParseError(tok.Pos, "value", "unexpected end of input")
	}

	return nil, errors.ParseError(tok.Pos, "value", "unexpected "+describe(tok))
}

func (p *parser) ident(tok token.Token, depth int) (value.Value, error) {
	switch tok.Value {
	case "true":
		return value.Bool(true), nil
	case "false":
		return value.Bool(false), nil
	case "None":
		return value.None(), nil
	}

	switch p.peek().Type {
	case token.LParen:
		p.next()
		if p.peek().Type == token.RParen {
			p.next()
			return value.Variant{Name: tok.Value}, nil
		}
		items, err := p.list(token.RParen, depth)
		if err != nil {
			return nil, err
		}
		// Some with one positional value is option sugar; any other
		// payload names a user variant.
		if tok.Value == "Some" && len(items) == 1 {
			return value.Some(items[0]), nil
		}
		return value.NewVariant(tok.Value, items...), nil
	case token.LBrace:
		p.next()
		fields, err := p.fields(depth)
		if err != nil {
			return nil, err
		}
		return value.Variant{Name: tok.Value, Fields: fields}, nil
	}
	return value.Variant{Name: tok.Value}, nil
}

// list parses comma separated values up to and including the closing token.
// A trailing comma is allowed.
func (p *parser) list(closing token.Type, depth int) ([]value.Value, error) {
	items := []value.Value{}
	for {
		if p.peek().Type == closing {
			p.next()
			return items, nil
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		tok := p.next()
		switch tok.Type {
		case token.Comma:
		case closing:
			return items, nil
		default:
			return nil, errors.ParseError(tok.Pos, "',' or "+closing.String(), "unexpected "+describe(tok))
		}
	}
}

// fields parses `key: value` pairs up to and including '}'. Keys are
// identifiers, quoted strings or unsigned integers (positional).
func (p *parser) fields(depth int) ([]value.Field, error) {
	fields := []value.Field{}
	seen := make(map[string]bool)
	for {
		key := p.next()
		var f value.Field
		switch key.Type {
		case token.RBrace:
			return fields, nil
		case token.Ident, token.String:
			f.Name = key.Value
		case token.Number:
			idx, err := strconv.Atoi(strings.ReplaceAll(key.Value, "_", ""))
			if err != nil || idx < 0 || strings.HasPrefix(key.Value, "+") {
				return nil, errors.ParseError(key.Pos, "field index", fmt.Sprintf("invalid field index %q", key.Value))
			}
			f.Index, f.Positional = idx, true
		default:
			return nil, errors.ParseError(key.Pos, "field name", "unexpected "+describe(key))
		}
		if seen[f.Key()] {
			return nil, errors.ParseError(key.Pos, "", fmt.Sprintf("duplicate field %q", f.Key()))
		}
		seen[f.Key()] = true

		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		f.Value = v
		fields = append(fields, f)

		tok := p.next()
		switch tok.Type {
		case token.Comma:
		case token.RBrace:
			return fields, nil
		default:
			return nil, errors.ParseError(tok.Pos, "',' or '}'", "unexpected "+describe(tok))
		}
	}
}

// parseNumber splits a number token into sign, digits and width suffix.
// Unsuffixed integers stay literals; suffixed ones are range-checked.
func parseNumber(tok token.Token) (value.Value, error) {
	raw := tok.Value
	i := 0
	neg := false
	if raw[0] == '-' || raw[0] == '+' {
		neg = raw[0] == '-'
		i++
	}
	start := i
	for i < len(raw) && (raw[i] >= '0' && raw[i] <= '9' || raw[i] == '_') {
		i++
	}
	digits := strings.ReplaceAll(raw[start:i], "_", "")
	suffix := raw[i:]

	text := digits
	if neg {
		text = "-" + digits
	}
	if suffix == "" {
		return value.Literal(text), nil
	}

	prim, ok := registry.ParsePrimitive(suffix)
	if !ok || !prim.IsInteger() {
		return nil, errors.ParseError(tok.Pos+i, "integer suffix such as u8 or i128", fmt.Sprintf("invalid suffix %q", suffix))
	}

	n, _ := new(big.Int).SetString(text, 10)
	if n.Sign() < 0 && !prim.Signed() {
		e := errors.SignMismatch(errors.PhaseParse, nil, text, suffix)
		e.Position = tok.Pos
		return nil, e
	}
	if !prim.Fits(n) {
		e := errors.NumericOverflow(errors.PhaseParse, nil, text, suffix)
		e.Position = tok.Pos
		return nil, e
	}
	if prim.Signed() {
		return value.Int{V: n}, nil
	}
	return value.UInt{V: n}, nil
}
