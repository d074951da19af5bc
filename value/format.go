package value

import (
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// Format renders v in the literal syntax. The output parses back to a value
// that encodes identically.
func Format(v Value) string {
	var b strings.Builder
	p := printer{b: &b}
	p.value(v, 0)
	return b.String()
}

// FormatIndent renders v across multiple lines, one element per line,
// nesting with indent.
func FormatIndent(v Value, indent string) string {
	var b strings.Builder
	p := printer{b: &b, indent: indent, multiline: true}
	p.value(v, 0)
	return b.String()
}

type printer struct {
	b         *strings.Builder
	indent    string
	multiline bool
}

func (p *printer) value(v Value, depth int) {
	switch v := v.(type) {
	case nil, Unit:
		p.b.WriteString("()")
	case Bool:
		p.b.WriteString(strconv.FormatBool(bool(v)))
	case UInt:
		p.bigint(v.V)
	case Int:
		p.bigint(v.V)
	case Literal:
		p.b.WriteString(string(v))
	case Str:
		p.b.WriteString(QuoteString(string(v)))
	case Char:
		p.b.WriteString(QuoteChar(rune(v)))
	case Bytes:
		p.b.WriteString("0x")
		p.b.WriteString(hex.EncodeToString(v))
	case Seq:
		p.list("[", "]", []Value(v), depth)
	case Tuple:
		p.list("(", ")", []Value(v), depth)
	case Map:
		p.fields("{", "}", v.Fields, depth)
	case Variant:
		p.b.WriteString(v.Name)
		switch {
		case len(v.Fields) == 0:
		case AllPositional(v.Fields):
			values := make([]Value, len(v.Fields))
			for i, f := range v.Fields {
				values[i] = f.Value
			}
			p.list("(", ")", values, depth)
		default:
			p.b.WriteByte(' ')
			p.fields("{", "}", v.Fields, depth)
		}
	case Option:
		if !v.Some {
			p.b.WriteString("None")
			return
		}
		p.b.WriteString("Some(")
		p.value(v.Inner, depth)
		p.b.WriteByte(')')
	default:
		p.b.WriteString("()")
	}
}

func (p *printer) bigint(n *big.Int) {
	if n == nil {
		p.b.WriteByte('0')
		return
	}
	p.b.WriteString(n.String())
}

func (p *printer) list(open, close string, values []Value, depth int) {
	p.b.WriteString(open)
	if len(values) == 0 {
		p.b.WriteString(close)
		return
	}
	for i, v := range values {
		p.separator(i, depth+1)
		p.value(v, depth+1)
	}
	p.end(close, depth)
}

func (p *printer) fields(open, close string, fields []Field, depth int) {
	p.b.WriteString(open)
	if len(fields) == 0 {
		p.b.WriteString(close)
		return
	}
	if !p.multiline {
		p.b.WriteByte(' ')
	}
	for i, f := range fields {
		p.separator(i, depth+1)
		p.b.WriteString(formatKey(f))
		p.b.WriteString(": ")
		p.value(f.Value, depth+1)
	}
	if !p.multiline {
		p.b.WriteByte(' ')
	}
	p.end(close, depth)
}

func (p *printer) separator(i, depth int) {
	if i > 0 {
		p.b.WriteByte(',')
		if !p.multiline {
			p.b.WriteByte(' ')
		}
	}
	if p.multiline {
		p.b.WriteByte('\n')
		p.b.WriteString(strings.Repeat(p.indent, depth))
	}
}

func (p *printer) end(close string, depth int) {
	if p.multiline {
		p.b.WriteByte('\n')
		p.b.WriteString(strings.Repeat(p.indent, depth))
	}
	p.b.WriteString(close)
}

func formatKey(f Field) string {
	if f.Positional {
		return strconv.Itoa(f.Index)
	}
	if IsIdent(f.Name) {
		return f.Name
	}
	return QuoteString(f.Name)
}

// IsIdent reports whether s can be written as a bare identifier.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	switch s {
	case "true", "false", "None", "Some":
		return false
	}
	return true
}

// QuoteString writes s as a double-quoted literal using only the escapes the
// literal parser accepts.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		writeEscaped(&b, r, '"')
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteChar writes r as a single-quoted char literal.
func QuoteChar(r rune) string {
	var b strings.Builder
	b.WriteByte('\'')
	writeEscaped(&b, r, '\'')
	b.WriteByte('\'')
	return b.String()
}

func writeEscaped(b *strings.Builder, r rune, quote rune) {
	switch r {
	case '\n':
		b.WriteString(`\n`)
	case '\t':
		b.WriteString(`\t`)
	case '\r':
		b.WriteString(`\r`)
	case 0:
		b.WriteString(`\0`)
	case '\\':
		b.WriteString(`\\`)
	case quote:
		b.WriteByte('\\')
		b.WriteRune(r)
	default:
		if unicode.IsPrint(r) {
			b.WriteRune(r)
			return
		}
		b.WriteString(`\u{`)
		b.WriteString(strconv.FormatInt(int64(r), 16))
		b.WriteByte('}')
	}
}
