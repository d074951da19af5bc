package token

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/baron-chain/bc-cargo-contract/errors"
)

type Type int

const (
	LParen Type = iota
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Colon
	Ident
	String
	Char
	Number
	Bytes
	EOF
)

func (t Type) String() string {
	switch t {
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Comma:
		return "','"
	case Colon:
		return "':'"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Char:
		return "char"
	case Number:
		return "number"
	case Bytes:
		return "byte literal"
	case EOF:
		return "end of input"
	}
	return "unknown"
}

// Token is a lexeme with its byte offset in the input. String and Char
// tokens hold the unescaped text; Bytes tokens hold the hex digits without
// the 0x prefix; Number tokens hold the raw text including sign and suffix.
type Token struct {
	Value string
	Type  Type
	Pos   int
}

var punct = map[byte]Type{
	'(': LParen,
	')': RParen,
	'[': LBracket,
	']': RBracket,
	'{': LBrace,
	'}': RBrace,
	',': Comma,
	':': Colon,
}

// Tokenize splits input into tokens, always ending with an EOF token.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token

	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])

		if unicode.IsSpace(r) {
			i += size
			continue
		}

		if t, ok := punct[input[i]]; ok {
			tokens = append(tokens, Token{string(input[i]), t, i})
			i++
			continue
		}

		switch {
		case r == '"':
			s, next, err := scanQuoted(input, i, '"')
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{s, String, i})
			i = next

		case r == '\'':
			s, next, err := scanQuoted(input, i, '\'')
			if err != nil {
				return nil, err
			}
			if utf8.RuneCountInString(s) != 1 {
				return nil, errors.ParseError(i, "a single character", fmt.Sprintf("char literal holds %d characters", utf8.RuneCountInString(s)))
			}
			tokens = append(tokens, Token{s, Char, i})
			i = next

		case r == '0' && i+1 < len(input) && (input[i+1] == 'x' || input[i+1] == 'X'):
			digits, next, err := scanHex(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{digits, Bytes, i})
			i = next

		case r == '-' || r == '+' || isDigit(r):
			next, err := scanNumber(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{input[i:next], Number, i})
			i = next

		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(input) {
				c, n := utf8.DecodeRuneInString(input[i:])
				if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
					break
				}
				i += n
			}
			tokens = append(tokens, Token{input[start:i], Ident, start})

		default:
			return nil, errors.ParseError(i, "value", fmt.Sprintf("unexpected character %q", r))
		}
	}

	tokens = append(tokens, Token{"", EOF, len(input)})
	return tokens, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanNumber consumes an optional sign, digits with '_' separators and an
// alphanumeric suffix. The suffix is validated by the parser.
func scanNumber(input string, start int) (int, error) {
	i := start
	if input[i] == '-' || input[i] == '+' {
		i++
	}
	if i >= len(input) || !isDigit(rune(input[i])) {
		return 0, errors.ParseError(i, "digit", "sign must be followed by a number")
	}
	for i < len(input) && (isDigit(rune(input[i])) || input[i] == '_') {
		i++
	}
	for i < len(input) {
		c, n := utf8.DecodeRuneInString(input[i:])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		i += n
	}
	return i, nil
}

// scanHex consumes 0x and the alphanumeric run after it. Every character
// must be a hex digit and the count must be even.
func scanHex(input string, start int) (string, int, error) {
	i := start + 2
	digitsStart := i
	for i < len(input) {
		c, n := utf8.DecodeRuneInString(input[i:])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		if !isHex(c) {
			return "", 0, errors.ParseError(i, "hex digit", fmt.Sprintf("invalid hex digit %q", c))
		}
		i += n
	}
	digits := input[digitsStart:i]
	if len(digits)%2 != 0 {
		return "", 0, errors.OddLengthHex(start, len(digits))
	}
	return digits, i, nil
}

// scanQuoted reads a quoted literal starting at the opening quote and
// returns the unescaped content and the offset after the closing quote.
func scanQuoted(input string, start int, quote byte) (string, int, error) {
	var out []byte
	i := start + 1
	for i < len(input) {
		c := input[i]
		switch {
		case c == quote:
			return string(out), i + 1, nil
		case c == '\\':
			r, next, err := scanEscape(input, i)
			if err != nil {
				return "", 0, err
			}
			out = utf8.AppendRune(out, r)
			i = next
		default:
			r, n := utf8.DecodeRuneInString(input[i:])
			if r == utf8.RuneError && n == 1 {
				return "", 0, errors.ParseError(i, "valid UTF-8", fmt.Sprintf("invalid UTF-8 byte 0x%02x", c))
			}
			out = append(out, input[i:i+n]...)
			i += n
		}
	}
	return "", 0, errors.ParseError(start, "closing "+strconv.QuoteRune(rune(quote)), "unterminated literal")
}

func scanEscape(input string, pos int) (rune, int, error) {
	if pos+1 >= len(input) {
		return 0, 0, errors.InvalidEscape(pos, `\`)
	}
	switch input[pos+1] {
	case 'n':
		return '\n', pos + 2, nil
	case 't':
		return '\t', pos + 2, nil
	case 'r':
		return '\r', pos + 2, nil
	case '0':
		return 0, pos + 2, nil
	case '"':
		return '"', pos + 2, nil
	case '\'':
		return '\'', pos + 2, nil
	case '\\':
		return '\\', pos + 2, nil
	case 'u':
		return scanUnicodeEscape(input, pos)
	}
	_, n := utf8.DecodeRuneInString(input[pos+1:])
	return 0, 0, errors.InvalidEscape(pos, input[pos:pos+1+n])
}

// scanUnicodeEscape reads \u{X} with one to six hex digits.
func scanUnicodeEscape(input string, pos int) (rune, int, error) {
	i := pos + 2
	if i >= len(input) || input[i] != '{' {
		return 0, 0, errors.InvalidEscape(pos, input[pos:min(i+1, len(input))])
	}
	i++
	digitsStart := i
	for i < len(input) && input[i] != '}' {
		if !isHex(rune(input[i])) || i-digitsStart >= 6 {
			return 0, 0, errors.InvalidEscape(pos, input[pos:i+1])
		}
		i++
	}
	if i >= len(input) || i == digitsStart {
		return 0, 0, errors.InvalidEscape(pos, input[pos:i])
	}
	n, _ := strconv.ParseUint(input[digitsStart:i], 16, 32)
	r := rune(n)
	if !utf8.ValidRune(r) {
		return 0, 0, errors.InvalidEscape(pos, input[pos:i+1])
	}
	return r, i + 1, nil
}
