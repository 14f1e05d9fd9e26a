package replay

import (
	"fmt"
	"strings"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokNewline
	tokName
	tokInt
	tokFloat
	tokString
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokComma
	tokColon
	tokDot
	tokAssign
)

func (k tokKind) String() string {
	switch k {
	case tokEOF:
		return "end of log"
	case tokNewline:
		return "end of line"
	case tokName:
		return "name"
	case tokInt:
		return "integer"
	case tokFloat:
		return "float"
	case tokString:
		return "string"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokComma:
		return "','"
	case tokColon:
		return "':'"
	case tokDot:
		return "'.'"
	case tokAssign:
		return "'='"
	}
	return "unknown token"
}

type token struct {
	kind tokKind
	text string // decoded for strings, raw for everything else
	line int
}

// lexer walks the log text byte-wise; the grammar's structural characters
// are all ASCII, so multi-byte runes only ever occur inside strings, where
// they pass through untouched.
type lexer struct {
	src   string
	pos   int
	line  int
	depth int // bracket nesting; newlines below depth 1 separate statements
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

func (lx *lexer) errf(format string, args ...any) error {
	return errAt(lx.line, format, args...)
}

func (lx *lexer) next() (token, error) {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '\n':
			lx.pos++
			lx.line++
			if lx.depth > 0 {
				continue // continuation inside brackets
			}
			return token{kind: tokNewline, line: lx.line - 1}, nil
		default:
			return lx.scan()
		}
	}
	if lx.depth > 0 {
		return token{}, lx.errf("unexpected end of log inside brackets")
	}
	return token{kind: tokEOF, line: lx.line}, nil
}

func (lx *lexer) scan() (token, error) {
	line := lx.line
	c := lx.src[lx.pos]

	punct := func(kind tokKind, depthDelta int) (token, error) {
		lx.pos++
		lx.depth += depthDelta
		if lx.depth < 0 {
			return token{}, errAt(line, "unbalanced %s", kind)
		}
		return token{kind: kind, line: line}, nil
	}

	switch {
	case c == '[':
		return punct(tokLBracket, 1)
	case c == ']':
		return punct(tokRBracket, -1)
	case c == '(':
		return punct(tokLParen, 1)
	case c == ')':
		return punct(tokRParen, -1)
	case c == '{':
		return punct(tokLBrace, 1)
	case c == '}':
		return punct(tokRBrace, -1)
	case c == ',':
		return punct(tokComma, 0)
	case c == ':':
		return punct(tokColon, 0)
	case c == '.':
		return punct(tokDot, 0)
	case c == '=':
		return punct(tokAssign, 0)
	case c == '\'' || c == '"':
		return lx.scanString(c)
	case c >= '0' && c <= '9':
		return lx.scanNumber()
	case c == '-' || c == '+':
		if lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] >= '0' && lx.src[lx.pos+1] <= '9' {
			return lx.scanNumber()
		}
		return token{}, errAt(line, "unexpected character %q", c)
	case isNameStart(c):
		return lx.scanName()
	default:
		return token{}, errAt(line, "unexpected character %q", c)
	}
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameByte(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func (lx *lexer) scanName() (token, error) {
	start := lx.pos
	for lx.pos < len(lx.src) && isNameByte(lx.src[lx.pos]) {
		lx.pos++
	}
	return token{kind: tokName, text: lx.src[start:lx.pos], line: lx.line}, nil
}

func (lx *lexer) scanNumber() (token, error) {
	start := lx.pos
	if c := lx.src[lx.pos]; c == '-' || c == '+' {
		lx.pos++
	}
	digits := func() {
		for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' {
			lx.pos++
		}
	}
	digits()

	isFloat := false
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
		isFloat = true
		lx.pos++
		digits()
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
		isFloat = true
		lx.pos++
		if lx.pos < len(lx.src) && (lx.src[lx.pos] == '-' || lx.src[lx.pos] == '+') {
			lx.pos++
		}
		exp := lx.pos
		digits()
		if lx.pos == exp {
			return token{}, lx.errf("malformed exponent in number")
		}
	}

	kind := tokInt
	if isFloat {
		kind = tokFloat
	}
	return token{kind: kind, text: lx.src[start:lx.pos], line: lx.line}, nil
}

func (lx *lexer) scanString(quote byte) (token, error) {
	line := lx.line
	lx.pos++ // opening quote
	var b strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch c {
		case quote:
			lx.pos++
			return token{kind: tokString, text: b.String(), line: line}, nil
		case '\n':
			return token{}, errAt(line, "unterminated string")
		case '\\':
			lx.pos++
			if lx.pos >= len(lx.src) {
				return token{}, errAt(line, "unterminated string escape")
			}
			decoded, err := lx.unescape()
			if err != nil {
				return token{}, err
			}
			b.WriteRune(decoded)
		default:
			b.WriteByte(c)
			lx.pos++
		}
	}
	return token{}, errAt(line, "unterminated string")
}

func (lx *lexer) unescape() (rune, error) {
	c := lx.src[lx.pos]
	lx.pos++
	switch c {
	case '\'', '"', '\\':
		return rune(c), nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'x':
		return lx.hexEscape(2)
	case 'u':
		return lx.hexEscape(4)
	default:
		return 0, lx.errf("unknown string escape \\%c", c)
	}
}

func (lx *lexer) hexEscape(width int) (rune, error) {
	if lx.pos+width > len(lx.src) {
		return 0, lx.errf("truncated hex escape")
	}
	var r rune
	for i := 0; i < width; i++ {
		c := lx.src[lx.pos+i]
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, lx.errf("invalid hex escape digit %q", c)
		}
		r = r<<4 | d
	}
	lx.pos += width
	return r, nil
}

func errAt(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidLog, line, fmt.Sprintf(format, args...))
}
