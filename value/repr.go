package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Repr renders a primitive value as its canonical literal text. The text is
// what the replay grammar parses back: None, True/False, decimal integers,
// floats that always carry a '.' or exponent, and single-quoted strings.
//
// Non-finite floats have no literal form and are rejected.
func Repr(v any) (string, error) {
	n, ok := Normalize(v)
	if !ok {
		return "", fmt.Errorf("no literal form for %T", v)
	}
	switch t := n.(type) {
	case nil:
		return "None", nil
	case bool:
		if t {
			return "True", nil
		}
		return "False", nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return reprFloat(t)
	case string:
		return Quote(t), nil
	}
	return "", fmt.Errorf("no literal form for %T", v)
}

func reprFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite float has no literal form")
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Whole-valued floats format without a marker; force one so the replay
	// lexer keeps the int/float distinction.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

// Quote renders s as a single-quoted string literal. Quotes, backslashes and
// control characters are escaped; other runes pass through as UTF-8, keeping
// the log human-diffable.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}
