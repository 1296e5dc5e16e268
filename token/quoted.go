package token

import (
	"strings"
)

// NeedsQuote reports whether v must be quoted to survive a reparse as a
// string: empty text, text containing delimiters, and text whose shape
// would classify as a number, date or boolean all need quotes.
func NeedsQuote(v string) bool {
	if v == "" {
		return true
	}
	for i := 0; i < len(v); i++ {
		if wordBreak(v[i]) {
			return true
		}
	}
	return Classify([]byte(v)) != TIdent
}

// KeyNeedsQuote reports whether s must be quoted to serve as a key.
// Keys keep their scalar shape on a reparse (dates and numbers are
// legal bare keys), so only delimiters and emptiness force quotes.
func KeyNeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		if wordBreak(s[i]) {
			return true
		}
	}
	return false
}

// Quote wraps v in double quotes, escaping embedded quotes and
// backslashes.
func Quote(v string) string {
	d := make([]byte, 1, len(v)+2)
	d[0] = '"'
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '"':
			d = append(d, '\\', '"')
		case '\\':
			d = append(d, '\\', '\\')
		default:
			d = append(d, v[i])
		}
	}
	d = append(d, '"')
	return string(d)
}

// Unquote decodes a TString token's bytes: the enclosing quotes are
// stripped and, when esc is set, \" and \\ resolve to their bare
// characters. Any other backslash sequence passes through untouched.
func Unquote(b []byte, esc bool) string {
	inner := b[1 : len(b)-1]
	if !esc {
		return string(inner)
	}
	sb := &strings.Builder{}
	sb.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			switch inner[i+1] {
			case '"', '\\':
				i++
				c = inner[i]
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
