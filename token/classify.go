package token

import "bytes"

// Classify assigns a type to a bare word by lexical shape alone, never by
// context: all digits with an optional leading '-' is an integer, digits
// '.' digits a float, three or four dot-separated digit groups a date,
// yes/no in any letter case a boolean, anything else an identifier.
func Classify(d []byte) Type {
	if len(d) == 0 {
		return TIdent
	}
	if t, ok := numeric(d); ok {
		return t
	}
	if bytes.EqualFold(d, []byte("yes")) {
		return TYes
	}
	if bytes.EqualFold(d, []byte("no")) {
		return TNo
	}
	return TIdent
}

func numeric(d []byte) (Type, bool) {
	i := 0
	neg := false
	if d[0] == '-' {
		neg = true
		i = 1
	}
	groups := 0
	for {
		n := asciiDigits(d[i:])
		if n == 0 {
			return 0, false
		}
		i += n
		groups++
		if i == len(d) {
			break
		}
		if d[i] != '.' || groups == 4 {
			return 0, false
		}
		i++
	}
	switch groups {
	case 1:
		return TInt, true
	case 2:
		return TFloat, true
	default:
		// dates have no sign
		if neg {
			return 0, false
		}
		return TDate, true
	}
}

func asciiDigits(d []byte) int {
	i := 0
	for i < len(d) {
		if !asciiDigit(d[i]) {
			return i
		}
		i++
	}
	return i
}

func asciiDigit(c byte) bool {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	default:
		return false
	}
}
