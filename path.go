package savedata

import (
	"fmt"
	"strconv"
	"strings"
)

// Path grammar. Segments are joined by dots, indexes attach in
// brackets, and the two mix freely:
//
//	countries.FRA.treasury
//	army[1].morale
//	trade.node[3].incoming[0]
//
// A dotted segment is always a key, even when it looks numeric: id
// blocks address as units.3, not units[3]. Indexes are bracket-only
// and count entries positionally, keyed entries included.
//
// Keys holding dots, brackets or spaces go in double quotes, either as
// a dotted segment or inside brackets:
//
//	events."1444.11.11".fired
//	flags["the key"]
//
// The segment * matches every entry of a block at that level and is
// only meaningful to List; Get, Set and Delete reject it.
type step struct {
	key   string
	index int
	kind  stepKind
}

type stepKind int

const (
	stepKey stepKind = iota
	stepIndex
	stepWild
)

func (s step) String() string {
	switch s.kind {
	case stepIndex:
		return "[" + strconv.Itoa(s.index) + "]"
	case stepWild:
		return "*"
	default:
		return segText(s.key)
	}
}

func parsePath(path string) ([]step, error) {
	if path == "" {
		return nil, &PathError{Path: path, Msg: "empty path"}
	}
	var steps []step
	s := path
	for len(s) > 0 {
		switch s[0] {
		case '[':
			end := bracketEnd(s)
			if end < 0 {
				return nil, &PathError{Path: path, Msg: "unclosed '['"}
			}
			st, err := bracketStep(path, s[1:end])
			if err != nil {
				return nil, err
			}
			steps = append(steps, st)
			s = s[end+1:]
		case '.':
			return nil, &PathError{Path: path, Msg: "empty segment"}
		default:
			st, rest, err := cutSegment(path, s)
			if err != nil {
				return nil, err
			}
			steps = append(steps, st)
			s = rest
		}
		if len(s) == 0 {
			break
		}
		switch s[0] {
		case '.':
			s = s[1:]
			if s == "" {
				return nil, &PathError{Path: path, Msg: "trailing '.'"}
			}
			if s[0] == '[' {
				return nil, &PathError{Path: path, Msg: "'[' follows '.', write a[0] not a.[0]"}
			}
		case '[':
			// Bracket attaches without a dot.
		default:
			return nil, &PathError{Path: path, Msg: fmt.Sprintf("unexpected %q after segment", s[0])}
		}
	}
	return steps, nil
}

// cutSegment splits the leading dotted segment off s. Bare segments run
// to the next '.' or '['; quoted segments honor backslash escapes.
func cutSegment(path, s string) (step, string, error) {
	if s[0] == '"' {
		n := quotedEnd(s)
		if n < 0 {
			return step{}, "", &PathError{Path: path, Msg: "unterminated quoted segment"}
		}
		key, err := strconv.Unquote(s[:n])
		if err != nil {
			return step{}, "", &PathError{Path: path, Msg: "bad quoted segment: " + err.Error()}
		}
		return step{kind: stepKey, key: key}, s[n:], nil
	}
	seg, rest := s, ""
	if i := strings.IndexAny(s, ".["); i >= 0 {
		seg, rest = s[:i], s[i:]
	}
	if seg == "*" {
		return step{kind: stepWild}, rest, nil
	}
	return step{kind: stepKey, key: seg}, rest, nil
}

func bracketStep(path, inner string) (step, error) {
	if inner == "" {
		return step{}, &PathError{Path: path, Msg: "empty brackets"}
	}
	if inner[0] == '"' {
		key, err := strconv.Unquote(inner)
		if err != nil {
			return step{}, &PathError{Path: path, Msg: "bad quoted key: " + err.Error()}
		}
		return step{kind: stepKey, key: key}, nil
	}
	if inner == "*" {
		return step{}, &PathError{Path: path, Msg: "wildcard is a dotted segment, write a.* not a[*]"}
	}
	n, err := strconv.Atoi(inner)
	if err != nil || n < 0 {
		return step{}, &PathError{Path: path, Msg: fmt.Sprintf("bad index %q", inner)}
	}
	return step{kind: stepIndex, index: n}, nil
}

// bracketEnd finds the closing ']' of the bracket opening s, scanning
// over a quoted key if one is present. Returns -1 when unclosed.
func bracketEnd(s string) int {
	i := 1
	if len(s) > 1 && s[1] == '"' {
		n := quotedEnd(s[1:])
		if n < 0 {
			return -1
		}
		i = 1 + n
	}
	for ; i < len(s); i++ {
		if s[i] == ']' {
			return i
		}
	}
	return -1
}

// quotedEnd returns the length of the double-quoted string opening s,
// closing quote included, or -1 when unterminated.
func quotedEnd(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return -1
}
