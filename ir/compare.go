package ir

import (
	"cmp"
	"strings"
)

// Compare returns an integer comparing two nodes by value, ignoring
// trivia and edit state. The result is 0 if a==b, -1 if a < b, and +1
// if a > b. Int and Float compare numerically with each other.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	rankA := rank(a.Kind)
	rankB := rank(b.Kind)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Kind {
	case BoolKind:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case IntKind, FloatKind:
		return compareNumbers(a, b)
	case DateKind:
		return a.Date.Compare(b.Date)
	case StringKind:
		return strings.Compare(a.Str, b.Str)
	default:
		return compareBlocks(a, b)
	}
}

// Equal reports whether two trees hold the same data.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

// rank returns the sorting rank of a kind.
// Order: Bool < Int/Float < Date < String < Sequence < Mapping < Hybrid
func rank(k Kind) int {
	switch k {
	case BoolKind:
		return 0
	case IntKind, FloatKind:
		return 1
	case DateKind:
		return 2
	case StringKind:
		return 3
	case SequenceKind:
		return 4
	case MappingKind:
		return 5
	case HybridKind:
		return 6
	}
	return 100
}

func compareNumbers(a, b *Node) int {
	if a.Kind == IntKind && b.Kind == IntKind {
		return cmp.Compare(a.Int, b.Int)
	}
	return cmp.Compare(floatOf(a), floatOf(b))
}

func floatOf(n *Node) float64 {
	if n.Kind == IntKind {
		return float64(n.Int)
	}
	return n.Float
}

func compareBlocks(a, b *Node) int {
	n := min(len(a.Values), len(b.Values))
	for i := 0; i < n; i++ {
		if c := Compare(a.Keys[i], b.Keys[i]); c != 0 {
			return c
		}
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Values), len(b.Values))
}
