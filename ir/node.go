package ir

import (
	"maps"
	"slices"
)

// Span is a half-open byte range [Lo, Hi) into the originally parsed
// buffer.
type Span struct {
	Lo, Hi int
}

func (s Span) Len() int {
	return s.Hi - s.Lo
}

// IsZero reports whether the span was never set, which is how nodes built
// by edits are told apart from nodes the parser placed: every parsed span
// ends past offset zero.
func (s Span) IsZero() bool {
	return s.Hi == 0
}

// State tracks how much of a node's original text is still authoritative.
// Clean nodes re-emit their bytes verbatim. Touched nodes were edited
// somewhere strictly below and re-emit their own skeleton around their
// children. Dirty nodes were rewritten and re-emit canonically.
type State uint8

const (
	Clean State = iota
	Touched
	Dirty
)

func (s State) String() string {
	switch s {
	case Clean:
		return "Clean"
	case Touched:
		return "Touched"
	case Dirty:
		return "Dirty"
	default:
		return "<unknown state>"
	}
}

// Node is the document tree unit: one scalar, or one block of entries.
// Blocks keep parallel Keys/Values slices of equal length; Keys[i] == nil
// marks a positional entry. A Mapping has every key set, a Sequence none,
// a Hybrid both kinds at one level in original order. Duplicate keys are
// legal and keep their order.
//
// Trivia spans index the parsed buffer. Span covers the node's own text,
// '{' through '}' for blocks and the whole document for the root. Entry
// covers the node's full entry in its parent: leading whitespace and
// comments, the key and '=' if any, then the value text. Close covers a
// block's trailing inner trivia plus the closing '}'. For every parsed
// block, the open brace, the child Entry spans and Close concatenate
// back to exactly Span.
type Node struct {
	Kind        Kind
	Parent      *Node
	ParentIndex int

	Keys   []*Node
	Values []*Node

	Str   string
	Int   int64
	Float float64
	Bool  bool
	Date  Date

	State State

	Span  Span
	Entry Span
	Close Span
}

// MarkDirty flags the node as rewritten and walks Touched up the parent
// chain, so serialization regenerates just this subtree and re-emits the
// skeleton of the path above it.
func (n *Node) MarkDirty() {
	n.State = Dirty
	if n.Parent != nil {
		n.Parent.Touch()
	}
}

// Touch flags the node and its ancestors as edited-below. Already-flagged
// ancestors end the walk: whatever sits above them was flagged when they
// were.
func (n *Node) Touch() {
	for p := n; p != nil && p.State == Clean; p = p.Parent {
		p.State = Touched
	}
}

func (n *Node) Root() *Node {
	res := n
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

func FromString(v string) *Node {
	return &Node{Kind: StringKind, Str: v}
}

func FromInt(v int64) *Node {
	return &Node{Kind: IntKind, Int: v}
}

func FromFloat(v float64) *Node {
	return &Node{Kind: FloatKind, Float: v}
}

func FromBool(v bool) *Node {
	return &Node{Kind: BoolKind, Bool: v}
}

func FromDate(v Date) *Node {
	return &Node{Kind: DateKind, Date: v}
}

// FromSlice builds a Sequence of positional values.
func FromSlice(vs []*Node) *Node {
	res := &Node{Kind: SequenceKind}
	res.Keys = make([]*Node, len(vs))
	res.Values = make([]*Node, len(vs))
	for i, v := range vs {
		v.Parent = res
		v.ParentIndex = i
		res.Values[i] = v
	}
	return res
}

type KeyVal struct {
	Key *Node
	Val *Node
}

// FromKeyVals builds a block from entries; a nil Key makes the entry
// positional. The block kind follows from the mix of entries.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{}
	res.Keys = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	keyed, bare := 0, 0
	for i := range kvs {
		kv := &kvs[i]
		if kv.Key != nil {
			keyed++
			kv.Key.Parent = res
			kv.Key.ParentIndex = i
		} else {
			bare++
		}
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		res.Keys[i] = kv.Key
		res.Values[i] = kv.Val
	}
	res.Kind = BlockKind(keyed, bare)
	return res
}

// BlockKind classifies a block by what it holds: keyed entries make a
// Mapping, positional entries a Sequence, both at once a Hybrid. Empty
// blocks default to Sequence.
func BlockKind(keyed, bare int) Kind {
	switch {
	case keyed > 0 && bare > 0:
		return HybridKind
	case keyed > 0:
		return MappingKind
	default:
		return SequenceKind
	}
}

// FromMap builds a Mapping with keys in sorted order.
func FromMap(m map[string]*Node) *Node {
	res := &Node{Kind: MappingKind}
	keys := slices.Sorted(maps.Keys(m))
	res.Keys = make([]*Node, len(keys))
	res.Values = make([]*Node, len(keys))
	for i, k := range keys {
		v := m[k]
		key := FromString(k)
		key.Parent = res
		key.ParentIndex = i
		v.Parent = res
		v.ParentIndex = i
		res.Keys[i] = key
		res.Values[i] = v
	}
	return res
}

// Get returns the value of the first entry keyed k, or nil. Key nodes
// always carry their text in Str, whatever their kind, so dates and
// numbers match by how they were written.
func Get(n *Node, k string) *Node {
	for i := range n.Keys {
		if n.Keys[i] != nil && n.Keys[i].Str == k {
			return n.Values[i]
		}
	}
	return nil
}

// Append adds one entry to a block; key may be nil for a positional
// value.
func (n *Node) Append(key, val *Node) {
	i := len(n.Values)
	if key != nil {
		key.Parent = n
		key.ParentIndex = i
	}
	val.Parent = n
	val.ParentIndex = i
	n.Keys = append(n.Keys, key)
	n.Values = append(n.Values, val)
}

// RemoveAt deletes entry i and reindexes the entries after it.
func (n *Node) RemoveAt(i int) {
	n.Keys = append(n.Keys[:i], n.Keys[i+1:]...)
	n.Values = append(n.Values[:i], n.Values[i+1:]...)
	for j := i; j < len(n.Values); j++ {
		if n.Keys[j] != nil {
			n.Keys[j].ParentIndex = j
		}
		n.Values[j].ParentIndex = j
	}
}

func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, v := range n.Values {
			if err := v.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}

func (n *Node) Clone() *Node {
	res := &Node{}
	return n.CloneTo(res)
}

// CloneTo deep-copies n into dst. Spans still reference the buffer the
// original was parsed from.
func (n *Node) CloneTo(dst *Node) *Node {
	dst.Kind = n.Kind
	dst.Parent = n.Parent
	dst.ParentIndex = n.ParentIndex
	dst.Str = n.Str
	dst.Int = n.Int
	dst.Float = n.Float
	dst.Bool = n.Bool
	dst.Date = n.Date
	dst.State = n.State
	dst.Span = n.Span
	dst.Entry = n.Entry
	dst.Close = n.Close
	if n.Keys != nil {
		dst.Keys = make([]*Node, len(n.Keys))
		for i, k := range n.Keys {
			if k == nil {
				continue
			}
			ck := &Node{}
			k.CloneTo(ck)
			ck.Parent = dst
			ck.ParentIndex = i
			dst.Keys[i] = ck
		}
	}
	if n.Values != nil {
		dst.Values = make([]*Node, len(n.Values))
		for i, v := range n.Values {
			cv := &Node{}
			v.CloneTo(cv)
			cv.Parent = dst
			cv.ParentIndex = i
			dst.Values[i] = cv
		}
	}
	return dst
}
