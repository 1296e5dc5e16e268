package savedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/106-/paradox-savedata-parser/ir"
)

// NodeView is a handle on one resolved address in a document. It wraps
// either a single node or a duplicate-key run, the ordered occurrences
// of one key inside one block. A run presents as a read-only sequence:
// Kind reports Sequence, Len counts occurrences, At selects one. Writes
// through a run are rejected with AmbiguousAccessError; index into the
// run first.
//
// Views stay valid across edits to other parts of the tree, but not
// across Patch, which replaces the tree wholesale.
type NodeView struct {
	node *ir.Node
	run  []*ir.Node
	path string
}

func nodeView(n *ir.Node, path string) *NodeView {
	return &NodeView{node: n, path: path}
}

// Path returns the address this view resolved, with segments the path
// grammar would parse back.
func (v *NodeView) Path() string { return v.path }

// Multi reports whether the view holds a duplicate-key run rather than
// a single node.
func (v *NodeView) Multi() bool { return v.run != nil }

// Kind returns the node kind; a run reports Sequence.
func (v *NodeView) Kind() ir.Kind {
	if v.run != nil {
		return ir.SequenceKind
	}
	return v.node.Kind
}

// Node returns the underlying tree node, or nil for a run. The node is
// live: edits through it must go through MarkDirty and Touch to keep
// serialization honest, which the view methods do for you.
func (v *NodeView) Node() *ir.Node {
	return v.node
}

// Nodes returns the occurrences behind a run, or the single node as a
// one-element slice.
func (v *NodeView) Nodes() []*ir.Node {
	if v.run != nil {
		return v.run
	}
	return []*ir.Node{v.node}
}

// Len returns the occurrence count of a run, the entry count of a
// block, and 0 for a scalar.
func (v *NodeView) Len() int {
	if v.run != nil {
		return len(v.run)
	}
	return len(v.node.Values)
}

// At selects entry i: an occurrence of a run, or the i-th entry of a
// block in document order, keyed entries included.
func (v *NodeView) At(i int) (*NodeView, error) {
	p := joinPath(v.path, "["+strconv.Itoa(i)+"]")
	if v.run != nil {
		if i < 0 || i >= len(v.run) {
			return nil, &KeyNotFoundError{Path: p}
		}
		return nodeView(v.run[i], p), nil
	}
	if !v.node.Kind.IsBlock() {
		return nil, &TypeMismatchError{Path: v.path, Want: ir.SequenceKind, Got: v.node.Kind}
	}
	if i < 0 || i >= len(v.node.Values) {
		return nil, &KeyNotFoundError{Path: p}
	}
	return nodeView(v.node.Values[i], p), nil
}

// Get resolves key one level down. A single occurrence comes back as
// that node, several as a run in document order, none as
// KeyNotFoundError. Get on a run is ambiguous: it cannot know which
// occurrence to descend into.
func (v *NodeView) Get(key string) (*NodeView, error) {
	p := joinPath(v.path, segText(key))
	if v.run != nil {
		return nil, &AmbiguousAccessError{Path: v.path, Count: len(v.run)}
	}
	if !v.node.Kind.IsBlock() {
		return nil, &TypeMismatchError{Path: v.path, Want: ir.MappingKind, Got: v.node.Kind}
	}
	var hits []*ir.Node
	for i, k := range v.node.Keys {
		if k != nil && k.Str == key {
			hits = append(hits, v.node.Values[i])
		}
	}
	switch len(hits) {
	case 0:
		return nil, &KeyNotFoundError{Path: p}
	case 1:
		return nodeView(hits[0], p), nil
	}
	return &NodeView{run: hits, path: p}, nil
}

// Has reports whether key occurs at least once one level down.
func (v *NodeView) Has(key string) bool {
	if v.run != nil || !v.node.Kind.IsBlock() {
		return false
	}
	return ir.Get(v.node, key) != nil
}

// Keys returns the key text of every keyed entry in document order,
// duplicates repeated. Runs and scalars have no keys.
func (v *NodeView) Keys() []string {
	if v.run != nil || !v.node.Kind.IsBlock() {
		return nil
	}
	var res []string
	for _, k := range v.node.Keys {
		if k != nil {
			res = append(res, k.Str)
		}
	}
	return res
}

// Each visits entries in document order: a block's entries with their
// key text (empty for positional entries), or a run's occurrences with
// the shared key. Returning an error stops the walk.
func (v *NodeView) Each(f func(key string, v *NodeView) error) error {
	if v.run != nil {
		for i, n := range v.run {
			p := joinPath(v.path, "["+strconv.Itoa(i)+"]")
			if err := f(runKey(n), nodeView(n, p)); err != nil {
				return err
			}
		}
		return nil
	}
	if !v.node.Kind.IsBlock() {
		return &TypeMismatchError{Path: v.path, Want: ir.MappingKind, Got: v.node.Kind}
	}
	for i, n := range v.node.Values {
		key := ""
		seg := "[" + strconv.Itoa(i) + "]"
		if k := v.node.Keys[i]; k != nil {
			key = k.Str
			seg = segText(key)
		}
		if err := f(key, nodeView(n, joinPath(v.path, seg))); err != nil {
			return err
		}
	}
	return nil
}

func runKey(n *ir.Node) string {
	if n.Parent == nil {
		return ""
	}
	if k := n.Parent.Keys[n.ParentIndex]; k != nil {
		return k.Str
	}
	return ""
}

// Str returns the string value, or TypeMismatchError for any other
// kind. Dates and numbers do not coerce; read them with their own
// accessors.
func (v *NodeView) Str() (string, error) {
	n, err := v.scalar(ir.StringKind)
	if err != nil {
		return "", err
	}
	return n.Str, nil
}

func (v *NodeView) Int() (int64, error) {
	n, err := v.scalar(ir.IntKind)
	if err != nil {
		return 0, err
	}
	return n.Int, nil
}

// Float returns the numeric value; integer nodes widen, so a field
// that drops its fraction in some saves still reads.
func (v *NodeView) Float() (float64, error) {
	if v.run == nil && v.node.Kind == ir.IntKind {
		return float64(v.node.Int), nil
	}
	n, err := v.scalar(ir.FloatKind)
	if err != nil {
		return 0, err
	}
	return n.Float, nil
}

func (v *NodeView) Bool() (bool, error) {
	n, err := v.scalar(ir.BoolKind)
	if err != nil {
		return false, err
	}
	return n.Bool, nil
}

func (v *NodeView) Date() (ir.Date, error) {
	n, err := v.scalar(ir.DateKind)
	if err != nil {
		return ir.Date{}, err
	}
	return n.Date, nil
}

func (v *NodeView) scalar(want ir.Kind) (*ir.Node, error) {
	if v.run != nil {
		return nil, &TypeMismatchError{Path: v.path, Want: want, Got: ir.SequenceKind}
	}
	if v.node.Kind != want {
		return nil, &TypeMismatchError{Path: v.path, Want: want, Got: v.node.Kind}
	}
	return v.node, nil
}

// Set replaces this view's value in place. The node keeps its entry
// trivia, so the key spelling and any comment above the entry survive;
// the value re-emits canonically. Failed writes change nothing.
func (v *NodeView) Set(val any) error {
	if v.run != nil {
		return &AmbiguousAccessError{Path: v.path, Count: len(v.run)}
	}
	repl, err := valueNode(v.path, val)
	if err != nil {
		return err
	}
	assign(v.node, repl)
	return nil
}

// Put sets key to val one level down. One existing occurrence is
// replaced in place, none appends a fresh entry at the end of the
// block, several is ambiguous. Putting into a scalar is a type
// mismatch; entries cannot hang off a value that has no block.
func (v *NodeView) Put(key string, val any) error {
	p := joinPath(v.path, segText(key))
	if v.run != nil {
		return &AmbiguousAccessError{Path: v.path, Count: len(v.run)}
	}
	if !v.node.Kind.IsBlock() {
		return &TypeMismatchError{Path: v.path, Want: ir.MappingKind, Got: v.node.Kind}
	}
	repl, err := valueNode(p, val)
	if err != nil {
		return err
	}
	var hits []*ir.Node
	for i, k := range v.node.Keys {
		if k != nil && k.Str == key {
			hits = append(hits, v.node.Values[i])
		}
	}
	switch len(hits) {
	case 0:
		v.node.Append(ir.FromString(key), repl)
		repl.MarkDirty()
		reclassify(v.node)
		return nil
	case 1:
		assign(hits[0], repl)
		return nil
	}
	return &AmbiguousAccessError{Path: p, Count: len(hits)}
}

// Append adds val as a positional entry at the end of the block.
func (v *NodeView) Append(val any) error {
	if v.run != nil {
		return &AmbiguousAccessError{Path: v.path, Count: len(v.run)}
	}
	if !v.node.Kind.IsBlock() {
		return &TypeMismatchError{Path: v.path, Want: ir.SequenceKind, Got: v.node.Kind}
	}
	repl, err := valueNode(v.path, val)
	if err != nil {
		return err
	}
	v.node.Append(nil, repl)
	repl.MarkDirty()
	reclassify(v.node)
	return nil
}

// Delete removes the single entry keyed key. Absent keys are
// KeyNotFoundError, several occurrences AmbiguousAccessError; delete
// occurrences one at a time through DeleteAt.
func (v *NodeView) Delete(key string) error {
	p := joinPath(v.path, segText(key))
	if v.run != nil {
		return &AmbiguousAccessError{Path: v.path, Count: len(v.run)}
	}
	if !v.node.Kind.IsBlock() {
		return &TypeMismatchError{Path: v.path, Want: ir.MappingKind, Got: v.node.Kind}
	}
	at := -1
	count := 0
	for i, k := range v.node.Keys {
		if k != nil && k.Str == key {
			count++
			at = i
		}
	}
	switch count {
	case 0:
		return &KeyNotFoundError{Path: p}
	case 1:
		v.node.RemoveAt(at)
		reclassify(v.node)
		v.node.Touch()
		return nil
	}
	return &AmbiguousAccessError{Path: p, Count: count}
}

// DeleteAt removes entry i: a run occurrence from its parent block, or
// the i-th entry of this block.
func (v *NodeView) DeleteAt(i int) error {
	p := joinPath(v.path, "["+strconv.Itoa(i)+"]")
	if v.run != nil {
		if i < 0 || i >= len(v.run) {
			return &KeyNotFoundError{Path: p}
		}
		n := v.run[i]
		parent := n.Parent
		parent.RemoveAt(n.ParentIndex)
		v.run = append(v.run[:i:i], v.run[i+1:]...)
		reclassify(parent)
		parent.Touch()
		return nil
	}
	if !v.node.Kind.IsBlock() {
		return &TypeMismatchError{Path: v.path, Want: ir.SequenceKind, Got: v.node.Kind}
	}
	if i < 0 || i >= len(v.node.Values) {
		return &KeyNotFoundError{Path: p}
	}
	v.node.RemoveAt(i)
	reclassify(v.node)
	v.node.Touch()
	return nil
}

// assign rewrites dst in place with repl's kind and content, keeping
// dst's trivia spans so the entry prefix re-emits verbatim. Adopted
// children are reparented onto dst.
func assign(dst *ir.Node, repl *ir.Node) {
	dst.Kind = repl.Kind
	dst.Str = repl.Str
	dst.Int = repl.Int
	dst.Float = repl.Float
	dst.Bool = repl.Bool
	dst.Date = repl.Date
	dst.Keys = repl.Keys
	dst.Values = repl.Values
	for i, cv := range dst.Values {
		cv.Parent = dst
		cv.ParentIndex = i
		if dst.Keys[i] != nil {
			dst.Keys[i].Parent = dst
			dst.Keys[i].ParentIndex = i
		}
	}
	dst.MarkDirty()
}

// valueNode lifts a Go value into a tree node. *ir.Node passes through,
// so structured values built with the ir constructors plug in directly.
func valueNode(path string, val any) (*ir.Node, error) {
	switch x := val.(type) {
	case *ir.Node:
		return x, nil
	case string:
		return ir.FromString(x), nil
	case int:
		return ir.FromInt(int64(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case float64:
		return ir.FromFloat(x), nil
	case bool:
		return ir.FromBool(x), nil
	case ir.Date:
		return ir.FromDate(x), nil
	}
	return nil, fmt.Errorf("%s: unsupported value type %T", path, val)
}

// reclassify recomputes the block kind after a structural edit. An
// emptied block keeps its old kind; nothing is left to say otherwise.
func reclassify(n *ir.Node) {
	if len(n.Values) == 0 {
		return
	}
	keyed, bare := 0, 0
	for _, k := range n.Keys {
		if k != nil {
			keyed++
		} else {
			bare++
		}
	}
	n.Kind = ir.BlockKind(keyed, bare)
}

// segText renders a key as a path segment, quoting when the bare form
// would not parse back.
func segText(key string) string {
	if key == "" || key == "*" || strings.ContainsAny(key, ".[]\"\\ \t") {
		return "[" + strconv.Quote(key) + "]"
	}
	return key
}

func joinPath(base, seg string) string {
	if base == "" {
		return seg
	}
	if seg != "" && seg[0] == '[' {
		return base + seg
	}
	return base + "." + seg
}
