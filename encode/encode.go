package encode

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/106-/paradox-savedata-parser/ir"
	"github.com/106-/paradox-savedata-parser/profile"
	"github.com/106-/paradox-savedata-parser/token"
)

type EncState struct {
	src       []byte
	profile   profile.Profile
	canonical bool
	wrote     bool

	Color func(ir.Kind, ColorAttr, string) string
}

// Encode writes the document back out. src is the text the tree was
// parsed from; regions the caller never edited are copied from it byte
// for byte. Edited scalars and rebuilt subtrees render canonically, and
// blocks on the path to an edit keep their own bytes while their
// entries are revisited one by one.
//
// A tree built from scratch (or src == nil) renders fully canonical.
// Rendering cannot fail on content: every node kind has a text form,
// so the only errors are the writer's.
func Encode(root *ir.Node, src []byte, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{src: src, profile: profile.Default()}
	for _, opt := range opts {
		opt(es)
	}
	return encodeDoc(root, w, es)
}

// Bytes renders the document to memory.
func Bytes(root *ir.Node, src []byte, opts ...EncodeOption) []byte {
	buf := bytes.NewBuffer(nil)
	if err := Encode(root, src, buf, opts...); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func encodeDoc(root *ir.Node, w io.Writer, es *EncState) error {
	if es.canonical || es.src == nil || root.Span.IsZero() || root.State == ir.Dirty {
		return canonDoc(root, w, es)
	}
	if root.State == ir.Clean {
		return writeB(w, es, es.src[root.Span.Lo:root.Span.Hi])
	}
	for i := range root.Values {
		if err := encodeEntry(w, es, root, i, 0); err != nil {
			return err
		}
	}
	if err := closeSep(w, es, root, 0); err != nil {
		return err
	}
	return writeB(w, es, es.src[root.Close.Lo:root.Close.Hi])
}

// encodeEntry emits entry i of parent at the given indent depth,
// picking the mode from the child's spans and edit state.
func encodeEntry(w io.Writer, es *EncState, parent *ir.Node, i, depth int) error {
	v := parent.Values[i]
	if v.Entry.IsZero() {
		return freshEntry(w, es, parent, parent.Keys[i], v, depth)
	}
	switch v.State {
	case ir.Clean:
		return writeB(w, es, es.src[v.Entry.Lo:v.Entry.Hi])

	case ir.Dirty:
		// lead trivia, key and '=' survive; the value is re-rendered
		if err := writeB(w, es, es.src[v.Entry.Lo:v.Span.Lo]); err != nil {
			return err
		}
		return canonValue(w, es, v, depth)

	default:
		// a touched block keeps its skeleton: prefix through the open
		// brace, entries one by one, close span verbatim
		if err := writeB(w, es, es.src[v.Entry.Lo:v.Span.Lo+1]); err != nil {
			return err
		}
		for j := range v.Values {
			if err := encodeEntry(w, es, v, j, depth+1); err != nil {
				return err
			}
		}
		if err := closeSep(w, es, v, depth); err != nil {
			return err
		}
		return writeB(w, es, es.src[v.Close.Lo:v.Close.Hi])
	}
}

// freshEntry renders an entry that has no bytes of its own yet. Fresh
// scalars appended to a block written on one line stay on that line;
// everything else opens a new line at the block's indent.
func freshEntry(w io.Writer, es *EncState, parent, k, v *ir.Node, depth int) error {
	if v.Kind.IsScalar() && singleLineSpan(es, parent) {
		if err := write(w, es, " "); err != nil {
			return err
		}
		if k != nil {
			if err := writeKey(w, es, k); err != nil {
				return err
			}
		}
		return canonValue(w, es, v, depth)
	}
	sep := ""
	if es.wrote {
		sep = "\n" + indent(depth)
	}
	if err := write(w, es, sep); err != nil {
		return err
	}
	if k != nil {
		if err := writeKey(w, es, k); err != nil {
			return err
		}
	}
	return canonValue(w, es, v, depth)
}

// closeSep keeps appended entries from running into the closing brace:
// when the last entry is fresh and the close span supplies no
// whitespace of its own, a separator matching the block's layout goes
// in between.
func closeSep(w io.Writer, es *EncState, v *ir.Node, depth int) error {
	n := len(v.Values)
	if n == 0 || !v.Values[n-1].Entry.IsZero() {
		return nil
	}
	if v.Close.Len() == 0 {
		return nil
	}
	switch es.src[v.Close.Lo] {
	case ' ', '\t', '\r', '\n':
		return nil
	}
	if singleLineSpan(es, v) {
		return write(w, es, " ")
	}
	return write(w, es, "\n"+indent(depth))
}

// singleLineSpan reports whether the block's original text sat on one
// line. Fresh blocks have no text and never qualify.
func singleLineSpan(es *EncState, n *ir.Node) bool {
	if es.src == nil || n.Span.IsZero() {
		return false
	}
	if n.Parent != nil && n.Entry.IsZero() {
		return false
	}
	return bytes.IndexByte(es.src[n.Span.Lo:n.Span.Hi], '\n') < 0
}

// canonDoc renders the whole document canonically: one top-level entry
// per line, tab indentation below.
func canonDoc(root *ir.Node, w io.Writer, es *EncState) error {
	for i := range root.Values {
		if es.wrote {
			if err := write(w, es, "\n"); err != nil {
				return err
			}
		}
		if k := root.Keys[i]; k != nil {
			if err := writeKey(w, es, k); err != nil {
				return err
			}
		}
		if err := canonValue(w, es, root.Values[i], 0); err != nil {
			return err
		}
	}
	if !es.wrote {
		return nil
	}
	return write(w, es, "\n")
}

func canonValue(w io.Writer, es *EncState, v *ir.Node, depth int) error {
	if v.Kind.IsScalar() {
		return writeC(w, es, v.Kind, ValueColor, canonScalar(v, &es.profile))
	}
	return canonBlock(w, es, v, depth)
}

func canonBlock(w io.Writer, es *EncState, v *ir.Node, depth int) error {
	if scalarSeq(v) {
		if err := writeC(w, es, v.Kind, SepColor, "{"); err != nil {
			return err
		}
		for _, c := range v.Values {
			if err := write(w, es, " "); err != nil {
				return err
			}
			if err := writeC(w, es, c.Kind, ValueColor, canonScalar(c, &es.profile)); err != nil {
				return err
			}
		}
		return writeC(w, es, v.Kind, SepColor, " }")
	}
	if err := writeC(w, es, v.Kind, SepColor, "{"); err != nil {
		return err
	}
	inner := "\n" + indent(depth+1)
	for i := range v.Values {
		if err := write(w, es, inner); err != nil {
			return err
		}
		if k := v.Keys[i]; k != nil {
			if err := writeKey(w, es, k); err != nil {
				return err
			}
		}
		if err := canonValue(w, es, v.Values[i], depth+1); err != nil {
			return err
		}
	}
	if err := write(w, es, "\n"+indent(depth)); err != nil {
		return err
	}
	return writeC(w, es, v.Kind, SepColor, "}")
}

// scalarSeq reports whether v is a sequence of scalars only, the shape
// written on a single line.
func scalarSeq(v *ir.Node) bool {
	if v.Kind != ir.SequenceKind {
		return false
	}
	for _, c := range v.Values {
		if !c.Kind.IsScalar() {
			return false
		}
	}
	return true
}

// canonScalar gives a scalar its canonical text: yes/no booleans,
// fixed-precision floats, dotted dates, and strings quoted only when a
// bare reparse would change their shape.
func canonScalar(v *ir.Node, prof *profile.Profile) string {
	switch v.Kind {
	case ir.IntKind:
		return strconv.FormatInt(v.Int, 10)
	case ir.FloatKind:
		return strconv.FormatFloat(v.Float, 'f', prof.FloatPrecision, 64)
	case ir.BoolKind:
		if v.Bool {
			return "yes"
		}
		return "no"
	case ir.DateKind:
		return v.Date.String()
	default:
		if token.NeedsQuote(v.Str) {
			return token.Quote(v.Str)
		}
		return v.Str
	}
}

// keyText renders a key. Keys always carry their written text in Str;
// scalar-kinded keys built without one fall back to their value form.
func keyText(k *ir.Node, prof *profile.Profile) string {
	s := k.Str
	if s == "" && k.Kind != ir.StringKind {
		s = canonScalar(k, prof)
	}
	if token.KeyNeedsQuote(s) {
		return token.Quote(s)
	}
	return s
}

func writeKey(w io.Writer, es *EncState, k *ir.Node) error {
	if err := writeC(w, es, k.Kind, KeyColor, keyText(k, &es.profile)); err != nil {
		return err
	}
	return writeC(w, es, k.Kind, SepColor, "=")
}

func indent(depth int) string {
	return strings.Repeat("\t", depth)
}

func write(w io.Writer, es *EncState, s string) error {
	if s == "" {
		return nil
	}
	es.wrote = true
	_, err := io.WriteString(w, s)
	return err
}

func writeB(w io.Writer, es *EncState, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	es.wrote = true
	_, err := w.Write(b)
	return err
}

func writeC(w io.Writer, es *EncState, k ir.Kind, attr ColorAttr, s string) error {
	if s == "" {
		return nil
	}
	es.wrote = true
	if es.Color != nil {
		s = es.Color(k, attr, s)
	}
	_, err := io.WriteString(w, s)
	return err
}
