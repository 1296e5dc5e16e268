// Package savedata reads, edits and writes Paradox script saves
// without disturbing the bytes it was not asked to change. Parsing
// keeps every comment, blank line and key spelling as spans into the
// original buffer; serialization re-emits untouched regions verbatim
// and only regenerates what an edit dirtied, so an unedited document
// round-trips byte-for-byte.
//
// Values address by path. Segments join with dots, indexes attach in
// brackets, and both mix freely:
//
//	countries.FRA.treasury
//	army[1].morale
//	events."1444.11.11".fired
//
// A dotted segment is always a key, even a numeric one; indexes are
// bracket-only and count entries positionally. Keys with dots, spaces
// or brackets go in double quotes. Duplicate keys are legal in saves
// and stay legal here: Get on a key that occurs several times returns
// a run view that reads like a sequence of the occurrences, and writes
// through it are rejected until an index picks one.
//
// The subpackages carry the machinery: token and parse turn bytes into
// the ir tree, encode writes trees back out, savefile handles the file
// boundary, export renders to JSON and YAML, and profile holds
// per-title conventions.
package savedata

import (
	"errors"
	"io"
	"strconv"

	"github.com/106-/paradox-savedata-parser/debug"
	"github.com/106-/paradox-savedata-parser/encode"
	"github.com/106-/paradox-savedata-parser/ir"
	"github.com/106-/paradox-savedata-parser/parse"
	"github.com/106-/paradox-savedata-parser/profile"
	"github.com/106-/paradox-savedata-parser/savefile"
)

// ErrClosed wraps operations on a document whose backing file was
// closed. The mapped bytes are gone, so nothing span-based can run.
var ErrClosed = errors.New("document closed")

// Document is one parsed save: the tree, the bytes it was parsed from,
// and the bookkeeping to write it back out. The document borrows the
// parsed buffer; do not modify it while the document lives.
type Document struct {
	root  *ir.Node
	src   []byte
	prof  profile.Profile
	diags []parse.Diagnostic
	file  *savefile.File

	closed bool
}

// Config collects parse-time choices; set it through Opt values.
type Config struct {
	// Lenient recovers from malformed constructs instead of aborting,
	// reporting each recovery as a diagnostic.
	Lenient bool
	// Workers caps the goroutines splitting the top level; 0 picks one
	// per CPU.
	Workers int
	// Profile carries per-title conventions.
	Profile profile.Profile
}

type Opt func(*Config)

func Lenient(v bool) Opt {
	return func(c *Config) { c.Lenient = v }
}

func Workers(n int) Opt {
	return func(c *Config) { c.Workers = n }
}

func GameProfile(p profile.Profile) Opt {
	return func(c *Config) { c.Profile = p }
}

// Parse reads a plain-text save into a Document. Strict by default: the
// first malformed construct aborts with a *parse.SyntaxError. With
// Lenient(true) the parser skips what it cannot read and the skips are
// on Diagnostics.
func Parse(data []byte, opts ...Opt) (*Document, error) {
	cfg := Config{Profile: profile.Default()}
	for _, o := range opts {
		o(&cfg)
	}
	d := &Document{src: data, prof: cfg.Profile}
	popts := []parse.ParseOption{
		parse.ParseProfile(cfg.Profile),
		parse.ParseDiagnostics(&d.diags),
	}
	if cfg.Lenient {
		popts = append(popts, parse.Lenient())
	}
	if cfg.Workers != 0 {
		popts = append(popts, parse.ParseWorkers(cfg.Workers))
	}
	root, err := parse.Parse(data, popts...)
	if err != nil {
		return nil, err
	}
	d.root = root
	return d, nil
}

// ParseFile maps path into memory and parses it. Compressed and binary
// containers are refused up front; unpack them first. Close the
// document to release the mapping, after any serialization.
func ParseFile(path string, opts ...Opt) (*Document, error) {
	f, err := savefile.Open(path)
	if err != nil {
		return nil, err
	}
	if err := savefile.CheckPlain(f.Bytes()); err != nil {
		f.Close()
		return nil, err
	}
	d, err := Parse(f.Bytes(), opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	d.file = f
	return d, nil
}

// Close releases the mapped file. The document is unusable afterwards;
// serialization needs the original bytes.
func (d *Document) Close() error {
	d.closed = true
	d.src = nil
	if d.file == nil {
		return nil
	}
	f := d.file
	d.file = nil
	return f.Close()
}

// Root returns a view on the top-level block.
func (d *Document) Root() *NodeView {
	return nodeView(d.root, "")
}

// Diagnostics returns what the parse recovered from or found odd, in
// byte order. Empty on a clean strict parse.
func (d *Document) Diagnostics() []parse.Diagnostic {
	return d.diags
}

func (d *Document) Profile() profile.Profile {
	return d.prof
}

// Serialize renders the document: untouched regions re-emit their
// original bytes verbatim, edited regions canonically. A document
// nobody edited comes back byte-for-byte. Panics after Close.
func (d *Document) Serialize() []byte {
	if d.closed {
		panic("savedata: Serialize after Close")
	}
	return encode.Bytes(d.root, d.src, encode.EncodeProfile(d.prof))
}

// Encode streams Serialize's output to w.
func (d *Document) Encode(w io.Writer, opts ...encode.EncodeOption) error {
	if d.closed {
		return ErrClosed
	}
	eopts := append([]encode.EncodeOption{encode.EncodeProfile(d.prof)}, opts...)
	return encode.Encode(d.root, d.src, w, eopts...)
}

// WriteFile serializes and replaces path atomically. Stamp hooks run
// over the serialized bytes before the write; a checksum collaborator
// plugs in there.
func (d *Document) WriteFile(path string, opts ...savefile.WriteOption) error {
	if d.closed {
		return ErrClosed
	}
	return savefile.WriteFile(path, d.Serialize(), opts...)
}

// Get resolves path to a view. A key matched once resolves to that
// node, several times to a run; no match is KeyNotFoundError. See the
// path grammar in the package documentation.
func (d *Document) Get(path string) (*NodeView, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	v := d.Root()
	for _, st := range steps {
		v, err = v.step(st)
		if err != nil {
			return nil, err
		}
	}
	if debug.Resolve() {
		debug.Logf("resolve %s -> %s\n", path, v.Kind())
	}
	return v, nil
}

// Set writes val at path. A terminal key that exists once is replaced
// in place, absent is appended to its block, duplicated is ambiguous.
// Intermediate segments must exist; Set creates no blocks on the way.
func (d *Document) Set(path string, val any) error {
	parent, last, err := d.resolveParent(path)
	if err != nil {
		return err
	}
	switch last.kind {
	case stepIndex:
		target, err := parent.At(last.index)
		if err != nil {
			return err
		}
		return target.Set(val)
	case stepWild:
		return &PathError{Path: path, Msg: "wildcard outside List"}
	default:
		return parent.Put(last.key, val)
	}
}

// Delete removes the entry at path: the single occurrence of a
// terminal key, or the indexed entry of a block or run.
func (d *Document) Delete(path string) error {
	parent, last, err := d.resolveParent(path)
	if err != nil {
		return err
	}
	switch last.kind {
	case stepIndex:
		return parent.DeleteAt(last.index)
	case stepWild:
		return &PathError{Path: path, Msg: "wildcard outside List"}
	default:
		return parent.Delete(last.key)
	}
}

func (d *Document) resolveParent(path string) (*NodeView, step, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, step{}, err
	}
	v := d.Root()
	for _, st := range steps[:len(steps)-1] {
		v, err = v.step(st)
		if err != nil {
			return nil, step{}, err
		}
	}
	return v, steps[len(steps)-1], nil
}

func (v *NodeView) step(st step) (*NodeView, error) {
	switch st.kind {
	case stepIndex:
		return v.At(st.index)
	case stepWild:
		return nil, &PathError{Path: v.path, Msg: "wildcard outside List"}
	default:
		return v.Get(st.key)
	}
}

// List resolves path with fan-out: every key match joins the result,
// not just runs, and * takes every entry of its block. Segments that
// match nothing drop out silently, so an empty slice with a nil error
// is the absent case.
func (d *Document) List(path string) ([]*NodeView, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	cur := []*NodeView{d.Root()}
	for _, st := range steps {
		var next []*NodeView
		for _, v := range cur {
			expand(v, st, &next)
		}
		cur = next
	}
	return cur, nil
}

// expand applies one step to a single-node view, appending every match.
// List never builds runs; duplicate keys fan out here with occurrence
// indexes on their paths, which Get resolves back to the same nodes.
func expand(v *NodeView, st step, out *[]*NodeView) {
	n := v.node
	if !n.Kind.IsBlock() {
		return
	}
	switch st.kind {
	case stepIndex:
		if st.index >= 0 && st.index < len(n.Values) {
			p := joinPath(v.path, "["+strconv.Itoa(st.index)+"]")
			*out = append(*out, nodeView(n.Values[st.index], p))
		}
	case stepWild:
		count := make(map[string]int, len(n.Keys))
		for _, k := range n.Keys {
			if k != nil {
				count[k.Str]++
			}
		}
		seen := make(map[string]int)
		for i, val := range n.Values {
			seg := "[" + strconv.Itoa(i) + "]"
			if k := n.Keys[i]; k != nil {
				seg = segText(k.Str)
				// a repeated key takes its occurrence index, same as
				// the key case below
				if count[k.Str] > 1 {
					seg += "[" + strconv.Itoa(seen[k.Str]) + "]"
					seen[k.Str]++
				}
			}
			*out = append(*out, nodeView(val, joinPath(v.path, seg)))
		}
	default:
		var hits []*ir.Node
		for i, k := range n.Keys {
			if k != nil && k.Str == st.key {
				hits = append(hits, n.Values[i])
			}
		}
		base := joinPath(v.path, segText(st.key))
		if len(hits) == 1 {
			*out = append(*out, nodeView(hits[0], base))
			return
		}
		for j, h := range hits {
			*out = append(*out, nodeView(h, base+"["+strconv.Itoa(j)+"]"))
		}
	}
}
