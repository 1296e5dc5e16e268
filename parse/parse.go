// Package parse turns raw save text into an ir tree.
//
// The builder runs over a streaming token.Scanner with an explicit
// frame stack, so document depth costs heap, not goroutine stack. Every
// node it produces carries the byte spans the encode package needs to
// re-emit untouched regions verbatim: an entry span covering the lead
// trivia, key and '=' of the entry, a value span covering the value's
// own text, and for blocks a close span covering the inner trailing
// trivia and closing brace.
//
// Blocks are classified when their closing brace arrives: keyed entries
// make a Mapping, positional entries a Sequence, both together a
// Hybrid. Hybrids are well-formed input; they only add a diagnostic
// when the caller asked for diagnostics.
package parse

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/106-/paradox-savedata-parser/ir"
	"github.com/106-/paradox-savedata-parser/profile"
	"github.com/106-/paradox-savedata-parser/token"
)

// Parse reads one save document into a tree. src is the raw text
// region of a save; callers holding a zipped container must extract
// the text entry first (see the savefile package).
//
// By default Parse is strict and returns a *SyntaxError for the first
// malformed construct. Lenient switches to skip-and-continue,
// ParseDiagnostics collects what was skipped, ParseWorkers parallelizes
// over top-level entries, and ParseProfile applies per-title
// conventions.
func Parse(src []byte, opts ...ParseOption) (*ir.Node, error) {
	o := &parseOpts{profile: profile.Default()}
	for _, f := range opts {
		f(o)
	}
	if o.workers > 1 {
		return parseParallel(src, o)
	}
	return parseSerial(src, o)
}

func parseSerial(src []byte, o *parseOpts) (*ir.Node, error) {
	doc := token.NewPosDoc(src)
	p := &parser{
		src:     src,
		sc:      token.NewScanner(src, doc),
		doc:     doc,
		o:       o,
		collect: o.diags != nil,
	}
	root := &ir.Node{Span: ir.Span{Lo: 0, Hi: len(src)}}
	if err := p.run(root, 0, len(src)); err != nil {
		return nil, err
	}
	p.finishRoot(root, p.nKeyed, p.nBare)
	p.flushDiags()
	return root, nil
}

// frame is one open block on the build stack. lastEnd is the byte
// offset where the previous entry of this block ended; the next entry's
// span starts there, so comments and whitespace between entries always
// belong to the entry that follows them.
type frame struct {
	node    *ir.Node
	lastEnd int
	keyed   int
	bare    int
}

type parser struct {
	src     []byte
	sc      *token.Scanner
	doc     *token.PosDoc
	o       *parseOpts
	stack   []*frame
	diags   []Diagnostic
	collect bool

	// root-level entry counts, set when run returns
	nKeyed int
	nBare  int

	// one-token lookahead
	peeked bool
	tok    token.Token
	tokErr error
}

func (p *parser) next() (token.Token, error) {
	if p.peeked {
		p.peeked = false
		return p.tok, p.tokErr
	}
	return p.sc.Next()
}

func (p *parser) peek() (token.Token, error) {
	if !p.peeked {
		p.tok, p.tokErr = p.sc.Next()
		p.peeked = true
	}
	return p.tok, p.tokErr
}

func (p *parser) unread(t token.Token) {
	p.tok = t
	p.tokErr = nil
	p.peeked = true
}

// run parses entries from the scanner into root until end of input.
// lo..hi is the byte range root covers; workers pass a sub-range, the
// serial parse passes the whole document.
func (p *parser) run(root *ir.Node, lo, hi int) error {
	p.stack = append(p.stack[:0], &frame{node: root, lastEnd: lo})
	for {
		f := p.stack[len(p.stack)-1]
		tok, err := p.next()
		if err != nil {
			if !p.o.lenient {
				return p.scanFail(err)
			}
			p.diagScan(err)
			p.sc.SkipLine()
			continue
		}
		switch tok.Type {
		case token.TComment:
			// trivia; the surrounding entry spans carry the bytes

		case token.TEOF:
			if len(p.stack) > 1 {
				if !p.o.lenient {
					return syntaxErr(p.doc, tok.Off, "unexpected end of input: %d unclosed blocks", len(p.stack)-1)
				}
				p.diag(tok.Off, "unexpected end of input: %d unclosed blocks", len(p.stack)-1)
			}
			p.closeAll(hi)
			return nil

		case token.TRCurl:
			if len(p.stack) == 1 {
				if !p.o.lenient {
					return syntaxErr(p.doc, tok.Off, "unexpected '}'")
				}
				p.diag(tok.Off, "unexpected '}'")
				continue
			}
			p.stack = p.stack[:len(p.stack)-1]
			p.closeBlock(f, tok)
			p.stack[len(p.stack)-1].lastEnd = tok.End()

		case token.TLCurl:
			if err := p.pushBlock(nil, tok); err != nil {
				return err
			}

		case token.TEq:
			if !p.o.lenient {
				return syntaxErr(p.doc, tok.Off, "unexpected '='")
			}
			p.diag(tok.Off, "unexpected '='")
			p.sc.SkipLine()

		default:
			// A scalar is a key when '=' follows, otherwise a
			// positional value.
			nxt, nerr := p.peek()
			if nerr != nil {
				// drop the scalar; the scan error surfaces on the
				// next iteration and its bytes stay in the next
				// entry's lead trivia
				continue
			}
			if nxt.Type == token.TEq {
				p.next()
				if err := p.entry(f, tok); err != nil {
					return err
				}
				continue
			}
			val := scalarNode(tok)
			val.Span = ir.Span{Lo: tok.Off, Hi: tok.End()}
			val.Entry = ir.Span{Lo: f.lastEnd, Hi: tok.End()}
			f.node.Append(nil, val)
			f.bare++
			f.lastEnd = tok.End()
		}
	}
}

// entry parses the value after "key =". The key token is consumed and
// the frame's lastEnd still points at the previous entry's end, so the
// lead trivia, key and '=' all land inside this entry's span.
func (p *parser) entry(f *frame, keyTok token.Token) error {
	for {
		vtok, err := p.next()
		if err != nil {
			if !p.o.lenient {
				return p.scanFail(err)
			}
			p.diagScan(err)
			p.sc.SkipLine()
			return nil
		}
		switch vtok.Type {
		case token.TComment:
			continue

		case token.TLCurl:
			return p.pushBlock(keyNode(keyTok), vtok)

		case token.TRCurl, token.TEOF:
			if !p.o.lenient {
				return syntaxErr(p.doc, vtok.Off, "missing value after '='")
			}
			p.diag(vtok.Off, "missing value after '='")
			p.unread(vtok)
			return nil

		case token.TEq:
			if !p.o.lenient {
				return syntaxErr(p.doc, vtok.Off, "unexpected '=' after '='")
			}
			p.diag(vtok.Off, "unexpected '=' after '='")
			p.sc.SkipLine()
			return nil

		default:
			key := keyNode(keyTok)
			val := scalarNode(vtok)
			val.Span = ir.Span{Lo: vtok.Off, Hi: vtok.End()}
			val.Entry = ir.Span{Lo: f.lastEnd, Hi: vtok.End()}
			f.node.Append(key, val)
			f.keyed++
			f.lastEnd = vtok.End()
			return nil
		}
	}
}

// pushBlock opens a nested block entry. key is nil for positional
// blocks. The block's kind is decided when its closing brace arrives.
func (p *parser) pushBlock(key *ir.Node, lcurl token.Token) error {
	f := p.stack[len(p.stack)-1]
	if md := p.o.profile.MaxDepth; md > 0 && len(p.stack) > md {
		if !p.o.lenient {
			return syntaxErr(p.doc, lcurl.Off, "nesting deeper than %d levels", md)
		}
		p.diag(lcurl.Off, "nesting deeper than %d levels, subtree skipped", md)
		p.sc.SkipBalanced()
		return nil
	}
	n := &ir.Node{
		Span:  ir.Span{Lo: lcurl.Off},
		Entry: ir.Span{Lo: f.lastEnd},
	}
	f.node.Append(key, n)
	if key != nil {
		f.keyed++
	} else {
		f.bare++
	}
	p.stack = append(p.stack, &frame{node: n, lastEnd: lcurl.End()})
	return nil
}

// closeBlock finalizes a popped frame at its closing brace: the value
// span extends over the brace, the close span covers the inner
// trailing trivia plus the brace, and the kind is classified from what
// the block held.
func (p *parser) closeBlock(f *frame, rcurl token.Token) {
	n := f.node
	n.Span.Hi = rcurl.End()
	n.Entry.Hi = rcurl.End()
	n.Close = ir.Span{Lo: f.lastEnd, Hi: rcurl.End()}
	p.classify(f)
}

// closeAll finalizes every open frame at end of input. Open blocks
// (already reported) absorb the remaining bytes so the document still
// round-trips.
func (p *parser) closeAll(hi int) {
	for len(p.stack) > 1 {
		f := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		n := f.node
		n.Span.Hi = hi
		n.Entry.Hi = hi
		n.Close = ir.Span{Lo: f.lastEnd, Hi: hi}
		p.classify(f)
		p.stack[len(p.stack)-1].lastEnd = hi
	}
	rf := p.stack[0]
	rf.node.Close = ir.Span{Lo: rf.lastEnd, Hi: hi}
	p.nKeyed, p.nBare = rf.keyed, rf.bare
}

func (p *parser) classify(f *frame) {
	n := f.node
	if f.keyed == 0 && f.bare == 0 {
		n.Kind = ir.SequenceKind
		if p.o.profile.EmptyMappings() {
			n.Kind = ir.MappingKind
		}
		return
	}
	n.Kind = ir.BlockKind(f.keyed, f.bare)
	if n.Kind == ir.HybridKind {
		p.diag(n.Span.Lo, "block mixes keyed and positional entries")
	}
}

// finishRoot classifies the document root. An empty document is a
// Mapping regardless of profile so fresh writes have somewhere to go.
func (p *parser) finishRoot(root *ir.Node, keyed, bare int) {
	if keyed == 0 && bare == 0 {
		root.Kind = ir.MappingKind
		return
	}
	root.Kind = ir.BlockKind(keyed, bare)
	if root.Kind == ir.HybridKind {
		p.diag(root.Span.Lo, "block mixes keyed and positional entries")
	}
}

func (p *parser) scanFail(err error) error {
	var se *token.ScanError
	if errors.As(err, &se) {
		return syntaxErr(p.doc, se.Off, "%v", se.Err)
	}
	return err
}

func (p *parser) diagScan(err error) {
	var se *token.ScanError
	if errors.As(err, &se) {
		p.diag(se.Off, "%v", se.Err)
		return
	}
	p.diag(p.sc.Offset(), "%v", err)
}

func (p *parser) diag(off int, format string, args ...any) {
	if !p.collect {
		return
	}
	line, col := p.doc.LineCol(off)
	p.diags = append(p.diags, Diagnostic{
		Offset: off,
		Line:   line,
		Col:    col,
		Reason: fmt.Sprintf(format, args...),
	})
}

func (p *parser) flushDiags() {
	if p.collect && len(p.diags) > 0 {
		*p.o.diags = append(*p.o.diags, p.diags...)
	}
}

// scalarNode materializes a scalar token. Numeric text too wide for
// int64 (or float64) keeps its text as a string rather than losing
// digits.
func scalarNode(t token.Token) *ir.Node {
	switch t.Type {
	case token.TInt:
		if i, err := strconv.ParseInt(string(t.Bytes), 10, 64); err == nil {
			return ir.FromInt(i)
		}
	case token.TFloat:
		if f, err := strconv.ParseFloat(string(t.Bytes), 64); err == nil {
			return ir.FromFloat(f)
		}
	case token.TDate:
		if d, ok := ir.ParseDate(string(t.Bytes)); ok {
			return ir.FromDate(d)
		}
	case token.TYes:
		return ir.FromBool(true)
	case token.TNo:
		return ir.FromBool(false)
	case token.TString:
		return ir.FromString(token.Unquote(t.Bytes, t.Esc))
	}
	return ir.FromString(string(t.Bytes))
}

// keyNode builds the key side of an entry. Keys keep their scalar kind
// (dates and numbers are legal keys) but always carry their raw text so
// lookup by string works uniformly.
func keyNode(t token.Token) *ir.Node {
	n := scalarNode(t)
	if n.Kind != ir.StringKind {
		n.Str = string(t.Bytes)
	}
	n.Span = ir.Span{Lo: t.Off, Hi: t.End()}
	return n
}
