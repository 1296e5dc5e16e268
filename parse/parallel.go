package parse

import (
	"github.com/106-/paradox-savedata-parser/ir"
	"github.com/106-/paradox-savedata-parser/token"
	"golang.org/x/sync/errgroup"
)

// parseParallel splits the document at top-level entry boundaries and
// parses the pieces concurrently. The merged tree, diagnostics and
// errors are identical to the serial parse: chunks are merged in byte
// order and the lowest-offset worker error wins.
func parseParallel(src []byte, o *parseOpts) (*ir.Node, error) {
	starts, doc, err := prescan(src)
	if err != nil {
		// a scan error makes chunk boundaries unreliable; the serial
		// path reports or recovers it with full context
		return parseSerial(src, o)
	}
	if len(starts) < 2 {
		return parseSerial(src, o)
	}
	chunks := chunkStarts(starts, len(src), o.workers)
	if len(chunks) < 2 {
		return parseSerial(src, o)
	}

	results := make([]*workerResult, len(chunks))
	errs := make([]error, len(chunks))
	var g errgroup.Group
	for i, c := range chunks {
		g.Go(func() error {
			results[i], errs[i] = parseChunk(src, c[0], c[1], doc, o)
			return nil
		})
	}
	g.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return mergeChunks(src, doc, o, results), nil
}

// prescan walks the token stream once, recording where each top-level
// entry starts and building the newline table workers will share. An
// entry starts at a depth-0 scalar or '{' whose previous significant
// depth-0 token is not '=' (that is, anything except the value half of
// a keyed entry).
func prescan(src []byte) ([]int, *token.PosDoc, error) {
	doc := token.NewPosDoc(src)
	sc := token.NewScanner(src, doc)
	var starts []int
	depth := 0
	eq := false
	for {
		tok, err := sc.Next()
		if err != nil {
			return nil, nil, err
		}
		switch tok.Type {
		case token.TEOF:
			return starts, doc, nil
		case token.TComment:
			// not significant
		case token.TLCurl:
			if depth == 0 && !eq {
				starts = append(starts, tok.Off)
			}
			depth++
			eq = false
		case token.TRCurl:
			if depth > 0 {
				depth--
			}
			eq = false
		case token.TEq:
			if depth == 0 {
				eq = true
			}
		default:
			if depth == 0 {
				if !eq {
					starts = append(starts, tok.Off)
				}
				eq = false
			}
		}
	}
}

// chunkStarts groups entry starts into at most n contiguous byte
// ranges of roughly equal size. The first range starts at the first
// entry, not offset 0: document lead trivia is stitched back on merge.
func chunkStarts(starts []int, total, n int) [][2]int {
	if n > len(starts) {
		n = len(starts)
	}
	target := total / n
	var chunks [][2]int
	lo := starts[0]
	for i := 1; i < len(starts); i++ {
		if starts[i]-lo >= target && len(chunks) < n-1 {
			chunks = append(chunks, [2]int{lo, starts[i]})
			lo = starts[i]
		}
	}
	return append(chunks, [2]int{lo, total})
}

type workerResult struct {
	keys    []*ir.Node
	vals    []*ir.Node
	lastEnd int
	keyed   int
	bare    int
	diags   []Diagnostic
}

// parseChunk runs the regular builder over one byte range. The scanner
// gets no newline sink (the prescan already built the shared table);
// diagnostics still resolve line and column through the shared table.
func parseChunk(src []byte, lo, hi int, doc *token.PosDoc, o *parseOpts) (*workerResult, error) {
	p := &parser{
		src:     src,
		sc:      token.NewScannerAt(src, lo, hi, nil),
		doc:     doc,
		o:       o,
		collect: o.diags != nil,
	}
	root := &ir.Node{Span: ir.Span{Lo: lo, Hi: hi}}
	if err := p.run(root, lo, hi); err != nil {
		return nil, err
	}
	return &workerResult{
		keys:    root.Keys,
		vals:    root.Values,
		lastEnd: p.stack[0].lastEnd,
		keyed:   p.nKeyed,
		bare:    p.nBare,
		diags:   p.diags,
	}, nil
}

// mergeChunks reattaches worker entries to a fresh root in byte order.
// Each chunk's first entry extends its lead trivia back to the previous
// chunk's last value end, so the root's children stay contiguous and
// re-emit byte for byte.
func mergeChunks(src []byte, doc *token.PosDoc, o *parseOpts, results []*workerResult) *ir.Node {
	root := &ir.Node{Span: ir.Span{Lo: 0, Hi: len(src)}}
	mp := &parser{doc: doc, o: o, collect: o.diags != nil}
	prevEnd := 0
	keyed, bare := 0, 0
	for _, r := range results {
		if len(r.vals) > 0 {
			r.vals[0].Entry.Lo = prevEnd
		}
		for i := range r.vals {
			root.Append(r.keys[i], r.vals[i])
		}
		if r.lastEnd > prevEnd {
			prevEnd = r.lastEnd
		}
		keyed += r.keyed
		bare += r.bare
		mp.diags = append(mp.diags, r.diags...)
	}
	root.Close = ir.Span{Lo: prevEnd, Hi: len(src)}
	mp.finishRoot(root, keyed, bare)
	mp.flushDiags()
	return root
}
