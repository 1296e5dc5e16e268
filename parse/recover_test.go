package parse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/106-/paradox-savedata-parser/ir"
	"github.com/106-/paradox-savedata-parser/profile"
)

func lenientParse(t *testing.T, src string) (*ir.Node, []Diagnostic) {
	t.Helper()
	var diags []Diagnostic
	n, err := Parse([]byte(src), Lenient(), ParseDiagnostics(&diags))
	if err != nil {
		t.Fatalf("# doc\n%s\n# lenient parse failed\n%v", src, err)
	}
	if got := rootBytes([]byte(src), n); !bytes.Equal(got, []byte(src)) {
		t.Fatalf("# doc\n%q\n# reassembled\n%q", src, got)
	}
	return n, diags
}

// A broken quoted value loses its line and nothing else. The rest of
// the document parses as if the line were absent, with one diagnostic
// pinned to the opening quote.
func TestLenientBrokenLine(t *testing.T) {
	n, diags := lenientParse(t, "a=1\nbroken=\"oops\nc=3\n")
	e := tree(
		kv("a", ir.FromInt(1)),
		kv("c", ir.FromInt(3)),
	)
	if d := cmp.Diff(e, n, nodeDiff); d != "" {
		t.Errorf("# diff\n%s", d)
	}
	if len(diags) != 1 {
		t.Fatalf("diagnostics %v, want exactly one", diags)
	}
	if diags[0].Offset != 11 || diags[0].Line != 2 || diags[0].Col != 8 {
		t.Errorf("diagnostic position %+v, want off=11 line=2 col=8", diags[0])
	}
	if !strings.Contains(diags[0].Reason, "unterminated") {
		t.Errorf("diagnostic reason %q", diags[0].Reason)
	}
}

func TestLenientMissingValue(t *testing.T) {
	n, diags := lenientParse(t, "x={ a= }\ny=2")
	e := tree(
		kv("x", seq()),
		kv("y", ir.FromInt(2)),
	)
	if d := cmp.Diff(e, n, nodeDiff); d != "" {
		t.Errorf("# diff\n%s", d)
	}
	if len(diags) != 1 || diags[0].Offset != 7 {
		t.Errorf("diagnostics %v, want one at offset 7", diags)
	}
}

func TestLenientStrayClose(t *testing.T) {
	n, diags := lenientParse(t, "a=1\n}\nb=2")
	e := tree(
		kv("a", ir.FromInt(1)),
		kv("b", ir.FromInt(2)),
	)
	if d := cmp.Diff(e, n, nodeDiff); d != "" {
		t.Errorf("# diff\n%s", d)
	}
	if len(diags) != 1 || diags[0].Offset != 4 {
		t.Errorf("diagnostics %v, want one at offset 4", diags)
	}
}

func TestLenientStrayEq(t *testing.T) {
	n, diags := lenientParse(t, "=5\na=1")
	e := tree(kv("a", ir.FromInt(1)))
	if d := cmp.Diff(e, n, nodeDiff); d != "" {
		t.Errorf("# diff\n%s", d)
	}
	if len(diags) != 1 || diags[0].Offset != 0 {
		t.Errorf("diagnostics %v, want one at offset 0", diags)
	}
}

// An unclosed block absorbs the rest of the document and reports once.
func TestLenientUnclosedEOF(t *testing.T) {
	n, diags := lenientParse(t, "a={ b=1")
	e := tree(
		kv("a", m(kv("b", ir.FromInt(1)))),
	)
	if d := cmp.Diff(e, n, nodeDiff); d != "" {
		t.Errorf("# diff\n%s", d)
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Reason, "unclosed") {
		t.Errorf("diagnostics %v", diags)
	}
}

func TestLenientMaxDepth(t *testing.T) {
	p := profile.Default()
	p.MaxDepth = 2
	src := "a={ b={ c={ d=1 } } } e=2"
	var diags []Diagnostic
	n, err := Parse([]byte(src), Lenient(), ParseDiagnostics(&diags), ParseProfile(p))
	if err != nil {
		t.Fatal(err)
	}
	e := tree(
		kv("a", m(kv("b", seq()))),
		kv("e", ir.FromInt(2)),
	)
	if d := cmp.Diff(e, n, nodeDiff); d != "" {
		t.Errorf("# diff\n%s", d)
	}
	if len(diags) != 1 || diags[0].Offset != 10 {
		t.Errorf("diagnostics %v, want one at offset 10", diags)
	}
	if got := rootBytes([]byte(src), n); !bytes.Equal(got, []byte(src)) {
		t.Errorf("# doc\n%q\n# reassembled\n%q", src, got)
	}
}

// Independent malformations each report once, in byte order.
func TestLenientMultiple(t *testing.T) {
	_, diags := lenientParse(t, "a=\"x\nb=1\nc=\"y\nd=2")
	if len(diags) != 2 {
		t.Fatalf("diagnostics %v, want two", diags)
	}
	if diags[0].Offset != 2 || diags[1].Offset != 11 {
		t.Errorf("offsets %d, %d, want 2, 11", diags[0].Offset, diags[1].Offset)
	}
}

// Lenient mode without a diagnostics collector still recovers, it just
// reports nothing.
func TestLenientNoCollector(t *testing.T) {
	n, err := Parse([]byte("a=\"x\nb=1"), Lenient())
	if err != nil {
		t.Fatal(err)
	}
	if ir.Get(n, "b") == nil {
		t.Error("recovery lost the entry after the broken line")
	}
}
