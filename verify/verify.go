// Package verify checks the engine's core promise on real saves: parse
// then serialize reproduces the input byte for byte. A failure comes
// back as a Mismatch pinpointing the first divergent byte with a
// line-level diff, which is how format regressions get reported.
package verify

import (
	"bytes"
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/106-/paradox-savedata-parser/encode"
	"github.com/106-/paradox-savedata-parser/parse"
)

// Mismatch reports a round trip that did not reproduce its input.
type Mismatch struct {
	// Offset is the first byte where output and input disagree.
	Offset int
	// Diff is a line-level rendering of the divergence.
	Diff string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("round trip diverges at offset %d\n%s", m.Offset, m.Diff)
}

// RoundTrip parses data and serializes the untouched tree, comparing
// against the input. Parse options pass through, so lenient mode and
// game profiles are checked with the same machinery.
func RoundTrip(data []byte, opts ...parse.ParseOption) error {
	root, err := parse.Parse(data, opts...)
	if err != nil {
		return err
	}
	out := encode.Bytes(root, data)
	if bytes.Equal(out, data) {
		return nil
	}
	return &Mismatch{
		Offset: firstDiff(data, out),
		Diff:   Diff(string(data), string(out)),
	}
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Diff renders a line diff of two texts, want against got. Unchanged
// runs collapse to their edges so a big save's report stays readable.
func Diff(want, got string) string {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffDelete:
			writeLines(&sb, "-", d.Text)
		case diffpatch.DiffInsert:
			writeLines(&sb, "+", d.Text)
		default:
			writeContext(&sb, d.Text)
		}
	}
	return sb.String()
}

func writeLines(sb *strings.Builder, mark, text string) {
	for _, line := range splitLines(text) {
		sb.WriteString(mark)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

// writeContext keeps the first and last line of an unchanged run and
// counts the rest out.
func writeContext(sb *strings.Builder, text string) {
	lines := splitLines(text)
	if len(lines) <= 3 {
		writeLines(sb, " ", text)
		return
	}
	writeLines(sb, " ", lines[0])
	fmt.Fprintf(sb, "@ %d unchanged lines\n", len(lines)-2)
	writeLines(sb, " ", lines[len(lines)-1])
}

func splitLines(text string) []string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	return lines
}
