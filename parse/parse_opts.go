package parse

import (
	"github.com/106-/paradox-savedata-parser/profile"
)

type parseOpts struct {
	lenient bool
	diags   *[]Diagnostic
	workers int
	profile profile.Profile
}

type ParseOption func(*parseOpts)

// Lenient switches the parser from abort-on-first-error to
// skip-and-continue. Malformed scalar entries lose the rest of their
// line, malformed subtrees lose the subtree, and everything else still
// parses. Pair with ParseDiagnostics to see what was skipped.
func Lenient() ParseOption {
	return func(o *parseOpts) { o.lenient = true }
}

// ParseDiagnostics collects recovery and oddity reports into dst. In
// strict mode only non-fatal diagnostics (such as mixed blocks) appear;
// in lenient mode every skipped construct adds one entry.
func ParseDiagnostics(dst *[]Diagnostic) ParseOption {
	return func(o *parseOpts) { o.diags = dst }
}

// ParseWorkers splits top-level entries across n goroutines. Values
// below 2 keep the serial single-pass parse. The resulting tree and
// diagnostics are identical to a serial parse regardless of n.
func ParseWorkers(n int) ParseOption {
	return func(o *parseOpts) { o.workers = n }
}

// ParseProfile applies per-title conventions: empty-block
// classification, nesting limits.
func ParseProfile(p profile.Profile) ParseOption {
	return func(o *parseOpts) { o.profile = p }
}
