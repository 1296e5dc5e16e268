package parse

import (
	"errors"
	"fmt"

	"github.com/106-/paradox-savedata-parser/token"
)

var (
	// ErrSyntax wraps every parse failure so callers can test with
	// errors.Is without matching message text.
	ErrSyntax = errors.New("syntax error")
)

// SyntaxError is the strict-mode parse failure. It pins the first
// malformed construct to a byte offset in the input, with line and
// column resolved against the same input.
type SyntaxError struct {
	Offset int
	Line   int
	Col    int
	Msg    string

	ctx string
}

func (e *SyntaxError) Error() string {
	if e.ctx == "" {
		return fmt.Sprintf("%s: %s at offset %d (line=%d, col=%d)",
			ErrSyntax, e.Msg, e.Offset, e.Line, e.Col)
	}
	return fmt.Sprintf("%s: %s `...%s...` at offset %d (line=%d, col=%d)",
		ErrSyntax, e.Msg, e.ctx, e.Offset, e.Line, e.Col)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Diagnostic records one problem a lenient parse recovered from, or a
// non-fatal oddity such as a block mixing keyed and positional entries.
// Diagnostics come back ordered by the point of detection, which for
// same-construct problems is byte order.
type Diagnostic struct {
	Offset int
	Line   int
	Col    int
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at offset %d (line=%d, col=%d)", d.Reason, d.Offset, d.Line, d.Col)
}

func syntaxErr(doc *token.PosDoc, off int, format string, args ...any) *SyntaxError {
	line, col := doc.LineCol(off)
	return &SyntaxError{
		Offset: off,
		Line:   line,
		Col:    col,
		Msg:    fmt.Sprintf(format, args...),
		ctx:    doc.Context(off),
	}
}
