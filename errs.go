package savedata

import (
	"errors"
	"fmt"

	"github.com/106-/paradox-savedata-parser/ir"
)

var (
	// ErrKeyNotFound wraps every failed lookup so callers can test with
	// errors.Is without matching message text.
	ErrKeyNotFound = errors.New("key not found")

	// ErrAmbiguous wraps writes addressed at a key that occurs more than
	// once. Reads are never ambiguous; the duplicate run comes back as a
	// sequence view instead.
	ErrAmbiguous = errors.New("ambiguous access")

	// ErrTypeMismatch wraps typed reads and navigation applied to a node
	// of the wrong kind.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrBadPath wraps malformed path strings.
	ErrBadPath = errors.New("bad path")
)

// KeyNotFoundError reports a path whose terminal segment matched nothing.
// Intermediate segments resolved; Path names the full failed address.
type KeyNotFoundError struct {
	Path string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, ErrKeyNotFound)
}

func (e *KeyNotFoundError) Unwrap() error { return ErrKeyNotFound }

// AmbiguousAccessError reports a write through a key that selected Count
// occurrences. The write is rejected outright; the document is unchanged.
// Disambiguate with an index, as in army[1].morale.
type AmbiguousAccessError struct {
	Path  string
	Count int
}

func (e *AmbiguousAccessError) Error() string {
	return fmt.Sprintf("%s: %s: %d occurrences, pick one with an index", e.Path, ErrAmbiguous, e.Count)
}

func (e *AmbiguousAccessError) Unwrap() error { return ErrAmbiguous }

// TypeMismatchError reports a typed read or a navigation step applied to
// a node of the wrong kind: Int on a string, keying into a scalar, and
// the like.
type TypeMismatchError struct {
	Path string
	Want ir.Kind
	Got  ir.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", e.Path, ErrTypeMismatch, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// PathError reports a path string the grammar rejects, before any
// resolution is attempted.
type PathError struct {
	Path string
	Msg  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Path, ErrBadPath, e.Msg)
}

func (e *PathError) Unwrap() error { return ErrBadPath }
