package token

import (
	"fmt"
)

type Type int

const (
	TEOF = iota
	TIdent
	TString
	TInt
	TFloat
	TDate
	TYes
	TNo
	TEq
	TLCurl
	TRCurl
	TComment
)

func (t Type) String() string {
	return map[Type]string{
		TEOF:     "TEOF",
		TIdent:   "TIdent",
		TString:  "TString",
		TInt:     "TInt",
		TFloat:   "TFloat",
		TDate:    "TDate",
		TYes:     "TYes",
		TNo:      "TNo",
		TEq:      "TEq",
		TLCurl:   "TLCurl",
		TRCurl:   "TRCurl",
		TComment: "TComment",
	}[t]
}

// Token references a region of the scanned buffer. Bytes is a subslice of
// the input, never a copy; for TString it includes the enclosing quotes and
// Esc reports whether the contents carry backslash escapes, so decoding can
// be deferred until the value is actually materialized.
type Token struct {
	Type  Type
	Off   int
	Bytes []byte
	Esc   bool
}

// End returns the byte offset one past the token.
func (t *Token) End() int {
	return t.Off + len(t.Bytes)
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %q at offset %d", t.Type, t.Bytes, t.Off)
}

// IsScalar reports whether the token can stand as a value or key.
func (t *Token) IsScalar() bool {
	switch t.Type {
	case TIdent, TString, TInt, TFloat, TDate, TYes, TNo:
		return true
	default:
		return false
	}
}

type ScanError struct {
	Err error
	Off int
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Err.Error(), e.Off)
}
