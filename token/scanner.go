package token

// Scanner walks a byte buffer left to right, one token per Next call.
// It never copies token text: every Token.Bytes is a subslice of src.
// Newline offsets accumulate in doc as a side effect of scanning, so
// line/column lookups stay cheap and lazy.
type Scanner struct {
	src []byte
	pos int
	end int
	doc *PosDoc
}

// NewScanner returns a Scanner over the whole buffer. A UTF-8 byte order
// mark at offset 0 is skipped; its bytes still belong to the leading
// trivia of whatever follows.
func NewScanner(src []byte, doc *PosDoc) *Scanner {
	s := &Scanner{src: src, end: len(src), doc: doc}
	if len(src) >= 3 && src[0] == 0xef && src[1] == 0xbb && src[2] == 0xbf {
		s.pos = 3
	}
	return s
}

// NewScannerAt returns a Scanner over src[off:end) that reports absolute
// offsets. Used by parallel parsing, where each worker scans its own
// slice of the document; such scanners usually run with a nil doc.
func NewScannerAt(src []byte, off, end int, doc *PosDoc) *Scanner {
	return &Scanner{src: src, pos: off, end: end, doc: doc}
}

// Offset returns the current scan position.
func (s *Scanner) Offset() int {
	return s.pos
}

// Next returns the next token, skipping whitespace. At end of input it
// returns a TEOF token with empty Bytes; calling Next again keeps
// returning TEOF.
func (s *Scanner) Next() (Token, error) {
	for s.pos < s.end {
		c := s.src[s.pos]
		switch c {
		case ' ', '\t', '\r', '\v', '\f':
			s.pos++
		case '\n':
			s.doc.nl(s.pos)
			s.pos++
		case '{':
			off := s.pos
			s.pos++
			return Token{Type: TLCurl, Off: off, Bytes: s.src[off : off+1]}, nil
		case '}':
			off := s.pos
			s.pos++
			return Token{Type: TRCurl, Off: off, Bytes: s.src[off : off+1]}, nil
		case '=':
			off := s.pos
			s.pos++
			return Token{Type: TEq, Off: off, Bytes: s.src[off : off+1]}, nil
		case '"':
			return s.scanQuoted()
		case '#':
			return s.scanComment(), nil
		default:
			return s.scanWord(), nil
		}
	}
	return Token{Type: TEOF, Off: s.end}, nil
}

// scanQuoted scans a quoted string token. Strings are single-line: a bare
// newline before the closing quote is an unterminated-string error, with
// the scanner left at the newline so line-level recovery consumes exactly
// the broken line.
func (s *Scanner) scanQuoted() (Token, error) {
	off := s.pos
	esc := false
	i := off + 1
	for i < s.end {
		switch s.src[i] {
		case '"':
			s.pos = i + 1
			return Token{Type: TString, Off: off, Bytes: s.src[off : i+1], Esc: esc}, nil
		case '\n':
			s.pos = i
			return Token{}, &ScanError{Err: ErrUnterminated, Off: off}
		case '\\':
			if i+1 < s.end && s.src[i+1] != '\n' {
				esc = true
				i += 2
				continue
			}
			s.pos = i + 1
			return Token{}, &ScanError{Err: ErrUnterminated, Off: off}
		}
		i++
	}
	s.pos = s.end
	return Token{}, &ScanError{Err: ErrUnterminated, Off: off}
}

// scanComment scans '#' to end of line. The newline itself is not part of
// the token.
func (s *Scanner) scanComment() Token {
	off := s.pos
	i := off + 1
	for i < s.end && s.src[i] != '\n' {
		i++
	}
	s.pos = i
	return Token{Type: TComment, Off: off, Bytes: s.src[off:i]}
}

// scanWord scans a bare word up to the next delimiter and classifies it
// by lexical shape.
func (s *Scanner) scanWord() Token {
	off := s.pos
	i := off + 1
	for i < s.end && !wordBreak(s.src[i]) {
		i++
	}
	s.pos = i
	b := s.src[off:i]
	return Token{Type: Classify(b), Off: off, Bytes: b}
}

func wordBreak(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f', '{', '}', '=', '"', '#':
		return true
	default:
		return false
	}
}

// SkipLine advances past the next newline, or to end of input.
func (s *Scanner) SkipLine() {
	for s.pos < s.end {
		if s.src[s.pos] == '\n' {
			s.doc.nl(s.pos)
			s.pos++
			return
		}
		s.pos++
	}
}

// SkipBalanced advances past the '}' matching one already-open brace,
// counting nested braces and ignoring braces inside quotes and comments.
// It reports whether the close was found before end of input.
func (s *Scanner) SkipBalanced() bool {
	depth := 1
	for s.pos < s.end {
		switch s.src[s.pos] {
		case '\n':
			s.doc.nl(s.pos)
			s.pos++
		case '"':
			s.pos++
			for s.pos < s.end {
				c := s.src[s.pos]
				if c == '\n' {
					break
				}
				if c == '\\' && s.pos+1 < s.end && s.src[s.pos+1] != '\n' {
					s.pos += 2
					continue
				}
				s.pos++
				if c == '"' {
					break
				}
			}
		case '#':
			for s.pos < s.end && s.src[s.pos] != '\n' {
				s.pos++
			}
		case '{':
			depth++
			s.pos++
		case '}':
			depth--
			s.pos++
			if depth == 0 {
				return true
			}
		default:
			s.pos++
		}
	}
	return false
}

// Tokenize scans all of src into dst and returns the extended slice with
// the newline table built along the way. The trailing TEOF token is not
// appended.
func Tokenize(dst []Token, src []byte) ([]Token, *PosDoc, error) {
	doc := NewPosDoc(src)
	s := NewScanner(src, doc)
	for {
		tok, err := s.Next()
		if err != nil {
			return dst, doc, err
		}
		if tok.Type == TEOF {
			return dst, doc, nil
		}
		dst = append(dst, tok)
	}
}
