package token

import (
	"sort"
	"strconv"
)

// PosDoc accumulates newline offsets while the document is scanned and
// answers line/column queries by binary search. Lines and columns are
// 1-based. A nil PosDoc is valid and records nothing, which is how the
// parallel-parse workers run: they scan ranges of a document whose
// newline table was already built by the delimiting prescan.
type PosDoc struct {
	src []byte
	n   []int
}

func NewPosDoc(src []byte) *PosDoc {
	return &PosDoc{src: src}
}

func (d *PosDoc) nl(i int) {
	if d == nil {
		return
	}
	if len(d.n) > 0 && d.n[len(d.n)-1] == i {
		return
	}
	d.n = append(d.n, i)
}

// LineCol converts a byte offset to a 1-based line and column. Only
// newlines at offsets below off need to have been scanned yet.
func (d *PosDoc) LineCol(off int) (int, int) {
	if d == nil {
		return 1, off + 1
	}
	N := len(d.n)
	i := sort.Search(N, func(i int) bool {
		return d.n[i] >= off
	})
	if i == 0 {
		return 1, off + 1
	}
	return i + 1, off - d.n[i-1]
}

// Context returns an escaped snippet of the document around off, for
// error messages.
func (d *PosDoc) Context(off int) string {
	if d == nil || len(d.src) == 0 {
		return "?"
	}
	sample := string(d.src[max(0, off-5):min(off+5, len(d.src))])
	sample = strconv.Quote(sample)
	return sample[1 : len(sample)-1]
}
