package savedata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/106-/paradox-savedata-parser/debug"
	"github.com/106-/paradox-savedata-parser/ir"
)

// Merge applies a merge patch in the style of RFC 7386. Patch objects
// recurse into the matching block, null deletes the key, everything
// else replaces or appends through the same rules as Set, so untouched
// regions keep their bytes. Deleting an absent key is a no-op per the
// RFC; a key occurring more than once is ambiguous for both recursion
// and delete.
//
// One departure from the RFC: a null member inside an object that
// replaces a scalar, sequence or absent target is an error, where the
// RFC starts from an empty object and drops the null. The fresh block
// has nothing to delete and the save syntax has no null to carry, so
// such a patch is rejected as malformed.
//
// Merge decodes the patch itself: the JSON interchange layer has no
// null, which is the RFC's delete marker. A patch that fails partway
// through application leaves the entries before the failure applied.
func (d *Document) Merge(patch []byte) error {
	dec := json.NewDecoder(bytes.NewReader(patch))
	dec.UseNumber()
	mv, err := decodeMergeValue(dec)
	if err != nil {
		return fmt.Errorf("merge patch: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("merge patch: trailing data")
	}
	if !mv.isObj {
		return fmt.Errorf("merge patch must be a JSON object")
	}
	return mergeInto(d.Root(), mv.obj)
}

type mergeVal struct {
	null  bool
	isObj bool
	obj   []mergeEntry
	node  *ir.Node
}

type mergeEntry struct {
	key string
	val mergeVal
}

func mergeInto(v *NodeView, entries []mergeEntry) error {
	for _, e := range entries {
		if e.val.null {
			if debug.Merge() {
				debug.Logf("merge delete %s\n", joinPath(v.path, segText(e.key)))
			}
			err := v.Delete(e.key)
			if err != nil && !errors.Is(err, ErrKeyNotFound) {
				return err
			}
			continue
		}
		if e.val.isObj {
			child, err := v.Get(e.key)
			switch {
			case err == nil && child.Multi():
				return &AmbiguousAccessError{Path: child.Path(), Count: child.Len()}
			case err == nil && child.Kind().IsBlock() && child.Kind() != ir.SequenceKind:
				if debug.Merge() {
					debug.Logf("merge descend %s\n", child.Path())
				}
				if err := mergeInto(child, e.val.obj); err != nil {
					return err
				}
				continue
			case err != nil && !errors.Is(err, ErrKeyNotFound):
				return err
			}
			// Absent, scalar or sequence target: the object replaces it
			// wholesale, like any other value.
		}
		n, err := e.val.toNode()
		if err != nil {
			return err
		}
		if debug.Merge() {
			debug.Logf("merge put %s = %s\n", joinPath(v.path, segText(e.key)), debug.Node{Node: n})
		}
		if err := v.Put(e.key, n); err != nil {
			return err
		}
	}
	return nil
}

func (m mergeVal) toNode() (*ir.Node, error) {
	if m.null {
		return nil, fmt.Errorf("JSON null has no save representation")
	}
	if !m.isObj {
		return m.node, nil
	}
	kvs := make([]ir.KeyVal, 0, len(m.obj))
	for _, e := range m.obj {
		val, err := e.val.toNode()
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(e.key), Val: val})
	}
	n := ir.FromKeyVals(kvs)
	if len(kvs) == 0 {
		n.Kind = ir.MappingKind
	}
	return n, nil
}

// decodeMergeValue reads one JSON value. Objects stay as ordered entry
// lists so recursion can walk them; everything else lowers to a node
// eagerly, with date-shaped strings reviving the way the parser reads
// them.
func decodeMergeValue(dec *json.Decoder) (mergeVal, error) {
	tok, err := dec.Token()
	if err != nil {
		return mergeVal{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if t == '{' {
			var entries []mergeEntry
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return mergeVal{}, err
				}
				key, ok := ktok.(string)
				if !ok {
					return mergeVal{}, fmt.Errorf("object key %v", ktok)
				}
				val, err := decodeMergeValue(dec)
				if err != nil {
					return mergeVal{}, err
				}
				entries = append(entries, mergeEntry{key: key, val: val})
			}
			if _, err := dec.Token(); err != nil {
				return mergeVal{}, err
			}
			return mergeVal{isObj: true, obj: entries}, nil
		}
		var vs []*ir.Node
		for dec.More() {
			elem, err := decodeMergeValue(dec)
			if err != nil {
				return mergeVal{}, err
			}
			n, err := elem.toNode()
			if err != nil {
				return mergeVal{}, err
			}
			vs = append(vs, n)
		}
		if _, err := dec.Token(); err != nil {
			return mergeVal{}, err
		}
		return mergeVal{node: ir.FromSlice(vs)}, nil
	case string:
		if dt, ok := ir.ParseDate(t); ok {
			return mergeVal{node: ir.FromDate(dt)}, nil
		}
		return mergeVal{node: ir.FromString(t)}, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return mergeVal{node: ir.FromInt(i)}, nil
		}
		f, err := t.Float64()
		if err != nil {
			return mergeVal{}, fmt.Errorf("number %s: %w", t, err)
		}
		return mergeVal{node: ir.FromFloat(f)}, nil
	case bool:
		return mergeVal{node: ir.FromBool(t)}, nil
	case nil:
		return mergeVal{null: true}, nil
	}
	return mergeVal{}, fmt.Errorf("unexpected token %v", tok)
}
