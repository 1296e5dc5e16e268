// Package export bridges save trees to interchange formats. Entry
// order is preserved; a key repeated inside one block collapses into a
// single array-valued key at its first position, and a hybrid block
// becomes an object carrying its positional entries under "_items".
// Dates travel as their dotted text. The collapse is one-way: FromJSON
// reads an array value back as one sequence-valued entry, not as
// repeated keys.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/106-/paradox-savedata-parser/ir"
)

// Items is the object key positional entries of a hybrid block export
// under, and the key FromJSON splices back into positional entries.
const Items = "_items"

// JSON renders the tree as compact JSON. Every tree kind has a JSON
// form, so rendering cannot fail; text that is not valid UTF-8 is
// carried with replacement characters.
func JSON(root *ir.Node) []byte {
	var buf bytes.Buffer
	writeJSON(&buf, root)
	return buf.Bytes()
}

func writeJSON(b *bytes.Buffer, n *ir.Node) {
	switch n.Kind {
	case ir.MappingKind, ir.HybridKind:
		b.WriteByte('{')
		for i, e := range objectEntries(n) {
			if i > 0 {
				b.WriteByte(',')
			}
			writeString(b, e.key)
			b.WriteByte(':')
			if e.grouped {
				b.WriteByte('[')
				for j, v := range e.nodes {
					if j > 0 {
						b.WriteByte(',')
					}
					writeJSON(b, v)
				}
				b.WriteByte(']')
			} else {
				writeJSON(b, e.nodes[0])
			}
		}
		b.WriteByte('}')
	case ir.SequenceKind:
		b.WriteByte('[')
		for i, v := range n.Values {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, v)
		}
		b.WriteByte(']')
	case ir.StringKind:
		writeString(b, n.Str)
	case ir.IntKind:
		b.WriteString(strconv.FormatInt(n.Int, 10))
	case ir.FloatKind:
		b.WriteString(strconv.FormatFloat(n.Float, 'g', -1, 64))
	case ir.BoolKind:
		if n.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case ir.DateKind:
		writeString(b, n.Date.String())
	default:
		panic("impossible kind")
	}
}

func writeString(b *bytes.Buffer, s string) {
	d, _ := json.Marshal(s)
	b.Write(d)
}

// objectEntry is one interchange entry of a block: a single value, or
// the ordered group behind a repeated key or the positional Items.
type objectEntry struct {
	key     string
	nodes   []*ir.Node
	grouped bool
}

func objectEntries(n *ir.Node) []objectEntry {
	var out []objectEntry
	at := make(map[string]int, len(n.Keys))
	itemsAt := -1
	for i, k := range n.Keys {
		if k == nil {
			if itemsAt < 0 {
				itemsAt = len(out)
				out = append(out, objectEntry{key: Items, grouped: true})
			}
			out[itemsAt].nodes = append(out[itemsAt].nodes, n.Values[i])
			continue
		}
		j, ok := at[k.Str]
		if !ok {
			j = len(out)
			at[k.Str] = j
			out = append(out, objectEntry{key: k.Str})
		}
		out[j].nodes = append(out[j].nodes, n.Values[i])
	}
	for i := range out {
		if len(out[i].nodes) > 1 {
			out[i].grouped = true
		}
	}
	return out
}

// FromJSON builds a tree from JSON, preserving object entry order. An
// "_items" array splices back into positional entries. Date-shaped
// strings revive as dates, matching how the tokenizer reads the same
// text. JSON null has no save representation and is an error.
func FromJSON(data []byte) (*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := fromValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return n, nil
}

func fromValue(dec *json.Decoder) (*ir.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if t == '{' {
			return fromObject(dec)
		}
		return fromArray(dec)
	case string:
		if d, ok := ir.ParseDate(t); ok {
			return ir.FromDate(d), nil
		}
		return ir.FromString(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return ir.FromInt(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return ir.FromFloat(f), nil
	case bool:
		return ir.FromBool(t), nil
	case nil:
		return nil, fmt.Errorf("JSON null has no save representation")
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func fromObject(dec *json.Decoder) (*ir.Node, error) {
	var kvs []ir.KeyVal
	for dec.More() {
		ktok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := ktok.(string)
		if key == Items {
			items, err := fromValue(dec)
			if err != nil {
				return nil, err
			}
			if items.Kind != ir.SequenceKind {
				return nil, fmt.Errorf("%q must hold an array", Items)
			}
			for _, v := range items.Values {
				kvs = append(kvs, ir.KeyVal{Val: v})
			}
			continue
		}
		val, err := fromValue(dec)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	n := ir.FromKeyVals(kvs)
	if len(kvs) == 0 {
		n.Kind = ir.MappingKind
	}
	return n, nil
}

func fromArray(dec *json.Decoder) (*ir.Node, error) {
	var vs []*ir.Node
	for dec.More() {
		v, err := fromValue(dec)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return ir.FromSlice(vs), nil
}
