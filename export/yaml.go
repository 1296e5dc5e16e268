package export

import (
	"github.com/goccy/go-yaml"

	"github.com/106-/paradox-savedata-parser/ir"
)

// YAML renders the tree as YAML with the same shape as JSON: entry
// order kept, repeated keys grouped, hybrids carrying "_items".
func YAML(root *ir.Node) ([]byte, error) {
	return yaml.Marshal(yamlAny(root))
}

func yamlAny(n *ir.Node) any {
	switch n.Kind {
	case ir.MappingKind, ir.HybridKind:
		ms := make(yaml.MapSlice, 0, len(n.Values))
		for _, e := range objectEntries(n) {
			var v any
			if e.grouped {
				vs := make([]any, len(e.nodes))
				for j, nd := range e.nodes {
					vs[j] = yamlAny(nd)
				}
				v = vs
			} else {
				v = yamlAny(e.nodes[0])
			}
			ms = append(ms, yaml.MapItem{Key: e.key, Value: v})
		}
		return ms
	case ir.SequenceKind:
		vs := make([]any, len(n.Values))
		for i, v := range n.Values {
			vs[i] = yamlAny(v)
		}
		return vs
	case ir.StringKind:
		return n.Str
	case ir.IntKind:
		return n.Int
	case ir.FloatKind:
		return n.Float
	case ir.BoolKind:
		return n.Bool
	case ir.DateKind:
		return n.Date.String()
	default:
		panic("impossible kind")
	}
}
