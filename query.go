package savedata

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/106-/paradox-savedata-parser/debug"
	"github.com/106-/paradox-savedata-parser/ir"
)

// Query filters the entries under path with a predicate expression and
// returns the entries it accepts, in document order. The predicate
// sees each entry as an environment: the entry's scalar fields by
// name, _key and _index for where it sits, and _value when the entry
// is itself a scalar. Dates read as their dotted text. Fields the
// entry does not have read as nil, so guard mixed blocks:
//
//	Query("countries", `_key == "FRA" || treasury > 1000`)
//	Query("army", `morale != nil && morale < 0.5`)
//
// The predicate must come out bool; anything else is an error.
func (d *Document) Query(path, predicate string) ([]*NodeView, error) {
	prog, err := expr.Compile(predicate)
	if err != nil {
		return nil, fmt.Errorf("compile predicate: %w", err)
	}
	v, err := d.Get(path)
	if err != nil {
		return nil, err
	}
	var out []*NodeView
	i := 0
	err = v.Each(func(key string, entry *NodeView) error {
		res, err := expr.Run(prog, queryEnv(key, i, entry))
		i++
		if err != nil {
			return fmt.Errorf("predicate at %s: %w", entry.Path(), err)
		}
		keep, ok := res.(bool)
		if !ok {
			return fmt.Errorf("predicate returned %T, want bool", res)
		}
		if debug.Query() {
			debug.Logf("query %s -> %v\n", entry.Path(), keep)
		}
		if keep {
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func queryEnv(key string, index int, v *NodeView) map[string]any {
	env := map[string]any{
		"_key":   key,
		"_index": index,
	}
	n := v.node
	if n.Kind.IsScalar() {
		env["_value"] = scalarAny(n)
		return env
	}
	for i, k := range n.Keys {
		if k == nil {
			continue
		}
		if val := n.Values[i]; val.Kind.IsScalar() {
			env[k.Str] = scalarAny(val)
		}
	}
	return env
}

func scalarAny(n *ir.Node) any {
	switch n.Kind {
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
	}
	return nil
}
