package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/106-/paradox-savedata-parser/encode"
	"github.com/106-/paradox-savedata-parser/ir"
)

// Node wraps a tree node so %s renders it in save syntax, canonically.
type Node struct{ *ir.Node }

func (n Node) String() string {
	if n.Node == nil {
		return "<nil>"
	}
	if n.Kind.IsScalar() {
		// the encoder renders documents, so scalars go through a
		// one-entry scaffold
		wrap := ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString("_"), Val: n.Node.Clone()}})
		out := encode.Bytes(wrap, nil)
		return string(out[2 : len(out)-1])
	}
	return string(encode.Bytes(n.Node, nil))
}

// Logf prints to stderr, rendering *ir.Node arguments in save syntax
// and map/slice arguments as indented JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *ir.Node:
			args[i] = Node{x}.String()
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(x, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", x)
				continue
			}
			args[i] = string(d)
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
