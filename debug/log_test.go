package debug

import (
	"fmt"
	"testing"

	"github.com/106-/paradox-savedata-parser/ir"
)

// Tree values reach Logf as %s arguments, so Node has to stay a
// stringer or the printf vet check fails every caller.
var _ fmt.Stringer = Node{}

func TestNodeString(t *testing.T) {
	block := ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString("x"), Val: ir.FromInt(1)}})
	cases := []struct {
		in Node
		e  string
	}{
		{Node{}, "<nil>"},
		{Node{Node: ir.FromInt(3)}, "3"},
		{Node{Node: ir.FromString("a b")}, `"a b"`},
		{Node{Node: block}, "x=1\n"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.e {
			t.Errorf("render %q, want %q", got, c.e)
		}
	}
}
