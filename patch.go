package savedata

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/106-/paradox-savedata-parser/debug"
	"github.com/106-/paradox-savedata-parser/export"
	"github.com/106-/paradox-savedata-parser/ir"
)

// Patch applies an RFC 6902 patch through the document's JSON
// interchange form: render to JSON, apply, read back. The rebuilt tree
// replaces the document wholesale, so comments and layout do not
// survive, objects the patch touched come back with sorted keys, and
// the next Serialize is fully canonical. Merge edits through the
// accessor layer and keeps bytes where it can; reach for Patch when
// you need move, copy or test ops.
func (d *Document) Patch(patch []byte) error {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("decode patch: %w", err)
	}
	form := export.JSON(d.root)
	if debug.Patch() {
		debug.Logf("patch over %s\n", string(form))
	}
	out, err := ops.Apply(form)
	if err != nil {
		return err
	}
	root, err := export.FromJSON(out)
	if err != nil {
		return fmt.Errorf("patched document: %w", err)
	}
	if !root.Kind.IsBlock() {
		return fmt.Errorf("patched document is not a block")
	}
	d.replaceRoot(root)
	return nil
}

// replaceRoot swaps in a freshly built tree. No spans reference the
// parsed buffer anymore, so the buffer is dropped and emission turns
// canonical; views handed out before the swap keep pointing into the
// old tree.
func (d *Document) replaceRoot(root *ir.Node) {
	root.Parent = nil
	root.ParentIndex = 0
	d.root = root
	d.src = nil
}
