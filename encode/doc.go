// Package encode serializes ir trees back to save text.
//
// # Emission Modes
//
// Every node is emitted in one of three modes, decided by its spans and
// edit state:
//
//   - clean nodes copy their original bytes, comments and layout
//     included
//   - dirty nodes keep their lead trivia, key and '=' and re-render the
//     value canonically
//   - touched blocks (ancestors of an edit) keep their own bytes and
//     revisit their entries one by one
//
// Entries with no original bytes, fresh appends or whole trees built
// in memory, render canonically: tab indentation, key={ blocks with
// one entry per line, scalar-only sequences on a single line, yes/no
// booleans, fixed-precision floats, dotted dates, and strings quoted
// only when a bare reparse would change their shape.
//
// # Usage
//
//	// byte-for-byte round trip of an unedited document
//	root, _ := parse.Parse(src)
//	out := encode.Bytes(root, src)
//
//	// full canonical rendering
//	out = encode.Bytes(root, src, encode.EncodeCanonical(true))
//
// # Related Packages
//
//   - github.com/106-/paradox-savedata-parser/ir - document tree
//   - github.com/106-/paradox-savedata-parser/parse - text to ir
package encode
