// Package ir holds the document tree for parsed save data.
//
// # Overview
//
// Save files are a single clause document: nested key=value entries,
// positional arrays and bare scalars wrapped in braces. The ir package
// represents one parsed document as a tree of nodes, together with the
// trivia bookkeeping that lets untouched parts of the tree serialize
// back byte for byte.
//
// # Node Structure
//
// A Node is either a scalar or a block. Scalar kinds carry one typed
// value each:
//
//   - StringKind: Str
//   - IntKind: Int
//   - FloatKind: Float
//   - BoolKind: Bool (written yes/no)
//   - DateKind: Date (the dotted game calendar pattern)
//
// Block kinds hold entries in the parallel Keys/Values slices, always of
// equal length. Keys[i] == nil marks a positional entry:
//
//   - MappingKind: every entry keyed; duplicate keys are legal and keep
//     their original order
//   - SequenceKind: every entry positional
//   - HybridKind: both keyed and positional entries at one level, in
//     their original relative order
//
// Key nodes are scalars themselves (saves key blocks by identifiers,
// numbers and dates alike) and always carry their source text in Str so
// lookups match keys by how they were written.
//
// # Trivia and Edit State
//
// Nodes parsed from a buffer carry byte spans into it: Span for the
// node's own text, Entry for its whole entry in the parent (leading
// whitespace and comments, key, '=', value), Close for a block's
// trailing inner trivia plus '}'. The parser lays spans out so that a
// block's open brace, child entries and Close concatenate to exactly the
// block's bytes; serialization of an untouched tree is a straight copy.
//
// Edits track through State: writes call MarkDirty, which flags the
// written node Dirty and its ancestors Touched. Serialization emits
// Clean nodes verbatim from their spans, re-emits the skeleton of
// Touched blocks around their children, and regenerates Dirty subtrees
// canonically. Nodes created by edits have no spans and always emit
// canonically.
//
// # Creating Nodes
//
// Use constructor functions to create nodes:
//
//	node := ir.FromString("FRA")
//	num := ir.FromFloat(1000.0)
//	flag := ir.FromBool(true)
//	when := ir.FromDate(ir.Date{Year: 1444, Month: 11, Day: 11})
//	arr := ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})
//
// # Thread Safety
//
// Node structures are not thread-safe. A document has one owner; callers
// needing concurrent edits must serialize access themselves.
//
// # Related Packages
//
//   - github.com/106-/paradox-savedata-parser/parse - parses text into ir nodes
//   - github.com/106-/paradox-savedata-parser/encode - serializes ir nodes
//   - github.com/106-/paradox-savedata-parser/export - JSON/YAML interchange
package ir
