// Package anchor locates the handful of constructs the source splicer edits:
// bracketed regions in Rust sources (the runtime declaration, the runtime API
// block, the genesis JSON literal), table and array regions in Cargo
// manifests, and the import insertion point.
//
// It is not a parser. It scans just enough syntax to match brackets and to
// ignore anything inside string literals and comments, so incidental text
// (a comment mentioning construct_runtime!, a string containing a brace)
// does not move an anchor.
package anchor
