// Package catalogue loads and holds the immutable set of pallet definitions.
//
// The Catalogue is populated once at startup from a directory of .hcl files
// and is then shared read-only by every generation request. Resolution never
// hands out catalogue pallets directly; it clones them, so the catalogue needs
// no locking.
//
// Iteration order is deterministic: files are visited in lexical path order
// and pallets in the order they appear within a file. Resolved sets inherit
// this order, which makes generated output reproducible.
package catalogue
