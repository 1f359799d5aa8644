// Package splice retrofits pallets into an already scaffolded project tree.
//
// Unlike the aggregate renderer, which writes files from scratch, the Splicer
// edits the project's runtime source, chain specification and runtime
// manifest in place, at anchors located by package anchor. A pallet whose
// Config implementation is already present is skipped, so running it twice
// is safe.
package splice
