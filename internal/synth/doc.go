// Package synth turns a resolved set of pallets into the text of a runtime
// crate: its Cargo manifest and its lib.rs.
//
// Two strategies share the Strategy interface. Aggregate renders both files
// from templates in one pass. The source splicer in package splice mutates an
// existing project tree in place. Both build their per-pallet text from the
// same Fragments and apply the same Policy to per-pallet failures.
package synth
