// Package resolve turns a request into the set of pallets to generate.
//
// Resolve expands the requested names with their required pallets and the
// pallets essential for the target, and returns clones in catalogue order.
// ApplyOverrides then writes caller-supplied parameter values onto those
// clones. Both run synchronously before any background work is scheduled, so
// their errors reach the caller directly.
package resolve
