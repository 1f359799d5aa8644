// Package app wires the catalogue, synthesis strategies, archive assembler,
// object store, task store and orchestrator into one application, decoupled
// from the command-line entrypoint.
package app
