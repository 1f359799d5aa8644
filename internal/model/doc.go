// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of the pallet catalogue. Its
// core purpose is to turn the raw HCL definition files into strongly-typed
// Pallet values that the resolver, the override engine and both synthesis
// strategies consume.
//
// # Core Concepts
//
//   - Pallet: a reusable unit of runtime functionality. It carries metadata,
//     the code it contributes to the runtime and chain specification, and a
//     dependency descriptor.
//
//   - Parameter: a configurable constant of a pallet, rendered as a multiplier
//     applied to a unit. Callers override it per generation request.
//
//   - Coordinates: the crate location written into the generated manifest.
//
//   - FSInfo: links every Pallet back to the file it was defined in, so that
//     catalogue errors name the offending file.
//
// The catalogue is loaded once and never mutated. Every generation request
// works on clones (see Pallet.Clone).
package model
