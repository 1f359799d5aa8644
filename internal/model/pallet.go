// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Pallet, the reusable unit of runtime functionality
// that the catalogue offers and the synthesis engine combines into a
// generated project.
//
// Why separate a Pallet from the files it is rendered into?
//
// A Pallet is pure data: what crate it comes from, which trait items it binds
// in the runtime, what it contributes to the chain specification. The same
// Pallet is rendered by the aggregate template renderer and by the source
// splicer, so neither strategy owns the model.
package model

// AnyTarget is the wildcard target context. A pallet essential for AnyTarget
// is included in every generated runtime.
const AnyTarget = "*"

// Pallet is the format-agnostic representation of a `pallet` block.
type Pallet struct {
	Name          string
	Metadata      Metadata
	Runtime       RuntimeConfig
	Dependencies  Dependencies
	FSInformation *FSInfo
}

// Metadata holds the descriptive part of a pallet definition.
type Metadata struct {
	Description string
	Category    string
	License     string
	Authors     []string

	// EssentialFor lists the target contexts in which the pallet is always
	// included. AnyTarget matches every target.
	EssentialFor []string
}

// IsEssentialFor reports whether the pallet must be included when generating
// for the given target context.
func (m Metadata) IsEssentialFor(target string) bool {
	for _, t := range m.EssentialFor {
		if t == AnyTarget || t == target {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the pallet. Resolved sets own clones so that
// applying overrides never leaks into the shared catalogue.
func (p *Pallet) Clone() *Pallet {
	if p == nil {
		return nil
	}
	c := &Pallet{
		Name: p.Name,
		Metadata: Metadata{
			Description:  p.Metadata.Description,
			Category:     p.Metadata.Category,
			License:      p.Metadata.License,
			Authors:      cloneStrings(p.Metadata.Authors),
			EssentialFor: cloneStrings(p.Metadata.EssentialFor),
		},
		Runtime:      p.Runtime.clone(),
		Dependencies: p.Dependencies.clone(),
	}
	if p.FSInformation != nil {
		c.FSInformation = NewFSInfo(p.FSInformation.FilePath)
	}
	return c
}

// Ident returns the identifier under which the pallet's crate is addressed in
// Rust source, e.g. "pallet_balances".
func (p *Pallet) Ident() string {
	return p.Dependencies.Package.Ident()
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
