// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines what a pallet contributes to the runtime crate and the
// chain specification: trait bindings, free-form code fragments, the
// construct-runtime registration and the genesis fragment.
package model

// Binding is a single `type <Trait> = <Type>;` item of a pallet's Config
// implementation.
type Binding struct {
	Trait string
	Type  string
}

// Registration is the declaration that wires a pallet into the runtime's
// aggregate type at a numeric slot.
type Registration struct {
	Index    int
	Symbol   string
	TypeExpr string
}

// GenesisMode controls how a genesis fragment is merged into an existing
// genesis literal.
type GenesisMode string

const (
	// GenesisAdd inserts a new named sub-block.
	GenesisAdd GenesisMode = "add"
	// GenesisReplace overwrites a sub-block with the same field name, if one
	// exists. Used when a pallet takes over a field, such as an authority list.
	GenesisReplace GenesisMode = "replace"
)

// GenesisValue is one `field: value` pair of a genesis fragment. Value is raw
// code and is emitted verbatim.
type GenesisValue struct {
	Key   string
	Value string
}

// Genesis is a pallet's contribution to the chain specification's genesis
// configuration.
type Genesis struct {
	Field  string
	Values []GenesisValue
	Mode   GenesisMode
}

// RuntimeConfig is everything a pallet contributes to generated source.
type RuntimeConfig struct {
	Bindings         []Binding
	Parameters       []*Parameter
	AdditionalImpl   string
	Imports          []string
	ChainSpecImports []string
	RuntimeAPI       string
	Genesis          *Genesis
	Registration     *Registration
}

// Parameter returns the configurable parameter with the given name, or nil.
func (r *RuntimeConfig) Parameter(name string) *Parameter {
	for _, p := range r.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r RuntimeConfig) clone() RuntimeConfig {
	c := RuntimeConfig{
		AdditionalImpl:   r.AdditionalImpl,
		Imports:          cloneStrings(r.Imports),
		ChainSpecImports: cloneStrings(r.ChainSpecImports),
		RuntimeAPI:       r.RuntimeAPI,
	}
	if r.Bindings != nil {
		c.Bindings = make([]Binding, len(r.Bindings))
		copy(c.Bindings, r.Bindings)
	}
	if r.Parameters != nil {
		c.Parameters = make([]*Parameter, len(r.Parameters))
		for i, p := range r.Parameters {
			c.Parameters[i] = p.Clone()
		}
	}
	if r.Genesis != nil {
		g := *r.Genesis
		g.Values = make([]GenesisValue, len(r.Genesis.Values))
		copy(g.Values, r.Genesis.Values)
		c.Genesis = &g
	}
	if r.Registration != nil {
		reg := *r.Registration
		c.Registration = &reg
	}
	return c
}
