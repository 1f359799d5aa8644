// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the configurable parameter, a constant declared by a
// pallet whose value is a multiplier applied to a unit (e.g. `5 * MILLIUNIT`).
// Callers may override the multiplier and the unit at generation time; the
// defaults declared in the catalogue apply otherwise.
package model

import (
	"strconv"
	"strings"
)

const (
	// DefaultParameterPrefix is emitted before the parameter name when the
	// definition does not declare one.
	DefaultParameterPrefix = "pub const "
	// DefaultParameterFormat renders the value when no format is declared.
	DefaultParameterFormat = "{multiplier} * {unit}"

	multiplierPlaceholder = "{multiplier}"
	unitPlaceholder       = "{unit}"
)

// Parameter is a configurable constant of a pallet.
type Parameter struct {
	Name                   string
	Description            string
	Prefix                 string
	Type                   string
	Format                 string
	DefaultUnit            string
	DefaultMultiplier      int64
	PossibleUnits          []string
	MultiplierConfigurable bool

	// Set by the override engine only. Nil means "use the default".
	ConfiguredMultiplier *int64
	ConfiguredUnit       *string
}

// EffectiveMultiplier returns the configured multiplier, or the default.
func (p *Parameter) EffectiveMultiplier() int64 {
	if p.ConfiguredMultiplier != nil {
		return *p.ConfiguredMultiplier
	}
	return p.DefaultMultiplier
}

// EffectiveUnit returns the configured unit, or the default.
func (p *Parameter) EffectiveUnit() string {
	if p.ConfiguredUnit != nil {
		return *p.ConfiguredUnit
	}
	return p.DefaultUnit
}

// AllowsUnit reports whether unit is one of the declared permissible units.
// A parameter that declares no units accepts any.
func (p *Parameter) AllowsUnit(unit string) bool {
	if len(p.PossibleUnits) == 0 {
		return true
	}
	for _, u := range p.PossibleUnits {
		if u == unit {
			return true
		}
	}
	return false
}

// Value renders the right-hand side of the parameter declaration by
// substituting the effective multiplier and unit into the format template.
func (p *Parameter) Value() string {
	format := p.Format
	if format == "" {
		format = DefaultParameterFormat
	}
	return strings.NewReplacer(
		multiplierPlaceholder, strconv.FormatInt(p.EffectiveMultiplier(), 10),
		unitPlaceholder, p.EffectiveUnit(),
	).Replace(format)
}

// Line renders the full declaration, e.g.
// `pub const ExistentialDeposit: Balance = 5 * UNIT;`.
func (p *Parameter) Line() string {
	prefix := p.Prefix
	if prefix == "" {
		prefix = DefaultParameterPrefix
	}
	return prefix + p.Name + ": " + p.Type + " = " + p.Value() + ";"
}

// Clone returns a deep copy of the parameter including configured values.
func (p *Parameter) Clone() *Parameter {
	if p == nil {
		return nil
	}
	c := *p
	c.PossibleUnits = cloneStrings(p.PossibleUnits)
	if p.ConfiguredMultiplier != nil {
		m := *p.ConfiguredMultiplier
		c.ConfiguredMultiplier = &m
	}
	if p.ConfiguredUnit != nil {
		u := *p.ConfiguredUnit
		c.ConfiguredUnit = &u
	}
	return &c
}
