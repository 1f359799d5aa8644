// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines a pallet's dependency descriptor: the crate coordinates
// written into the generated manifest and the names of other pallets that must
// be generated alongside it.
package model

import (
	"strings"
	"unicode"
)

// Coordinates locate a crate: its package name, an optional alias under which
// it is imported, and its source pin.
type Coordinates struct {
	Name            string
	Alias           string
	Git             string
	Tag             string
	Branch          string
	Version         string
	DefaultFeatures bool
	Features        []string
}

// CrateAlias returns the key under which the crate is declared in the
// manifest's dependency table.
func (c Coordinates) CrateAlias() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// Ident returns the Rust path segment for the crate: the snake-cased alias.
func (c Coordinates) Ident() string {
	return SnakeCase(c.CrateAlias())
}

// SnakeCase converts a crate or pallet name into a Rust identifier:
// "pallet-balances" becomes "pallet_balances", "CollatorSelection" becomes
// "collator_selection".
func SnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ' || r == '.':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			if i > 0 && runes[i-1] != '_' && runes[i-1] != '-' &&
				(unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
					(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dependencies is a pallet's dependency descriptor.
type Dependencies struct {
	Package    Coordinates
	Additional []Coordinates
	// Required lists pallet names that must be part of any generated set
	// containing this pallet. Catalogue authors list the full closure.
	Required []string
}

func (d Dependencies) clone() Dependencies {
	c := Dependencies{
		Package:  d.Package.clone(),
		Required: cloneStrings(d.Required),
	}
	if d.Additional != nil {
		c.Additional = make([]Coordinates, len(d.Additional))
		for i, a := range d.Additional {
			c.Additional[i] = a.clone()
		}
	}
	return c
}

func (c Coordinates) clone() Coordinates {
	c.Features = cloneStrings(c.Features)
	return c
}
