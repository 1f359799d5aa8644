// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes the `dependency` and `additional_dependency` blocks of a
// pallet definition.
package model

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// hclCoordinates mirrors the attributes shared by both dependency block types.
type hclCoordinates struct {
	Package         string   `hcl:"package"`
	Alias           string   `hcl:"alias,optional"`
	Git             string   `hcl:"git,optional"`
	Tag             string   `hcl:"tag,optional"`
	Branch          string   `hcl:"branch,optional"`
	Version         string   `hcl:"version,optional"`
	DefaultFeatures bool     `hcl:"default_features,optional"`
	Features        []string `hcl:"features,optional"`
}

// hclDependency is the `dependency` block: coordinates plus required pallets.
type hclDependency struct {
	Package         string   `hcl:"package"`
	Alias           string   `hcl:"alias,optional"`
	Git             string   `hcl:"git,optional"`
	Tag             string   `hcl:"tag,optional"`
	Branch          string   `hcl:"branch,optional"`
	Version         string   `hcl:"version,optional"`
	DefaultFeatures bool     `hcl:"default_features,optional"`
	Features        []string `hcl:"features,optional"`
	Required        []string `hcl:"required,optional"`
}

func parseDependency(block *hcl.Block) (Dependencies, hcl.Diagnostics) {
	var dep hclDependency
	diags := gohcl.DecodeBody(block.Body, nil, &dep)
	if diags.HasErrors() {
		return Dependencies{}, diags
	}

	return Dependencies{
		Package: Coordinates{
			Name:            dep.Package,
			Alias:           dep.Alias,
			Git:             dep.Git,
			Tag:             dep.Tag,
			Branch:          dep.Branch,
			Version:         dep.Version,
			DefaultFeatures: dep.DefaultFeatures,
			Features:        dep.Features,
		},
		Required: dep.Required,
	}, diags
}

func parseCoordinates(body hcl.Body) (Coordinates, hcl.Diagnostics) {
	var c hclCoordinates
	diags := gohcl.DecodeBody(body, nil, &c)
	if diags.HasErrors() {
		return Coordinates{}, diags
	}

	return Coordinates{
		Name:            c.Package,
		Alias:           c.Alias,
		Git:             c.Git,
		Tag:             c.Tag,
		Branch:          c.Branch,
		Version:         c.Version,
		DefaultFeatures: c.DefaultFeatures,
		Features:        c.Features,
	}, diags
}
