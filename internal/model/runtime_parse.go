// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes the `runtime` block of a pallet definition together with
// its nested `parameter`, `registration` and `genesis` blocks.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/palletforge/internal/hclutil"
)

var runtimeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "bindings"},
		{Name: "imports"},
		{Name: "chain_spec_imports"},
		{Name: "additional_impl"},
		{Name: "runtime_api"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "parameter", LabelNames: []string{"name"}},
		{Type: "registration"},
		{Type: "genesis"},
	},
}

// hclParameter is the body of a `parameter "<name>"` block.
type hclParameter struct {
	Description            string   `hcl:"description,optional"`
	Prefix                 string   `hcl:"prefix,optional"`
	Type                   string   `hcl:"type"`
	Format                 string   `hcl:"format,optional"`
	DefaultUnit            string   `hcl:"default_unit,optional"`
	DefaultMultiplier      *int64   `hcl:"default_multiplier,optional"`
	PossibleUnits          []string `hcl:"possible_units,optional"`
	MultiplierConfigurable bool     `hcl:"multiplier_configurable,optional"`
}

type hclRegistration struct {
	Index    int    `hcl:"index"`
	Symbol   string `hcl:"symbol"`
	TypeExpr string `hcl:"type"`
}

var genesisBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "field", Required: true},
		{Name: "mode"},
		{Name: "values"},
	},
}

func parseRuntime(block *hcl.Block) (RuntimeConfig, hcl.Diagnostics) {
	var rt RuntimeConfig
	var diags hcl.Diagnostics

	content, contentDiags := block.Body.Content(runtimeBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return rt, diags
	}

	if attr, ok := content.Attributes["bindings"]; ok {
		pairs, pairDiags := hclutil.OrderedStringMap(attr.Expr)
		diags = append(diags, pairDiags...)
		for _, kv := range pairs {
			rt.Bindings = append(rt.Bindings, Binding{Trait: kv.Key, Type: kv.Value})
		}
	}

	diags = append(diags, decodeOptionalAttr(content.Attributes, "imports", &rt.Imports)...)
	diags = append(diags, decodeOptionalAttr(content.Attributes, "chain_spec_imports", &rt.ChainSpecImports)...)
	diags = append(diags, decodeOptionalAttr(content.Attributes, "additional_impl", &rt.AdditionalImpl)...)
	diags = append(diags, decodeOptionalAttr(content.Attributes, "runtime_api", &rt.RuntimeAPI)...)

	params, paramDiags := parseParameters(content.Blocks.OfType("parameter"))
	diags = append(diags, paramDiags...)
	rt.Parameters = params

	regBlock, regDiags := hclutil.FindUniqueBlock(content.Blocks, "registration")
	diags = append(diags, regDiags...)
	if regBlock != nil {
		var reg hclRegistration
		decodeDiags := gohcl.DecodeBody(regBlock.Body, nil, &reg)
		diags = append(diags, decodeDiags...)
		if !decodeDiags.HasErrors() {
			rt.Registration = &Registration{Index: reg.Index, Symbol: reg.Symbol, TypeExpr: reg.TypeExpr}
		}
	}

	genesisBlock, genesisDiags := hclutil.FindUniqueBlock(content.Blocks, "genesis")
	diags = append(diags, genesisDiags...)
	if genesisBlock != nil {
		g, gDiags := parseGenesis(genesisBlock)
		diags = append(diags, gDiags...)
		rt.Genesis = g
	}

	return rt, diags
}

// parseParameters decodes every 'parameter' block, keeping declaration order.
func parseParameters(blocks hcl.Blocks) ([]*Parameter, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var params []*Parameter
	seen := make(map[string]struct{})

	for _, block := range blocks {
		name := block.Labels[0]
		if _, exists := seen[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate parameter definition",
				Detail:   fmt.Sprintf("A parameter named '%s' has already been defined.", name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = struct{}{}

		var hp hclParameter
		decodeDiags := gohcl.DecodeBody(block.Body, nil, &hp)
		diags = append(diags, decodeDiags...)
		if decodeDiags.HasErrors() {
			continue
		}

		p := &Parameter{
			Name:                   name,
			Description:            hp.Description,
			Prefix:                 hp.Prefix,
			Type:                   hp.Type,
			Format:                 hp.Format,
			DefaultUnit:            hp.DefaultUnit,
			DefaultMultiplier:      1,
			PossibleUnits:          hp.PossibleUnits,
			MultiplierConfigurable: hp.MultiplierConfigurable,
		}
		if hp.DefaultMultiplier != nil {
			p.DefaultMultiplier = *hp.DefaultMultiplier
		}

		if p.DefaultUnit != "" && !p.AllowsUnit(p.DefaultUnit) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default unit",
				Detail:   fmt.Sprintf("Parameter '%s' declares default unit '%s' which is not one of its possible units %v.", name, p.DefaultUnit, p.PossibleUnits),
				Subject:  &block.DefRange,
			})
			continue
		}

		params = append(params, p)
	}
	return params, diags
}

func parseGenesis(block *hcl.Block) (*Genesis, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	content, contentDiags := block.Body.Content(genesisBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	g := &Genesis{Mode: GenesisAdd}
	diags = append(diags, gohcl.DecodeExpression(content.Attributes["field"].Expr, nil, &g.Field)...)

	if attr, ok := content.Attributes["mode"]; ok {
		var mode string
		modeDiags := gohcl.DecodeExpression(attr.Expr, nil, &mode)
		diags = append(diags, modeDiags...)
		switch GenesisMode(mode) {
		case GenesisAdd, GenesisReplace:
			g.Mode = GenesisMode(mode)
		default:
			if !modeDiags.HasErrors() {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid genesis mode",
					Detail:   fmt.Sprintf("Mode must be '%s' or '%s', got '%s'.", GenesisAdd, GenesisReplace, mode),
					Subject:  attr.Expr.Range().Ptr(),
				})
			}
		}
	}

	if attr, ok := content.Attributes["values"]; ok {
		pairs, pairDiags := hclutil.OrderedStringMap(attr.Expr)
		diags = append(diags, pairDiags...)
		for _, kv := range pairs {
			g.Values = append(g.Values, GenesisValue{Key: kv.Key, Value: kv.Value})
		}
	}

	return g, diags
}
