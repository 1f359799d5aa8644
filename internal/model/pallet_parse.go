// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file contains the logic for decoding `pallet` blocks from a parsed HCL
// file into Pallet definitions.
//
// A definition file looks like:
//
//	pallet "Balances" {
//	  description  = "Native token balances."
//	  category     = "accounts"
//	  is_essential = ["solochain"]
//
//	  dependency {
//	    package  = "pallet-balances"
//	    git      = "https://github.com/paritytech/polkadot-sdk"
//	    tag      = "polkadot-v1.9.0"
//	    required = []
//	  }
//
//	  runtime {
//	    bindings = { RuntimeEvent = "RuntimeEvent" }
//	    registration {
//	      index  = 10
//	      symbol = "Balances"
//	      type   = "pallet_balances"
//	    }
//	  }
//	}
package model

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// palletRootSchema defines the top-level structure of a definition file,
// expecting one or more 'pallet' blocks.
type palletRootSchema struct {
	Pallets []*hclPallet `hcl:"pallet,block"`
}

// hclPallet represents a single 'pallet' block for decoding purposes.
type hclPallet struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

var palletBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "category"},
		{Name: "license"},
		{Name: "authors"},
		{Name: "is_essential"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "dependency"},
		{Type: "additional_dependency"},
		{Type: "runtime"},
	},
}

// ParsePalletFile decodes an HCL file that contains one or more 'pallet' blocks.
func ParsePalletFile(ctx context.Context, hclFile *hcl.File, filePath string) ([]*Pallet, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing pallet definitions from file", "file_path", filePath)

	var allDiags hcl.Diagnostics
	if hclFile == nil {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, allDiags
	}

	root := &palletRootSchema{}
	diags := gohcl.DecodeBody(hclFile.Body, nil, root)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	pallets := make([]*Pallet, 0, len(root.Pallets))
	for _, parsed := range root.Pallets {
		p, diags := newPalletFromHCL(parsed, filePath)
		allDiags = append(allDiags, diags...)
		if p != nil {
			pallets = append(pallets, p)
		}
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}

	logger.Debug("Successfully parsed pallet definitions", "count", len(pallets))
	return pallets, allDiags
}

func newPalletFromHCL(parsed *hclPallet, filePath string) (*Pallet, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	content, contentDiags := parsed.Body.Content(palletBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	p := &Pallet{
		Name:          parsed.Name,
		FSInformation: NewFSInfo(filePath),
	}

	diags = append(diags, decodeOptionalAttr(content.Attributes, "description", &p.Metadata.Description)...)
	diags = append(diags, decodeOptionalAttr(content.Attributes, "category", &p.Metadata.Category)...)
	diags = append(diags, decodeOptionalAttr(content.Attributes, "license", &p.Metadata.License)...)
	diags = append(diags, decodeOptionalAttr(content.Attributes, "authors", &p.Metadata.Authors)...)

	if attr, ok := content.Attributes["is_essential"]; ok {
		essential, essentialDiags := parseEssential(attr)
		diags = append(diags, essentialDiags...)
		p.Metadata.EssentialFor = essential
	}

	depBlock, blockDiags := hclutil.FindUniqueBlock(content.Blocks, "dependency")
	diags = append(diags, blockDiags...)
	if depBlock == nil {
		missing := parsed.Body.MissingItemRange()
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'dependency' block",
			Detail:   fmt.Sprintf("Pallet '%s' must declare a 'dependency' block.", parsed.Name),
			Subject:  &missing,
		})
	} else {
		var depDiags hcl.Diagnostics
		p.Dependencies, depDiags = parseDependency(depBlock)
		diags = append(diags, depDiags...)
	}

	for _, block := range content.Blocks.OfType("additional_dependency") {
		coords, coordDiags := parseCoordinates(block.Body)
		diags = append(diags, coordDiags...)
		p.Dependencies.Additional = append(p.Dependencies.Additional, coords)
	}

	runtimeBlock, blockDiags := hclutil.FindUniqueBlock(content.Blocks, "runtime")
	diags = append(diags, blockDiags...)
	if runtimeBlock != nil {
		var rtDiags hcl.Diagnostics
		p.Runtime, rtDiags = parseRuntime(runtimeBlock)
		diags = append(diags, rtDiags...)
	}

	return p, diags
}

// parseEssential accepts either a bool (`true` means every target) or a list
// of target names.
func parseEssential(attr *hcl.Attribute) ([]string, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, diags
	}

	if val.Type() == cty.Bool {
		if val.True() {
			return []string{AnyTarget}, diags
		}
		return nil, diags
	}

	list, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid 'is_essential' value",
			Detail:   fmt.Sprintf("Expected a bool or a list of target names, got %s.", val.Type().FriendlyName()),
			Subject:  attr.Expr.Range().Ptr(),
		})
		return nil, diags
	}

	var targets []string
	for it := list.ElementIterator(); it.Next(); {
		_, v := it.Element()
		targets = append(targets, v.AsString())
	}
	return targets, diags
}

// decodeOptionalAttr decodes the named attribute into target if it is present.
func decodeOptionalAttr(attrs hcl.Attributes, name string, target any) hcl.Diagnostics {
	attr, ok := attrs[name]
	if !ok {
		return nil
	}
	return gohcl.DecodeExpression(attr.Expr, nil, target)
}
