package hclutil

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// KeyValue is one entry of an object expression, in source order.
type KeyValue struct {
	Key   string
	Value string
}

// OrderedStringMap decodes an object constructor expression such as
// `{ A = "x", B = "y" }` into key/value pairs, keeping the order in which they
// appear in the source. Evaluating the expression into a cty object would lose
// that order, and generated code follows declaration order.
func OrderedStringMap(expr hcl.Expression) ([]KeyValue, hcl.Diagnostics) {
	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, diags
	}

	out := make([]KeyValue, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		key, keyDiags := stringValue(pair.Key)
		diags = append(diags, keyDiags...)
		if keyDiags.HasErrors() {
			continue
		}
		if _, dup := seen[key]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate key",
				Detail:   fmt.Sprintf("The key '%s' is defined more than once.", key),
				Subject:  pair.Key.Range().Ptr(),
			})
			continue
		}
		seen[key] = struct{}{}

		val, valDiags := stringValue(pair.Value)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		out = append(out, KeyValue{Key: key, Value: val})
	}
	return out, diags
}

// stringValue evaluates a constant expression and converts it to a string.
// Bare identifiers used as object keys (`{ RuntimeEvent = ... }`) are accepted
// as their own name.
func stringValue(expr hcl.Expression) (string, hcl.Diagnostics) {
	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		return kw, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil || str.IsNull() || !str.IsKnown() {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   "Expected a string value.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	return str.AsString(), nil
}
