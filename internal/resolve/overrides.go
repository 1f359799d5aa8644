package resolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/palletforge/internal/ctxlog"
)

// Override carries caller-supplied values for one configurable parameter.
// Nil fields leave the parameter's current value untouched.
type Override struct {
	Multiplier *int64  `json:"multiplier,omitempty"`
	Unit       *string `json:"unit,omitempty"`
}

// Overrides maps pallet name to parameter name to override.
type Overrides map[string]map[string]Override

// OverrideOptions tunes ApplyOverrides.
type OverrideOptions struct {
	// Strict rejects overrides for undeclared parameters, units outside the
	// parameter's possible units, and multipliers on parameters whose
	// multiplier is not configurable. Without it, undeclared parameters are
	// skipped with a warning and values are applied as given.
	Strict bool
}

// ApplyOverrides writes overrides onto the matching parameters of set in
// place. Every pallet named in overrides must be in set.
func ApplyOverrides(ctx context.Context, set *Set, overrides Overrides, opts OverrideOptions) error {
	logger := ctxlog.FromContext(ctx)

	var unknown []string
	for _, name := range sortedKeys(overrides) {
		if !set.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return &UnknownModuleError{Names: unknown}
	}

	if opts.Strict {
		if err := validateOverrides(set, overrides); err != nil {
			return err
		}
	}

	for _, palletName := range sortedKeys(overrides) {
		pallet, _ := set.Get(palletName)

		for _, paramName := range sortedKeys(overrides[palletName]) {
			ov := overrides[palletName][paramName]
			param := pallet.Runtime.Parameter(paramName)
			if param == nil {
				logger.Warn("Ignoring override for undeclared parameter.", "pallet", palletName, "parameter", paramName)
				continue
			}

			if ov.Multiplier != nil {
				m := *ov.Multiplier
				param.ConfiguredMultiplier = &m
			}
			if ov.Unit != nil {
				u := *ov.Unit
				param.ConfiguredUnit = &u
			}
			logger.Debug("Applied parameter override.",
				"pallet", palletName,
				"parameter", paramName,
				"multiplier", param.EffectiveMultiplier(),
				"unit", param.EffectiveUnit(),
			)
		}
	}
	return nil
}

// validateOverrides checks every override before any is applied, so a
// rejected request leaves the set untouched.
func validateOverrides(set *Set, overrides Overrides) error {
	for _, palletName := range sortedKeys(overrides) {
		pallet, _ := set.Get(palletName)
		for _, paramName := range sortedKeys(overrides[palletName]) {
			ov := overrides[palletName][paramName]
			param := pallet.Runtime.Parameter(paramName)
			if param == nil {
				return &UnknownParameterError{Pallet: palletName, Parameter: paramName}
			}
			if ov.Unit != nil && !param.AllowsUnit(*ov.Unit) {
				return &InvalidOverrideError{
					Pallet:    palletName,
					Parameter: paramName,
					Reason:    fmt.Sprintf("unit %q is not one of %v", *ov.Unit, param.PossibleUnits),
				}
			}
			if ov.Multiplier != nil && !param.MultiplierConfigurable {
				return &InvalidOverrideError{
					Pallet:    palletName,
					Parameter: paramName,
					Reason:    "multiplier is not configurable",
				}
			}
		}
	}
	return nil
}

// sortedKeys gives map iteration a stable order so that logs and the first
// reported error do not depend on map randomization.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
