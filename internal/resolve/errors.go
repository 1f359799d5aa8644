package resolve

import (
	"fmt"
	"slices"
	"strings"
)

// UnknownModuleError reports requested pallet names that are absent from the
// catalogue (or, for overrides, from the resolved set). It lists every absent
// name, not only the first one encountered.
type UnknownModuleError struct {
	Names []string
}

func (e *UnknownModuleError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("unknown pallet(s): %s", strings.Join(quoted, ", "))
}

// Has reports whether name is one of the unknown names.
func (e *UnknownModuleError) Has(name string) bool {
	return slices.Contains(e.Names, name)
}

// UnknownParameterError reports an override addressed to a parameter the
// pallet does not declare. Only returned in strict mode.
type UnknownParameterError struct {
	Pallet    string
	Parameter string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("pallet %q has no configurable parameter %q", e.Pallet, e.Parameter)
}

// InvalidOverrideError reports an override value the parameter does not
// accept. Only returned in strict mode.
type InvalidOverrideError struct {
	Pallet    string
	Parameter string
	Reason    string
}

func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("invalid override for %s.%s: %s", e.Pallet, e.Parameter, e.Reason)
}
