package synth

import "fmt"

// Error is a synthesis failure. Pallet is empty when the failure is not tied
// to one pallet, e.g. a malformed template.
type Error struct {
	Pallet string
	Err    error
}

func (e *Error) Error() string {
	if e.Pallet == "" {
		return fmt.Sprintf("synthesis failed: %v", e.Err)
	}
	return fmt.Sprintf("synthesis failed for pallet '%s': %v", e.Pallet, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
