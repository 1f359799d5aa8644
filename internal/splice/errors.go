package splice

import "fmt"

// IOError is a per-pallet failure to read, anchor or write a project file.
// Pallet is empty for failures while writing the staged files back.
type IOError struct {
	Pallet string
	Path   string
	Err    error
}

func (e *IOError) Error() string {
	if e.Pallet == "" {
		return fmt.Sprintf("splice of %s failed: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("splice of pallet '%s' into %s failed: %v", e.Pallet, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
