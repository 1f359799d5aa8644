package catalogue

import "fmt"

// LoadError reports a definition file that could not be read, parsed or
// validated. It is fatal at startup.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load pallet definitions from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a pallet that requires another pallet the catalogue
// does not define.
type NotFoundError struct {
	Pallet   string
	Required string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pallet '%s' requires '%s', which is not in the catalogue", e.Pallet, e.Required)
}
