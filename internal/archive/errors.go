package archive

import "fmt"

// Error is an archive failure.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("archive %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("archive %s of %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
