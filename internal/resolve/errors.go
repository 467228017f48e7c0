package resolve

import "fmt"

// ResolutionError reports a descriptor entry that matches neither a valid
// source file nor an existing subdirectory. It is fatal to the owning
// directory's subtree; no partial artifact is produced from it.
type ResolutionError struct {
	Dir   string
	Entry string
	Err   error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve entry %q in %s: %v", e.Entry, e.Dir, e.Err)
	}
	return fmt.Sprintf("cannot resolve entry %q in %s: no such source file or subdirectory", e.Entry, e.Dir)
}

// Unwrap returns the underlying cause, if any.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
