package build

import "fmt"

// AggregationError reports a failure to combine a directory's units and
// child artifacts, e.g. a filesystem write failure. Fatal to that subtree.
type AggregationError struct {
	Dir string
	Err error
}

// Error implements the error interface.
func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregate %s: %v", displayDir(e.Dir), e.Err)
}

// Unwrap returns the underlying cause.
func (e *AggregationError) Unwrap() error {
	return e.Err
}

// displayDir renders the root directory's empty relative path readably.
func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
