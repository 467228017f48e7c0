package config

import "fmt"

// ConfigurationError reports a missing or unreadable flag source or
// descriptor. It is fatal: no build is attempted for the affected scope.
type ConfigurationError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
