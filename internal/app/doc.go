// Package app wires the application together: configuration validation,
// logger construction, and the top-level run that loads the flag snapshot,
// drives the recursive build and reports per-directory status.
package app
