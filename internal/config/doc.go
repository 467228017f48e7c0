// Package config defines the format-agnostic configuration model for the
// orchestrator: the immutable flag Snapshot and the per-directory object
// Descriptor, along with the Loader interface for reading both from disk.
//
// The model is the single source of truth for the `resolve` and `build`
// packages. Concrete loader implementations, such as for HCL, live in
// separate packages.
package config
