package config

import "context"

// DescriptorFileName is the fixed name of the per-directory object
// descriptor. The descriptor is part of the source tree contract, so it is
// not configurable.
const DescriptorFileName = "objects.hcl"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// LoadFlags reads the configuration-flag source at the given path and
	// returns an immutable snapshot of it.
	LoadFlags(ctx context.Context, path string) (*Snapshot, error)

	// LoadDescriptor reads the object descriptor of the directory at dir
	// (an absolute or cwd-relative path) and returns its entry list with
	// conditions left unevaluated.
	LoadDescriptor(ctx context.Context, dir string) (*Descriptor, error)
}
