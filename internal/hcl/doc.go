// Package hcl is the concrete implementation of config.Loader. Descriptors
// are HCL files of `obj` blocks; the flag source is either an HCL file of
// top-level attributes or an ini-style `.config` file of KEY=value pairs,
// selected by extension.
package hcl
