package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/objtree/internal/config"
	"github.com/vk/objtree/internal/ctxlog"
)

// Loader is the HCL-backed implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// objectBlock is the raw form of a single `obj` block in a descriptor.
type objectBlock struct {
	Name string         `hcl:"name,label"`
	When hcl.Expression `hcl:"when,optional"`
}

// descriptorRoot is the top-level structure of an objects.hcl file.
type descriptorRoot struct {
	Objects []*objectBlock `hcl:"obj,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// LoadDescriptor reads and decodes the object descriptor of one directory.
// Conditions are captured as unevaluated expressions; the resolver decides
// entry inclusion against the flag snapshot.
func (l *Loader) LoadDescriptor(ctx context.Context, dir string) (*config.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)
	path := filepath.Join(dir, config.DescriptorFileName)

	if _, err := os.Stat(path); err != nil {
		return nil, &config.ConfigurationError{Path: path, Err: err}
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &config.ConfigurationError{Path: path, Err: diags}
	}

	var root descriptorRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, &config.ConfigurationError{Path: path, Err: diags}
	}

	desc := &config.Descriptor{Dir: dir}
	for _, obj := range root.Objects {
		desc.Entries = append(desc.Entries, &config.Entry{
			Name: obj.Name,
			When: obj.When,
		})
	}

	logger.Debug("Descriptor loaded.", "path", path, "entries", len(desc.Entries))
	return desc, nil
}

// LoadFlags reads the configuration-flag source. An `.hcl` file is decoded
// as top-level attributes; anything else is treated as an ini-style
// `.config` file.
func (l *Loader) LoadFlags(ctx context.Context, path string) (*config.Snapshot, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		values map[string]cty.Value
		err    error
	)
	if filepath.Ext(path) == ".hcl" {
		values, err = loadHCLFlags(path)
	} else {
		values, err = loadINIFlags(path)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Configuration flags loaded.", "path", path, "count", len(values))
	return config.NewSnapshot(values), nil
}

// loadHCLFlags decodes a flags file of the form `net = true`, `arch = "arm64"`.
func loadHCLFlags(path string) (map[string]cty.Value, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &config.ConfigurationError{Path: path, Err: diags}
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, &config.ConfigurationError{Path: path, Err: diags}
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, &config.ConfigurationError{
				Path: path,
				Err:  fmt.Errorf("flag %q: %w", name, diags),
			}
		}
		values[name] = v
	}
	return values, nil
}
