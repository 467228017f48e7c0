package hcl

import (
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/ini.v1"

	"github.com/vk/objtree/internal/config"
)

// loadINIFlags reads a `.config`-style flags file of KEY=value lines.
// `y`, `true` and `1` map to boolean true, `n`, `false` and `0` to false;
// everything else is kept as a string value.
func loadINIFlags(path string) (map[string]cty.Value, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, &config.ConfigurationError{Path: path, Err: err}
	}

	section := file.Section(ini.DefaultSection)
	values := make(map[string]cty.Value, len(section.Keys()))
	for _, key := range section.Keys() {
		switch key.String() {
		case "y", "true", "1":
			values[key.Name()] = cty.True
		case "n", "false", "0":
			values[key.Name()] = cty.False
		default:
			values[key.Name()] = cty.StringVal(key.String())
		}
	}
	return values, nil
}
