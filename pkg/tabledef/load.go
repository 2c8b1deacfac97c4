package tabledef

import (
	_ "embed"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Default returns the built-in table definitions for the Innovations in
// Fundraising wiki.
func Default() (*Definitions, error) {
	return Parse(defaultsYAML, "embedded defaults")
}

// Load reads table definitions from a YAML file. An empty path falls
// back to the embedded defaults.
func Load(path string) (*Definitions, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates table definitions from YAML.
func Parse(data []byte, source string) (*Definitions, error) {
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, errors.WrapParse("yaml", source, err)
	}
	if defs.Tables == nil {
		defs.Tables = make(map[string]*Definition)
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}
	return &defs, nil
}
