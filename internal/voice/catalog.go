package voice

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogDoc struct {
	Voices []Option `yaml:"voices"`
}

// ParseCatalog parses and validates a YAML voice catalog.
func ParseCatalog(data []byte) ([]Option, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := validate(doc.Voices); err != nil {
		return nil, err
	}
	return doc.Voices, nil
}

// Static returns a copy of the built-in voices.
func Static() []Option {
	voices, err := ParseCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	return voices
}
