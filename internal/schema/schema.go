// Package schema maps the arbitrary column headers found in uploaded
// spreadsheets onto the fixed canonical schema the rest of the pipeline
// expects.
package schema

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var embeddedSchema []byte

// Column is one canonical column and the header variants that map to it.
type Column struct {
	Name     string   `yaml:"name"`
	Variants []string `yaml:"variants"`
}

// Schema is the canonical column set plus the matching configuration.
type Schema struct {
	Canonical        []Column       `yaml:"canonical"`
	Stopwords        []string       `yaml:"stopwords"`
	Positional       map[int]string `yaml:"positional"`
	BuilderPositions map[string]int `yaml:"builder_positions"`

	stopset map[string]struct{}
}

// Default returns the schema embedded in the binary.
func Default() *Schema {
	s, err := parse(embeddedSchema)
	if err != nil {
		// The embedded schema is validated by tests; a parse failure here is
		// a build defect, not a runtime condition.
		panic(err)
	}
	return s
}

// LoadFile reads a schema override from disk.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "schema: read %s", path)
	}
	return parse(data)
}

func parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrap(err, "schema: unmarshal")
	}
	if len(s.Canonical) == 0 {
		return nil, eris.New("schema: no canonical columns defined")
	}

	s.stopset = make(map[string]struct{}, len(s.Stopwords))
	for _, w := range s.Stopwords {
		s.stopset[w] = struct{}{}
	}
	return &s, nil
}

// CanonicalNames returns the canonical column names in schema order.
func (s *Schema) CanonicalNames() []string {
	names := make([]string, len(s.Canonical))
	for i, c := range s.Canonical {
		names[i] = c.Name
	}
	return names
}
