package samples

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// SeedSample is one labeled document text from the seed manifest. Its
// embedding is computed at load time, not stored in the file.
type SeedSample struct {
	Label string `yaml:"label"`
	Type  string `yaml:"type"`
	Text  string `yaml:"text"`
}

type manifest struct {
	Samples []SeedSample `yaml:"samples"`
}

// LoadManifest reads the YAML seed manifest and validates every entry
// against the document taxonomy.
func LoadManifest(path string) ([]SeedSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sample manifest: %w", err)
	}
	return parseManifest(data)
}

func parseManifest(data []byte) ([]SeedSample, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse sample manifest: %w", err)
	}
	if len(m.Samples) == 0 {
		return nil, fmt.Errorf("sample manifest has no samples")
	}

	for i, s := range m.Samples {
		if s.Label == "" {
			return nil, fmt.Errorf("sample %d has no label", i)
		}
		if s.Text == "" {
			return nil, fmt.Errorf("sample %q has no text", s.Label)
		}
		if !isKnownType(s.Type) {
			return nil, fmt.Errorf("sample %q has unknown type %q", s.Label, s.Type)
		}
	}
	return m.Samples, nil
}

func isKnownType(t string) bool {
	for _, known := range domain.KnownDocTypes {
		if string(known) == t {
			return true
		}
	}
	return false
}
