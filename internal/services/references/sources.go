package references

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceConfig is one academic source entry from the sources file.
type SourceConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// sourcesFile is the on-disk shape of the academic source list.
type sourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// LoadSources reads the academic source list from a YAML file. The list
// decides which paper scrapers the aggregator invokes and in what order.
func LoadSources(path string) ([]SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}

	return file.Sources, nil
}
