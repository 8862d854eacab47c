package bank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source names one question table and the topic its rows belong to.
type Source struct {
	Topic string `yaml:"topic"`
	Path  string `yaml:"path"`
}

// Manifest lists the question tables loaded at startup.
type Manifest struct {
	Sources []Source `yaml:"sources"`
}

// LoadManifest decodes a YAML manifest. Relative source paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var m Manifest
	if err := yaml.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range m.Sources {
		if !filepath.IsAbs(m.Sources[i].Path) {
			m.Sources[i].Path = filepath.Join(base, m.Sources[i].Path)
		}
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Sources) == 0 {
		return errors.New("no sources listed")
	}
	for i, s := range m.Sources {
		if s.Topic == "" || s.Path == "" {
			return fmt.Errorf("source %d: topic and path are required", i)
		}
	}
	return nil
}
