package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/assetmanifest/internal/domain"
)

// SeedLoader loads manifest seeds from YAML or JSON files
type SeedLoader struct{}

// NewSeedLoader creates a new seed loader
func NewSeedLoader() *SeedLoader {
	return &SeedLoader{}
}

// Load reads and parses a seed file from the given path
func (l *SeedLoader) Load(path string) (domain.Seed, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return l.LoadFromBytes(data, filepath.Ext(path))
}

// LoadFromBytes parses a seed from raw bytes. An empty document yields an
// empty seed.
func (l *SeedLoader) LoadFromBytes(data []byte, ext string) (domain.Seed, error) {
	ext = strings.ToLower(ext)

	seed := domain.Seed{}
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if len(strings.TrimSpace(string(data))) == 0 {
			return seed, nil
		}
		if err := json.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}

	if seed == nil {
		seed = domain.Seed{}
	}
	return seed, nil
}
