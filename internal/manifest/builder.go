package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/quantmind-br/assetmanifest/internal/domain"
)

// GenerateFunc builds a manifest from the seed, the final records and the
// entrypoint file lists. It replaces the default name → path fold.
type GenerateFunc func(seed domain.Seed, records []domain.FileRecord, entrypoints map[string][]string) (domain.Manifest, error)

// SerializeFunc encodes a manifest for output
type SerializeFunc func(m domain.Manifest) ([]byte, error)

// Fold writes seed[name] = path for each record, later records winning
func Fold(seed domain.Seed, records []domain.FileRecord) domain.Seed {
	for _, r := range records {
		seed[r.Name] = r.Path
	}
	return seed
}

// Build produces the manifest with generate, or with Fold when generate
// is nil.
func Build(seed domain.Seed, records []domain.FileRecord, eps domain.Entrypoints, generate GenerateFunc) (domain.Manifest, error) {
	if generate == nil {
		return Fold(seed, records), nil
	}

	m, err := generate(seed, records, domain.Files(eps))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerateFailed, err)
	}
	return m, nil
}

// GenerateWithEntrypoints produces {"files": {...}, "entrypoints": {...}}.
// Seed keys are kept at the top level.
func GenerateWithEntrypoints(seed domain.Seed, records []domain.FileRecord, entrypoints map[string][]string) (domain.Manifest, error) {
	files := make(map[string]string, len(records))
	for _, r := range records {
		files[r.Name] = r.Path
	}

	out := seed.Clone()
	out["files"] = files
	out["entrypoints"] = entrypoints
	return out, nil
}

// DefaultSerialize encodes m as JSON indented with two spaces
func DefaultSerialize(m domain.Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
