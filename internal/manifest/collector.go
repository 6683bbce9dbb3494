package manifest

import (
	"path/filepath"

	"github.com/quantmind-br/assetmanifest/internal/domain"
)

// Collector gathers file records for one compilation
type Collector struct {
	classifier   *Classifier
	probes       []InitialProbe
	moduleAssets map[string]string
}

// NewCollector creates a collector. A nil classifier uses the default
// transform extensions; nil probes use DefaultInitialProbes.
func NewCollector(classifier *Classifier, probes []InitialProbe) *Collector {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if probes == nil {
		probes = DefaultInitialProbes()
	}
	return &Collector{
		classifier:   classifier,
		probes:       probes,
		moduleAssets: make(map[string]string),
	}
}

// ModuleAsset records that module produced file. The file's logical name
// keeps its directory but takes the base name of the module's request.
func (c *Collector) ModuleAsset(m domain.Module, file string) {
	if m == nil {
		return
	}
	req := m.UserRequest()
	if req == "" {
		return
	}
	c.moduleAssets[file] = filepath.Join(filepath.Dir(file), filepath.Base(req))
}

// Collect returns the records for a compilation: chunk files first, then
// module assets, then assets that belong to no chunk.
func (c *Collector) Collect(comp domain.Compilation) []domain.FileRecord {
	var records []domain.FileRecord

	for _, chunk := range comp.Chunks() {
		initial := IsInitial(chunk, c.probes)
		for _, file := range chunk.Files() {
			name := file
			if chunk.Name() != "" {
				name = chunk.Name() + "." + c.classifier.FileType(file)
			}
			records = append(records, domain.FileRecord{
				Path:      file,
				Name:      name,
				Chunk:     chunk,
				IsInitial: initial,
				IsChunk:   true,
			})
		}
	}

	for _, asset := range comp.Assets() {
		if name, ok := c.moduleAssets[asset.Name]; ok {
			records = append(records, domain.FileRecord{
				Path:          asset.Name,
				Name:          name,
				IsAsset:       true,
				IsModuleAsset: true,
			})
			continue
		}

		// assets owned by a chunk are reported by the chunk pass
		if len(asset.Chunks) > 0 {
			continue
		}

		records = append(records, domain.FileRecord{
			Path:    asset.Name,
			Name:    asset.Name,
			IsAsset: true,
		})
	}

	return records
}
