package esbuildhost

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// Metafile is the subset of esbuild's metafile the host reads
type Metafile struct {
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileOutput represents an output file in the metafile
type MetafileOutput struct {
	Bytes      int                     `json:"bytes"`
	Inputs     map[string]InputContrib `json:"inputs"`
	EntryPoint string                  `json:"entryPoint,omitempty"`
	CSSBundle  string                  `json:"cssBundle,omitempty"`
}

// InputContrib represents the contribution of an input to an output
type InputContrib struct {
	BytesInOutput int `json:"bytesInOutput"`
}

// ParseMetafile decodes the metafile JSON of a build result
func ParseMetafile(data string) (*Metafile, error) {
	var meta Metafile
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("parse metafile: %w", err)
	}
	return &meta, nil
}

var codeExtensions = map[string]bool{
	".js":  true,
	".mjs": true,
	".cjs": true,
	".css": true,
}

func isCode(path string) bool {
	return codeExtensions[strings.ToLower(filepath.Ext(path))]
}

// snapshot is the metafile viewed as chunks, module assets and asset stats
type snapshot struct {
	chunks       []domain.Chunk
	assets       []domain.AssetStat
	entrypoints  domain.EntrypointList
	moduleAssets []moduleAsset
}

type moduleAsset struct {
	request string
	file    string
}

// buildSnapshot groups metafile outputs into chunks. Outputs sharing an
// entry point form one chunk named after the entry file, initial when
// isEntry reports a configured entry and lazy otherwise (dynamic imports).
// Other code outputs are nameless split chunks. Everything else is a
// module asset of its single input. Source maps join the chunk of the file
// they map.
func buildSnapshot(meta *Metafile, workingDir, outputDir string, isEntry func(string) bool) *snapshot {
	rel := func(key string) string {
		p := key
		if !filepath.IsAbs(p) {
			p = filepath.Join(workingDir, p)
		}
		return utils.RelSlash(outputDir, p)
	}

	keys := make([]string, 0, len(meta.Outputs))
	for k := range meta.Outputs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	// cssBundle outputs belong to the entry of the JS output naming them
	bundleOwner := make(map[string]string)
	for _, k := range keys {
		out := meta.Outputs[k]
		if out.CSSBundle != "" && out.EntryPoint != "" {
			bundleOwner[out.CSSBundle] = out.EntryPoint
		}
	}

	snap := &snapshot{}
	entries := make(map[string]*chunk)
	var entryOrder []string
	fileChunk := make(map[string]*chunk)

	for _, k := range keys {
		out := meta.Outputs[k]
		if strings.HasSuffix(k, ".map") {
			if _, ok := meta.Outputs[strings.TrimSuffix(k, ".map")]; ok {
				continue
			}
		}

		entry := out.EntryPoint
		if owner, ok := bundleOwner[k]; ok {
			entry = owner
		}

		var c *chunk
		switch {
		case entry != "" && isCode(k):
			c = entries[entry]
			if c == nil {
				c = &chunk{name: utils.TrimExt(entry), initial: isEntry(entry)}
				entries[entry] = c
				entryOrder = append(entryOrder, entry)
			}
		case isCode(k):
			c = &chunk{}
			snap.chunks = append(snap.chunks, c)
		default:
			if req := singleInput(out.Inputs); req != "" {
				snap.moduleAssets = append(snap.moduleAssets, moduleAsset{request: req, file: rel(k)})
			}
			continue
		}

		c.files = append(c.files, rel(k))
		fileChunk[rel(k)] = c
		if _, ok := meta.Outputs[k+".map"]; ok {
			c.files = append(c.files, rel(k+".map"))
			fileChunk[rel(k+".map")] = c
		}
	}

	entryChunks := make([]domain.Chunk, 0, len(entryOrder))
	for _, e := range entryOrder {
		c := entries[e]
		entryChunks = append(entryChunks, c)
		if !c.initial {
			continue
		}
		snap.entrypoints = append(snap.entrypoints, domain.NamedEntrypoint{
			Name:       c.name,
			Entrypoint: domain.EntrypointFiles(slices.Clone(c.files)),
		})
	}
	snap.chunks = append(entryChunks, snap.chunks...)

	for _, k := range keys {
		name := rel(k)
		stat := domain.AssetStat{Name: name, Chunks: []string{}}
		if c, ok := fileChunk[name]; ok {
			stat.Chunks = append(stat.Chunks, c.id())
		}
		snap.assets = append(snap.assets, stat)
	}

	return snap
}

func singleInput(inputs map[string]InputContrib) string {
	if len(inputs) != 1 {
		return ""
	}
	for k := range inputs {
		return k
	}
	return ""
}

type chunk struct {
	name    string
	files   []string
	initial bool
}

func (c *chunk) Name() string        { return c.name }
func (c *chunk) Files() []string     { return c.files }
func (c *chunk) IsOnlyInitial() bool { return c.initial }

func (c *chunk) id() string {
	if c.name != "" {
		return c.name
	}
	if len(c.files) > 0 {
		return c.files[0]
	}
	return ""
}

type inputModule string

func (m inputModule) UserRequest() string { return string(m) }
