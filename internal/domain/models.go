package domain

import "maps"

// FileRecord is one candidate manifest entry before filtering
type FileRecord struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	Chunk         Chunk  `json:"-"`
	IsInitial     bool   `json:"isInitial"`
	IsChunk       bool   `json:"isChunk"`
	IsAsset       bool   `json:"isAsset"`
	IsModuleAsset bool   `json:"isModuleAsset"`
}

// Seed is the starting accumulator of a manifest
type Seed map[string]any

// Clone returns a shallow copy of the seed. A nil seed clones to an empty one.
func (s Seed) Clone() Seed {
	out := make(Seed, len(s))
	maps.Copy(out, s)
	return out
}

// Manifest is the committed artifact: a Seed in default mode, or whatever
// a custom generator returns.
type Manifest = any

// AssetStat is one entry of a compilation's asset statistics
type AssetStat struct {
	Name   string   `json:"name"`
	Chunks []string `json:"chunks"`
}

// Attribute is a single HTML attribute. Attributes are kept ordered.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Tag describes an HTML element injected into a page
type Tag struct {
	TagName    string      `json:"tagName"`
	Attributes []Attribute `json:"attributes"`
}

// Attr returns the value of the named attribute
func (t Tag) Attr(key string) (string, bool) {
	for _, a := range t.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// TagGroup is the set of head/body tags contributed for one HTML output file
type TagGroup struct {
	Head       []Tag  `json:"head"`
	Body       []Tag  `json:"body"`
	OutputName string `json:"outputName"`
}

// TagMarkup is the serialized form of a TagGroup stored in the manifest seed
type TagMarkup struct {
	Head string `json:"head"`
	Body string `json:"body"`
}

// NamedEntrypoint pairs an entrypoint name with its output files
type NamedEntrypoint struct {
	Name       string
	Entrypoint Entrypoint
}

// EntrypointFiles is the simplest Entrypoint: a fixed list of files
type EntrypointFiles []string

// Files returns the entrypoint's output files
func (f EntrypointFiles) Files() []string {
	return f
}

// EntrypointList is an ordered entrypoint registry
type EntrypointList []NamedEntrypoint

// Each visits entrypoints in registration order
func (l EntrypointList) Each(fn func(name string, ep Entrypoint)) {
	for _, e := range l {
		fn(e.Name, e.Entrypoint)
	}
}

// EntrypointMap is a dictionary-like entrypoint registry
type EntrypointMap map[string]Entrypoint

// Each visits entrypoints sorted by name
func (m EntrypointMap) Each(fn func(name string, ep Entrypoint)) {
	for _, name := range sortedKeys(m) {
		fn(name, m[name])
	}
}

// Files flattens any Entrypoints registry into name → files
func Files(eps Entrypoints) map[string][]string {
	out := make(map[string][]string)
	if eps == nil {
		return out
	}
	eps.Each(func(name string, ep Entrypoint) {
		if ep == nil {
			out[name] = []string{}
			return
		}
		out[name] = append([]string{}, ep.Files()...)
	})
	return out
}

// RenderedPage is an HTML page produced for a compilation together with
// the tags injected into it.
type RenderedPage struct {
	Group   TagGroup
	Content []byte
}
