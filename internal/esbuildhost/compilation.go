package esbuildhost

import (
	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/hooks"
)

// Artifact is a file emitted into the build output by a plugin
type Artifact struct {
	// Name is relative to the output directory, slash separated
	Name     string
	Path     string
	Contents []byte
}

type compilation struct {
	hooks.CompilationEvents

	outputPath string
	publicPath string
	snap       *snapshot
	emitted    []Artifact
}

var _ domain.Compilation = (*compilation)(nil)

func (c *compilation) OutputPath() string              { return c.outputPath }
func (c *compilation) PublicPath() string              { return c.publicPath }
func (c *compilation) Chunks() []domain.Chunk          { return c.snap.chunks }
func (c *compilation) Assets() []domain.AssetStat      { return c.snap.assets }
func (c *compilation) Entrypoints() domain.Entrypoints { return c.snap.entrypoints }

// EmitAsset records an artifact. Emitting the same name twice keeps the
// latest contents.
func (c *compilation) EmitAsset(name string, content []byte) {
	for i := range c.emitted {
		if c.emitted[i].Name == name {
			c.emitted[i].Contents = content
			return
		}
	}
	c.emitted = append(c.emitted, Artifact{Name: name, Contents: content})
}
