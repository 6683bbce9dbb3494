package manifest

import (
	"context"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/hooks"
)

type plainChunk struct {
	name  string
	files []string
}

func (c plainChunk) Name() string    { return c.name }
func (c plainChunk) Files() []string { return c.files }

type onlyInitialChunk struct {
	plainChunk
	initial bool
}

func (c onlyInitialChunk) IsOnlyInitial() bool { return c.initial }

type isInitialChunk struct {
	plainChunk
	initial bool
}

func (c isInitialChunk) IsInitial() bool { return c.initial }

type flagChunk struct {
	plainChunk
	initial bool
}

func (c flagChunk) Initial() bool { return c.initial }

type module string

func (m module) UserRequest() string { return string(m) }

type fakeCompilation struct {
	hooks.CompilationEvents

	outputPath  string
	publicPath  string
	chunks      []domain.Chunk
	assets      []domain.AssetStat
	entrypoints domain.Entrypoints
	emitted     map[string][]byte
}

func newCompilation(outputPath string) *fakeCompilation {
	return &fakeCompilation{outputPath: outputPath, emitted: make(map[string][]byte)}
}

func (c *fakeCompilation) OutputPath() string                { return c.outputPath }
func (c *fakeCompilation) PublicPath() string                { return c.publicPath }
func (c *fakeCompilation) Chunks() []domain.Chunk            { return c.chunks }
func (c *fakeCompilation) Assets() []domain.AssetStat        { return c.assets }
func (c *fakeCompilation) Entrypoints() domain.Entrypoints   { return c.entrypoints }
func (c *fakeCompilation) EmitAsset(name string, data []byte) { c.emitted[name] = data }

type fakeCompiler struct {
	hooks.Lifecycle
	outputPath string
}

func (c *fakeCompiler) OutputPath() string { return c.outputPath }

// build drives one full cycle: run, compilation, emit
func (c *fakeCompiler) build(ctx context.Context, comp *fakeCompilation) error {
	c.Run.Call(struct{}{})
	c.Compilation.Call(comp)
	return c.Emit.Call(ctx, comp)
}

func hooksModuleAsset(request, file string) hooks.ModuleAssetEvent {
	return hooks.ModuleAssetEvent{Module: module(request), File: file}
}
