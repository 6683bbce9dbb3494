package esbuildhost

import (
	"path/filepath"
	"testing"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMetafile = `{
  "inputs": {},
  "outputs": {
    "dist/main-ABC.js": {
      "bytes": 120,
      "inputs": {"src/main.ts": {"bytesInOutput": 100}},
      "entryPoint": "src/main.ts",
      "cssBundle": "dist/main-ABC.css"
    },
    "dist/main-ABC.js.map": {"bytes": 300, "inputs": {}},
    "dist/main-ABC.css": {"bytes": 40, "inputs": {"src/style.css": {"bytesInOutput": 40}}},
    "dist/lazy-DEF.js": {
      "bytes": 20,
      "inputs": {"src/lazy.ts": {"bytesInOutput": 20}},
      "entryPoint": "src/lazy.ts"
    },
    "dist/chunk-XYZ.js": {"bytes": 10, "inputs": {"src/shared.ts": {"bytesInOutput": 10}}},
    "dist/media/logo-123.png": {"bytes": 900, "inputs": {"src/assets/logo.png": {"bytesInOutput": 900}}}
  }
}`

func TestBuildSnapshot(t *testing.T) {
	meta, err := ParseMetafile(sampleMetafile)
	require.NoError(t, err)

	work := filepath.Join("/", "proj")
	isEntry := func(p string) bool { return p == "src/main.ts" }
	snap := buildSnapshot(meta, work, filepath.Join(work, "dist"), isEntry)

	require.Len(t, snap.chunks, 3)

	lazy := snap.chunks[0].(*chunk)
	assert.Equal(t, "lazy", lazy.Name())
	assert.False(t, lazy.IsOnlyInitial())
	assert.Equal(t, []string{"lazy-DEF.js"}, lazy.Files())

	main := snap.chunks[1].(*chunk)
	assert.Equal(t, "main", main.Name())
	assert.True(t, main.IsOnlyInitial())
	assert.Equal(t, []string{"main-ABC.css", "main-ABC.js", "main-ABC.js.map"}, main.Files())

	split := snap.chunks[2].(*chunk)
	assert.Equal(t, "", split.Name())
	assert.Equal(t, []string{"chunk-XYZ.js"}, split.Files())

	assert.Equal(t, domain.EntrypointList{
		{Name: "main", Entrypoint: domain.EntrypointFiles{"main-ABC.css", "main-ABC.js", "main-ABC.js.map"}},
	}, snap.entrypoints)

	assert.Equal(t, []moduleAsset{{request: "src/assets/logo.png", file: "media/logo-123.png"}}, snap.moduleAssets)

	assert.Equal(t, []domain.AssetStat{
		{Name: "chunk-XYZ.js", Chunks: []string{"chunk-XYZ.js"}},
		{Name: "lazy-DEF.js", Chunks: []string{"lazy"}},
		{Name: "main-ABC.css", Chunks: []string{"main"}},
		{Name: "main-ABC.js", Chunks: []string{"main"}},
		{Name: "main-ABC.js.map", Chunks: []string{"main"}},
		{Name: "media/logo-123.png", Chunks: []string{}},
	}, snap.assets)
}

func TestParseMetafile_Invalid(t *testing.T) {
	_, err := ParseMetafile("{")
	assert.Error(t, err)
}

func TestCompilation_EmitAssetReplaces(t *testing.T) {
	c := &compilation{snap: &snapshot{}}

	c.EmitAsset("manifest.json", []byte("1"))
	c.EmitAsset("index.html", []byte("<html>"))
	c.EmitAsset("manifest.json", []byte("2"))

	require.Len(t, c.emitted, 2)
	assert.Equal(t, "2", string(c.emitted[0].Contents))
}
