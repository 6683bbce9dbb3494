package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/quantmind-br/assetmanifest/internal/config"
	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/manifest"
	"github.com/quantmind-br/assetmanifest/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"src/main.js":   "import './style.css';\nimport logo from './logo.png';\nconsole.log(logo);\n",
		"src/style.css": "body { margin: 0; }\n",
		"src/logo.png":  "\x89PNG\r\n",
		"index.tmpl":    "<!DOCTYPE html><html><head></head><body></body></html>",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Build.WorkingDir = dir
	cfg.Build.EntryPoints = []string{"src/main.js"}
	cfg.Build.EntryNames = "[name]"
	cfg.Build.AssetNames = "media/[name]"
	cfg.Build.PublicPath = "/static/"
	cfg.Build.Loaders = map[string]string{".png": "file"}
	cfg.Cache.Directory = filepath.Join(t.TempDir(), "history")
	require.NoError(t, cfg.Validate())
	return cfg
}

func newOrchestrator(t *testing.T, cfg *config.Config) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(OrchestratorOptions{Config: cfg, Logger: utils.NewNopLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func TestNewOrchestrator_RequiresConfig(t *testing.T) {
	_, err := NewOrchestrator(OrchestratorOptions{})
	assert.Error(t, err)
}

func TestBuildOptions(t *testing.T) {
	dir := writeProject(t)
	cfg := testConfig(t, dir)
	cfg.Build.Sourcemap = true
	cfg.Build.Minify = true

	opts, err := BuildOptions(cfg.Build)
	require.NoError(t, err)

	assert.Equal(t, utils.CanonicalPath(dir), opts.AbsWorkingDir)
	assert.Equal(t, []string{"src/main.js"}, opts.EntryPoints)
	assert.Equal(t, config.DefaultOutdir, opts.Outdir)
	assert.Equal(t, api.FormatESModule, opts.Format)
	assert.Equal(t, api.SourceMapLinked, opts.Sourcemap)
	assert.Equal(t, api.LoaderFile, opts.Loader[".png"])
	assert.True(t, opts.Metafile)
	assert.True(t, opts.MinifySyntax)
}

func TestBuildOptions_DetectsEntryPoints(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "index.js"), nil, 0644))

	opts, err := BuildOptions(config.BuildConfig{WorkingDir: dir, Outdir: "dist"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/index.js"}, opts.EntryPoints)

	_, err = BuildOptions(config.BuildConfig{WorkingDir: t.TempDir(), Outdir: "dist"})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBuildOptions_RejectsUnknownLoader(t *testing.T) {
	_, err := BuildOptions(config.BuildConfig{
		EntryPoints: []string{"a.js"},
		Loaders:     map[string]string{".png": "bogus"},
	})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestManifestOptions(t *testing.T) {
	dir := t.TempDir()
	seedFile := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte("version: 1\nname: app\n"), 0644))

	cfg := config.Default()
	cfg.Cache.Enabled = false
	o := newOrchestrator(t, cfg)

	opts, err := o.ManifestOptions(config.ManifestConfig{
		FileName:            "assets.json",
		Exclude:             []string{`\.map$`},
		Sort:                config.SortPath,
		Generate:            config.GenerateEntrypoints,
		TransformExtensions: `^(gz|br)$`,
		SeedFile:            seedFile,
		Seed:                map[string]any{"version": 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "assets.json", opts.FileName)
	assert.Equal(t, domain.Seed{"version": 2, "name": "app"}, opts.Seed)
	assert.NotNil(t, opts.Sort)
	assert.NotNil(t, opts.Generate)
	assert.True(t, opts.TransformExtensions.MatchString("br"))
	require.NotNil(t, opts.Filter)
	assert.False(t, opts.Filter(domain.FileRecord{Name: "main.js.map"}))
	assert.True(t, opts.Filter(domain.FileRecord{Name: "main.js"}))
	assert.Same(t, o.registry, opts.Registry)
}

func TestManifestOptions_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	o := newOrchestrator(t, cfg)

	_, err := o.ManifestOptions(config.ManifestConfig{Exclude: []string{"[a-"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)

	_, err = o.ManifestOptions(config.ManifestConfig{SeedFile: filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorIs(t, err, manifest.ErrFileNotFound)
}

func TestOrchestrator_Run(t *testing.T) {
	dir := writeProject(t)
	cfg := testConfig(t, dir)
	cfg.Manifests = []config.ManifestConfig{
		{FileName: "manifest.json"},
		{FileName: "entrypoints.json", Generate: config.GenerateEntrypoints},
	}
	cfg.HTML.Pages = []config.PageConfig{{Filename: "index.html", Template: filepath.Join(dir, "index.tmpl"), Title: "App"}}

	o := newOrchestrator(t, cfg)
	require.NoError(t, o.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "dist", "manifest.json"))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "/static/main.js", got["main.js"])
	assert.Equal(t, "/static/media/logo.png", got["media/logo.png"])
	require.Contains(t, got, "index.html")
	markup := got["index.html"].(map[string]any)
	assert.Equal(t, `<link href="/static/main.css" rel="stylesheet">`, markup["head"])
	assert.Equal(t, `<script src="/static/main.js"></script>`, markup["body"])

	data, err = os.ReadFile(filepath.Join(dir, "dist", "entrypoints.json"))
	require.NoError(t, err)
	var eps struct {
		Entrypoints map[string][]string `json:"entrypoints"`
	}
	require.NoError(t, json.Unmarshal(data, &eps))
	assert.ElementsMatch(t, []string{"main.js", "main.css"}, eps.Entrypoints["main"])

	page, err := os.ReadFile(filepath.Join(dir, "dist", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `src="/static/main.js"`)
	assert.Contains(t, string(page), "<title>App</title>")

	summary := o.Summary()
	assert.Equal(t, 1, summary.Builds)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Emits)
	assert.Len(t, summary.Manifests, 2)
	assert.Len(t, summary.Changed, 2)

	history, err := o.Store().History(context.Background(), filepath.Join(utils.CanonicalPath(dir), "dist", "manifest.json"), 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, uint64(0), history[0].Seq)
}

func TestOrchestrator_RunUnchangedManifest(t *testing.T) {
	dir := writeProject(t)
	cfg := testConfig(t, dir)

	first, err := NewOrchestrator(OrchestratorOptions{Config: cfg, Logger: utils.NewNopLogger()})
	require.NoError(t, err)
	require.NoError(t, first.Run(context.Background()))
	assert.Len(t, first.Summary().Changed, 1)
	require.NoError(t, first.Close())

	second := newOrchestrator(t, cfg)
	require.NoError(t, second.Run(context.Background()))
	assert.Len(t, second.Summary().Manifests, 1)
	assert.Empty(t, second.Summary().Changed)
}

func TestOrchestrator_RunBuildError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.js"), []byte("import './missing.js';\n"), 0644))

	cfg := config.Default()
	cfg.Build.WorkingDir = dir
	cfg.Build.EntryPoints = []string{"main.js"}
	cfg.Cache.Enabled = false
	require.NoError(t, cfg.Validate())

	o := newOrchestrator(t, cfg)
	err := o.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.Equal(t, 1, o.Summary().Failed)

	_, statErr := os.Stat(filepath.Join(dir, "dist", "manifest.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestOrchestrator_DryRunWritesNothing(t *testing.T) {
	dir := writeProject(t)
	cfg := testConfig(t, dir)
	cfg.Build.Write = false
	cfg.Cache.Enabled = false

	o, err := NewOrchestrator(OrchestratorOptions{Config: cfg, DryRun: true, Logger: utils.NewNopLogger()})
	require.NoError(t, err)
	require.NoError(t, o.Run(context.Background()))

	assert.Nil(t, o.Store())
	assert.Len(t, o.Summary().Manifests, 1)
	_, statErr := os.Stat(filepath.Join(dir, "dist"))
	assert.True(t, os.IsNotExist(statErr))
}
