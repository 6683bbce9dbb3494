// Package esbuildhost runs esbuild builds as a domain.Compiler. The host
// is installed as an esbuild plugin; each build's metafile is turned into a
// compilation that manifest plugins observe through the usual lifecycle
// events.
package esbuildhost

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/hooks"
	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// PluginName is the name the host registers with esbuild
const PluginName = "assetmanifest-host"

// PageSource renders the HTML pages of a compilation
type PageSource interface {
	Pages(eps domain.Entrypoints, publicPath string) ([]domain.RenderedPage, error)
}

// Options configures a Host
type Options struct {
	// Context is passed to emit listeners; defaults to context.Background
	Context context.Context
	// Watch makes every build start fire WatchRun instead of Run
	Watch bool
	// Writer persists emitted artifacts when the build writes to disk
	Writer domain.FileWriter
	Pages  PageSource
	Logger *utils.Logger
}

// Host adapts esbuild's plugin callbacks to domain.Compiler
type Host struct {
	hooks.Lifecycle

	// Artifacts fires for every artifact emitted by a compilation
	Artifacts hooks.Sync[Artifact]

	ctx        context.Context
	watch      bool
	writer     domain.FileWriter
	pages      PageSource
	logger     *utils.Logger
	workingDir string
	outputPath string
	publicPath string
	write      bool
	entries    map[string]bool
}

var _ domain.Compiler = (*Host)(nil)

// New creates a host for a build configured with opts
func New(opts api.BuildOptions, hostOpts Options) (*Host, error) {
	workingDir := opts.AbsWorkingDir
	if workingDir == "" {
		workingDir = utils.CanonicalPath(".")
	}

	out := opts.Outdir
	if out == "" && opts.Outfile != "" {
		out = filepath.Dir(opts.Outfile)
	}
	if out == "" {
		return nil, domain.ErrNoOutputPath
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(workingDir, out)
	}

	entries := make(map[string]bool)
	for _, e := range opts.EntryPoints {
		entries[resolve(workingDir, e)] = true
	}
	for _, e := range opts.EntryPointsAdvanced {
		entries[resolve(workingDir, e.InputPath)] = true
	}

	ctx := hostOpts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return &Host{
		ctx:        ctx,
		watch:      hostOpts.Watch,
		writer:     hostOpts.Writer,
		pages:      hostOpts.Pages,
		logger:     hostOpts.Logger.OrNop().WithComponent("esbuild"),
		workingDir: workingDir,
		outputPath: utils.CanonicalPath(out),
		publicPath: opts.PublicPath,
		write:      opts.Write,
		entries:    entries,
	}, nil
}

func resolve(workingDir, p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(workingDir, p)
	}
	return utils.CanonicalPath(p)
}

func (h *Host) isEntry(metaPath string) bool {
	return h.entries[resolve(h.workingDir, metaPath)]
}

// OutputPath returns the absolute output directory of the build
func (h *Host) OutputPath() string {
	return h.outputPath
}

// Plugin returns the esbuild plugin that drives the host
func (h *Host) Plugin() api.Plugin {
	return api.Plugin{
		Name: PluginName,
		Setup: func(build api.PluginBuild) {
			build.InitialOptions.Metafile = true

			build.OnStart(func() (api.OnStartResult, error) {
				if h.watch {
					h.WatchRun.Call(struct{}{})
				} else {
					h.Run.Call(struct{}{})
				}
				return api.OnStartResult{}, nil
			})

			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if err := h.end(result); err != nil {
					return api.OnEndResult{
						Errors: []api.Message{{PluginName: PluginName, Text: err.Error()}},
					}, nil
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}

func (h *Host) end(result *api.BuildResult) error {
	if len(result.Errors) > 0 {
		err := fmt.Errorf("%w: %s", domain.ErrBuildFailed, result.Errors[0].Text)
		h.Failed.Call(err)
		h.logger.Warn().Int("errors", len(result.Errors)).Msg("Build failed, manifest cycle skipped")
		return nil
	}

	meta, err := ParseMetafile(result.Metafile)
	if err != nil {
		h.Failed.Call(err)
		return err
	}

	comp := &compilation{
		outputPath: h.outputPath,
		publicPath: h.publicPath,
		snap:       buildSnapshot(meta, h.workingDir, h.outputPath, h.isEntry),
	}
	h.Compilation.Call(comp)

	for _, ma := range comp.snap.moduleAssets {
		comp.ModuleAsset.Call(hooks.ModuleAssetEvent{Module: inputModule(ma.request), File: ma.file})
	}

	if h.pages != nil {
		pages, err := h.pages.Pages(comp.snap.entrypoints, h.publicPath)
		if err != nil {
			h.Failed.Call(err)
			return err
		}
		for _, p := range pages {
			comp.AlterAssetTags.Call(p.Group)
			comp.EmitAsset(p.Group.OutputName, p.Content)
		}
	}

	emitErr := h.Emit.Call(h.ctx, comp)

	// artifacts committed before a failing listener are still flushed
	if err := h.flush(result, comp); err != nil {
		return errors.Join(emitErr, err)
	}
	return emitErr
}

func (h *Host) flush(result *api.BuildResult, comp *compilation) error {
	for _, a := range comp.emitted {
		a.Path = filepath.Join(h.outputPath, filepath.FromSlash(a.Name))
		result.OutputFiles = append(result.OutputFiles, api.OutputFile{Path: a.Path, Contents: a.Contents})

		if h.write && h.writer != nil {
			if err := h.writer.WriteFile(h.ctx, a.Path, a.Contents); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
			}
		}

		h.logger.Debug().Str("artifact", a.Name).Int("bytes", len(a.Contents)).Msg("Artifact emitted")
		h.Artifacts.Call(a)
	}
	return nil
}
