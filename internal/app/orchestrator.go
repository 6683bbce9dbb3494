package app

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/quantmind-br/assetmanifest/internal/cache"
	"github.com/quantmind-br/assetmanifest/internal/config"
	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/esbuildhost"
	"github.com/quantmind-br/assetmanifest/internal/htmltags"
	"github.com/quantmind-br/assetmanifest/internal/manifest"
	"github.com/quantmind-br/assetmanifest/internal/output"
	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// Orchestrator coordinates esbuild builds and the manifests they emit
type Orchestrator struct {
	config   *config.Config
	logger   *utils.Logger
	registry *manifest.Registry
	writer   *output.Writer
	store    *cache.Store
	pages    esbuildhost.PageSource
	watch    bool

	mu      sync.Mutex
	summary Summary
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config  *config.Config
	Verbose bool
	DryRun  bool
	Watch   bool
	// NoCache disables manifest history even when the config enables it
	NoCache bool
	Logger  *utils.Logger
}

// Summary reports what a run produced
type Summary struct {
	Builds    int
	Failed    int
	// Emits counts emit cycles across every manifest, committed or not
	Emits     int
	Manifests []string
	Changed   []string
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config

	// Validate config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := "info"
		logFormat := "pretty"
		if cfg.Logging.Level != "" {
			logLevel = cfg.Logging.Level
		}
		if cfg.Logging.Format != "" {
			logFormat = cfg.Logging.Format
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  logFormat,
			Verbose: opts.Verbose,
		})
	}

	o := &Orchestrator{
		config:   cfg,
		logger:   logger,
		registry: manifest.NewRegistry(logger),
		writer: output.NewWriter(output.WriterOptions{
			SkipUnchanged: true,
			DryRun:        opts.DryRun,
			Logger:        logger,
		}),
		watch: opts.Watch || cfg.Watch.Enabled,
	}

	if len(cfg.HTML.Pages) > 0 {
		o.pages = htmltags.NewRenderer(pageConfigs(cfg.HTML.Pages), logger)
	}

	if cfg.Cache.Enabled && !opts.NoCache {
		store, err := cache.NewStore(cache.Options{
			Directory:  utils.ExpandPath(cfg.Cache.Directory),
			MaxHistory: cfg.Cache.MaxHistory,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open manifest history: %w", err)
		}
		o.store = store
	}

	return o, nil
}

func pageConfigs(in []config.PageConfig) []htmltags.PageConfig {
	out := make([]htmltags.PageConfig, 0, len(in))
	for _, p := range in {
		out = append(out, htmltags.PageConfig{
			Filename: p.Filename,
			Template: p.Template,
			Title:    p.Title,
			Entries:  p.Entries,
			Module:   p.Module,
		})
	}
	return out
}

// BuildOptions converts the build section of the config to esbuild options
func BuildOptions(cfg config.BuildConfig) (api.BuildOptions, error) {
	workingDir := cfg.WorkingDir
	if workingDir == "" {
		workingDir = "."
	}
	workingDir = utils.CanonicalPath(utils.ExpandPath(workingDir))

	entries := cfg.EntryPoints
	if len(entries) == 0 {
		entries = DetectEntryPoints(workingDir)
	}
	if len(entries) == 0 {
		return api.BuildOptions{}, domain.NewValidationError("build.entry_points", "no entry points configured or detected")
	}

	loader, err := ParseLoaders(cfg.Loaders)
	if err != nil {
		return api.BuildOptions{}, domain.NewValidationError("build.loaders", err.Error())
	}

	opts := api.BuildOptions{
		AbsWorkingDir:     workingDir,
		EntryPoints:       entries,
		Outdir:            cfg.Outdir,
		PublicPath:        cfg.PublicPath,
		EntryNames:        cfg.EntryNames,
		ChunkNames:        cfg.ChunkNames,
		AssetNames:        cfg.AssetNames,
		Bundle:            cfg.Bundle,
		Splitting:         cfg.Splitting,
		Format:            ParseFormat(cfg.Format),
		Loader:            loader,
		MinifyWhitespace:  cfg.Minify,
		MinifyIdentifiers: cfg.Minify,
		MinifySyntax:      cfg.Minify,
		Metafile:          true,
		Write:             cfg.Write,
		LogLevel:          api.LogLevelWarning,
	}
	if cfg.Sourcemap {
		opts.Sourcemap = api.SourceMapLinked
	}
	return opts, nil
}

// ManifestOptions converts one manifest section to plugin options
func (o *Orchestrator) ManifestOptions(mc config.ManifestConfig) (manifest.Options, error) {
	opts := manifest.Options{
		PublicPath:      mc.PublicPath,
		BasePath:        mc.BasePath,
		FileName:        mc.FileName,
		WriteToFileEmit: mc.WriteToFileEmit,
		Gzip:            mc.Gzip,
		Writer:          o.writer,
		Registry:        o.registry,
		Logger:          o.logger,
	}

	if mc.TransformExtensions != "" {
		re, err := regexp.Compile(mc.TransformExtensions)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", domain.ErrInvalidPattern, err)
		}
		opts.TransformExtensions = re
	}

	if len(mc.Exclude) > 0 {
		patterns := make([]*regexp.Regexp, 0, len(mc.Exclude))
		for _, p := range mc.Exclude {
			re, err := regexp.Compile(p)
			if err != nil {
				return opts, fmt.Errorf("%w: %v", domain.ErrInvalidPattern, err)
			}
			patterns = append(patterns, re)
		}
		opts.Filter = excludeFilter(patterns)
	}

	switch mc.Sort {
	case config.SortName:
		opts.Sort = manifest.SortByName
	case config.SortPath:
		opts.Sort = manifest.SortByPath
	}

	if mc.Generate == config.GenerateEntrypoints {
		opts.Generate = manifest.GenerateWithEntrypoints
	}

	seed := domain.Seed{}
	if mc.SeedFile != "" {
		loaded, err := manifest.NewSeedLoader().Load(utils.ExpandPath(mc.SeedFile))
		if err != nil {
			return opts, err
		}
		seed = loaded
	}
	for k, v := range mc.Seed {
		seed[k] = v
	}
	opts.Seed = seed

	return opts, nil
}

func excludeFilter(patterns []*regexp.Regexp) manifest.FilterFunc {
	return func(r domain.FileRecord) bool {
		for _, re := range patterns {
			if re.MatchString(r.Name) {
				return false
			}
		}
		return true
	}
}

// Setup creates the esbuild host and applies every configured manifest
// plugin to it
func (o *Orchestrator) Setup(ctx context.Context) (*esbuildhost.Host, api.BuildOptions, error) {
	buildOpts, err := BuildOptions(o.config.Build)
	if err != nil {
		return nil, buildOpts, err
	}

	host, err := esbuildhost.New(buildOpts, esbuildhost.Options{
		Context: ctx,
		Watch:   o.watch,
		Writer:  o.writer,
		Pages:   o.pages,
		Logger:  o.logger,
	})
	if err != nil {
		return nil, buildOpts, err
	}

	targets := make(map[string]bool)
	var afterEmit *manifest.Hooks
	for _, mc := range o.config.Manifests {
		opts, err := o.ManifestOptions(mc)
		if err != nil {
			return nil, buildOpts, fmt.Errorf("manifest %s: %w", mc.FileName, err)
		}
		plugin, err := manifest.New(opts)
		if err != nil {
			return nil, buildOpts, fmt.Errorf("manifest %s: %w", mc.FileName, err)
		}
		if err := plugin.Apply(host); err != nil {
			return nil, buildOpts, fmt.Errorf("manifest %s: %w", mc.FileName, err)
		}
		targets[plugin.OutputName()] = true
		afterEmit = plugin.Hooks()
	}

	// plugins applied to one compiler share its hook table
	if afterEmit != nil {
		afterEmit.AfterEmit.Tap("assetmanifest", func(m domain.Manifest) domain.Manifest {
			o.mu.Lock()
			o.summary.Emits++
			o.mu.Unlock()
			return m
		})
	}

	host.OnRun("assetmanifest", o.countBuild)
	host.OnWatchRun("assetmanifest", o.countBuild)
	host.OnFailed("assetmanifest", func(err error) {
		o.mu.Lock()
		o.summary.Failed++
		o.mu.Unlock()
		o.logger.Error().Err(err).Msg("Build failed")
	})
	host.Artifacts.Tap("assetmanifest", func(a esbuildhost.Artifact) {
		if targets[a.Name] {
			o.recordManifest(ctx, a)
		}
	})

	buildOpts.Plugins = append(buildOpts.Plugins, host.Plugin())
	return host, buildOpts, nil
}

func (o *Orchestrator) countBuild() {
	o.mu.Lock()
	o.summary.Builds++
	o.mu.Unlock()
}

func (o *Orchestrator) recordManifest(ctx context.Context, a esbuildhost.Artifact) {
	o.mu.Lock()
	o.summary.Manifests = append(o.summary.Manifests, a.Path)
	o.mu.Unlock()

	if o.store == nil {
		return
	}

	rec, changed, err := o.store.Record(ctx, a.Path, a.Contents)
	if err != nil {
		o.logger.Warn().Err(err).Str("manifest", a.Name).Msg("Failed to record manifest history")
		return
	}
	if changed {
		o.mu.Lock()
		o.summary.Changed = append(o.summary.Changed, a.Path)
		o.mu.Unlock()
		o.logger.Info().
			Str("manifest", a.Name).
			Uint64("seq", rec.Seq).
			Str("digest", rec.Digest[:12]).
			Msg("Manifest changed")
	}
}

// Run executes one build, or watches until ctx is cancelled
func (o *Orchestrator) Run(ctx context.Context) error {
	startTime := time.Now()

	_, buildOpts, err := o.Setup(ctx)
	if err != nil {
		return err
	}

	o.logger.Info().
		Strs("entry_points", buildOpts.EntryPoints).
		Str("output", filepath.Join(buildOpts.AbsWorkingDir, buildOpts.Outdir)).
		Int("manifests", len(o.config.Manifests)).
		Bool("watch", o.watch).
		Msg("Starting build")

	if o.watch {
		return o.runWatch(ctx, buildOpts)
	}

	result := api.Build(buildOpts)
	if len(result.Errors) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrBuildFailed, messageText(result.Errors))
	}

	summary := o.Summary()
	o.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("outputs", len(result.OutputFiles)).
		Int("manifests", len(summary.Manifests)).
		Int("changed", len(summary.Changed)).
		Msg("Build completed")

	return nil
}

func (o *Orchestrator) runWatch(ctx context.Context, buildOpts api.BuildOptions) error {
	bctx, cerr := api.Context(buildOpts)
	if cerr != nil {
		return fmt.Errorf("%w: %s", domain.ErrBuildFailed, messageText(cerr.Errors))
	}
	defer bctx.Dispose()

	if err := bctx.Watch(api.WatchOptions{}); err != nil {
		return fmt.Errorf("failed to start watch: %w", err)
	}
	o.logger.Info().Msg("Watching for changes")

	<-ctx.Done()
	o.logger.Info().Msg("Watch stopped")
	return nil
}

func messageText(msgs []api.Message) string {
	if len(msgs) == 0 {
		return "unknown error"
	}
	if len(msgs) == 1 {
		return msgs[0].Text
	}
	return fmt.Sprintf("%s (and %d more)", msgs[0].Text, len(msgs)-1)
}

// Summary returns a snapshot of what has been built so far
func (o *Orchestrator) Summary() Summary {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.summary
	s.Manifests = append([]string(nil), s.Manifests...)
	s.Changed = append([]string(nil), s.Changed...)
	return s
}

// Store returns the manifest history store, nil when disabled
func (o *Orchestrator) Store() *cache.Store {
	return o.store
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.store != nil {
		return o.store.Close()
	}
	return nil
}
