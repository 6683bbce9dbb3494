package manifest

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// PluginName is the tap name used on compiler and compilation hooks
const PluginName = "ManifestPlugin"

// Result describes one emit cycle
type Result struct {
	Manifest  domain.Manifest
	Records   []domain.FileRecord
	Committed bool
	// Output is the serialized manifest, set on committed cycles
	Output []byte
}

// Plugin emits a manifest for one compiler
type Plugin struct {
	opts       Options
	classifier *Classifier
	registry   *Registry
	logger     *utils.Logger

	outputDir  string
	outputFile string
	outputName string
	hooks      *Hooks

	collector *Collector
	tags      *TagAggregator
}

// New creates a plugin
func New(opts Options) (*Plugin, error) {
	opts = opts.withDefaults()

	return &Plugin{
		opts:       opts,
		classifier: NewClassifier(opts.TransformExtensions),
		registry:   opts.Registry,
		logger:     opts.Logger.WithComponent("manifest"),
	}, nil
}

// Apply resolves the manifest target against the compiler output path and
// subscribes to the compiler lifecycle.
func (p *Plugin) Apply(compiler domain.Compiler) error {
	if compiler.OutputPath() == "" {
		return domain.ErrNoOutputPath
	}

	p.outputDir = utils.CanonicalPath(compiler.OutputPath())
	target := p.opts.FileName
	if !filepath.IsAbs(target) {
		target = filepath.Join(p.outputDir, target)
	}
	p.outputFile = utils.CanonicalPath(target)
	p.outputName = utils.RelSlash(p.outputDir, p.outputFile)
	p.hooks = p.registry.HooksFor(compiler)
	p.logger = p.logger.WithTarget(p.outputFile)

	p.registry.Track(p.outputFile)
	if p.opts.Gzip {
		p.registry.Track(p.outputFile + ".gz")
	}

	begin := func() {
		n := p.registry.Begin(p.outputFile)
		p.logger.Debug().Int("pending", n).Msg("Emit cycle registered")
	}
	compiler.OnRun(PluginName, begin)
	compiler.OnWatchRun(PluginName, begin)
	compiler.OnCompilation(PluginName, p.attach)
	compiler.OnEmit(PluginName, func(ctx context.Context, c domain.Compilation) error {
		_, err := p.Emit(ctx, c)
		return err
	})
	compiler.OnFailed(PluginName, func(err error) {
		n := p.registry.End(p.outputFile)
		p.collector, p.tags = nil, nil
		p.logger.Debug().Err(err).Int("pending", n).Msg("Emit cycle dropped after failed build")
	})

	return nil
}

// OutputFile returns the absolute manifest path
func (p *Plugin) OutputFile() string {
	return p.outputFile
}

// OutputName returns the manifest path relative to the output directory
func (p *Plugin) OutputName() string {
	return p.outputName
}

// Hooks returns the hook table of the compiler the plugin is applied to
func (p *Plugin) Hooks() *Hooks {
	return p.hooks
}

func (p *Plugin) attach(c domain.Compilation) {
	collector := NewCollector(p.classifier, p.opts.InitialProbes)
	tags := NewTagAggregator()

	c.OnModuleAsset(PluginName, collector.ModuleAsset)
	c.OnAlterAssetTags(PluginName, tags.Add)

	p.collector, p.tags = collector, tags
}

// Emit runs one emit cycle. The pending cycle is consumed first, so a
// cancelled ctx abandons the cycle without leaking it. The manifest is then
// computed and handed to after-emit listeners; it is committed only when no
// other cycle for the target is pending.
func (p *Plugin) Emit(ctx context.Context, c domain.Compilation) (*Result, error) {
	if p.hooks == nil {
		return nil, ErrNotApplied
	}

	remaining := p.registry.End(p.outputFile)

	collector, tags := p.collector, p.tags
	p.collector, p.tags = nil, nil

	if err := ctx.Err(); err != nil {
		p.logger.Debug().Err(err).Int("pending", remaining).Msg("Emit cycle abandoned")
		return nil, domain.NewEmitError(p.outputFile, err)
	}

	if collector == nil {
		collector = NewCollector(p.classifier, p.opts.InitialProbes)
		tags = NewTagAggregator()
	}

	publicPath := c.PublicPath()
	if p.opts.PublicPath != nil {
		publicPath = *p.opts.PublicPath
	}

	outputDir := p.outputDir
	if c.OutputPath() != "" {
		outputDir = c.OutputPath()
	}

	pipeline := Pipeline{
		OutputDir:  outputDir,
		Tracked:    p.registry.Tracked,
		BasePath:   p.opts.BasePath,
		PublicPath: publicPath,
		Filter:     p.opts.Filter,
		Map:        p.opts.Map,
		Sort:       p.opts.Sort,
	}

	collected := collector.Collect(c)
	records := pipeline.Run(collected)
	p.logger.Debug().
		Int("collected", len(collected)).
		Int("records", len(records)).
		Int("pending", remaining).
		Msg("Records collected")

	seed := p.opts.Seed.Clone()
	tags.Apply(seed, c.PublicPath(), publicPath)

	m, err := Build(seed, records, c.Entrypoints(), p.opts.Generate)
	if err != nil {
		return nil, domain.NewEmitError(p.outputFile, err)
	}

	result := &Result{Manifest: m, Records: records}

	var writeErr error
	if remaining == 0 {
		data, err := p.opts.Serialize(m)
		if err != nil {
			return nil, domain.NewEmitError(p.outputFile, fmt.Errorf("%w: %w", domain.ErrSerializeFailed, err))
		}
		result.Committed = true
		result.Output = data
		writeErr = p.commit(ctx, c, data)
	}

	p.hooks.AfterEmit.Call(m)

	if writeErr != nil {
		return result, domain.NewEmitError(p.outputFile, writeErr)
	}
	return result, nil
}

func (p *Plugin) commit(ctx context.Context, c domain.Compilation, data []byte) error {
	c.EmitAsset(p.outputName, data)

	var compressed []byte
	if p.opts.Gzip {
		gz, err := gzipBytes(data)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSerializeFailed, err)
		}
		compressed = gz
		c.EmitAsset(p.outputName+".gz", compressed)
	}

	p.logger.Info().Int("bytes", len(data)).Bool("gzip", p.opts.Gzip).Msg("Manifest committed")

	if !p.opts.WriteToFileEmit {
		return nil
	}

	if err := p.opts.Writer.WriteFile(ctx, p.outputFile, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
	}
	if compressed != nil {
		if err := p.opts.Writer.WriteFile(ctx, p.outputFile+".gz", compressed); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
		}
	}
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
