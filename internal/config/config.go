package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/quantmind-br/assetmanifest/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Build     BuildConfig      `mapstructure:"build" yaml:"build"`
	Manifests []ManifestConfig `mapstructure:"manifests" yaml:"manifests"`
	HTML      HTMLConfig       `mapstructure:"html" yaml:"html"`
	Cache     CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Logging   LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Watch     WatchConfig      `mapstructure:"watch" yaml:"watch"`
}

// BuildConfig contains the esbuild settings
type BuildConfig struct {
	WorkingDir  string            `mapstructure:"working_dir" yaml:"working_dir"`
	EntryPoints []string          `mapstructure:"entry_points" yaml:"entry_points"`
	Outdir      string            `mapstructure:"outdir" yaml:"outdir"`
	PublicPath  string            `mapstructure:"public_path" yaml:"public_path"`
	EntryNames  string            `mapstructure:"entry_names" yaml:"entry_names"`
	ChunkNames  string            `mapstructure:"chunk_names" yaml:"chunk_names"`
	AssetNames  string            `mapstructure:"asset_names" yaml:"asset_names"`
	Bundle      bool              `mapstructure:"bundle" yaml:"bundle"`
	Splitting   bool              `mapstructure:"splitting" yaml:"splitting"`
	Sourcemap   bool              `mapstructure:"sourcemap" yaml:"sourcemap"`
	Minify      bool              `mapstructure:"minify" yaml:"minify"`
	Format      string            `mapstructure:"format" yaml:"format"`
	Loaders     map[string]string `mapstructure:"loaders" yaml:"loaders"`
	Write       bool              `mapstructure:"write" yaml:"write"`
}

// ManifestConfig configures one manifest emitted by the build
type ManifestConfig struct {
	FileName string `mapstructure:"file_name" yaml:"file_name"`
	BasePath string `mapstructure:"base_path" yaml:"base_path"`
	// PublicPath overrides build.public_path when set, even to ""
	PublicPath          *string        `mapstructure:"public_path" yaml:"public_path"`
	TransformExtensions string         `mapstructure:"transform_extensions" yaml:"transform_extensions"`
	WriteToFileEmit     bool           `mapstructure:"write_to_file_emit" yaml:"write_to_file_emit"`
	Gzip                bool           `mapstructure:"gzip" yaml:"gzip"`
	Seed                map[string]any `mapstructure:"seed" yaml:"seed"`
	SeedFile            string         `mapstructure:"seed_file" yaml:"seed_file"`
	// Exclude drops records whose name matches any pattern
	Exclude  []string `mapstructure:"exclude" yaml:"exclude"`
	Sort     string   `mapstructure:"sort" yaml:"sort"`
	Generate string   `mapstructure:"generate" yaml:"generate"`
}

// HTMLConfig contains the pages rendered for each build
type HTMLConfig struct {
	Pages []PageConfig `mapstructure:"pages" yaml:"pages"`
}

// PageConfig describes one HTML page
type PageConfig struct {
	Filename string   `mapstructure:"filename" yaml:"filename"`
	Template string   `mapstructure:"template" yaml:"template"`
	Title    string   `mapstructure:"title" yaml:"title"`
	Entries  []string `mapstructure:"entries" yaml:"entries"`
	Module   bool     `mapstructure:"module" yaml:"module"`
}

// CacheConfig contains manifest history settings
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Directory  string `mapstructure:"directory" yaml:"directory"`
	MaxHistory int    `mapstructure:"max_history" yaml:"max_history"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// WatchConfig contains watch mode settings
type WatchConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

var (
	validSorts    = []string{"", SortName, SortPath}
	validGenerate = []string{"", GenerateEntrypoints}
	validFormats  = []string{"", "esm", "iife", "cjs"}
)

// Validate validates the configuration, filling soft defaults
func (c *Config) Validate() error {
	if c.Build.Outdir == "" {
		c.Build.Outdir = DefaultOutdir
	}
	if !slices.Contains(validFormats, c.Build.Format) {
		return domain.NewValidationError("build.format", fmt.Sprintf("unknown format %q", c.Build.Format))
	}
	if c.Cache.MaxHistory < 1 {
		c.Cache.MaxHistory = DefaultMaxHistory
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if len(c.Manifests) == 0 {
		c.Manifests = []ManifestConfig{{FileName: DefaultManifestFile}}
	}

	seen := make(map[string]bool)
	for i := range c.Manifests {
		m := &c.Manifests[i]
		field := fmt.Sprintf("manifests[%d]", i)

		if m.FileName == "" {
			m.FileName = DefaultManifestFile
		}
		if seen[m.FileName] {
			return domain.NewValidationError(field+".file_name", fmt.Sprintf("duplicate manifest %q", m.FileName))
		}
		seen[m.FileName] = true

		if !slices.Contains(validSorts, m.Sort) {
			return domain.NewValidationError(field+".sort", fmt.Sprintf("unknown sort %q", m.Sort))
		}
		if !slices.Contains(validGenerate, m.Generate) {
			return domain.NewValidationError(field+".generate", fmt.Sprintf("unknown generator %q", m.Generate))
		}
		if m.TransformExtensions != "" {
			if _, err := regexp.Compile(m.TransformExtensions); err != nil {
				return fmt.Errorf("%s.transform_extensions: %w: %v", field, domain.ErrInvalidPattern, err)
			}
		}
		for _, p := range m.Exclude {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("%s.exclude: %w: %v", field, domain.ErrInvalidPattern, err)
			}
		}
	}

	for i, p := range c.HTML.Pages {
		if strings.TrimSpace(p.Filename) == "" {
			return domain.NewValidationError(fmt.Sprintf("html.pages[%d].filename", i), "required")
		}
	}

	return nil
}
