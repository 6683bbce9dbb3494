package config

import (
	"os"
	"path/filepath"
)

// Default values
const (
	// Build defaults
	DefaultOutdir     = "dist"
	DefaultEntryNames = "[name]-[hash]"
	DefaultChunkNames = "chunks/[name]-[hash]"
	DefaultAssetNames = "assets/[name]-[hash]"
	DefaultFormat     = "esm"

	// Manifest defaults
	DefaultManifestFile = "manifest.json"

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultMaxHistory   = 20

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// Manifest sort and generator names
const (
	SortName            = "name"
	SortPath            = "path"
	GenerateEntrypoints = "entrypoints"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".assetmanifest"
	}
	return filepath.Join(home, ".assetmanifest")
}

// CacheDir returns the manifest history directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "history")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			Outdir:     DefaultOutdir,
			EntryNames: DefaultEntryNames,
			ChunkNames: DefaultChunkNames,
			AssetNames: DefaultAssetNames,
			Bundle:     true,
			Format:     DefaultFormat,
			Write:      true,
		},
		Manifests: []ManifestConfig{{FileName: DefaultManifestFile}},
		Cache: CacheConfig{
			Enabled:    DefaultCacheEnabled,
			Directory:  CacheDir(),
			MaxHistory: DefaultMaxHistory,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
