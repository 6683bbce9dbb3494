package domain

import (
	"context"
	"slices"
)

// Chunk is a compiler-defined group of modules emitted as one or more files
type Chunk interface {
	// Name returns the chunk name, empty for nameless chunks
	Name() string
	// Files returns the physical output files of the chunk
	Files() []string
}

// OnlyInitialChunk is implemented by chunks that report whether they are
// reachable only from an entry point.
type OnlyInitialChunk interface {
	IsOnlyInitial() bool
}

// InitialChunk is implemented by chunks exposing an IsInitial query
type InitialChunk interface {
	IsInitial() bool
}

// InitialFlagChunk is implemented by chunks exposing a plain initial flag
type InitialFlagChunk interface {
	Initial() bool
}

// Module is a source module that may contribute non-chunk output files
type Module interface {
	// UserRequest returns the user-facing request path of the module
	UserRequest() string
}

// Entrypoint is a build entry point and its ordered output files
type Entrypoint interface {
	Files() []string
}

// Entrypoints is a registry of entry points
type Entrypoints interface {
	Each(fn func(name string, ep Entrypoint))
}

// Compilation is one build's output as seen by the manifest core
type Compilation interface {
	// OutputPath returns the absolute output directory
	OutputPath() string
	// PublicPath returns the compiler's configured public path
	PublicPath() string
	Chunks() []Chunk
	Assets() []AssetStat
	Entrypoints() Entrypoints
	// EmitAsset registers an output artifact under a path relative to OutputPath
	EmitAsset(name string, content []byte)

	OnModuleAsset(name string, fn func(m Module, file string))
	OnAlterAssetTags(name string, fn func(group TagGroup))
}

// Compiler exposes the lifecycle events of a bundler
type Compiler interface {
	// OutputPath returns the absolute output directory
	OutputPath() string

	OnRun(name string, fn func())
	OnWatchRun(name string, fn func())
	OnCompilation(name string, fn func(c Compilation))
	OnEmit(name string, fn func(ctx context.Context, c Compilation) error)
	// OnFailed fires instead of emit when a build cycle fails
	OnFailed(name string, fn func(err error))
}

// LegacyPluginHost is implemented by hosts that only understand
// event-name based plugin callbacks.
type LegacyPluginHost interface {
	ApplyPluginsAsync(event string, value any, callback func(error))
}

// FileWriter writes a file, creating parent directories as needed
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
