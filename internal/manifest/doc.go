// Package manifest builds asset manifests for a bundler build. A manifest
// maps logical asset names (main.js) to the paths the bundler actually
// emitted (main.3f2a9c.js).
//
// # Lifecycle
//
// A Plugin is applied to a domain.Compiler. Each run or watch-run start
// registers a pending emit cycle for the plugin's target in the shared
// Registry; each emit consumes one. Every emit computes the manifest and
// notifies after-emit listeners, but only the emit that brings the pending
// count to zero commits the serialized manifest to the compilation and,
// optionally, to disk.
//
// # Pipeline
//
// Records are collected from chunks, module assets and loose assets, then
// flow through a fixed sequence of stages:
//
//	drop hot updates → drop tracked manifests → prefix names (BasePath)
//	→ prefix paths (PublicPath) → normalize → Filter → Map → normalize → Sort
//
// The surviving records are folded into the seed (name → path), or handed
// to a custom Generate function together with the entrypoint file lists.
//
// # Usage
//
//	reg := manifest.NewRegistry(logger)
//	p, err := manifest.New(manifest.Options{
//	    FileName: "manifest.json",
//	    Registry: reg,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := p.Apply(compiler); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Emit failures are returned as *domain.EmitError wrapping one of
// domain.ErrGenerateFailed, domain.ErrSerializeFailed or
// domain.ErrWriteFailed. Seed loading uses the sentinels in this package:
//   - ErrFileNotFound: seed file does not exist
//   - ErrInvalidFormat: file is not valid YAML/JSON
//   - ErrUnsupportedExt: unsupported file extension
package manifest
