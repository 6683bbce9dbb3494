package hooks

import (
	"context"

	"github.com/quantmind-br/assetmanifest/internal/domain"
)

// Lifecycle carries the compiler-level events. Hosts embed it to satisfy
// the event half of domain.Compiler and fire the hooks as their build
// progresses.
type Lifecycle struct {
	Run         Sync[struct{}]
	WatchRun    Sync[struct{}]
	Compilation Sync[domain.Compilation]
	Emit        Series[domain.Compilation]
	Failed      Sync[error]
}

// OnRun subscribes fn to the start of a one-shot build
func (l *Lifecycle) OnRun(name string, fn func()) {
	l.Run.Tap(name, func(struct{}) { fn() })
}

// OnWatchRun subscribes fn to the start of each watch rebuild
func (l *Lifecycle) OnWatchRun(name string, fn func()) {
	l.WatchRun.Tap(name, func(struct{}) { fn() })
}

// OnCompilation subscribes fn to each new compilation, before its assets
// are reported
func (l *Lifecycle) OnCompilation(name string, fn func(domain.Compilation)) {
	l.Compilation.Tap(name, fn)
}

// OnEmit subscribes fn to the emit phase. Every emit listener runs even
// when an earlier one fails.
func (l *Lifecycle) OnEmit(name string, fn func(context.Context, domain.Compilation) error) {
	l.Emit.Tap(name, fn)
}

// OnFailed subscribes fn to builds that fail before emitting
func (l *Lifecycle) OnFailed(name string, fn func(error)) {
	l.Failed.Tap(name, fn)
}

// ModuleAssetEvent is the payload of the module-asset hook
type ModuleAssetEvent struct {
	Module domain.Module
	File   string
}

// CompilationEvents carries the per-compilation events. Compilations embed
// it to satisfy the event half of domain.Compilation.
type CompilationEvents struct {
	ModuleAsset    Sync[ModuleAssetEvent]
	AlterAssetTags Sync[domain.TagGroup]
}

// OnModuleAsset subscribes fn to files emitted on behalf of a module
func (e *CompilationEvents) OnModuleAsset(name string, fn func(domain.Module, string)) {
	e.ModuleAsset.Tap(name, func(ev ModuleAssetEvent) { fn(ev.Module, ev.File) })
}

// OnAlterAssetTags subscribes fn to the tag groups injected into pages
func (e *CompilationEvents) OnAlterAssetTags(name string, fn func(domain.TagGroup)) {
	e.AlterAssetTags.Tap(name, fn)
}
