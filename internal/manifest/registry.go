package manifest

import (
	"sync"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/hooks"
	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// Hooks are the manifest events exposed per compiler
type Hooks struct {
	// AfterEmit fires once per emit cycle with the computed manifest
	AfterEmit hooks.Waterfall[domain.Manifest]
}

// Registry tracks pending emit cycles per manifest target and the hook
// table of each compiler. One registry is shared by every plugin of a
// build session.
type Registry struct {
	mu      sync.Mutex
	pending map[string]int
	hooks   map[domain.Compiler]*Hooks
	logger  *utils.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *utils.Logger) *Registry {
	return &Registry{
		pending: make(map[string]int),
		hooks:   make(map[domain.Compiler]*Hooks),
		logger:  logger.OrNop().WithComponent("registry"),
	}
}

// Begin registers a pending emit cycle for target
func (r *Registry) Begin(target string) int {
	key := utils.CanonicalPath(target)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending[key]++
	return r.pending[key]
}

// End consumes a pending emit cycle for target and returns how many remain.
// The count never drops below zero.
func (r *Registry) End(target string) int {
	key := utils.CanonicalPath(target)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending[key] > 0 {
		r.pending[key]--
	} else {
		r.pending[key] = 0
	}
	return r.pending[key]
}

// Pending returns the number of pending cycles for target
func (r *Registry) Pending(target string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pending[utils.CanonicalPath(target)]
}

// Track marks path as a manifest output without registering a cycle
func (r *Registry) Track(path string) {
	key := utils.CanonicalPath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pending[key]; !ok {
		r.pending[key] = 0
	}
}

// Tracked reports whether path is a manifest output of any plugin
func (r *Registry) Tracked(path string) bool {
	key := utils.CanonicalPath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.pending[key]
	return ok
}

// HooksFor returns the hook table of compiler, creating it on first use.
// Compilers that speak the legacy event protocol get the after-emit value
// forwarded to them. compiler must be comparable.
func (r *Registry) HooksFor(compiler domain.Compiler) *Hooks {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.hooks[compiler]; ok {
		return h
	}

	h := &Hooks{}
	if legacy, ok := compiler.(domain.LegacyPluginHost); ok {
		h.AfterEmit.Tap("legacy", hooks.LegacyBridge[domain.Manifest](legacy, func(err error) {
			r.logger.Warn().Err(err).Str("event", hooks.LegacyAfterEmitEvent).Msg("Legacy listener failed")
		}))
	}
	r.hooks[compiler] = h
	return h
}
