// Package hooks provides the small event primitives the manifest core and
// its hosts communicate through. Sync hooks notify every tap and waterfall
// hooks thread a value through their taps. Series hooks pass a context and
// collect tap errors.
package hooks

import (
	"context"
	"errors"
	"sync"
)

type tap[F any] struct {
	name string
	fn   F
}

// Sync calls every tap with the same value
type Sync[T any] struct {
	mu   sync.RWMutex
	taps []tap[func(T)]
}

// Tap registers a listener
func (h *Sync[T]) Tap(name string, fn func(T)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, tap[func(T)]{name: name, fn: fn})
}

// Call invokes the listeners in registration order
func (h *Sync[T]) Call(v T) {
	for _, t := range h.snapshot() {
		t.fn(v)
	}
}

// Names returns the registered tap names
func (h *Sync[T]) Names() []string {
	return names(h.snapshot())
}

func (h *Sync[T]) snapshot() []tap[func(T)] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]tap[func(T)](nil), h.taps...)
}

// Waterfall threads a value through its taps; each tap receives the
// previous tap's result.
type Waterfall[T any] struct {
	mu   sync.RWMutex
	taps []tap[func(T) T]
}

// Tap registers a transforming listener
func (h *Waterfall[T]) Tap(name string, fn func(T) T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, tap[func(T) T]{name: name, fn: fn})
}

// Call reduces v over the registered taps and returns the final value
func (h *Waterfall[T]) Call(v T) T {
	for _, t := range h.snapshot() {
		v = t.fn(v)
	}
	return v
}

// Names returns the registered tap names
func (h *Waterfall[T]) Names() []string {
	return names(h.snapshot())
}

func (h *Waterfall[T]) snapshot() []tap[func(T) T] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]tap[func(T) T](nil), h.taps...)
}

// Series calls its taps one after another. A failing tap does not stop the
// taps after it; each tap owns per-cycle state that must be released.
type Series[T any] struct {
	mu   sync.RWMutex
	taps []tap[func(context.Context, T) error]
}

// Tap registers a listener
func (h *Series[T]) Tap(name string, fn func(context.Context, T) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, tap[func(context.Context, T) error]{name: name, fn: fn})
}

// Call invokes every listener in order and joins their errors. Taps run
// even when ctx is done and are expected to check it themselves.
func (h *Series[T]) Call(ctx context.Context, v T) error {
	var errs []error
	for _, t := range h.snapshot() {
		if err := t.fn(ctx, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Names returns the registered tap names
func (h *Series[T]) Names() []string {
	return names(h.snapshot())
}

func (h *Series[T]) snapshot() []tap[func(context.Context, T) error] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]tap[func(context.Context, T) error](nil), h.taps...)
}

func names[F any](taps []tap[F]) []string {
	out := make([]string, len(taps))
	for i, t := range taps {
		out[i] = t.name
	}
	return out
}
