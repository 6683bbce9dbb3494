package output

import (
	"bytes"
	"context"
	"os"
	"sync"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// Writer writes build artifacts to the filesystem
type Writer struct {
	skipUnchanged bool
	dryRun        bool
	logger        *utils.Logger

	mu      sync.Mutex
	written []string
}

var _ domain.FileWriter = (*Writer)(nil)

// WriterOptions contains options for the writer
type WriterOptions struct {
	// SkipUnchanged leaves files whose contents already match untouched
	SkipUnchanged bool
	DryRun        bool
	Logger        *utils.Logger
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	return &Writer{
		skipUnchanged: opts.SkipUnchanged,
		dryRun:        opts.DryRun,
		logger:        opts.Logger.OrNop().WithComponent("writer"),
	}
}

// WriteFile writes data to path, creating parent directories
func (w *Writer) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if w.skipUnchanged {
		if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
			w.logger.Debug().Str("path", path).Msg("Unchanged, skipping write")
			return nil
		}
	}

	w.record(path)

	// Dry run - just record
	if w.dryRun {
		w.logger.Info().Str("path", path).Int("bytes", len(data)).Msg("Dry run, not writing")
		return nil
	}

	if err := utils.EnsureDir(path); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (w *Writer) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written = append(w.written, path)
}

// Written returns the paths written (or that would have been written in
// dry-run mode), in order
func (w *Writer) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.written...)
}
