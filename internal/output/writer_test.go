package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "dist", "meta", "manifest.json")

	w := NewWriter(WriterOptions{})
	require.NoError(t, w.WriteFile(context.Background(), path, []byte(`{"a.js":"a.1.js"}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a.js":"a.1.js"}`, string(data))
	assert.Equal(t, []string{path}, w.Written())
}

func TestWriter_DryRun(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "manifest.json")

	w := NewWriter(WriterOptions{DryRun: true})
	require.NoError(t, w.WriteFile(context.Background(), path, []byte("{}")))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, []string{path}, w.Written())
}

func TestWriter_SkipUnchanged(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	w := NewWriter(WriterOptions{SkipUnchanged: true})
	require.NoError(t, w.WriteFile(context.Background(), path, []byte("{}")))
	assert.Empty(t, w.Written())

	require.NoError(t, w.WriteFile(context.Background(), path, []byte(`{"x":"y"}`)))
	assert.Equal(t, []string{path}, w.Written())
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(WriterOptions{})
	err := w.WriteFile(ctx, filepath.Join(t.TempDir(), "manifest.json"), []byte("{}"))
	assert.ErrorIs(t, err, context.Canceled)
}
