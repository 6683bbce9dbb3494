package manifest

import (
	"errors"
	"testing"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold_LastWriteWins(t *testing.T) {
	seed := domain.Seed{"version": "1"}

	got := Fold(seed, []domain.FileRecord{
		{Name: "main.js", Path: "main.1.js"},
		{Name: "main.js", Path: "main.2.js"},
	})

	assert.Equal(t, domain.Seed{"version": "1", "main.js": "main.2.js"}, got)
}

func TestBuild_GenerateOverridesFold(t *testing.T) {
	eps := domain.EntrypointList{
		{Name: "main", Entrypoint: domain.EntrypointFiles{"main.js", "main.css"}},
	}
	var gotEntrypoints map[string][]string

	m, err := Build(domain.Seed{}, []domain.FileRecord{{Name: "main.js", Path: "main.1.js"}}, eps,
		func(seed domain.Seed, records []domain.FileRecord, entrypoints map[string][]string) (domain.Manifest, error) {
			gotEntrypoints = entrypoints
			return []string{"custom"}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, []string{"custom"}, m)
	assert.Equal(t, map[string][]string{"main": {"main.js", "main.css"}}, gotEntrypoints)
}

func TestBuild_GenerateError(t *testing.T) {
	boom := errors.New("boom")

	_, err := Build(domain.Seed{}, nil, nil,
		func(domain.Seed, []domain.FileRecord, map[string][]string) (domain.Manifest, error) {
			return nil, boom
		})

	assert.ErrorIs(t, err, domain.ErrGenerateFailed)
	assert.ErrorIs(t, err, boom)
}

func TestGenerateWithEntrypoints(t *testing.T) {
	seed := domain.Seed{"build": "42"}

	m, err := GenerateWithEntrypoints(seed,
		[]domain.FileRecord{{Name: "main.js", Path: "/main.1.js"}},
		map[string][]string{"main": {"main.1.js"}})
	require.NoError(t, err)

	out, ok := m.(domain.Seed)
	require.True(t, ok)
	assert.Equal(t, "42", out["build"])
	assert.Equal(t, map[string]string{"main.js": "/main.1.js"}, out["files"])
	assert.Equal(t, map[string][]string{"main": {"main.1.js"}}, out["entrypoints"])
	assert.NotContains(t, seed, "files")
}

func TestDefaultSerialize(t *testing.T) {
	data, err := DefaultSerialize(domain.Seed{"b.js": "b.1.js", "a.js": "a.1.js"})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"a.js\": \"a.1.js\",\n  \"b.js\": \"b.1.js\"\n}", string(data))
}
