package manifest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropHotUpdates(t *testing.T) {
	records := []domain.FileRecord{
		{Name: "main.js", Path: "main.js"},
		{Name: "main.hot-update.js", Path: "0.a1b2.hot-update.js"},
		{Name: "hmr.json", Path: "a1b2.hot-update.json"},
	}

	got := DropHotUpdates(records)
	require.Len(t, got, 1)
	for _, r := range got {
		assert.NotContains(t, r.Path, "hot-update")
	}
}

func TestDropTracked(t *testing.T) {
	out := t.TempDir()
	reg := NewRegistry(nil)
	reg.Track(filepath.Join(out, "asset-manifest.json"))

	records := []domain.FileRecord{
		{Name: "main.js", Path: "main.js"},
		{Name: "asset-manifest.json", Path: "asset-manifest.json"},
	}

	got := DropTracked(records, out, reg.Tracked)
	require.Len(t, got, 1)
	assert.Equal(t, "main.js", got[0].Name)

	assert.Len(t, DropTracked([]domain.FileRecord{{Name: "x"}}, out, nil), 1)
}

func TestPrefixes(t *testing.T) {
	records := []domain.FileRecord{{Name: "a.js", Path: "a.js"}}

	records = PrefixNames(records, "/static/")
	records = PrefixPaths(records, "/cdn/")

	assert.Equal(t, "/static/a.js", records[0].Name)
	assert.Equal(t, "/cdn/a.js", records[0].Path)

	unchanged := PrefixPaths(PrefixNames([]domain.FileRecord{{Name: "b.js", Path: "b.js"}}, ""), "")
	assert.Equal(t, "b.js", unchanged[0].Name)
	assert.Equal(t, "b.js", unchanged[0].Path)
}

func TestPipeline_Run(t *testing.T) {
	p := Pipeline{
		OutputDir:  "/out",
		BasePath:   `static\`,
		PublicPath: "/cdn/",
		Filter: func(r domain.FileRecord) bool {
			return !strings.HasSuffix(r.Name, ".map")
		},
		Map: func(r domain.FileRecord) domain.FileRecord {
			r.Name = strings.ToUpper(r.Name[:1]) + r.Name[1:]
			r.Path = r.Path + `\v`
			return r
		},
		Sort: SortByName,
	}

	got := p.Run([]domain.FileRecord{
		{Name: "vendor.js", Path: "vendor.1.js"},
		{Name: "main.js", Path: `js\main.2.js`},
		{Name: "main.js.map", Path: "main.2.js.map"},
		{Name: "main.hot-update.js", Path: "main.hot-update.js"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Static/main.js", got[0].Name)
	assert.Equal(t, "/cdn/js/main.2.js/v", got[0].Path)
	assert.Equal(t, "Static/vendor.js", got[1].Name)
}

func TestApplySort_Stable(t *testing.T) {
	records := []domain.FileRecord{
		{Name: "b", Path: "1"},
		{Name: "a", Path: "2"},
		{Name: "b", Path: "3"},
		{Name: "a", Path: "4"},
	}

	got := ApplySort(records, SortByName)
	assert.Equal(t, []string{"2", "4", "1", "3"}, []string{got[0].Path, got[1].Path, got[2].Path, got[3].Path})

	byPath := ApplySort([]domain.FileRecord{{Path: "z"}, {Path: "a"}}, SortByPath)
	assert.Equal(t, "a", byPath[0].Path)
}
