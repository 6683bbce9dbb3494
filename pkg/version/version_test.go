package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestGet(t *testing.T) {
	origV, origB, origC := Version, BuildTime, Commit
	t.Cleanup(func() { Version, BuildTime, Commit = origV, origB, origC })

	Version = "1.2.3"
	BuildTime = "2026-10-19T00:00:00Z"
	Commit = "deadbeef"
	withBuildInfo(t, &debug.BuildInfo{
		Deps: []*debug.Module{
			{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
			{Path: EsbuildModule, Version: "v0.27.2"},
		},
	}, true)

	info := Get()
	require.Equal(t, "1.2.3", info.Version)
	require.Equal(t, "deadbeef", info.Commit)
	assert.Equal(t, "v0.27.2", info.Esbuild)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.OS)
	assert.NotEmpty(t, info.Arch)

	assert.Equal(t, "1.2.3", Short())
	assert.Contains(t, info.String(),
		"assetmanifest 1.2.3 (commit: deadbeef, built: 2026-10-19T00:00:00Z, esbuild v0.27.2,")
	assert.Contains(t, Full(), "esbuild v0.27.2")
}

func TestEsbuildVersion(t *testing.T) {
	tests := []struct {
		name string
		bi   *debug.BuildInfo
		ok   bool
		want string
	}{
		{
			name: "no build info",
			ok:   false,
			want: "unknown",
		},
		{
			name: "not a dependency",
			bi:   &debug.BuildInfo{Deps: []*debug.Module{{Path: "github.com/rs/zerolog", Version: "v1.34.0"}}},
			ok:   true,
			want: "unknown",
		},
		{
			name: "replaced module",
			bi: &debug.BuildInfo{Deps: []*debug.Module{{
				Path:    EsbuildModule,
				Version: "v0.27.2",
				Replace: &debug.Module{Path: "../esbuild", Version: "v0.27.3-fork"},
			}}},
			ok:   true,
			want: "v0.27.3-fork",
		},
		{
			name: "local replacement keeps required version",
			bi: &debug.BuildInfo{Deps: []*debug.Module{{
				Path:    EsbuildModule,
				Version: "v0.27.2",
				Replace: &debug.Module{Path: "../esbuild"},
			}}},
			ok:   true,
			want: "v0.27.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, tt.bi, tt.ok)
			assert.Equal(t, tt.want, esbuildVersion())
		})
	}
}
