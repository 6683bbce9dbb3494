// Package version reports the build of the assetmanifest binary and the
// esbuild release it bundles with.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "unknown"
)

// EsbuildModule is the module path whose version is reported as Esbuild
const EsbuildModule = "github.com/evanw/esbuild"

var readBuildInfo = debug.ReadBuildInfo

// Info contains version information
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	Commit    string `json:"commit"`
	Esbuild   string `json:"esbuild"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Get returns the current version info
func Get() Info {
	return Info{
		Version:   Version,
		BuildTime: BuildTime,
		Commit:    Commit,
		Esbuild:   esbuildVersion(),
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// esbuildVersion looks the esbuild module up in the binary's dependencies.
// A replaced module reports the replacement's version.
func esbuildVersion() string {
	bi, ok := readBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range bi.Deps {
		if dep.Path != EsbuildModule {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("assetmanifest %s (commit: %s, built: %s, esbuild %s, %s %s/%s)",
		i.Version, i.Commit, i.BuildTime, i.Esbuild, i.GoVersion, i.OS, i.Arch)
}

// Short returns a short version string
func Short() string {
	return Version
}

// Full returns a full version string
func Full() string {
	return Get().String()
}
