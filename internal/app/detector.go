package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

var loaders = map[string]api.Loader{
	"base64":     api.LoaderBase64,
	"binary":     api.LoaderBinary,
	"copy":       api.LoaderCopy,
	"css":        api.LoaderCSS,
	"dataurl":    api.LoaderDataURL,
	"default":    api.LoaderDefault,
	"empty":      api.LoaderEmpty,
	"file":       api.LoaderFile,
	"global-css": api.LoaderGlobalCSS,
	"js":         api.LoaderJS,
	"json":       api.LoaderJSON,
	"jsx":        api.LoaderJSX,
	"local-css":  api.LoaderLocalCSS,
	"text":       api.LoaderText,
	"ts":         api.LoaderTS,
	"tsx":        api.LoaderTSX,
}

// ParseLoader maps a loader name to its esbuild loader
func ParseLoader(name string) (api.Loader, error) {
	l, ok := loaders[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return api.LoaderNone, fmt.Errorf("unknown loader: %s", name)
	}
	return l, nil
}

// ParseLoaders converts an extension to loader-name map. Extensions
// without a leading dot get one.
func ParseLoaders(in map[string]string) (map[string]api.Loader, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]api.Loader, len(in))
	for ext, name := range in {
		l, err := ParseLoader(name)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = l
	}
	return out, nil
}

// ParseFormat maps a module format name to its esbuild format
func ParseFormat(name string) api.Format {
	switch strings.ToLower(name) {
	case "iife":
		return api.FormatIIFE
	case "cjs":
		return api.FormatCommonJS
	case "esm":
		return api.FormatESModule
	default:
		return api.FormatDefault
	}
}

// entryCandidates are probed in order when no entry points are configured
var entryCandidates = []string{
	"src/index.ts",
	"src/index.tsx",
	"src/index.js",
	"src/index.jsx",
	"src/main.ts",
	"src/main.tsx",
	"src/main.js",
	"src/main.jsx",
	"index.js",
}

// DetectEntryPoints returns the first conventional entry file found under
// workingDir, relative to it
func DetectEntryPoints(workingDir string) []string {
	for _, c := range entryCandidates {
		info, err := os.Stat(filepath.Join(workingDir, filepath.FromSlash(c)))
		if err == nil && !info.IsDir() {
			return []string{c}
		}
	}
	return nil
}
