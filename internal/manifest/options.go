package manifest

import (
	"regexp"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/output"
	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// DefaultFileName is the manifest file name used when none is configured
const DefaultFileName = "manifest.json"

// Options configures a Plugin
type Options struct {
	// PublicPath overrides the compiler's public path when non-nil. An
	// empty string disables path prefixing.
	PublicPath *string
	// BasePath is prepended to every manifest key
	BasePath string
	// FileName is the manifest path, relative to the compiler output path
	// unless absolute.
	FileName string
	// TransformExtensions marks extensions that extend the previous one
	// (main.js.map → js.map).
	TransformExtensions *regexp.Regexp
	// WriteToFileEmit also writes the committed manifest with Writer
	WriteToFileEmit bool
	// Gzip emits a gzip compressed copy next to the manifest
	Gzip bool
	Seed domain.Seed

	Filter    FilterFunc
	Map       MapFunc
	Sort      SortFunc
	Generate  GenerateFunc
	Serialize SerializeFunc

	// Writer writes the manifest when WriteToFileEmit is set. Nil uses an
	// output.Writer on the local filesystem.
	Writer   domain.FileWriter
	Registry *Registry
	Logger   *utils.Logger
	// InitialProbes decides chunk initial-ness, in order
	InitialProbes []InitialProbe
}

func (o Options) withDefaults() Options {
	if o.FileName == "" {
		o.FileName = DefaultFileName
	}
	if o.TransformExtensions == nil {
		o.TransformExtensions = DefaultTransformExtensions
	}
	if o.Serialize == nil {
		o.Serialize = DefaultSerialize
	}
	if o.InitialProbes == nil {
		o.InitialProbes = DefaultInitialProbes()
	}
	if o.Registry == nil {
		o.Registry = NewRegistry(o.Logger)
	}
	o.Logger = o.Logger.OrNop()
	if o.WriteToFileEmit && o.Writer == nil {
		o.Writer = output.NewWriter(output.WriterOptions{Logger: o.Logger})
	}
	return o
}

// StringPtr returns a pointer to s, for Options.PublicPath
func StringPtr(s string) *string {
	return &s
}
