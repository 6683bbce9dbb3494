package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrInvalidFormat indicates the seed file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("seed must be valid YAML or JSON")

	// ErrFileNotFound indicates the seed file does not exist
	ErrFileNotFound = errors.New("seed file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, or .json)")

	// ErrNotApplied indicates Emit was called before Apply
	ErrNotApplied = errors.New("plugin has not been applied to a compiler")
)
