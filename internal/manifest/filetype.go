package manifest

import (
	"regexp"
	"strings"
)

// DefaultTransformExtensions matches extensions that describe a transform
// of the preceding extension rather than a file type of their own.
var DefaultTransformExtensions = regexp.MustCompile(`(?i)^(gz|map)$`)

// Classifier derives the logical file type from an output path
type Classifier struct {
	transform *regexp.Regexp
}

// NewClassifier creates a classifier. A nil pattern selects
// DefaultTransformExtensions.
func NewClassifier(transform *regexp.Regexp) *Classifier {
	if transform == nil {
		transform = DefaultTransformExtensions
	}
	return &Classifier{transform: transform}
}

// FileType returns the type of p: its last extension, extended with the
// previous one when the last is a transform extension. Query strings are
// ignored.
//
//	main.js         → js
//	main.js?v=1     → js
//	main.js.map     → js.map
//	styles.css.gz   → css.gz
func (c *Classifier) FileType(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}

	parts := strings.Split(p, ".")
	ext := parts[len(parts)-1]
	parts = parts[:len(parts)-1]

	if c.transform.MatchString(ext) && len(parts) > 0 {
		ext = parts[len(parts)-1] + "." + ext
	}
	return ext
}
