package manifest

import (
	"regexp"
	"strings"

	"github.com/quantmind-br/assetmanifest/internal/domain"
)

var (
	urlAttrPattern   = regexp.MustCompile(`(?i)src|href`)
	closedTagPattern = regexp.MustCompile(`(?i)script`)
)

// TagAggregator accumulates HTML tag groups contributed during a compilation
type TagAggregator struct {
	groups []domain.TagGroup
}

// NewTagAggregator creates an empty aggregator
func NewTagAggregator() *TagAggregator {
	return &TagAggregator{}
}

// Add records a tag group
func (a *TagAggregator) Add(group domain.TagGroup) {
	a.groups = append(a.groups, group)
}

// Len returns the number of recorded groups
func (a *TagAggregator) Len() int {
	return len(a.groups)
}

// Apply renders every group into seed under its output name. URL-bearing
// attributes have compilerPublicPath replaced with publicPath. Groups for
// the same output name overwrite one another in arrival order.
func (a *TagAggregator) Apply(seed domain.Seed, compilerPublicPath, publicPath string) {
	for _, g := range a.groups {
		seed[g.OutputName] = domain.TagMarkup{
			Head: RenderTags(g.Head, compilerPublicPath, publicPath),
			Body: RenderTags(g.Body, compilerPublicPath, publicPath),
		}
	}
}

// RenderTags renders tags as newline separated HTML fragments. Only script
// tags are closed.
func RenderTags(tags []domain.Tag, compilerPublicPath, publicPath string) string {
	fragments := make([]string, 0, len(tags))
	for _, t := range tags {
		var b strings.Builder
		b.WriteString("<")
		b.WriteString(t.TagName)
		for _, attr := range t.Attributes {
			value := attr.Value
			if urlAttrPattern.MatchString(attr.Key) {
				value = publicPath + strings.TrimPrefix(value, compilerPublicPath)
			}
			b.WriteString(" ")
			b.WriteString(attr.Key)
			b.WriteString(`="`)
			b.WriteString(value)
			b.WriteString(`"`)
		}
		b.WriteString(">")
		if closedTagPattern.MatchString(t.TagName) {
			b.WriteString("</")
			b.WriteString(t.TagName)
			b.WriteString(">")
		}
		fragments = append(fragments, b.String())
	}
	return strings.Join(fragments, "\n")
}
