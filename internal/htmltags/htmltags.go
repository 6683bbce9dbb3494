// Package htmltags renders HTML pages that load the files of build
// entrypoints. Each page yields the tag group injected into it, which the
// manifest records under the page's file name.
package htmltags

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/quantmind-br/assetmanifest/internal/domain"
	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// DefaultTemplate is used for pages without a template file
const DefaultTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title></title>
</head>
<body>
</body>
</html>
`

// PageConfig describes one HTML page
type PageConfig struct {
	// Filename is the page path relative to the output directory
	Filename string
	// Template is a path to an HTML template; empty uses DefaultTemplate
	Template string
	Title    string
	// Entries limits the page to these entrypoints; empty includes all
	Entries []string
	// Module marks scripts as ES modules
	Module bool
}

// Renderer renders configured pages for each compilation
type Renderer struct {
	pages  []PageConfig
	logger *utils.Logger
}

// NewRenderer creates a renderer for pages
func NewRenderer(pages []PageConfig, logger *utils.Logger) *Renderer {
	return &Renderer{
		pages:  pages,
		logger: logger.OrNop().WithComponent("htmltags"),
	}
}

// Pages renders every configured page. Templates are read on each call so
// edits are picked up by rebuilds.
func (r *Renderer) Pages(eps domain.Entrypoints, publicPath string) ([]domain.RenderedPage, error) {
	out := make([]domain.RenderedPage, 0, len(r.pages))
	for _, page := range r.pages {
		tmpl := []byte(DefaultTemplate)
		if page.Template != "" {
			data, err := os.ReadFile(page.Template)
			if err != nil {
				return nil, fmt.Errorf("read template %s: %w", page.Template, err)
			}
			tmpl = data
		}

		group := BuildGroup(page, eps, publicPath)
		content, err := Render(tmpl, group, page.Title)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", page.Filename, err)
		}

		r.logger.Debug().
			Str("page", page.Filename).
			Int("head", len(group.Head)).
			Int("body", len(group.Body)).
			Msg("Page rendered")

		out = append(out, domain.RenderedPage{Group: group, Content: content})
	}
	return out, nil
}

// BuildGroup creates the tags loading the page's entrypoint files.
// Stylesheets go to the head and scripts to the body; other files are
// ignored. Files shared by several entrypoints are included once.
func BuildGroup(page PageConfig, eps domain.Entrypoints, publicPath string) domain.TagGroup {
	group := domain.TagGroup{
		OutputName: page.Filename,
		Head:       []domain.Tag{},
		Body:       []domain.Tag{},
	}
	if eps == nil {
		return group
	}

	seen := make(map[string]bool)
	eps.Each(func(name string, ep domain.Entrypoint) {
		if ep == nil || (len(page.Entries) > 0 && !slices.Contains(page.Entries, name)) {
			return
		}
		for _, file := range ep.Files() {
			if seen[file] {
				continue
			}
			seen[file] = true

			switch strings.ToLower(path.Ext(file)) {
			case ".css":
				group.Head = append(group.Head, domain.Tag{
					TagName: "link",
					Attributes: []domain.Attribute{
						{Key: "href", Value: publicPath + file},
						{Key: "rel", Value: "stylesheet"},
					},
				})
			case ".js", ".mjs":
				attrs := []domain.Attribute{{Key: "src", Value: publicPath + file}}
				if page.Module {
					attrs = append(attrs, domain.Attribute{Key: "type", Value: "module"})
				}
				group.Body = append(group.Body, domain.Tag{TagName: "script", Attributes: attrs})
			}
		}
	})
	return group
}

// Render injects group into the template. The template is decoded from its
// declared charset and the output is UTF-8, with any meta charset updated.
func Render(template []byte, group domain.TagGroup, title string) ([]byte, error) {
	utf8, err := ToUTF8(template)
	if err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8))
	if err != nil {
		return nil, err
	}
	doc.Find("meta[charset]").SetAttr("charset", "utf-8")

	if title != "" {
		titleSel := doc.Find("title")
		if titleSel.Length() == 0 {
			doc.Find("head").AppendNodes(newNode(domain.Tag{TagName: "title"}))
			titleSel = doc.Find("title")
		}
		titleSel.First().SetText(title)
	}

	head := doc.Find("head").First()
	for _, t := range group.Head {
		head.AppendNodes(newNode(t))
	}
	body := doc.Find("body").First()
	for _, t := range group.Body {
		body.AppendNodes(newNode(t))
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Nodes[0]); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newNode(t domain.Tag) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     t.TagName,
		DataAtom: atom.Lookup([]byte(t.TagName)),
	}
	for _, a := range t.Attributes {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
	}
	return n
}
