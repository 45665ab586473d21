package html

import (
	"fmt"
	"os"
	"strings"

	"cssparser/internal/scanner"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SourceKind tells embedded style from linked style sheets
type SourceKind int

const (
	// Embedded is the text of a <style> element
	Embedded SourceKind = iota
	// Linked is a <link rel="stylesheet"> reference
	Linked
)

func (k SourceKind) String() string {
	if k == Linked {
		return "link"
	}
	return "style"
}

// Source is one style sheet referenced by an HTML document.
type Source struct {
	Kind SourceKind

	// CSS holds the text of an embedded style sheet
	CSS string

	// Href holds the unresolved URL of a linked style sheet
	Href string

	// MediaTypes from the media attribute. Empty means all media.
	MediaTypes []string
}

// Document wraps a parsed HTML document
type Document struct {
	doc *goquery.Document
}

// Parse parses an HTML string
func Parse(htmlStr string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseFile parses an HTML file
func ParseFile(filename string) (*Document, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	doc, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML file: %w", err)
	}
	return doc, nil
}

// BaseHref returns the href of the first <base> element, if any.
func (d *Document) BaseHref() string {
	href, _ := d.doc.Find("base[href]").First().Attr("href")
	return strings.TrimSpace(href)
}

// Sources returns the style sheets of the document in document order,
// which is the order they take part in the cascade. Style elements with a
// type other than text/css and alternate style sheets are left out.
func (d *Document) Sources() []Source {
	var sources []Source

	d.doc.Find("style, link").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		media := mediaTypes(s)

		switch node.DataAtom {
		case atom.Style:
			if !isCSSType(s) {
				tracer().Debugf("skipping style element of type %q", s.AttrOr("type", ""))
				return
			}
			sources = append(sources, Source{Kind: Embedded, CSS: s.Text(), MediaTypes: media})
		case atom.Link:
			href := strings.TrimSpace(s.AttrOr("href", ""))
			if href == "" || !isStylesheetLink(s) {
				return
			}
			sources = append(sources, Source{Kind: Linked, Href: href, MediaTypes: media})
		}
	})

	tracer().Debugf("found %d style sources", len(sources))
	return sources
}

// StyleBlocks returns only the embedded style sheets
func (d *Document) StyleBlocks() []Source {
	return d.filter(Embedded)
}

// StylesheetLinks returns only the linked style sheets
func (d *Document) StylesheetLinks() []Source {
	return d.filter(Linked)
}

func (d *Document) filter(kind SourceKind) []Source {
	var out []Source
	for _, src := range d.Sources() {
		if src.Kind == kind {
			out = append(out, src)
		}
	}
	return out
}

func mediaTypes(s *goquery.Selection) []string {
	media, ok := s.Attr("media")
	if !ok || strings.TrimSpace(media) == "" {
		return nil
	}
	return scanner.SplitByOr(media)
}

func isCSSType(s *goquery.Selection) bool {
	typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
	return typ == "" || typ == "text/css"
}

func isStylesheetLink(s *goquery.Selection) bool {
	stylesheet := false
	for _, rel := range strings.Fields(strings.ToLower(s.AttrOr("rel", ""))) {
		switch rel {
		case "stylesheet":
			stylesheet = true
		case "alternate":
			return false
		}
	}
	return stylesheet
}
