package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
)

// Fragment wraps a captured HTML snippet (a listing row or a detail popup
// container) and resolves selector chains against it. CSS lookups go through
// goquery, XPath lookups through htmlquery; both views are parsed lazily from
// the same source.
type Fragment struct {
	src  string
	doc  *goquery.Document
	node *html.Node
}

// NewFragment parses an HTML snippet for field lookups.
func NewFragment(src string) (*Fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	return &Fragment{src: src, doc: doc}, nil
}

// xpathRoot parses the XPath view on first use.
func (f *Fragment) xpathRoot() (*html.Node, error) {
	if f.node == nil {
		node, err := html.Parse(strings.NewReader(f.src))
		if err != nil {
			return nil, err
		}
		f.node = node
	}
	return f.node, nil
}

// Text resolves a chain to the trimmed text of its first match, or "" when
// every lookup in the chain misses. A miss is not an error.
func (f *Fragment) Text(chain selectors.Chain) string {
	for _, sel := range chain {
		switch sel.Kind {
		case selectors.KindCSS, "":
			match := f.doc.Find(sel.Query).First()
			if match.Length() > 0 {
				return strings.TrimSpace(match.Text())
			}
		case selectors.KindXPath:
			root, err := f.xpathRoot()
			if err != nil {
				continue
			}
			node, err := htmlquery.Query(root, sel.Query)
			if err == nil && node != nil {
				return strings.TrimSpace(htmlquery.InnerText(node))
			}
		}
	}
	return ""
}

// Texts resolves a chain to the trimmed text of every match of the first
// lookup that matches anything.
func (f *Fragment) Texts(chain selectors.Chain) []string {
	for _, sel := range chain {
		var values []string
		switch sel.Kind {
		case selectors.KindCSS, "":
			f.doc.Find(sel.Query).Each(func(_ int, s *goquery.Selection) {
				values = append(values, strings.TrimSpace(s.Text()))
			})
		case selectors.KindXPath:
			root, err := f.xpathRoot()
			if err != nil {
				continue
			}
			nodes, err := htmlquery.QueryAll(root, sel.Query)
			if err != nil {
				continue
			}
			for _, n := range nodes {
				values = append(values, strings.TrimSpace(htmlquery.InnerText(n)))
			}
		}
		if len(values) > 0 {
			return values
		}
	}
	return nil
}

// Has reports whether any lookup in the chain matches.
func (f *Fragment) Has(chain selectors.Chain) bool {
	for _, sel := range chain {
		switch sel.Kind {
		case selectors.KindCSS, "":
			if f.doc.Find(sel.Query).Length() > 0 {
				return true
			}
		case selectors.KindXPath:
			root, err := f.xpathRoot()
			if err != nil {
				continue
			}
			node, err := htmlquery.Query(root, sel.Query)
			if err == nil && node != nil {
				return true
			}
		}
	}
	return false
}

// Sections returns the outer HTML of every match of the chain, so repeated
// blocks (builder commentary) can be parsed as sub-fragments.
func (f *Fragment) Sections(chain selectors.Chain) []string {
	for _, sel := range chain {
		if sel.Kind != selectors.KindCSS && sel.Kind != "" {
			continue
		}
		var sections []string
		f.doc.Find(sel.Query).Each(func(_ int, s *goquery.Selection) {
			if h, err := goquery.OuterHtml(s); err == nil {
				sections = append(sections, h)
			}
		})
		if len(sections) > 0 {
			return sections
		}
	}
	return nil
}

// FullText returns the whole fragment's visible text.
func (f *Fragment) FullText() string {
	return strings.TrimSpace(f.doc.Text())
}
